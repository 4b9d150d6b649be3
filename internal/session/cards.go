package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/marketplace"
)

// OrganizationLookup is the part of the profile store used to decorate cards.
type OrganizationLookup interface {
	OrganizationByID(ctx context.Context, id string) (*marketplace.Organization, error)
}

// Card is a materialized front entry. Placeholder is set for founders whose
// organization could not be found.
type Card struct {
	Actor        *marketplace.Actor
	Organization *marketplace.Organization
	Placeholder  bool
}

// Cards materializes the visible entries. Store errors are returned as is.
func (s *Session) Cards(ctx context.Context, lookup OrganizationLookup) ([]Card, error) {
	visible := s.state.Visible()
	cards := make([]Card, 0, visible.Len())

	for _, actor := range visible {
		card := Card{Actor: actor}

		if actor.IsFounder() {
			org, err := organizationFor(ctx, lookup, actor)
			if err != nil {
				return nil, err
			}
			if org == nil {
				s.logger.Debug("organization missing, using placeholder card",
					zap.String("candidate_id", actor.ID),
					zap.String("organization_id", actor.OrganizationID),
				)
				card.Placeholder = true
			}
			card.Organization = org
		}

		cards = append(cards, card)
	}

	return cards, nil
}

func organizationFor(ctx context.Context, lookup OrganizationLookup, actor *marketplace.Actor) (*marketplace.Organization, error) {
	id := strings.TrimSpace(actor.OrganizationID)
	if id == "" || lookup == nil {
		return nil, nil
	}

	return lookup.OrganizationByID(ctx, id)
}
