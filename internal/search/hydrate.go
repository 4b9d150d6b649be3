package search

import (
	"context"
	"fmt"

	"github.com/spigell/foundermatch/internal/marketplace"
)

// Matches is a search result resolved against the profile store.
type Matches struct {
	Organizations marketplace.Organizations
	Actors        marketplace.Actors
	// Missing lists ids the backend returned that the store does not know.
	Missing []string
}

// Hydrate looks up every id of the result, keeping the backend's order.
// Unknown ids are reported in Missing rather than treated as errors.
func Hydrate(ctx context.Context, store marketplace.Store, result Result) (*Matches, error) {
	matches := &Matches{
		Organizations: marketplace.Organizations{},
		Actors:        marketplace.Actors{},
		Missing:       []string{},
	}
	if result.IsEmpty() {
		return matches, nil
	}

	for _, id := range result.OrganizationIDs {
		org, err := store.OrganizationByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lookup organization %q: %w", id, err)
		}
		if org == nil {
			matches.Missing = append(matches.Missing, id)
			continue
		}
		matches.Organizations = append(matches.Organizations, org)
	}

	if len(result.ActorIDs) == 0 {
		return matches, nil
	}

	actors, err := store.ActorsByIDs(ctx, result.ActorIDs)
	if err != nil {
		return nil, fmt.Errorf("lookup actors: %w", err)
	}
	for _, id := range result.ActorIDs {
		actor := actors.FindByID(id)
		if actor == nil {
			matches.Missing = append(matches.Missing, id)
			continue
		}
		matches.Actors = append(matches.Actors, actor)
	}

	return matches, nil
}
