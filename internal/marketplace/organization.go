package marketplace

import (
	"context"
	"slices"
)

type Organization struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	FounderIDs []string   `json:"founderIds"`
	Industry   string     `json:"industry,omitempty"`
	Stage      string     `json:"stage,omitempty"`
	Location   string     `json:"location,omitempty"`
	Pitch      string     `json:"pitch,omitempty"`
	Financials Financials `json:"financials"`
}

// Financials is the snapshot shown on founder cards. Amounts are in USD.
type Financials struct {
	AnnualRevenue float64 `json:"annualRevenue,omitempty"`
	MonthlyBurn   float64 `json:"monthlyBurn,omitempty"`
	TotalRaised   float64 `json:"totalRaised,omitempty"`
	Seeking       float64 `json:"seeking,omitempty"`
}

func (o *Organization) OwnedBy(actorID string) bool {
	if o == nil {
		return false
	}
	return slices.Contains(o.FounderIDs, actorID)
}

type Organizations []*Organization

func (o Organizations) Len() int {
	return len(o)
}

func (o Organizations) FindByID(id string) *Organization {
	for _, org := range o {
		if org.ID == id {
			return org
		}
	}
	return nil
}

// Store is the read-only profile store. Lookups by id return nil without an
// error when the record does not exist.
type Store interface {
	ActorsByRole(ctx context.Context, role Role) (Actors, error)
	ActorByID(ctx context.Context, id string) (*Actor, error)
	ActorsByIDs(ctx context.Context, ids []string) (Actors, error)
	OrganizationByID(ctx context.Context, id string) (*Organization, error)
	Organizations(ctx context.Context) (Organizations, error)
}
