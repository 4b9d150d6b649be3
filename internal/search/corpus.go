package search

import (
	"context"
	"encoding/json"

	"github.com/spigell/foundermatch/internal/marketplace"
)

// Corpus is the marketplace snapshot sent along with a query.
type Corpus struct {
	Organizations marketplace.Organizations `json:"organizations"`
	Actors        marketplace.Actors        `json:"actors"`
}

// BuildCorpus snapshots every organization and actor. Store errors are returned as is.
func BuildCorpus(ctx context.Context, store marketplace.Store) (*Corpus, error) {
	orgs, err := store.Organizations(ctx)
	if err != nil {
		return nil, err
	}

	corpus := &Corpus{Organizations: orgs, Actors: marketplace.Actors{}}
	for _, role := range marketplace.Roles {
		actors, err := store.ActorsByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		corpus.Actors = append(corpus.Actors, actors...)
	}

	return corpus, nil
}

// JSON renders the snapshot for the prompt. A nil corpus renders as empty lists.
func (c *Corpus) JSON() (string, error) {
	if c == nil {
		c = &Corpus{}
	}

	snapshot := Corpus{Organizations: c.Organizations, Actors: c.Actors}
	if snapshot.Organizations == nil {
		snapshot.Organizations = marketplace.Organizations{}
	}
	if snapshot.Actors == nil {
		snapshot.Actors = marketplace.Actors{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
