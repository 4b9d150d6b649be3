package search

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/foundermatch/internal/marketplace"
)

func TestBuildCorpus(t *testing.T) {
	corpus := fintechCorpus()
	store := &roleStore{hydrateStore{actors: corpus.Actors, orgs: corpus.Organizations}}

	got, err := BuildCorpus(context.Background(), store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Actors.Len() != 3 || got.Organizations.Len() != 1 {
		t.Fatalf("unexpected corpus: %d actors, %d organizations", got.Actors.Len(), got.Organizations.Len())
	}

	storeErr := errors.New("store down")
	if _, err := BuildCorpus(context.Background(), &hydrateStore{err: storeErr}); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

// roleStore filters ActorsByRole so every actor is listed once.
type roleStore struct {
	hydrateStore
}

func (s *roleStore) ActorsByRole(_ context.Context, role marketplace.Role) (marketplace.Actors, error) {
	return s.actors.Select(func(a *marketplace.Actor) bool { return a.Role == role }), nil
}

func TestCorpusJSON(t *testing.T) {
	var nilCorpus *Corpus
	got, err := nilCorpus.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"organizations":[],"actors":[]}` {
		t.Fatalf("unexpected nil corpus rendering: %s", got)
	}
}
