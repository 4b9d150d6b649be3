package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/marketplace"
)

// FileStore serves profiles from a JSON snapshot loaded into memory:
//
//	{"organizations": [...], "actors": [...]}
type FileStore struct {
	orgs   marketplace.Organizations
	actors marketplace.Actors
}

type snapshot struct {
	Organizations marketplace.Organizations `json:"organizations"`
	Actors        marketplace.Actors        `json:"actors"`
}

func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file %q: %w", path, err)
	}

	store, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decoding profiles file %q: %w", path, err)
	}

	if logger != nil {
		logger.Info("profiles loaded",
			zap.String("file", path),
			zap.Int("organizations", store.orgs.Len()),
			zap.Int("actors", store.actors.Len()),
		)
	}

	return store, nil
}

// decodeSnapshot tolerates loosely typed exports, e.g. numbers written as
// strings or "true"/"false" flags.
func decodeSnapshot(data []byte) (*FileStore, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var snap snapshot
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &snap,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return newMemoryStore(snap.Organizations, snap.Actors), nil
}

func newMemoryStore(orgs marketplace.Organizations, actors marketplace.Actors) *FileStore {
	store := &FileStore{
		orgs:   make(marketplace.Organizations, 0, len(orgs)),
		actors: make(marketplace.Actors, 0, len(actors)),
	}
	for _, org := range orgs {
		if org != nil && org.ID != "" {
			store.orgs = append(store.orgs, org)
		}
	}
	for _, actor := range actors {
		actor.Normalize()
		if actor == nil || actor.ID == "" {
			continue
		}
		store.actors = append(store.actors, actor)
	}
	return store
}

func (s *FileStore) ActorsByRole(_ context.Context, role marketplace.Role) (marketplace.Actors, error) {
	return s.actors.Select(func(a *marketplace.Actor) bool { return a.Role == role }), nil
}

func (s *FileStore) ActorByID(_ context.Context, id string) (*marketplace.Actor, error) {
	return s.actors.FindByID(id), nil
}

func (s *FileStore) ActorsByIDs(_ context.Context, ids []string) (marketplace.Actors, error) {
	found := marketplace.Actors{}
	for _, id := range ids {
		if actor := s.actors.FindByID(id); actor != nil {
			found = append(found, actor)
		}
	}
	return found, nil
}

func (s *FileStore) OrganizationByID(_ context.Context, id string) (*marketplace.Organization, error) {
	return s.orgs.FindByID(id), nil
}

func (s *FileStore) Organizations(context.Context) (marketplace.Organizations, error) {
	out := make(marketplace.Organizations, len(s.orgs))
	copy(out, s.orgs)
	return out, nil
}
