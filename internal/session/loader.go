package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/eligibility"
	"github.com/spigell/foundermatch/internal/logger"
	"github.com/spigell/foundermatch/internal/marketplace"
	"github.com/spigell/foundermatch/internal/metrics"
)

// RequesterNotFoundError is returned by Load when the requesting actor does not exist.
type RequesterNotFoundError struct {
	ID string
}

func (e *RequesterNotFoundError) Error() string {
	return fmt.Sprintf("requester %q not found", e.ID)
}

// Load reads the requester and every role pool from the store, computes the
// eligible candidates and starts a session on the "all" tab. Store errors are
// returned unchanged.
func Load(ctx context.Context, store marketplace.Store, requesterID string, log *zap.Logger) (*Session, error) {

	requester, err := store.ActorByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, &RequesterNotFoundError{ID: requesterID}
	}

	var candidates marketplace.Actors
	for _, role := range marketplace.Roles {
		actors, err := store.ActorsByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, actors...)
	}

	log = logger.WithRequester(log, requester.ID, string(requester.Role))
	log.Debug("candidates read", zap.Any("by_role", candidates.CountByRole()))

	pool, err := eligibility.ForRequester(requester, eligibility.TabAll, log).Run(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("building candidate pool: %w", err)
	}

	metrics.CandidatePoolSize.WithLabelValues(string(requester.Role)).Observe(float64(pool.Len()))

	return New(requester, pool, log), nil
}
