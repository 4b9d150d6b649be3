package session

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/eligibility"
	"github.com/spigell/foundermatch/internal/marketplace"
	"github.com/spigell/foundermatch/internal/metrics"
)

// Decision is emitted for every committed outcome. It is not persisted.
type Decision struct {
	SessionID string
	ActorID   string
	Outcome   Outcome
	At        time.Time
}

// Observer is notified after every state change. decision is nil unless the
// change was a commit.
type Observer func(state State, decision *Decision)

// Session owns a State and publishes its changes. It is meant to be driven
// by a single caller.
type Session struct {
	state     State
	requester *marketplace.Actor
	logger    *zap.Logger
	observers []Observer
	now       func() time.Time
}

// New starts a session over an already eligible pool.
func New(requester *marketplace.Actor, pool marketplace.Actors, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.NewString()
	s := &Session{
		state:     NewState(id, pool),
		requester: requester,
		logger:    logger.With(zap.String("session_id", id)),
		now:       time.Now,
	}

	s.logger.Debug("session loaded",
		zap.Int("pool", pool.Len()),
		zap.Any("tab_counts", s.state.Counts()),
	)

	return s
}

func (s *Session) ID() string { return s.state.ID }

func (s *Session) State() State { return s.state }

func (s *Session) Status() Status { return s.state.Status() }

func (s *Session) Requester() *marketplace.Actor { return s.requester }

// Subscribe registers an observer and immediately replays the current state to it.
func (s *Session) Subscribe(o Observer) {
	if o == nil {
		return
	}
	s.observers = append(s.observers, o)
	o(s.state, nil)
}

func (s *Session) SelectTab(tab eligibility.Tab) {
	s.set(SelectTab(s.state, tab), nil)
	s.logger.Debug("tab selected",
		zap.String("tab", string(tab)),
		zap.Int("candidates", s.state.Active.Len()),
		zap.String("status", string(s.state.Status())),
	)
}

func (s *Session) BeginDrag(x float64) {
	s.set(BeginDrag(s.state, x), nil)
}

func (s *Session) UpdateDrag(x float64) {
	s.set(UpdateDrag(s.state, x), nil)
}

// EndDrag releases the gesture and returns the committed decision, if any.
func (s *Session) EndDrag() *Decision {
	front := s.state.Front()

	next, outcome, committed := EndDrag(s.state)
	if !committed {
		s.set(next, nil)
		return nil
	}

	return s.commit(next, front, outcome)
}

// Commit records outcome for the front card. It returns nil when there is no
// front card to decide on.
func (s *Session) Commit(outcome Outcome) *Decision {
	front := s.state.Front()

	next, ok := Commit(s.state, outcome)
	if !ok {
		s.logger.Debug("commit ignored",
			zap.String("outcome", string(outcome)),
			zap.String("status", string(s.state.Status())),
		)
		return nil
	}

	return s.commit(next, front, outcome)
}

func (s *Session) commit(next State, front *marketplace.Actor, outcome Outcome) *Decision {
	decision := &Decision{
		SessionID: s.state.ID,
		ActorID:   front.ID,
		Outcome:   outcome,
		At:        s.now().UTC(),
	}

	metrics.SessionDecisions.WithLabelValues(string(outcome)).Inc()

	s.logger.Info("decision committed",
		zap.String("candidate_id", front.ID),
		zap.String("outcome", string(outcome)),
		zap.Int("remaining", next.Remaining()),
	)

	s.set(next, decision)
	return decision
}

func (s *Session) set(next State, decision *Decision) {
	s.state = next
	for _, o := range s.observers {
		o(s.state, decision)
	}
}
