package session

import (
	"math"

	"github.com/spigell/foundermatch/internal/eligibility"
	"github.com/spigell/foundermatch/internal/marketplace"
)

const (
	// SwipeThreshold is the offset magnitude a released drag must exceed to commit.
	SwipeThreshold = 100.0
	// RotationDivisor converts a drag offset into card rotation degrees.
	RotationDivisor = 20.0
	// VisibleCards is how many entries from the cursor are materialized.
	VisibleCards = 2
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoaded    Status = "loaded"
	StatusDeciding  Status = "deciding"
	StatusDragging  Status = "dragging"
	StatusExhausted Status = "exhausted"
	// StatusEmpty is a tab whose subset never had candidates, as opposed to
	// one that was consumed.
	StatusEmpty Status = "empty"
)

type Outcome string

const (
	OutcomeAccept  Outcome = "accept"
	OutcomeReject  Outcome = "reject"
	OutcomeMessage Outcome = "message"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeAccept, OutcomeReject, OutcomeMessage:
		return true
	default:
		return false
	}
}

// State is the whole decision session. Transitions below take a State and
// return the next one; they never modify the pool slices.
type State struct {
	ID       string
	Pool     marketplace.Actors
	Tab      eligibility.Tab
	Active   marketplace.Actors
	Cursor   int
	Origin   float64
	Offset   float64
	Dragging bool

	loaded bool
}

// NewState loads the eligible pool with the "all" tab selected.
func NewState(id string, pool marketplace.Actors) State {
	s := State{ID: id, Pool: pool, loaded: true}
	return SelectTab(s, eligibility.TabAll)
}

func (s State) Status() Status {
	switch {
	case !s.loaded:
		return StatusIdle
	case s.Active.Len() == 0:
		return StatusEmpty
	case s.Cursor >= s.Active.Len():
		return StatusExhausted
	case s.Dragging:
		return StatusDragging
	case s.Cursor == 0:
		return StatusLoaded
	default:
		return StatusDeciding
	}
}

// Deciding reports whether a front card exists to act on.
func (s State) Deciding() bool {
	return s.loaded && s.Cursor < s.Active.Len()
}

// Front returns the candidate under the cursor, or nil.
func (s State) Front() *marketplace.Actor {
	if !s.Deciding() {
		return nil
	}
	return s.Active[s.Cursor]
}

// Visible returns at most VisibleCards entries starting at the cursor.
func (s State) Visible() marketplace.Actors {
	if !s.Deciding() {
		return marketplace.Actors{}
	}
	end := min(s.Cursor+VisibleCards, s.Active.Len())
	return s.Active[s.Cursor:end]
}

// Remaining is the number of undecided candidates in the active tab.
func (s State) Remaining() int {
	return max(s.Active.Len()-s.Cursor, 0)
}

// Rotation is the front card tilt in degrees for the current offset.
func (s State) Rotation() float64 {
	return s.Offset / RotationDivisor
}

// Counts returns the narrowed size of every tab for the loaded pool.
func (s State) Counts() map[eligibility.Tab]int {
	return eligibility.Counts(s.Pool)
}

// SelectTab replaces the active subset, resets the cursor and drops any drag.
func SelectTab(s State, tab eligibility.Tab) State {
	s.Tab = tab
	s.Active = eligibility.Narrow(s.Pool, tab)
	s.Cursor = 0
	return resetDrag(s)
}

// BeginDrag starts a gesture on the front card. Without a front card it is ignored.
func BeginDrag(s State, x float64) State {
	if !s.Deciding() {
		return s
	}
	s.Dragging = true
	s.Origin = x
	s.Offset = 0
	return s
}

// UpdateDrag moves the in-progress gesture. A NaN position is ignored.
func UpdateDrag(s State, x float64) State {
	if !s.Dragging || !s.Deciding() || math.IsNaN(x) {
		return s
	}
	s.Offset = x - s.Origin
	return s
}

// EndDrag releases the gesture. Past the threshold it commits reject for a
// negative offset and accept for a positive one; otherwise the card springs
// back and the returned bool is false. A NaN offset never commits.
func EndDrag(s State) (State, Outcome, bool) {
	if !s.Dragging {
		return s, "", false
	}

	offset := s.Offset
	s = resetDrag(s)

	if math.IsNaN(offset) || math.Abs(offset) <= SwipeThreshold {
		return s, "", false
	}

	outcome := OutcomeAccept
	if offset < 0 {
		outcome = OutcomeReject
	}

	next, ok := Commit(s, outcome)
	return next, outcome, ok
}

// Commit records an outcome for the front card. Accept and reject advance the
// cursor by one; message leaves the cursor where it is.
func Commit(s State, outcome Outcome) (State, bool) {
	if !s.Deciding() || !outcome.Valid() {
		return s, false
	}

	if outcome == OutcomeMessage {
		return s, true
	}

	s.Cursor++
	return resetDrag(s), true
}

func resetDrag(s State) State {
	s.Dragging = false
	s.Origin = 0
	s.Offset = 0
	return s
}
