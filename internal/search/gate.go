package search

import "sync/atomic"

// Gate keeps at most one search in flight. A trigger that arrives while a
// search is running is dropped instead of queued.
type Gate struct {
	busy atomic.Bool
}

// Do runs fn unless another call is in flight. The second return value
// reports whether fn ran.
func (g *Gate) Do(fn func() Result) (Result, bool) {
	if !g.busy.CompareAndSwap(false, true) {
		return Empty(), false
	}
	defer g.busy.Store(false)

	return fn(), true
}

func (g *Gate) InFlight() bool {
	return g.busy.Load()
}
