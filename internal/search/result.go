package search

// Result is the resolved search. Either both lists come from a validated
// backend response or the result is the canonical empty one.
type Result struct {
	OrganizationIDs []string `json:"organizationIds"`
	ActorIDs        []string `json:"actorIds"`
}

// Empty returns the canonical empty result. The lists are non-nil so the
// value serializes as two empty arrays.
func Empty() Result {
	return Result{OrganizationIDs: []string{}, ActorIDs: []string{}}
}

// IsEmpty reports whether the result names no organization and no actor.
func (r Result) IsEmpty() bool {
	return len(r.OrganizationIDs) == 0 && len(r.ActorIDs) == 0
}
