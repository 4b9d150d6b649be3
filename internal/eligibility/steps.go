package eligibility

import (
	"context"
	"errors"
	"strconv"

	"github.com/spigell/foundermatch/internal/marketplace"
)

var errNoRequester = errors.New("requester is required")

type distinctFilter struct {
	requester *marketplace.Actor
}

// NewDistinct creates a filter that drops the requester, nil entries and repeated ids.
func NewDistinct(requester *marketplace.Actor) Filter {
	return &distinctFilter{requester: requester}
}

func (f *distinctFilter) Name() string { return "distinct" }

func (f *distinctFilter) IsEnabled() bool { return true }

func (f *distinctFilter) Validate() error {
	if f.requester == nil {
		return errNoRequester
	}
	return nil
}

func (f *distinctFilter) Apply(_ context.Context, candidates marketplace.Actors) (marketplace.Actors, Step, error) {
	left := distinct(f.requester, candidates)
	return left, stepOf(candidates.Len(), left), nil
}

type roleRulesFilter struct {
	requester *marketplace.Actor
}

// NewRoleRules creates the filter applying the role, sub-role and objective rules.
func NewRoleRules(requester *marketplace.Actor) Filter {
	return &roleRulesFilter{requester: requester}
}

func (f *roleRulesFilter) Name() string { return "role_rules" }

func (f *roleRulesFilter) IsEnabled() bool { return true }

func (f *roleRulesFilter) Validate() error {
	if f.requester == nil {
		return errNoRequester
	}
	return nil
}

func (f *roleRulesFilter) Apply(_ context.Context, candidates marketplace.Actors) (marketplace.Actors, Step, error) {
	left := candidates.Select(func(candidate *marketplace.Actor) bool {
		return Allowed(f.requester, candidate)
	})
	return left, stepOf(candidates.Len(), left), nil
}

func (f *roleRulesFilter) Status() Status {
	details := map[string]string{}
	if f.requester != nil {
		details["role"] = string(f.requester.Role)
		details["seeking_co_founder"] = strconv.FormatBool(f.requester.SeekingCoFounder)
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type tabFilter struct {
	tab      Tab
	disabled bool
	reason   string
}

// NewTabFilter creates the category narrowing step. The "all" tab leaves it disabled.
func NewTabFilter(tab Tab) Filter {
	if tab == "" || tab == TabAll {
		return &tabFilter{tab: TabAll, disabled: true, reason: "all tab selected"}
	}
	return &tabFilter{tab: tab}
}

func (f *tabFilter) Name() string { return "tab" }

func (f *tabFilter) IsEnabled() bool { return !f.disabled }

func (f *tabFilter) Validate() error {
	_, err := ParseTab(string(f.tab))
	return err
}

func (f *tabFilter) Apply(_ context.Context, candidates marketplace.Actors) (marketplace.Actors, Step, error) {
	left := Narrow(candidates, f.tab)
	return left, stepOf(candidates.Len(), left), nil
}

func (f *tabFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"tab": string(f.tab)},
	}
}
