package eligibility

import (
	"fmt"
	"strings"

	"github.com/spigell/foundermatch/internal/marketplace"
)

// Tab is the category selector applied on top of the eligible pool.
type Tab string

const (
	TabAll       Tab = "all"
	TabFounders  Tab = "founders"
	TabTalent    Tab = "talent"
	TabCoFounder Tab = "co-founder"
)

var Tabs = []Tab{TabAll, TabFounders, TabTalent, TabCoFounder}

func ParseTab(s string) (Tab, error) {
	switch tab := Tab(strings.ToLower(strings.TrimSpace(s))); tab {
	case "":
		return TabAll, nil
	case TabAll, TabFounders, TabTalent, TabCoFounder:
		return tab, nil
	default:
		return "", fmt.Errorf("unknown tab %q (expected one of %v)", s, Tabs)
	}
}

// Includes reports whether the candidate belongs to the tab.
func (t Tab) Includes(candidate *marketplace.Actor) bool {
	if candidate == nil {
		return false
	}

	switch t {
	case TabAll:
		return true
	case TabFounders:
		return candidate.IsFounder() && !candidate.SeekingCoFounder
	case TabTalent:
		return candidate.IsTalent() && !candidate.SeekingCoFounder
	case TabCoFounder:
		return (candidate.IsFounder() || candidate.IsTalent()) && candidate.SeekingCoFounder
	default:
		return false
	}
}

// Narrow returns a new slice holding the candidates of the tab. Narrowing an
// already narrowed slice with the same tab yields the same candidates.
func Narrow(candidates marketplace.Actors, tab Tab) marketplace.Actors {
	return candidates.Select(tab.Includes)
}

// Counts returns the narrowed size of every tab.
func Counts(candidates marketplace.Actors) map[Tab]int {
	counts := make(map[Tab]int, len(Tabs))
	for _, tab := range Tabs {
		counts[tab] = 0
	}
	for _, candidate := range candidates {
		for _, tab := range Tabs {
			if tab.Includes(candidate) {
				counts[tab]++
			}
		}
	}
	return counts
}
