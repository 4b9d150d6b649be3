package eligibility

import (
	"github.com/spigell/foundermatch/internal/marketplace"
)

// Eligible returns the candidates the requester may be shown, in pool order.
// The requester, nil entries and repeated ids are dropped. It performs no I/O.
func Eligible(requester *marketplace.Actor, pool marketplace.Actors) marketplace.Actors {
	if requester == nil {
		return marketplace.Actors{}
	}

	return distinct(requester, pool).Select(func(candidate *marketplace.Actor) bool {
		return Allowed(requester, candidate)
	})
}

// Allowed applies the role rules for a single requester/candidate pair.
func Allowed(requester, candidate *marketplace.Actor) bool {
	if requester == nil || candidate == nil || requester.ID == candidate.ID {
		return false
	}

	switch requester.Role {
	case marketplace.RoleInvestor:
		return investorSees(candidate)
	case marketplace.RoleFounder:
		return founderSees(requester, candidate)
	case marketplace.RoleTalent:
		return talentSees(requester, candidate)
	default:
		return false
	}
}

// Non-premium founders are hidden from investors.
func investorSees(candidate *marketplace.Actor) bool {
	switch candidate.Role {
	case marketplace.RoleInvestor, marketplace.RoleTalent:
		return true
	case marketplace.RoleFounder:
		return candidate.IsPremium
	default:
		return false
	}
}

// Co-founder seekers and ordinary hires are never mixed for a founder.
func founderSees(requester, candidate *marketplace.Actor) bool {
	switch candidate.Role {
	case marketplace.RoleTalent:
		return candidate.SeekingCoFounder == requester.SeekingCoFounder
	case marketplace.RoleFounder:
		return requester.SeekingCoFounder && candidate.SeekingCoFounder
	default:
		return false
	}
}

// A talent actor that is not after a co-founder role sees every founder,
// unlike the founder side above.
func talentSees(requester, candidate *marketplace.Actor) bool {
	switch candidate.Role {
	case marketplace.RoleFounder:
		if requester.SeekingCoFounder {
			return candidate.SeekingCoFounder
		}
		return true
	case marketplace.RoleTalent:
		return requester.SeekingCoFounder && candidate.SeekingCoFounder
	default:
		return false
	}
}

func distinct(requester *marketplace.Actor, pool marketplace.Actors) marketplace.Actors {
	seen := make(map[string]struct{}, len(pool))
	if requester != nil {
		seen[requester.ID] = struct{}{}
	}

	return pool.Select(func(candidate *marketplace.Actor) bool {
		if candidate == nil {
			return false
		}
		if _, ok := seen[candidate.ID]; ok {
			return false
		}
		seen[candidate.ID] = struct{}{}
		return true
	})
}
