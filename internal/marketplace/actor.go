package marketplace

import (
	"slices"
	"strings"
)

type Role string

const (
	RoleFounder  Role = "founder"
	RoleInvestor Role = "investor"
	RoleTalent   Role = "talent"
)

// Roles lists every role in the order pools are assembled.
var Roles = []Role{RoleFounder, RoleInvestor, RoleTalent}

type SubRole string

const (
	SubRoleCoFounder        SubRole = "co-founder"
	SubRoleEmployee         SubRole = "employee"
	SubRoleVendor           SubRole = "vendor"
	SubRoleFractionalLeader SubRole = "fractional-leader"
)

type Objective string

const (
	ObjectiveSeekingCoFounders Objective = "seeking-co-founders"
	ObjectiveRaisingCapital    Objective = "raising-capital"
	ObjectiveHiringTalent      Objective = "hiring-talent"
	ObjectiveFindingVendors    Objective = "finding-vendors"
	ObjectiveFractionalHelp    Objective = "fractional-leadership"
)

type Actor struct {
	ID               string      `json:"id"`
	Name             string      `json:"name,omitempty"`
	Headline         string      `json:"headline,omitempty"`
	Location         string      `json:"location,omitempty"`
	Role             Role        `json:"role"`
	SubRole          SubRole     `json:"subRole,omitempty"`
	SeekingCoFounder bool        `json:"seekingCoFounder"`
	IsPremium        bool        `json:"isPremium,omitempty"`
	Objectives       []Objective `json:"objectives,omitempty"`
	OrganizationID   string      `json:"organizationId,omitempty"`
	Skills           []string    `json:"skills,omitempty"`
	Industries       []string    `json:"industries,omitempty"`
}

// ParseRole converts user input into a known role.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Roles, role) {
		return "", false
	}
	return role, true
}

func (a *Actor) IsFounder() bool  { return a != nil && a.Role == RoleFounder }
func (a *Actor) IsInvestor() bool { return a != nil && a.Role == RoleInvestor }
func (a *Actor) IsTalent() bool   { return a != nil && a.Role == RoleTalent }

func (a *Actor) HasObjective(o Objective) bool {
	if a == nil {
		return false
	}
	return slices.Contains(a.Objectives, o)
}

// WantsCoFounder reports the value the seeking flag must hold for the actor's
// role, sub-role and objectives.
func (a *Actor) WantsCoFounder() bool {
	switch {
	case a.IsFounder():
		return a.HasObjective(ObjectiveSeekingCoFounders)
	case a.IsTalent():
		return a.SubRole == SubRoleCoFounder
	default:
		return false
	}
}

// Normalize drops attributes that do not belong to the actor's role and
// re-derives SeekingCoFounder from objectives or sub-role.
func (a *Actor) Normalize() {
	if a == nil {
		return
	}

	a.ID = strings.TrimSpace(a.ID)
	a.Role = Role(strings.ToLower(strings.TrimSpace(string(a.Role))))

	if !a.IsTalent() {
		a.SubRole = ""
	}
	if !a.IsFounder() {
		a.IsPremium = false
		a.Objectives = nil
	}

	a.SeekingCoFounder = a.WantsCoFounder()
}

type Actors []*Actor

func (a Actors) Len() int {
	return len(a)
}

func (a Actors) IDs() []string {
	ids := make([]string, 0, len(a))
	for _, actor := range a {
		ids = append(ids, actor.ID)
	}
	return ids
}

func (a Actors) FindByID(id string) *Actor {
	for _, actor := range a {
		if actor.ID == id {
			return actor
		}
	}
	return nil
}

// Select returns the actors matching keep, preserving order.
func (a Actors) Select(keep func(*Actor) bool) Actors {
	selected := make(Actors, 0, len(a))
	for _, actor := range a {
		if keep(actor) {
			selected = append(selected, actor)
		}
	}
	return selected
}

// CountByRole tallies the actors per role.
func (a Actors) CountByRole() map[Role]int {
	counts := make(map[Role]int, len(Roles))
	for _, actor := range a {
		counts[actor.Role]++
	}
	return counts
}
