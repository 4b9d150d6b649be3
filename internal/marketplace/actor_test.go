package marketplace

import "testing"

func TestNormalizeDerivesSeekingFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		actor  Actor
		expect bool
	}{
		{
			name:   "founder with co-founder objective",
			actor:  Actor{ID: "f1", Role: RoleFounder, Objectives: []Objective{ObjectiveRaisingCapital, ObjectiveSeekingCoFounders}},
			expect: true,
		},
		{
			name:   "founder flag without objective is cleared",
			actor:  Actor{ID: "f2", Role: RoleFounder, SeekingCoFounder: true},
			expect: false,
		},
		{
			name:   "talent co-founder sub-role",
			actor:  Actor{ID: "t1", Role: RoleTalent, SubRole: SubRoleCoFounder},
			expect: true,
		},
		{
			name:   "talent employee",
			actor:  Actor{ID: "t2", Role: RoleTalent, SubRole: SubRoleEmployee, SeekingCoFounder: true},
			expect: false,
		},
		{
			name:   "investor never seeks",
			actor:  Actor{ID: "i1", Role: RoleInvestor, SeekingCoFounder: true},
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actor := tt.actor
			actor.Normalize()
			if actor.SeekingCoFounder != tt.expect {
				t.Fatalf("expected seeking=%v, got %v", tt.expect, actor.SeekingCoFounder)
			}
		})
	}
}

func TestNormalizeDropsForeignAttributes(t *testing.T) {
	actor := &Actor{
		ID:         " i1 ",
		Role:       " Investor",
		SubRole:    SubRoleVendor,
		IsPremium:  true,
		Objectives: []Objective{ObjectiveSeekingCoFounders},
	}
	actor.Normalize()

	if actor.ID != "i1" || actor.Role != RoleInvestor {
		t.Fatalf("unexpected id/role: %q/%q", actor.ID, actor.Role)
	}
	if actor.SubRole != "" || actor.IsPremium || actor.Objectives != nil {
		t.Fatalf("founder/talent attributes must be dropped for investors: %+v", actor)
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole(" Talent "); !ok || role != RoleTalent {
		t.Fatalf("expected talent, got %q (%v)", role, ok)
	}
	if _, ok := ParseRole("admin"); ok {
		t.Fatal("admin must not parse")
	}
}
