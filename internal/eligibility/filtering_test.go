package eligibility

import (
	"context"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/foundermatch/internal/marketplace"
)

func TestPipelineMatchesEligible(t *testing.T) {
	requester := talent("me", false)
	pool := append(mixedPool(), requester, founder("f-plain", false, false))

	got, err := ForRequester(requester, TabAll, zap.NewNop()).Run(context.Background(), pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := Eligible(requester, pool).IDs(); !slices.Equal(got.IDs(), want) {
		t.Fatalf("expected %v, got %v", want, got.IDs())
	}
}

func TestPipelineLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	requester := founder("me", true, false)
	got, err := ForRequester(requester, TabCoFounder, zap.New(core)).Run(context.Background(), mixedPool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"f-seek-premium", "f-seek", "t-seek"}; !slices.Equal(got.IDs(), want) {
		t.Fatalf("expected %v, got %v", want, got.IDs())
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 3 {
		t.Fatalf("expected 3 step entries, got %d", len(steps))
	}

	rules := steps[1].ContextMap()
	if rules["name"] != "role_rules" || rules["initial"] != int64(8) || rules["left"] != int64(3) {
		t.Fatalf("unexpected role_rules entry: %+v", rules)
	}
}

func TestPipelineSkipsAllTab(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	p := ForRequester(investor("me"), TabAll, zap.New(core))
	if _, err := p.Run(context.Background(), mixedPool()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if observed.FilterMessage("filter disabled").Len() != 1 {
		t.Fatalf("expected the tab step to be reported as disabled")
	}

	for _, status := range p.Describe() {
		if status.Name == "tab" && status.Enabled {
			t.Fatalf("tab step should be disabled for the all tab")
		}
	}
}

func TestPipelineRequiresRequester(t *testing.T) {
	_, err := ForRequester(nil, TabAll, nil).Run(context.Background(), mixedPool())
	if err == nil {
		t.Fatal("expected validation error without requester")
	}
}

func TestPipelineRejectsUnknownTab(t *testing.T) {
	_, err := ForRequester(investor("me"), Tab("investors"), nil).Run(context.Background(), marketplace.Actors{})
	if err == nil {
		t.Fatal("expected validation error for unknown tab")
	}
}
