package eligibility

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/marketplace"
)

// Filter represents a single step of the candidate pipeline.
type Filter interface {
	Name() string
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, candidates marketplace.Actors) (marketplace.Actors, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Pipeline runs the filters sequentially and logs per-step counters.
type Pipeline struct {
	steps  []Filter
	logger *zap.Logger
}

func NewPipeline(steps []Filter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// ForRequester builds the default pipeline: distinct candidates, role rules
// and, when tab is not "all", tab narrowing.
func ForRequester(requester *marketplace.Actor, tab Tab, logger *zap.Logger) *Pipeline {
	steps := []Filter{
		NewDistinct(requester),
		NewRoleRules(requester),
		NewTabFilter(tab),
	}
	return NewPipeline(steps, logger)
}

func (p *Pipeline) Run(ctx context.Context, candidates marketplace.Actors) (marketplace.Actors, error) {
	for _, step := range p.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range p.steps {
		if !step.IsEnabled() {
			p.logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, candidates)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		p.logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		candidates = next
	}

	return candidates, nil
}

// Describe returns status entries for the pipeline filters.
func (p *Pipeline) Describe() []Status {
	statuses := make([]Status, 0, len(p.steps))
	for _, step := range p.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func stepOf(initial int, left marketplace.Actors) Step {
	return Step{Initial: initial, Dropped: initial - left.Len(), Left: left.Len()}
}
