package pipeline

import (
	"log/slog"

	"github.com/nao1215/ivansreport/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each one reading the fields of the
// conversion that earlier steps filled in.
type Step interface {
	// Do executes the pipeline step.
	// It returns an error if the conversion cannot continue.
	Do(conv *model.Conversion) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// The first failing step stops the pipeline. Its error is recorded in
// conv.Err and returned; no later step runs, so a failed conversion never
// carries a partial artifact.
func (p *Pipeline) Execute(conv *model.Conversion) error {
	source := sourceName(conv)

	for _, step := range p.steps {
		p.logger.Debug("executing step",
			"step", step.Name(),
			"source", source,
		)

		if err := step.Do(conv); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", source,
				"error", err,
			)
			conv.Err = err
			return err
		}

		conv.PerformedSteps = append(conv.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

func sourceName(conv *model.Conversion) string {
	if conv.Raw == nil {
		return ""
	}
	return conv.Raw.Name
}
