package pipeline

import (
	"errors"
	"slices"
	"testing"

	"github.com/nao1215/ivansreport/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(conv *model.Conversion) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(conv *model.Conversion) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(conv)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func newTestConversion() *model.Conversion {
	return model.NewConversion(model.NewRawDocument("test.dat", []byte("A|B\n1|2\n")), "")
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "one"})
	p.AddSteps(&mockStep{name: "two"}, &mockStep{name: "three"})

	if p.StepCount() != 3 {
		t.Errorf("expected 3 steps, got %d", p.StepCount())
	}
	if got := p.StepNames(); !slices.Equal(got, []string{"one", "two", "three"}) {
		t.Errorf("unexpected step names %v", got)
	}
}

// TestPipelineExecute tests step execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(*model.Conversion) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New()
		p.AddSteps(record("a"), record("b"), record("c"))

		conv := newTestConversion()
		if err := p.Execute(conv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(order, []string{"a", "b", "c"}) {
			t.Errorf("unexpected order %v", order)
		}
		if !slices.Equal(conv.PerformedSteps, []string{"a", "b", "c"}) {
			t.Errorf("unexpected performed steps %v", conv.PerformedSteps)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errStep := errors.New("step failed")
		first := &mockStep{name: "first"}
		failing := &mockStep{name: "failing", doFunc: func(*model.Conversion) error { return errStep }}
		last := &mockStep{name: "last"}

		p := New()
		p.AddSteps(first, failing, last)

		conv := newTestConversion()
		err := p.Execute(conv)
		if !errors.Is(err, errStep) {
			t.Fatalf("expected step error, got %v", err)
		}
		if !errors.Is(conv.Err, errStep) {
			t.Errorf("expected error recorded in conversion, got %v", conv.Err)
		}
		if last.callCount != 0 {
			t.Error("expected steps after the failure to be skipped")
		}
		if !slices.Equal(conv.PerformedSteps, []string{"first"}) {
			t.Errorf("unexpected performed steps %v", conv.PerformedSteps)
		}
	})

	t.Run("empty pipeline succeeds", func(t *testing.T) {
		t.Parallel()

		if err := New().Execute(newTestConversion()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
