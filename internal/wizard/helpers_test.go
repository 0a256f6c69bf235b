package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// scripted is a step executor that replays a fixed list of outcomes and
// records what it was called with.
type scripted struct {
	mu       sync.Mutex
	outcomes []StepOutcome
	errs     []error
	calls    []StepInput
}

func (s *scripted) execute(_ context.Context, in StepInput) (StepOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.calls)
	s.calls = append(s.calls, in)
	if n < len(s.errs) && s.errs[n] != nil {
		return StepOutcome{}, s.errs[n]
	}
	if n >= len(s.outcomes) {
		return StepOutcome{Navigation: NavCancel}, nil
	}
	return s.outcomes[n], nil
}

func (s *scripted) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func next(v any) StepOutcome { return StepOutcome{Value: v, Navigation: NavNext} }
func back() StepOutcome      { return StepOutcome{Navigation: NavBack} }
func cancel() StepOutcome    { return StepOutcome{Navigation: NavCancel} }

func newStep(id, name string, s *scripted) Step {
	return Step{
		Metadata: StepMetadata{ID: id, Name: name},
		Execute:  s.execute,
	}
}

// fakeAsker answers Select with queued values and records every prompt.
type fakeAsker struct {
	selects []string
	asked   []prompt.SelectSpec
}

func (f *fakeAsker) Select(_ context.Context, spec prompt.SelectSpec) (string, error) {
	f.asked = append(f.asked, spec)
	if len(f.selects) == 0 {
		return spec.Default, nil
	}
	v := f.selects[0]
	f.selects = f.selects[1:]
	return v, nil
}

func (f *fakeAsker) Checkbox(context.Context, prompt.CheckboxSpec) ([]string, error) {
	return nil, nil
}

func (f *fakeAsker) Confirm(_ context.Context, spec prompt.ConfirmSpec) (bool, error) {
	return spec.Default, nil
}

func (f *fakeAsker) Input(_ context.Context, spec prompt.InputSpec) (string, error) {
	return spec.Default, nil
}

// tickClock returns a clock advancing one second per call from a fixed origin.
func tickClock() func() time.Time {
	t := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func threeStepConfig(name, color, confirm *scripted, asker prompt.Asker) Config {
	return Config{
		ID:    "test-wizard",
		Title: "Test",
		Steps: []Step{
			newStep("name", "Name", name),
			newStep("color", "Color", color),
			newStep("confirm", "Confirm", confirm),
		},
		Asker: asker,
		Clock: tickClock(),
	}
}

func mustStep(t *testing.T, ws WizardState, id string) StepState {
	t.Helper()
	st, ok := ws.Step(id)
	if !ok {
		t.Fatalf("step %q missing from state", id)
	}
	return st
}
