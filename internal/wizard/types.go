// Package wizard implements the multi-step configuration engine used by the
// scaffolding flows: per-step state with append-only history, a navigator
// that computes transitions (including back navigation), and a run loop
// that reduces (state, navigation) pairs into new immutable WizardState
// values until the user completes or cancels.
package wizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// Navigation is the direction a user chooses to leave a step.
type Navigation string

const (
	NavNext   Navigation = "next"
	NavBack   Navigation = "back"
	NavSkip   Navigation = "skip"
	NavCancel Navigation = "cancel"
)

// StepStatus is the lifecycle status of a step within a run.
type StepStatus string

const (
	StatusPending   StepStatus = "pending"
	StatusCurrent   StepStatus = "current"
	StatusCompleted StepStatus = "completed"
	StatusSkipped   StepStatus = "skipped"
)

// Error definitions for the wizard package.
var (
	// ErrInvalidConfig is returned when the wizard is assembled incorrectly.
	ErrInvalidConfig = errors.New("wizard: invalid configuration")
	// ErrStepNotFound is returned when the run loop reaches a step id that
	// has no definition.
	ErrStepNotFound = errors.New("wizard: step definition not found")
	// ErrValueType is returned when a step produces a value of the wrong type.
	ErrValueType = errors.New("wizard: unexpected step value type")
)

// StepMetadata is the immutable identity of a step.
type StepMetadata struct {
	ID          string
	Name        string
	Description string
	Index       int
	Required    bool
	DependsOn   []string // step ids whose values feed ComputeDefaults
}

// StepHistoryEntry is one recorded visit to a step.
type StepHistoryEntry struct {
	Timestamp  time.Time
	Value      any
	Navigation Navigation
	VisitCount int // 1-based
}

// StepState is the per-step record held by a WizardState.
type StepState struct {
	Metadata   StepMetadata
	Status     StepStatus
	Value      any
	HasValue   bool // false until a value has been written
	History    []StepHistoryEntry
	IsModified bool
}

// WizardMetadata describes a wizard run.
type WizardMetadata struct {
	ID           string
	Title        string
	TotalSteps   int
	StartTime    time.Time
	AllowSkip    bool
	ShowProgress bool
}

// WizardState is the aggregate state of one wizard run. It is treated as an
// immutable value: every transition returns a new WizardState with its own
// Steps map. StepOrder is shared between copies and never modified.
type WizardState struct {
	Steps         map[string]StepState
	CurrentStepID string
	StepOrder     []string
	IsComplete    bool
	IsCancelled   bool
	Metadata      WizardMetadata
}

// Step returns the state of the step with the given id.
func (s WizardState) Step(id string) (StepState, bool) {
	st, ok := s.Steps[id]
	return st, ok
}

// Current returns the state of the currently active step.
func (s WizardState) Current() (StepState, bool) {
	return s.Step(s.CurrentStepID)
}

// IndexOf returns the position of id in StepOrder, or -1.
func (s WizardState) IndexOf(id string) int {
	for i, sid := range s.StepOrder {
		if sid == id {
			return i
		}
	}
	return -1
}

// Done reports whether the run reached a terminal state.
func (s WizardState) Done() bool {
	return s.IsComplete || s.IsCancelled
}

// withStep returns a copy of s with the given step state replaced.
func (s WizardState) withStep(st StepState) WizardState {
	next := s
	next.Steps = maps.Clone(s.Steps)
	next.Steps[st.Metadata.ID] = st
	return next
}

// Context is the accumulated mapping from step id to accepted value.
type Context map[string]any

// With returns a copy of c with id set to v.
func (c Context) With(id string, v any) Context {
	next := make(Context, len(c)+1)
	maps.Copy(next, c)
	next[id] = v
	return next
}

// Lookup returns the value stored under id as a T.
func Lookup[T any](c Context, id string) (T, bool) {
	var zero T
	raw, ok := c[id]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// StepInput is handed to a step's executor.
type StepInput struct {
	Context  Context
	Defaults any
	IsFirst  bool   // true for the first step in StepOrder; no back option
	Attempt  int    // 1-based; greater than 1 after a validation failure
	Error    string // validation message from the previous attempt
}

// StepOutcome is what a step's executor returns after interacting with the
// user.
type StepOutcome struct {
	Value       any
	Navigation  Navigation
	WasModified bool
}

// Step is the definition of a configurable unit. Execute is required; the
// remaining hooks are optional.
type Step struct {
	Metadata        StepMetadata
	ComputeDefaults func(Context) any
	Execute         func(ctx context.Context, in StepInput) (StepOutcome, error)
	Skip            func(Context) bool
	Validate        func(any) error
}

// Config assembles a wizard run.
type Config struct {
	ID           string // generated when empty
	Title        string
	Steps        []Step
	AllowSkip    bool
	ShowProgress bool

	// Asker is used for the keep-or-reconfigure question. When nil, revisited
	// steps keep their previous value without asking.
	Asker prompt.Asker
	// Output receives progress rendering when ShowProgress is set.
	Output io.Writer
	Logger *slog.Logger
	Clock  func() time.Time
}

// Result is the terminal output of a run.
type Result struct {
	Values    map[string]any
	State     WizardState
	Cancelled bool
}

// Value returns the final value of step id as a T.
func Value[T any](r *Result, id string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	raw, ok := r.Values[id]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
