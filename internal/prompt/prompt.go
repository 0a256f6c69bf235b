// Package prompt defines the "ask the user" capability consumed by the
// wizard engine and the step definitions built on top of it. Concrete
// implementations live in internal/ui.
package prompt

import (
	"context"
	"errors"
)

// ErrCancelled is returned by an Asker when the user aborts a prompt
// (Ctrl+C, Esc, EOF). It is a distinguished outcome, not a failure.
var ErrCancelled = errors.New("prompt: cancelled by user")

// Kind identifies the prompt primitive being requested.
type Kind string

const (
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
	KindConfirm  Kind = "confirm"
	KindInput    Kind = "input"
)

// Choice is a single selectable entry in a select or checkbox prompt.
type Choice struct {
	Label       string // Display label
	Value       string // Value returned when selected
	Description string // Optional hint rendered next to the label
	Checked     bool   // Pre-checked in checkbox prompts
	Disabled    bool   // Rendered but not selectable
	Reason      string // Why the choice is disabled
}

// SelectSpec describes a single-choice prompt.
type SelectSpec struct {
	Key         string
	Message     string
	Description string
	Choices     []Choice
	Default     string
}

// CheckboxSpec describes a multi-choice prompt. Pre-selection is carried by
// Choice.Checked.
type CheckboxSpec struct {
	Key         string
	Message     string
	Description string
	Choices     []Choice
}

// ConfirmSpec describes a yes/no prompt.
type ConfirmSpec struct {
	Key         string
	Message     string
	Description string
	Default     bool
}

// InputSpec describes a free-text prompt. Validate, when set, is run on
// every submitted value and its error is shown to the user.
type InputSpec struct {
	Key         string
	Message     string
	Description string
	Default     string
	Validate    func(string) error
}

// Asker presents prompts to the user. Every method blocks until the user
// answers, the context is cancelled, or the user aborts, in which case
// ErrCancelled is returned.
type Asker interface {
	Select(ctx context.Context, spec SelectSpec) (string, error)
	Checkbox(ctx context.Context, spec CheckboxSpec) ([]string, error)
	Confirm(ctx context.Context, spec ConfirmSpec) (bool, error)
	Input(ctx context.Context, spec InputSpec) (string, error)
}

// IsCancelled reports whether err represents a user or context cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// Enabled returns the choices that are not disabled.
func Enabled(choices []Choice) []Choice {
	out := make([]Choice, 0, len(choices))
	for _, c := range choices {
		if !c.Disabled {
			out = append(out, c)
		}
	}
	return out
}

// FindChoice returns the choice carrying value.
func FindChoice(choices []Choice, value string) (Choice, bool) {
	for _, c := range choices {
		if c.Value == value {
			return c, true
		}
	}
	return Choice{}, false
}
