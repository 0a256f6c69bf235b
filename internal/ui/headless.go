package ui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// ErrNoAnswer is returned by the headless asker when a prompt has neither a
// stored answer nor a usable default.
var ErrNoAnswer = errors.New("ui: no answer available in headless mode")

// HeadlessManager decides whether prompts can reach a terminal and holds
// the answers used when they cannot.
type HeadlessManager struct {
	forced  *bool
	fd      uintptr
	answers map[string]string
}

// NewHeadlessManager creates a HeadlessManager that detects headless mode
// from the TTY state of os.Stdin.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{fd: os.Stdin.Fd()}
}

// IsHeadless reports whether prompts must be answered without a terminal.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	return !isatty.IsTerminal(h.fd) && !isatty.IsCygwinTerminal(h.fd)
}

// ForceHeadless overrides TTY detection.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

// ClearForce reverts to TTY detection.
func (h *HeadlessManager) ClearForce() {
	h.forced = nil
}

// SetAnswers stores answers keyed by prompt key. Checkbox answers are comma
// separated.
func (h *HeadlessManager) SetAnswers(answers map[string]string) {
	if len(answers) == 0 {
		h.answers = nil
		return
	}
	h.answers = maps.Clone(answers)
}

// Answer returns the stored answer for key.
func (h *HeadlessManager) Answer(key string) (string, bool) {
	v, ok := h.answers[key]
	return v, ok
}

// maxRejections is how often the same rejected prompt is answered again
// before the headless asker gives up.
const maxRejections = 2

// HeadlessAsker answers every prompt from the manager's stored answers,
// falling back to the prompt's own default.
type HeadlessAsker struct {
	hm *HeadlessManager

	// lastRejection is the key and message of the last re-asked prompt.
	lastRejection [2]string
	rejections    int
}

// NewHeadlessAsker returns an Asker that never touches the terminal.
func NewHeadlessAsker(hm *HeadlessManager) *HeadlessAsker {
	return &HeadlessAsker{hm: hm}
}

var _ prompt.Asker = (*HeadlessAsker)(nil)

// rejected detects a prompt re-asked with the same error message. Headless
// answers never change, so answering it again would loop forever.
func (a *HeadlessAsker) rejected(key, message string) error {
	if message == "" {
		return nil
	}
	if a.lastRejection == [2]string{key, message} {
		a.rejections++
	} else {
		a.lastRejection = [2]string{key, message}
		a.rejections = 1
	}
	if a.rejections > maxRejections {
		return fmt.Errorf("%w: %s: %s", ErrNoAnswer, key, message)
	}
	return nil
}

// Select returns the stored answer, the SelectSpec default or the first enabled
// choice, in that order.
func (a *HeadlessAsker) Select(ctx context.Context, spec prompt.SelectSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := a.rejected(spec.Key, spec.Description); err != nil {
		return "", err
	}
	if v, ok := a.hm.Answer(spec.Key); ok {
		if err := checkEnabled(spec.Choices, v); err != nil {
			return "", fmt.Errorf("%s: %w", spec.Key, err)
		}
		return v, nil
	}
	if spec.Default != "" {
		return spec.Default, nil
	}
	enabled := prompt.Enabled(spec.Choices)
	if len(enabled) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoAnswer, spec.Key)
	}
	return enabled[0].Value, nil
}

// Checkbox returns the stored comma-separated answer, or the checked
// enabled choices.
func (a *HeadlessAsker) Checkbox(ctx context.Context, spec prompt.CheckboxSpec) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.rejected(spec.Key, spec.Description); err != nil {
		return nil, err
	}
	if v, ok := a.hm.Answer(spec.Key); ok {
		values := splitList(v)
		for _, val := range values {
			if err := checkEnabled(spec.Choices, val); err != nil {
				return nil, fmt.Errorf("%s: %w", spec.Key, err)
			}
		}
		return values, nil
	}
	values := []string{}
	for _, c := range prompt.Enabled(spec.Choices) {
		if c.Checked {
			values = append(values, c.Value)
		}
	}
	return values, nil
}

// Confirm parses the stored answer with strconv.ParseBool, or returns the
// default.
func (a *HeadlessAsker) Confirm(ctx context.Context, spec prompt.ConfirmSpec) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if v, ok := a.hm.Answer(spec.Key); ok {
		b, err := parseYesNo(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", spec.Key, err)
		}
		return b, nil
	}
	return spec.Default, nil
}

// Input returns the stored answer or the default, run through the InputSpec's
// validator.
func (a *HeadlessAsker) Input(ctx context.Context, spec prompt.InputSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, ok := a.hm.Answer(spec.Key)
	if !ok {
		v = spec.Default
	}
	if spec.Validate != nil {
		if err := spec.Validate(v); err != nil {
			if !ok && v == "" {
				return "", fmt.Errorf("%w: %s", ErrNoAnswer, spec.Key)
			}
			return "", fmt.Errorf("%s: %w", spec.Key, err)
		}
	}
	return v, nil
}

// checkEnabled rejects values that are unknown or disabled.
func checkEnabled(choices []prompt.Choice, value string) error {
	c, ok := prompt.FindChoice(choices, value)
	if !ok {
		return fmt.Errorf("%q is not one of %s", value, strings.Join(choiceValues(choices), ", "))
	}
	if c.Disabled {
		return fmt.Errorf("%q is not available: %s", value, c.Reason)
	}
	return nil
}

func choiceValues(choices []prompt.Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Value
	}
	return out
}

func splitList(s string) []string {
	out := []string{}
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}
