package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// HuhAsker presents each prompt as its own huh form.
type HuhAsker struct {
	theme      *Theme
	accessible bool
	input      io.Reader
	output     io.Writer
}

// HuhOption configures a HuhAsker.
type HuhOption func(*HuhAsker)

// WithAccessible switches huh to its line-based accessible mode.
func WithAccessible(on bool) HuhOption {
	return func(a *HuhAsker) { a.accessible = on }
}

// WithIO redirects form input and output.
func WithIO(in io.Reader, out io.Writer) HuhOption {
	return func(a *HuhAsker) {
		a.input = in
		a.output = out
	}
}

// NewHuhAsker returns the interactive form-based Asker.
func NewHuhAsker(theme *Theme, opts ...HuhOption) *HuhAsker {
	a := &HuhAsker{theme: theme}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ prompt.Asker = (*HuhAsker)(nil)

// run shows a single field. One form per prompt keeps huh's viewport sized
// to the field being asked.
func (a *HuhAsker) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(a.theme.Huh()).
		WithAccessible(a.accessible)
	if a.input != nil {
		form = form.WithInput(a.input)
	}
	if a.output != nil {
		form = form.WithOutput(a.output)
	}
	return formError(ctx, form.RunWithContext(ctx))
}

// formError maps huh outcomes onto the prompt contract.
func formError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huh.ErrUserAborted):
		return prompt.ErrCancelled
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("ui: form: %w", err)
	}
}

// Select asks for one value. Disabled choices are listed with their reason
// and refused on submit.
func (a *HuhAsker) Select(ctx context.Context, spec prompt.SelectSpec) (string, error) {
	value := spec.Default
	field := huh.NewSelect[string]().
		Title(spec.Message).
		Description(spec.Description).
		Options(huhOptions(spec.Choices, nil)...).
		Value(&value).
		Validate(func(v string) error { return rejectDisabled(spec.Choices, v) })
	if err := a.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

// Checkbox asks for any number of values, pre-checking Choice.Checked.
func (a *HuhAsker) Checkbox(ctx context.Context, spec prompt.CheckboxSpec) ([]string, error) {
	var values []string
	for _, c := range spec.Choices {
		if c.Checked && !c.Disabled {
			values = append(values, c.Value)
		}
	}
	field := huh.NewMultiSelect[string]().
		Title(spec.Message).
		Description(spec.Description).
		Options(huhOptions(spec.Choices, values)...).
		Value(&values).
		Validate(func(vs []string) error {
			for _, v := range vs {
				if err := rejectDisabled(spec.Choices, v); err != nil {
					return err
				}
			}
			return nil
		})
	if err := a.run(ctx, field); err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// Confirm asks a yes/no question.
func (a *HuhAsker) Confirm(ctx context.Context, spec prompt.ConfirmSpec) (bool, error) {
	value := spec.Default
	field := huh.NewConfirm().
		Title(spec.Message).
		Description(spec.Description).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if err := a.run(ctx, field); err != nil {
		return false, err
	}
	return value, nil
}

// Input asks for free text. An empty answer takes the default.
func (a *HuhAsker) Input(ctx context.Context, spec prompt.InputSpec) (string, error) {
	var value string
	field := huh.NewInput().
		Title(spec.Message).
		Description(spec.Description).
		Placeholder(spec.Default).
		Value(&value).
		Validate(func(v string) error {
			if spec.Validate == nil {
				return nil
			}
			return spec.Validate(orDefault(v, spec.Default))
		})
	if err := a.run(ctx, field); err != nil {
		return "", err
	}
	return orDefault(value, spec.Default), nil
}

// huhOptions converts choices. Disabled entries stay visible with their
// reason appended; values in selected start checked.
func huhOptions(choices []prompt.Choice, selected []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		opt := huh.NewOption(choiceLabel(c), c.Value)
		for _, s := range selected {
			if s == c.Value {
				opt = opt.Selected(true)
			}
		}
		opts = append(opts, opt)
	}
	return opts
}

// choiceLabel renders "Label - description" or "Label (unavailable: reason)".
func choiceLabel(c prompt.Choice) string {
	switch {
	case c.Disabled && c.Reason != "":
		return fmt.Sprintf("%s (unavailable: %s)", c.Label, c.Reason)
	case c.Disabled:
		return c.Label + " (unavailable)"
	case c.Description != "":
		return c.Label + " - " + c.Description
	}
	return c.Label
}

func rejectDisabled(choices []prompt.Choice, value string) error {
	c, ok := prompt.FindChoice(choices, value)
	if !ok || !c.Disabled {
		return nil
	}
	if c.Reason != "" {
		return fmt.Errorf("%s is unavailable: %s", c.Label, c.Reason)
	}
	return fmt.Errorf("%s is unavailable", c.Label)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
