package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// lineReader is the part of *readline.Instance the LineAsker uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// LineAsker asks questions one line at a time, for terminals where full
// screen forms do not work.
type LineAsker struct {
	rl    lineReader
	out   io.Writer
	theme *Theme
}

// NewLineAsker opens a readline instance on the process terminal.
func NewLineAsker(theme *Theme) (*LineAsker, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("ui: init readline: %w", err)
	}
	return &LineAsker{rl: rl, out: rl.Stdout(), theme: theme}, nil
}

// Close releases the terminal.
func (a *LineAsker) Close() error {
	return a.rl.Close()
}

var _ prompt.Asker = (*LineAsker)(nil)

// readLine reads one trimmed answer. Interrupt and EOF cancel.
func (a *LineAsker) readLine(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a.rl.SetPrompt(p)
	line, err := a.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", prompt.ErrCancelled
		}
		return "", fmt.Errorf("ui: read line: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (a *LineAsker) header(message, description string) {
	fmt.Fprintln(a.out, a.theme.Title(message))
	if description != "" {
		fmt.Fprintln(a.out, a.theme.Muted(description))
	}
}

func (a *LineAsker) listChoices(choices []prompt.Choice, marked func(prompt.Choice) bool) {
	for i, c := range choices {
		mark := " "
		if marked != nil && marked(c) {
			mark = "*"
		}
		line := fmt.Sprintf("  %s%2d) %s", mark, i+1, choiceLabel(c))
		if c.Disabled {
			line = a.theme.Muted(line)
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *LineAsker) complain(format string, args ...any) {
	fmt.Fprintln(a.out, a.theme.Error(fmt.Sprintf(format, args...)))
}

// Select accepts a choice number or value. An empty line takes the default.
func (a *LineAsker) Select(ctx context.Context, spec prompt.SelectSpec) (string, error) {
	a.header(spec.Message, spec.Description)
	a.listChoices(spec.Choices, func(c prompt.Choice) bool { return c.Value == spec.Default })

	for {
		line, err := a.readLine(ctx, "choice> ")
		if err != nil {
			return "", err
		}
		if line == "" && spec.Default != "" {
			return spec.Default, nil
		}
		c, ok := resolveChoice(spec.Choices, line)
		switch {
		case !ok:
			a.complain("enter a number between 1 and %d", len(spec.Choices))
		case c.Disabled:
			a.complain("%v", rejectDisabled(spec.Choices, c.Value))
		default:
			return c.Value, nil
		}
	}
}

// Checkbox accepts a comma-separated list of numbers or values. An empty
// line keeps the pre-checked choices; "none" selects nothing.
func (a *LineAsker) Checkbox(ctx context.Context, spec prompt.CheckboxSpec) ([]string, error) {
	a.header(spec.Message, spec.Description)
	a.listChoices(spec.Choices, func(c prompt.Choice) bool { return c.Checked && !c.Disabled })

	for {
		line, err := a.readLine(ctx, "choices> ")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(line) {
		case "":
			values := []string{}
			for _, c := range prompt.Enabled(spec.Choices) {
				if c.Checked {
					values = append(values, c.Value)
				}
			}
			return values, nil
		case "none", "-":
			return []string{}, nil
		}

		values, bad := []string{}, ""
		for _, part := range splitList(line) {
			c, ok := resolveChoice(spec.Choices, part)
			if !ok {
				bad = fmt.Sprintf("unknown choice %q", part)
				break
			}
			if c.Disabled {
				bad = rejectDisabled(spec.Choices, c.Value).Error()
				break
			}
			if !slices.Contains(values, c.Value) {
				values = append(values, c.Value)
			}
		}
		if bad != "" {
			a.complain("%s", bad)
			continue
		}
		return values, nil
	}
}

// Confirm accepts y/yes/n/no. An empty line takes the default.
func (a *LineAsker) Confirm(ctx context.Context, spec prompt.ConfirmSpec) (bool, error) {
	if spec.Description != "" {
		fmt.Fprintln(a.out, spec.Description)
	}
	hint := "[y/N]"
	if spec.Default {
		hint = "[Y/n]"
	}
	for {
		line, err := a.readLine(ctx, fmt.Sprintf("%s %s ", spec.Message, hint))
		if err != nil {
			return false, err
		}
		if line == "" {
			return spec.Default, nil
		}
		b, err := parseYesNo(line)
		if err != nil {
			a.complain("answer yes or no")
			continue
		}
		return b, nil
	}
}

// Input reads free text. An empty line takes the default; the validator
// runs until it accepts.
func (a *LineAsker) Input(ctx context.Context, spec prompt.InputSpec) (string, error) {
	a.header(spec.Message, spec.Description)
	p := "> "
	if spec.Default != "" {
		p = fmt.Sprintf("[%s] > ", spec.Default)
	}
	for {
		line, err := a.readLine(ctx, p)
		if err != nil {
			return "", err
		}
		v := orDefault(line, spec.Default)
		if spec.Validate != nil {
			if err := spec.Validate(v); err != nil {
				a.complain("%v", err)
				continue
			}
		}
		return v, nil
	}
}

// resolveChoice finds a choice by 1-based number or by value.
func resolveChoice(choices []prompt.Choice, s string) (prompt.Choice, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(choices) {
			return prompt.Choice{}, false
		}
		return choices[n-1], true
	}
	return prompt.FindChoice(choices, s)
}
