package ui

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/chzyer/readline"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// scriptedReader replays lines, then returns io.EOF.
type scriptedReader struct {
	lines   []string
	prompts []string
	err     error
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	}
	l := r.lines[0]
	r.lines = r.lines[1:]
	return l, nil
}

func (r *scriptedReader) SetPrompt(p string) { r.prompts = append(r.prompts, p) }
func (r *scriptedReader) Close() error       { return nil }

func lineAsker(lines ...string) (*LineAsker, *strings.Builder) {
	var out strings.Builder
	return &LineAsker{rl: &scriptedReader{lines: lines}, out: &out, theme: NewTheme(true)}, &out
}

func TestLineAsker_Select(t *testing.T) {
	ctx := context.Background()
	spec := prompt.SelectSpec{Message: "Formatter", Choices: styleChoices, Default: "eslint"}

	a, out := lineAsker("9", "2", "1")
	v, err := a.Select(ctx, spec)
	if err != nil || v != "prettier" {
		t.Fatalf("Select = (%q, %v)", v, err)
	}
	text := out.String()
	if !strings.Contains(text, "enter a number between 1 and 3") {
		t.Errorf("out-of-range answer not reported:\n%s", text)
	}
	if !strings.Contains(text, "Biome is unavailable: alternative to Prettier (already selected)") {
		t.Errorf("disabled answer not reported:\n%s", text)
	}
	if !strings.Contains(text, "* 3) ESLint") {
		t.Errorf("default not marked:\n%s", text)
	}

	a, _ = lineAsker("")
	if v, _ := a.Select(ctx, spec); v != "eslint" {
		t.Errorf("empty line = %q, want default", v)
	}
	a, _ = lineAsker("eslint")
	if v, _ := a.Select(ctx, spec); v != "eslint" {
		t.Errorf("by value = %q", v)
	}
}

func TestLineAsker_Checkbox(t *testing.T) {
	ctx := context.Background()
	spec := prompt.CheckboxSpec{Message: "Style", Choices: styleChoices}

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{"keep_checked", []string{""}, []string{"prettier"}},
		{"none", []string{"none"}, []string{}},
		{"numbers_and_values", []string{"3, prettier, 3"}, []string{"eslint", "prettier"}},
		{"retry_after_disabled", []string{"1,2", "1"}, []string{"prettier"}},
		{"retry_after_unknown", []string{"rome", "3"}, []string{"eslint"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := lineAsker(tt.lines...)
			got, err := a.Checkbox(ctx, spec)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineAsker_ConfirmAndInput(t *testing.T) {
	ctx := context.Background()

	a, _ := lineAsker("perhaps", "y")
	if v, err := a.Confirm(ctx, prompt.ConfirmSpec{Message: "Install?"}); err != nil || !v {
		t.Errorf("Confirm = (%v, %v)", v, err)
	}
	a, _ = lineAsker("")
	if v, _ := a.Confirm(ctx, prompt.ConfirmSpec{Message: "Install?", Default: true}); !v {
		t.Error("empty line should take the default")
	}

	validate := func(s string) error {
		if strings.Contains(s, " ") {
			return errors.New("no spaces")
		}
		return nil
	}
	a, out := lineAsker("my app", "")
	v, err := a.Input(ctx, prompt.InputSpec{Message: "Name", Default: "demo", Validate: validate})
	if err != nil || v != "demo" {
		t.Errorf("Input = (%q, %v)", v, err)
	}
	if !strings.Contains(out.String(), "no spaces") {
		t.Errorf("validation error not shown:\n%s", out.String())
	}
	if r := a.rl.(*scriptedReader); r.prompts[0] != "[demo] > " {
		t.Errorf("prompt = %q", r.prompts[0])
	}
}

func TestLineAsker_Cancellation(t *testing.T) {
	ctx := context.Background()

	a, _ := lineAsker()
	if _, err := a.Input(ctx, prompt.InputSpec{Message: "x"}); !errors.Is(err, prompt.ErrCancelled) {
		t.Errorf("EOF: err = %v", err)
	}

	a = &LineAsker{rl: &scriptedReader{err: readline.ErrInterrupt}, out: io.Discard, theme: NewTheme(true)}
	if _, err := a.Confirm(ctx, prompt.ConfirmSpec{Message: "x"}); !errors.Is(err, prompt.ErrCancelled) {
		t.Errorf("interrupt: err = %v", err)
	}

	a = &LineAsker{rl: &scriptedReader{err: errors.New("tty gone")}, out: io.Discard, theme: NewTheme(true)}
	if _, err := a.Confirm(ctx, prompt.ConfirmSpec{Message: "x"}); err == nil || prompt.IsCancelled(err) {
		t.Errorf("read failure: err = %v", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	a, _ = lineAsker("y")
	if _, err := a.Confirm(cctx, prompt.ConfirmSpec{Message: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("context: err = %v", err)
	}
}
