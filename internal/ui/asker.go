package ui

import (
	"fmt"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// Prompt modes accepted by NewAsker.
const (
	ModeAuto     = "auto"
	ModeTUI      = "tui"
	ModeLine     = "line"
	ModeHeadless = "headless"
)

// NewAsker picks the Asker for mode. Auto chooses headless when stdin is not
// a terminal and huh forms otherwise. The returned close function releases
// the terminal and is never nil.
func NewAsker(mode string, theme *Theme, hm *HeadlessManager) (prompt.Asker, func() error, error) {
	noop := func() error { return nil }
	switch mode {
	case ModeAuto, "":
		if hm.IsHeadless() {
			return NewHeadlessAsker(hm), noop, nil
		}
		return NewHuhAsker(theme), noop, nil
	case ModeTUI:
		return NewHuhAsker(theme), noop, nil
	case ModeHeadless:
		return NewHeadlessAsker(hm), noop, nil
	case ModeLine:
		a, err := NewLineAsker(theme)
		if err != nil {
			return nil, noop, err
		}
		return a, a.Close, nil
	}
	return nil, noop, fmt.Errorf("ui: unknown prompt mode %q", mode)
}
