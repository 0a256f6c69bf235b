// Package ui provides the terminal front ends of ccscaffold: prompt.Asker
// implementations (huh forms, readline, headless), the install progress
// bar and markdown rendering.
package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Brand colors, dark background variants.
const (
	ColorPrimary   = "#DA7756"
	ColorSecondary = "#7C3AED"
	ColorSuccess   = "#10B981"
	ColorWarning   = "#F59E0B"
	ColorError     = "#EF4444"
	ColorText      = "#F9FAFB"
	ColorMuted     = "#6B7280"
	ColorBorder    = "#4B5563"
)

// Colors holds the palette used by styled output.
type Colors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// Theme carries the palette and the no-color switch shared by every UI
// component.
type Theme struct {
	NoColor bool
	Colors  Colors
}

// NewTheme returns the ccscaffold theme.
func NewTheme(noColor bool) *Theme {
	return &Theme{
		NoColor: noColor,
		Colors: Colors{
			Primary:   ColorPrimary,
			Secondary: ColorSecondary,
			Success:   ColorSuccess,
			Warning:   ColorWarning,
			Error:     ColorError,
			Muted:     ColorMuted,
		},
	}
}

func (t *Theme) style(color string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Success renders s in the success color.
func (t *Theme) Success(s string) string { return t.style(t.Colors.Success).Render(s) }

// Warning renders s in the warning color.
func (t *Theme) Warning(s string) string { return t.style(t.Colors.Warning).Render(s) }

// Error renders s in the error color.
func (t *Theme) Error(s string) string { return t.style(t.Colors.Error).Render(s) }

// Muted renders s in the muted color.
func (t *Theme) Muted(s string) string { return t.style(t.Colors.Muted).Render(s) }

// Title renders s bold in the primary color.
func (t *Theme) Title(s string) string { return t.style(t.Colors.Primary).Bold(!t.NoColor).Render(s) }

// Huh returns the form theme. With NoColor the unstyled base theme is used.
func (t *Theme) Huh() *huh.Theme {
	h := huh.ThemeBase()
	if t.NoColor {
		return h
	}

	primary := lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: ColorPrimary}
	secondary := lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: ColorSecondary}
	green := lipgloss.AdaptiveColor{Light: "#059669", Dark: ColorSuccess}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: ColorError}
	text := lipgloss.AdaptiveColor{Light: "#111827", Dark: ColorText}
	muted := lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: ColorMuted}
	border := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: ColorBorder}

	h.Focused.Base = h.Focused.Base.BorderForeground(border)
	h.Focused.Card = h.Focused.Base
	h.Focused.Title = h.Focused.Title.Foreground(primary).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(muted)
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(red)
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(red)
	h.Focused.SelectSelector = h.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	h.Focused.MultiSelectSelector = h.Focused.MultiSelectSelector.Foreground(primary)
	h.Focused.Option = h.Focused.Option.Foreground(text)
	h.Focused.SelectedOption = h.Focused.SelectedOption.Foreground(green)
	h.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(green).SetString("◆ ")
	h.Focused.UnselectedOption = h.Focused.UnselectedOption.Foreground(text)
	h.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(muted).SetString("◇ ")
	h.Focused.TextInput.Cursor = h.Focused.TextInput.Cursor.Foreground(primary)
	h.Focused.TextInput.Placeholder = h.Focused.TextInput.Placeholder.Foreground(muted)
	h.Focused.TextInput.Prompt = h.Focused.TextInput.Prompt.Foreground(secondary)
	h.Focused.FocusedButton = h.Focused.FocusedButton.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
		Background(primary)
	h.Focused.BlurredButton = h.Focused.BlurredButton.
		Foreground(text).
		Background(lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"})

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	h.Blurred.Card = h.Blurred.Base

	h.Group.Title = h.Focused.Title
	h.Group.Description = h.Focused.Description
	return h
}
