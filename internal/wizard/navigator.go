package wizard

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// BackValue is the reserved choice value that requests back navigation from
// inside a select or checkbox prompt. Step values must never use it.
const BackValue = "__wizard_back__"

// Decision is the answer to the keep-or-reconfigure question.
type Decision string

const (
	DecisionKeep        Decision = "keep"
	DecisionReconfigure Decision = "reconfigure"
)

// Transition is the outcome of CalculateNextStep. An empty NextStepID means
// the run stops moving (completion or cancellation).
type Transition struct {
	NextStepID    string
	CurrentStatus StepStatus
}

// CalculateNextStep computes where nav leads from the current step and which
// status the step being left receives.
func CalculateNextStep(ws WizardState, nav Navigation) Transition {
	i := ws.IndexOf(ws.CurrentStepID)
	last := i == len(ws.StepOrder)-1

	switch nav {
	case NavNext, NavSkip:
		status := StatusCompleted
		if nav == NavSkip {
			status = StatusSkipped
		}
		if last || i < 0 {
			return Transition{CurrentStatus: status}
		}
		return Transition{NextStepID: ws.StepOrder[i+1], CurrentStatus: status}
	case NavBack:
		if i <= 0 {
			return Transition{NextStepID: ws.CurrentStepID, CurrentStatus: StatusCurrent}
		}
		// The step was not finished, so it goes back to pending.
		return Transition{NextStepID: ws.StepOrder[i-1], CurrentStatus: StatusPending}
	default:
		return Transition{CurrentStatus: StatusPending}
	}
}

// ApplyNavigation writes value into the current step, applies the transition
// for nav and returns the resulting state. ws is not modified.
func ApplyNavigation(ws WizardState, nav Navigation, value any) WizardState {
	return applyTransition(ws, nav, true, value)
}

// NavigateAway applies the transition for nav without touching the current
// step's value. The engine uses it for back and cancel so that answers the
// user did not accept are not stored.
func NavigateAway(ws WizardState, nav Navigation) WizardState {
	return applyTransition(ws, nav, false, nil)
}

func applyTransition(ws WizardState, nav Navigation, setValue bool, value any) WizardState {
	tr := CalculateNextStep(ws, nav)

	cur, ok := ws.Current()
	next := ws
	if ok {
		cur = UpdateStepStatus(cur, tr.CurrentStatus)
		if setValue {
			cur.Value = value
			cur.HasValue = true
		}
		next = ws.withStep(cur)
	}

	if tr.NextStepID == "" {
		next.IsComplete = nav == NavNext || nav == NavSkip
		next.IsCancelled = nav == NavCancel
		return next
	}

	if tr.NextStepID != next.CurrentStepID {
		// A step re-entered by going back is reopened, not current: it stays
		// pending until it is left again.
		status := StatusCurrent
		if nav == NavBack {
			status = StatusPending
		}
		if target, ok := next.Steps[tr.NextStepID]; ok {
			next = next.withStep(UpdateStepStatus(target, status))
		}
		next.CurrentStepID = tr.NextStepID
	}
	return next
}

// PromptKeepOrReconfigure asks whether a step completed in an earlier pass
// should keep its value. The default answer is keep.
func PromptKeepOrReconfigure(ctx context.Context, asker prompt.Asker, stepName string) (Decision, error) {
	if asker == nil {
		return DecisionKeep, nil
	}
	answer, err := asker.Select(ctx, prompt.SelectSpec{
		Key:     "keep_or_reconfigure",
		Message: fmt.Sprintf("%s is already configured", stepName),
		Choices: []prompt.Choice{
			{Label: "Keep current value", Value: string(DecisionKeep)},
			{Label: "Reconfigure", Value: string(DecisionReconfigure)},
		},
		Default: string(DecisionKeep),
	})
	if err != nil {
		return "", err
	}
	if Decision(answer) == DecisionReconfigure {
		return DecisionReconfigure, nil
	}
	return DecisionKeep, nil
}

var (
	progressDone    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	progressCurrent = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: "#DA7756"}).Bold(true)
	progressMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"})
)

// ShowStepProgress writes a one-line position header followed by a glyph per
// step: ✓ completed, – skipped, ● current, ○ pending.
func ShowStepProgress(w io.Writer, ws WizardState, isRevisit bool) {
	if w == nil {
		return
	}
	cur, ok := ws.Current()
	if !ok {
		return
	}

	header := fmt.Sprintf("Step %d/%d: %s", ws.IndexOf(ws.CurrentStepID)+1, len(ws.StepOrder), cur.Metadata.Name)
	if isRevisit {
		header += " " + progressMuted.Render("(revisit)")
	}

	glyphs := make([]string, 0, len(ws.StepOrder))
	for _, id := range ws.StepOrder {
		st := ws.Steps[id]
		switch {
		case id == ws.CurrentStepID:
			glyphs = append(glyphs, progressCurrent.Render("●"))
		case st.Status == StatusCompleted:
			glyphs = append(glyphs, progressDone.Render("✓"))
		case st.Status == StatusSkipped:
			glyphs = append(glyphs, progressMuted.Render("–"))
		default:
			glyphs = append(glyphs, progressMuted.Render("○"))
		}
	}

	_, _ = fmt.Fprintf(w, "%s\n%s\n", progressCurrent.Render(header), strings.Join(glyphs, " "))
}

// ShowRunSummary writes a one-line footer for a finished run: elapsed time,
// and how many steps were revisited or changed along the way.
func ShowRunSummary(w io.Writer, ws WizardState, now time.Time) {
	if w == nil {
		return
	}
	line := fmt.Sprintf("Finished in %s", FormatDuration(GetWizardDuration(ws, now)))
	if ws.IsCancelled {
		line = fmt.Sprintf("Cancelled after %s", FormatDuration(GetWizardDuration(ws, now)))
	}
	if n := len(GetRevisitedSteps(ws)); n > 0 {
		line += fmt.Sprintf(", %d step(s) revisited", n)
	}
	if n := len(GetModifiedSteps(ws)); n > 0 {
		line += fmt.Sprintf(", %d changed", n)
	}
	_, _ = fmt.Fprintln(w, progressMuted.Render(line))
}

// CreateBackOption returns the synthetic choice that requests back navigation.
func CreateBackOption() prompt.Choice {
	return prompt.Choice{
		Label:       "← Back",
		Value:       BackValue,
		Description: "Return to the previous step",
	}
}

// InjectBackOption prepends the back choice unless the prompt belongs to the
// first step. The input slice is not modified.
func InjectBackOption(choices []prompt.Choice, isFirst bool) []prompt.Choice {
	if isFirst {
		return slices.Clone(choices)
	}
	out := make([]prompt.Choice, 0, len(choices)+1)
	out = append(out, CreateBackOption())
	return append(out, choices...)
}

// IsBackSelected reports whether the back sentinel is among values.
func IsBackSelected(values ...string) bool {
	return slices.Contains(values, BackValue)
}
