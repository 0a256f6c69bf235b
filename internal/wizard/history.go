package wizard

import (
	"fmt"
	"time"
)

// GetLastValue returns the value of the most recent history entry, falling
// back to the step's bare value when the history is empty.
func GetLastValue(st StepState) (any, bool) {
	if n := len(st.History); n > 0 {
		return st.History[n-1].Value, true
	}
	return st.Value, st.HasValue
}

// GetInitialValue returns the value of the first history entry.
func GetInitialValue(st StepState) (any, bool) {
	if len(st.History) == 0 {
		return nil, false
	}
	return st.History[0].Value, true
}

// GetModifiedSteps returns, in step order, the ids of steps whose value
// differs from their first recorded value.
func GetModifiedSteps(ws WizardState) []string {
	return filterSteps(ws, func(st StepState) bool { return st.IsModified })
}

// GetRevisitedSteps returns, in step order, the ids of steps visited more
// than once.
func GetRevisitedSteps(ws WizardState) []string {
	return filterSteps(ws, func(st StepState) bool { return len(st.History) > 1 })
}

// GetTotalVisits sums, over all steps, the history length or 1 for a step
// that holds a value without history.
func GetTotalVisits(ws WizardState) int {
	total := 0
	for _, id := range ws.StepOrder {
		st := ws.Steps[id]
		visits := len(st.History)
		if visits == 0 && st.HasValue {
			visits = 1
		}
		total += visits
	}
	return total
}

// GetCompletedStepsCount counts steps that are completed or skipped.
func GetCompletedStepsCount(ws WizardState) int {
	n := 0
	for _, st := range ws.Steps {
		if st.Status == StatusCompleted || st.Status == StatusSkipped {
			n++
		}
	}
	return n
}

// GetTimeOnStep returns the time between the first and last recorded visit,
// truncated to milliseconds. Zero for fewer than two entries.
func GetTimeOnStep(st StepState) time.Duration {
	if len(st.History) < 2 {
		return 0
	}
	first := st.History[0].Timestamp
	last := st.History[len(st.History)-1].Timestamp
	return last.Sub(first).Truncate(time.Millisecond)
}

// GetWizardDuration returns the wall-clock time elapsed since the run started.
func GetWizardDuration(ws WizardState, now time.Time) time.Duration {
	return now.Sub(ws.Metadata.StartTime).Truncate(time.Millisecond)
}

// FormatDuration renders d as "Ns" below one minute and "Xm Ys" otherwise.
func FormatDuration(d time.Duration) string {
	seconds := int(d / time.Second)
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

func filterSteps(ws WizardState, keep func(StepState) bool) []string {
	var ids []string
	for _, id := range ws.StepOrder {
		if st, ok := ws.Steps[id]; ok && keep(st) {
			ids = append(ids, id)
		}
	}
	return ids
}
