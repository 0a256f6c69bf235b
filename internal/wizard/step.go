package wizard

import (
	"reflect"
	"slices"
	"time"
)

// CreateStepState builds the initial state for a step: pending, no value,
// empty history.
func CreateStepState(meta StepMetadata, index int) StepState {
	meta.Index = index
	meta.DependsOn = slices.Clone(meta.DependsOn)
	return StepState{
		Metadata: meta,
		Status:   StatusPending,
	}
}

// UpdateStepStatus returns a copy of st with only the status replaced.
func UpdateStepStatus(st StepState, status StepStatus) StepState {
	st.Status = status
	return st
}

// RecordStepHistory appends a visit to st and stores value as the current
// value. The returned state owns a new history slice.
func RecordStepHistory(st StepState, value any, nav Navigation, at time.Time) StepState {
	entry := StepHistoryEntry{
		Timestamp:  at,
		Value:      value,
		Navigation: nav,
		VisitCount: len(st.History) + 1,
	}

	initial, hadInitial := GetInitialValue(st)

	history := make([]StepHistoryEntry, len(st.History), len(st.History)+1)
	copy(history, st.History)
	st.History = append(history, entry)

	st.IsModified = hadInitial && !reflect.DeepEqual(initial, value)
	st.Value = value
	st.HasValue = true
	return st
}

// ShouldSkipStep reports whether the step's skip predicate holds for ctx.
// Skipped steps never execute their prompt.
func ShouldSkipStep(step Step, ctx Context) bool {
	if step.Skip == nil {
		return false
	}
	return step.Skip(ctx)
}

// ValidateStep runs the step's validator, if any, and returns the failure
// message shown on re-prompt. The engine applies the same check through
// validationError; ValidateStep is the form for executors that validate an
// answer themselves before returning it.
func ValidateStep(step Step, value any) (bool, string) {
	if err := validationError(step, value); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// validationError is ValidateStep keeping the error, so callers can tell a
// wrongly typed value (ErrValueType) from a rejected answer.
func validationError(step Step, value any) error {
	if step.Validate == nil {
		return nil
	}
	return step.Validate(value)
}

// GetVisitCount returns the number of recorded visits.
func GetVisitCount(st StepState) int {
	return len(st.History)
}

// HasBeenVisited reports whether at least one visit has been recorded.
func HasBeenVisited(st StepState) bool {
	return len(st.History) > 0
}

// wasStepCompleted reports whether the step finished in an earlier pass.
func wasStepCompleted(st StepState) bool {
	return st.Status == StatusCompleted || len(st.History) > 0
}
