package wizard

import (
	"errors"
	"testing"
	"time"
)

func TestRecordStepHistory(t *testing.T) {
	clock := tickClock()
	st := CreateStepState(StepMetadata{ID: "color", Name: "Color"}, 1)

	st = RecordStepHistory(st, "red", NavNext, clock())
	if st.Value != "red" || !st.HasValue {
		t.Errorf("value = %v (has=%v), want red", st.Value, st.HasValue)
	}
	if st.IsModified {
		t.Error("first recording must not be marked modified")
	}
	if st.History[0].VisitCount != 1 {
		t.Errorf("VisitCount = %d, want 1", st.History[0].VisitCount)
	}

	before := st
	st = RecordStepHistory(st, "blue", NavNext, clock())
	if !st.IsModified {
		t.Error("changed value must be marked modified")
	}
	if st.History[1].VisitCount != 2 {
		t.Errorf("VisitCount = %d, want 2", st.History[1].VisitCount)
	}
	if len(before.History) != 1 {
		t.Errorf("previous state history grew to %d", len(before.History))
	}

	st = RecordStepHistory(st, "red", NavNext, clock())
	if st.IsModified {
		t.Error("value equal to the initial one is not modified")
	}
}

func TestRecordStepHistory_DeepEquality(t *testing.T) {
	clock := tickClock()
	st := CreateStepState(StepMetadata{ID: "modules"}, 0)
	st = RecordStepHistory(st, []string{"a", "b"}, NavNext, clock())
	st = RecordStepHistory(st, []string{"a", "b"}, NavNext, clock())
	if st.IsModified {
		t.Error("structurally equal slices must not count as modified")
	}
	st = RecordStepHistory(st, []string{"a"}, NavNext, clock())
	if !st.IsModified {
		t.Error("different slice must count as modified")
	}
}

func TestUpdateStepStatus(t *testing.T) {
	st := CreateStepState(StepMetadata{ID: "x"}, 0)
	st = RecordStepHistory(st, 1, NavNext, time.Now())
	updated := UpdateStepStatus(st, StatusCompleted)
	if updated.Status != StatusCompleted {
		t.Errorf("status = %q", updated.Status)
	}
	if updated.Value != 1 || len(updated.History) != 1 {
		t.Error("UpdateStepStatus touched other fields")
	}
	if st.Status != StatusPending {
		t.Error("UpdateStepStatus mutated its input")
	}
}

func TestVisitCount(t *testing.T) {
	st := CreateStepState(StepMetadata{ID: "x"}, 0)
	if HasBeenVisited(st) || GetVisitCount(st) != 0 {
		t.Error("fresh step reported as visited")
	}
	st = RecordStepHistory(st, "v", NavNext, time.Now())
	st = RecordStepHistory(st, "w", NavNext, time.Now())
	if !HasBeenVisited(st) || GetVisitCount(st) != 2 {
		t.Errorf("visits = %d, want 2", GetVisitCount(st))
	}
}

func TestShouldSkipAndValidateStep(t *testing.T) {
	step := Step{
		Metadata: StepMetadata{ID: "token"},
		Skip:     func(c Context) bool { return c["mode"] == "manual" },
		Validate: func(v any) error {
			if v == "" {
				return errors.New("token is required")
			}
			return nil
		},
	}

	if !ShouldSkipStep(step, Context{"mode": "manual"}) {
		t.Error("expected skip for manual mode")
	}
	if ShouldSkipStep(step, Context{"mode": "team"}) {
		t.Error("unexpected skip for team mode")
	}
	if ShouldSkipStep(Step{}, Context{}) {
		t.Error("step without predicate must not be skipped")
	}

	if ok, msg := ValidateStep(step, ""); ok || msg != "token is required" {
		t.Errorf("ValidateStep(\"\") = (%v, %q)", ok, msg)
	}
	if ok, msg := ValidateStep(step, "abc"); !ok || msg != "" {
		t.Errorf("ValidateStep(abc) = (%v, %q)", ok, msg)
	}
	if ok, _ := ValidateStep(Step{}, nil); !ok {
		t.Error("step without validator must pass")
	}
}

func TestGetLastValue(t *testing.T) {
	clock := tickClock()

	t.Run("history", func(t *testing.T) {
		st := CreateStepState(StepMetadata{ID: "x"}, 0)
		for _, v := range []string{"v1", "v2", "v3"} {
			st = RecordStepHistory(st, v, NavNext, clock())
		}
		got, ok := GetLastValue(st)
		if !ok || got != "v3" {
			t.Errorf("GetLastValue = (%v, %v), want v3", got, ok)
		}
		first, ok := GetInitialValue(st)
		if !ok || first != "v1" {
			t.Errorf("GetInitialValue = (%v, %v), want v1", first, ok)
		}
	})

	t.Run("bare_value", func(t *testing.T) {
		st := CreateStepState(StepMetadata{ID: "x"}, 0)
		st.Value, st.HasValue = "kept", true
		got, ok := GetLastValue(st)
		if !ok || got != "kept" {
			t.Errorf("GetLastValue = (%v, %v), want kept", got, ok)
		}
	})

	t.Run("undefined", func(t *testing.T) {
		st := CreateStepState(StepMetadata{ID: "x"}, 0)
		got, ok := GetLastValue(st)
		if ok || got != nil {
			t.Errorf("GetLastValue = (%v, %v), want (nil, false)", got, ok)
		}
		if _, ok := GetInitialValue(st); ok {
			t.Error("GetInitialValue on empty history should report false")
		}
	})
}

func TestWizardStateQueries(t *testing.T) {
	clock := tickClock()
	ws := CreateWizardState(threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil))

	name := mustStep(t, ws, "name")
	name = RecordStepHistory(name, "alice", NavNext, clock())
	name = RecordStepHistory(name, "bob", NavNext, clock())
	name = RecordStepHistory(name, "carol", NavNext, clock())
	name.Status = StatusCompleted
	ws = ws.withStep(name)

	color := mustStep(t, ws, "color")
	color = RecordStepHistory(color, "red", NavSkip, clock())
	color.Status = StatusSkipped
	ws = ws.withStep(color)

	confirm := mustStep(t, ws, "confirm")
	confirm.Value, confirm.HasValue = true, true
	ws = ws.withStep(confirm)

	if got := GetModifiedSteps(ws); len(got) != 1 || got[0] != "name" {
		t.Errorf("GetModifiedSteps = %v, want [name]", got)
	}
	if got := GetRevisitedSteps(ws); len(got) != 1 || got[0] != "name" {
		t.Errorf("GetRevisitedSteps = %v, want [name]", got)
	}
	if got := GetTotalVisits(ws); got != 5 {
		t.Errorf("GetTotalVisits = %d, want 5", got)
	}
	if got := GetCompletedStepsCount(ws); got != 2 {
		t.Errorf("GetCompletedStepsCount = %d, want 2", got)
	}
	if got := GetTimeOnStep(name); got != 2*time.Second {
		t.Errorf("GetTimeOnStep = %v, want 2s", got)
	}
	if got := GetTimeOnStep(color); got != 0 {
		t.Errorf("GetTimeOnStep single entry = %v, want 0", got)
	}

	now := ws.Metadata.StartTime.Add(90*time.Second + 400*time.Microsecond)
	if got := GetWizardDuration(ws, now); got != 90*time.Second {
		t.Errorf("GetWizardDuration = %v, want 1m30s", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{999 * time.Millisecond, "0s"},
		{45 * time.Second, "45s"},
		{59*time.Second + 999*time.Millisecond, "59s"},
		{60 * time.Second, "1m 0s"},
		{125 * time.Second, "2m 5s"},
		{61*time.Minute + 1500*time.Millisecond, "61m 1s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.in); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
