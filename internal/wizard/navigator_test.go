package wizard

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

func TestCreateWizardState(t *testing.T) {
	cfg := threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil)
	ws := CreateWizardState(cfg)

	if len(ws.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(ws.Steps))
	}
	if ws.CurrentStepID != "name" {
		t.Errorf("CurrentStepID = %q, want %q", ws.CurrentStepID, "name")
	}
	for i, id := range ws.StepOrder {
		st := mustStep(t, ws, id)
		want := StatusPending
		if i == 0 {
			want = StatusCurrent
		}
		if st.Status != want {
			t.Errorf("step %q status = %q, want %q", id, st.Status, want)
		}
		if st.Metadata.Index != i {
			t.Errorf("step %q index = %d, want %d", id, st.Metadata.Index, i)
		}
		if st.HasValue || len(st.History) != 0 {
			t.Errorf("step %q should start without value or history", id)
		}
	}
	if ws.IsComplete || ws.IsCancelled {
		t.Error("new state must be neither complete nor cancelled")
	}
	if ws.Metadata.TotalSteps != 3 || ws.Metadata.ID != "test-wizard" {
		t.Errorf("unexpected metadata: %+v", ws.Metadata)
	}
}

func TestCreateWizardState_GeneratesID(t *testing.T) {
	cfg := threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil)
	cfg.ID = ""
	a := CreateWizardState(cfg)
	b := CreateWizardState(cfg)
	if a.Metadata.ID == "" || a.Metadata.ID == b.Metadata.ID {
		t.Errorf("expected distinct generated ids, got %q and %q", a.Metadata.ID, b.Metadata.ID)
	}
}

func TestCalculateNextStep(t *testing.T) {
	base := CreateWizardState(threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil))
	at := func(id string) WizardState {
		ws := base
		ws.CurrentStepID = id
		return ws
	}

	tests := []struct {
		name       string
		current    string
		nav        Navigation
		wantNext   string
		wantStatus StepStatus
	}{
		{"next_middle", "color", NavNext, "confirm", StatusCompleted},
		{"next_last", "confirm", NavNext, "", StatusCompleted},
		{"skip_middle", "name", NavSkip, "color", StatusSkipped},
		{"skip_last", "confirm", NavSkip, "", StatusSkipped},
		{"back_first", "name", NavBack, "name", StatusCurrent},
		{"back_middle", "color", NavBack, "name", StatusPending},
		{"back_last", "confirm", NavBack, "color", StatusPending},
		{"cancel", "color", NavCancel, "", StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := CalculateNextStep(at(tt.current), tt.nav)
			if tr.NextStepID != tt.wantNext {
				t.Errorf("NextStepID = %q, want %q", tr.NextStepID, tt.wantNext)
			}
			if tr.CurrentStatus != tt.wantStatus {
				t.Errorf("CurrentStatus = %q, want %q", tr.CurrentStatus, tt.wantStatus)
			}
		})
	}
}

func TestApplyNavigation_DoesNotMutateInput(t *testing.T) {
	ws := CreateWizardState(threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil))
	after := ApplyNavigation(ws, NavNext, "alice")

	if ws.CurrentStepID != "name" {
		t.Errorf("input CurrentStepID changed to %q", ws.CurrentStepID)
	}
	if st := mustStep(t, ws, "name"); st.HasValue || st.Status != StatusCurrent {
		t.Errorf("input step mutated: %+v", st)
	}

	if after.CurrentStepID != "color" {
		t.Errorf("CurrentStepID = %q, want color", after.CurrentStepID)
	}
	if st := mustStep(t, after, "name"); st.Value != "alice" || st.Status != StatusCompleted {
		t.Errorf("name step = %+v, want completed with value alice", st)
	}
	if st := mustStep(t, after, "color"); st.Status != StatusCurrent {
		t.Errorf("color status = %q, want current", st.Status)
	}
}

func TestApplyNavigation_TerminalStates(t *testing.T) {
	ws := CreateWizardState(threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil))
	ws.CurrentStepID = "confirm"

	done := ApplyNavigation(ws, NavNext, true)
	if !done.IsComplete || done.IsCancelled {
		t.Errorf("next from last: complete=%v cancelled=%v", done.IsComplete, done.IsCancelled)
	}

	skipped := ApplyNavigation(ws, NavSkip, nil)
	if !skipped.IsComplete || skipped.IsCancelled {
		t.Errorf("skip from last: complete=%v cancelled=%v", skipped.IsComplete, skipped.IsCancelled)
	}

	cancelled := NavigateAway(ws, NavCancel)
	if cancelled.IsComplete || !cancelled.IsCancelled {
		t.Errorf("cancel: complete=%v cancelled=%v", cancelled.IsComplete, cancelled.IsCancelled)
	}
}

func TestNextThenBack_RoundTrip(t *testing.T) {
	ws := CreateWizardState(threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil))
	clock := tickClock()

	// Forward pass through "name": record history then move on.
	name := RecordStepHistory(mustStep(t, ws, "name"), "alice", NavNext, clock())
	ws = ApplyNavigation(ws.withStep(name), NavNext, "alice")
	if ws.CurrentStepID != "color" {
		t.Fatalf("CurrentStepID = %q, want color", ws.CurrentStepID)
	}

	// Back from "color".
	ws = NavigateAway(ws, NavBack)
	if ws.CurrentStepID != "name" {
		t.Fatalf("CurrentStepID = %q, want name", ws.CurrentStepID)
	}
	if st := mustStep(t, ws, "color"); st.Status != StatusPending || len(st.History) != 0 || st.HasValue {
		t.Errorf("color should be untouched and pending, got %+v", st)
	}
	st := mustStep(t, ws, "name")
	if st.Status != StatusPending {
		t.Errorf("name status = %q, want pending", st.Status)
	}
	if len(st.History) != 1 {
		t.Errorf("name history length = %d, want 1", len(st.History))
	}
}

func TestBackFromColor_LeavesColorPending(t *testing.T) {
	ws := CreateWizardState(threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil))
	ws = ApplyNavigation(ws, NavNext, "alice")
	ws = ApplyNavigation(ws, NavNext, "red")
	ws = NavigateAway(ws, NavBack)

	if st := mustStep(t, ws, "confirm"); st.Status != StatusPending {
		t.Errorf("confirm status = %q, want pending", st.Status)
	}
	if ws.CurrentStepID != "color" {
		t.Errorf("CurrentStepID = %q, want color", ws.CurrentStepID)
	}
}

func TestPromptKeepOrReconfigure(t *testing.T) {
	t.Run("nil_asker_keeps", func(t *testing.T) {
		d, err := PromptKeepOrReconfigure(context.Background(), nil, "Color")
		if err != nil || d != DecisionKeep {
			t.Errorf("got (%q, %v), want keep", d, err)
		}
	})

	t.Run("default_is_keep", func(t *testing.T) {
		asker := &fakeAsker{}
		d, err := PromptKeepOrReconfigure(context.Background(), asker, "Color")
		if err != nil || d != DecisionKeep {
			t.Fatalf("got (%q, %v), want keep", d, err)
		}
		if len(asker.asked) != 1 || asker.asked[0].Default != string(DecisionKeep) {
			t.Errorf("unexpected prompt: %+v", asker.asked)
		}
		if !strings.Contains(asker.asked[0].Message, "Color") {
			t.Errorf("message %q should name the step", asker.asked[0].Message)
		}
	})

	t.Run("reconfigure", func(t *testing.T) {
		asker := &fakeAsker{selects: []string{"reconfigure"}}
		d, err := PromptKeepOrReconfigure(context.Background(), asker, "Color")
		if err != nil || d != DecisionReconfigure {
			t.Errorf("got (%q, %v), want reconfigure", d, err)
		}
	})
}

func TestInjectBackOption(t *testing.T) {
	choices := []prompt.Choice{{Label: "Red", Value: "red"}, {Label: "Blue", Value: "blue"}}

	first := InjectBackOption(choices, true)
	if len(first) != 2 || IsBackSelected(first[0].Value) {
		t.Errorf("first step must not get a back option: %+v", first)
	}

	later := InjectBackOption(choices, false)
	if len(later) != 3 {
		t.Fatalf("len = %d, want 3", len(later))
	}
	if later[0].Value != BackValue {
		t.Errorf("back option must be first, got %q", later[0].Value)
	}
	if len(choices) != 2 {
		t.Error("input slice was modified")
	}

	if !IsBackSelected("red", BackValue) {
		t.Error("IsBackSelected should find the sentinel")
	}
	if IsBackSelected("red", "blue") {
		t.Error("IsBackSelected false positive")
	}
}

func TestShowStepProgress(t *testing.T) {
	ws := CreateWizardState(threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil))
	ws = ApplyNavigation(ws, NavNext, "alice")

	var buf bytes.Buffer
	ShowStepProgress(&buf, ws, true)
	out := buf.String()

	for _, want := range []string{"Step 2/3: Color", "(revisit)", "✓", "●", "○"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}

	buf.Reset()
	ShowStepProgress(&buf, ws, false)
	if strings.Contains(buf.String(), "revisit") {
		t.Error("revisit badge shown for a first visit")
	}

	// nil writer is a no-op
	ShowStepProgress(nil, ws, false)
}

func TestShowRunSummary(t *testing.T) {
	ws := CreateWizardState(threeStepConfig(&scripted{}, &scripted{}, &scripted{}, nil))
	start := ws.Metadata.StartTime
	name := mustStep(t, ws, "name")
	name = RecordStepHistory(name, "alice", NavNext, start.Add(time.Second))
	name = RecordStepHistory(name, "bob", NavNext, start.Add(5*time.Second))
	ws = ws.withStep(name)

	var buf bytes.Buffer
	ShowRunSummary(&buf, ws, start.Add(75*time.Second))
	if want := "Finished in 1m 15s, 1 step(s) revisited, 1 changed"; !strings.Contains(buf.String(), want) {
		t.Errorf("summary = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	ws.IsCancelled = true
	ShowRunSummary(&buf, ws, start.Add(9*time.Second))
	if !strings.Contains(buf.String(), "Cancelled after 9s") {
		t.Errorf("summary = %q", buf.String())
	}

	// nil writer is a no-op
	ShowRunSummary(nil, ws, start)
}
