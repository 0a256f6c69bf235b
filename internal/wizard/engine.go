package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/modu-ai/ccscaffold/internal/prompt"
)

// Engine drives a wizard run over a fixed, ordered list of steps.
type Engine struct {
	cfg    Config
	steps  map[string]Step
	logger *slog.Logger
	clock  func() time.Time
}

// New validates cfg and returns an Engine for it. Assembly mistakes are
// reported here, wrapped in ErrInvalidConfig and naming the offending step.
func New(cfg Config) (*Engine, error) {
	if len(cfg.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps configured", ErrInvalidConfig)
	}

	steps := make(map[string]Step, len(cfg.Steps))
	for i, s := range cfg.Steps {
		id := s.Metadata.ID
		if id == "" {
			return nil, fmt.Errorf("%w: step %d has an empty id", ErrInvalidConfig, i)
		}
		if _, dup := steps[id]; dup {
			return nil, fmt.Errorf("%w: duplicate step id %q", ErrInvalidConfig, id)
		}
		if s.Execute == nil {
			return nil, fmt.Errorf("%w: step %q has no executor", ErrInvalidConfig, id)
		}
		steps[id] = s
	}
	for _, s := range cfg.Steps {
		for _, dep := range s.Metadata.DependsOn {
			if _, ok := steps[dep]; !ok {
				return nil, fmt.Errorf("%w: step %q depends on unknown step %q", ErrInvalidConfig, s.Metadata.ID, dep)
			}
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	cfg.Clock = clock

	return &Engine{cfg: cfg, steps: steps, logger: logger, clock: clock}, nil
}

// CreateWizardState builds the initial state for cfg: one pending StepState
// per step, the first one current.
func CreateWizardState(cfg Config) WizardState {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}

	ws := WizardState{
		Steps:     make(map[string]StepState, len(cfg.Steps)),
		StepOrder: make([]string, 0, len(cfg.Steps)),
		Metadata: WizardMetadata{
			ID:           id,
			Title:        cfg.Title,
			TotalSteps:   len(cfg.Steps),
			StartTime:    clock(),
			AllowSkip:    cfg.AllowSkip,
			ShowProgress: cfg.ShowProgress,
		},
	}
	for i, s := range cfg.Steps {
		st := CreateStepState(s.Metadata, i)
		if i == 0 {
			st = UpdateStepStatus(st, StatusCurrent)
			ws.CurrentStepID = st.Metadata.ID
		}
		ws.Steps[st.Metadata.ID] = st
		ws.StepOrder = append(ws.StepOrder, st.Metadata.ID)
	}
	return ws
}

// Run validates cfg and runs the wizard from its initial state.
func Run(ctx context.Context, cfg Config, initial Context) (*Result, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, initial)
}

// Run executes the wizard from a fresh state.
func (e *Engine) Run(ctx context.Context, initial Context) (*Result, error) {
	return e.RunFrom(ctx, CreateWizardState(e.cfg), initial)
}

// @MX:ANCHOR: [AUTO] RunFrom is the wizard reducer loop; every flow funnels through it
// @MX:REASON: [AUTO] fan_in=2, called from engine.go (Engine.Run), engine_test.go
// RunFrom executes the wizard starting at ws. The loop ends when the state
// becomes complete or cancelled. Cancellation is reported through
// Result.Cancelled; the returned error is reserved for configuration and
// executor failures.
func (e *Engine) RunFrom(ctx context.Context, ws WizardState, initial Context) (*Result, error) {
	wctx := Context{}
	maps.Copy(wctx, initial)

	// Set when the user moves forward out of a step re-entered after a back
	// navigation; cleared by every back navigation.
	movingForwardAfterBack := false
	// Set while the user is walking backwards, so steps skipped by their
	// predicate are stepped over in the same direction.
	arrivedByBack := false

	for !ws.Done() {
		if err := ctx.Err(); err != nil {
			e.logger.Debug("wizard context done, cancelling", "step", ws.CurrentStepID, "error", err)
			ws = NavigateAway(ws, NavCancel)
			break
		}

		id := ws.CurrentStepID
		step, ok := e.steps[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrStepNotFound, id)
		}
		st, ok := ws.Steps[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no state", ErrStepNotFound, id)
		}

		if ShouldSkipStep(step, wctx) {
			e.logger.Debug("wizard step skipped by predicate", "step", id, "backwards", arrivedByBack)
			if arrivedByBack && ws.IndexOf(id) > 0 {
				ws = NavigateAway(ws, NavBack)
				continue
			}
			arrivedByBack = false
			ws = NavigateAway(ws, NavSkip)
			continue
		}

		isRevisit := HasBeenVisited(st)

		if wasStepCompleted(st) && movingForwardAfterBack {
			decision, err := PromptKeepOrReconfigure(ctx, e.cfg.Asker, st.Metadata.Name)
			if err != nil {
				if prompt.IsCancelled(err) {
					ws = NavigateAway(ws, NavCancel)
					continue
				}
				return nil, fmt.Errorf("wizard: keep or reconfigure %q: %w", id, err)
			}
			if decision == DecisionKeep {
				kept, _ := GetLastValue(st)
				e.logger.Debug("wizard step kept", "step", id)
				ws = ApplyNavigation(ws, NavNext, kept)
				continue
			}
		}

		if e.cfg.ShowProgress {
			ShowStepProgress(e.cfg.Output, ws, isRevisit)
		}

		in := StepInput{
			Context:  wctx,
			Defaults: e.defaultsFor(step, st, wctx),
			IsFirst:  ws.IndexOf(id) == 0,
		}
		outcome, err := e.executeStep(ctx, step, in)
		if err != nil {
			return nil, err
		}
		nav := outcome.Navigation
		e.logger.Debug("wizard step finished", "step", id, "navigation", nav, "revisit", isRevisit)

		if nav != NavBack && nav != NavCancel {
			wctx = wctx.With(id, outcome.Value)
			ws = ws.withStep(RecordStepHistory(st, outcome.Value, nav, e.clock()))
		}

		arrivedByBack = nav == NavBack
		switch nav {
		case NavBack:
			movingForwardAfterBack = false
		case NavNext:
			movingForwardAfterBack = isRevisit || movingForwardAfterBack
		}

		if nav == NavBack || nav == NavCancel {
			ws = NavigateAway(ws, nav)
		} else {
			ws = ApplyNavigation(ws, nav, outcome.Value)
		}
	}

	now := e.clock()
	e.logger.Debug("wizard finished",
		"cancelled", ws.IsCancelled,
		"duration", FormatDuration(GetWizardDuration(ws, now)),
		"visits", GetTotalVisits(ws),
		"completed", GetCompletedStepsCount(ws),
		"revisited", GetRevisitedSteps(ws),
		"modified", GetModifiedSteps(ws),
	)
	if e.cfg.ShowProgress {
		ShowRunSummary(e.cfg.Output, ws, now)
	}
	return buildResult(ws), nil
}

// defaultsFor prefers the step's last recorded value and falls back to the
// step's own default computation.
func (e *Engine) defaultsFor(step Step, st StepState, wctx Context) any {
	if v, ok := GetLastValue(st); ok {
		return v
	}
	if step.ComputeDefaults != nil {
		return step.ComputeDefaults(wctx)
	}
	return nil
}

// executeStep runs a step until it yields an acceptable outcome. Validation
// failures and refused skips re-prompt the same step.
func (e *Engine) executeStep(ctx context.Context, step Step, in StepInput) (StepOutcome, error) {
	id := step.Metadata.ID
	for attempt := 1; ; attempt++ {
		in.Attempt = attempt

		out, err := step.Execute(ctx, in)
		if err != nil {
			if prompt.IsCancelled(err) {
				return StepOutcome{Navigation: NavCancel}, nil
			}
			return StepOutcome{}, fmt.Errorf("wizard: step %q: %w", id, err)
		}

		switch out.Navigation {
		case "":
			out.Navigation = NavNext
		case NavNext, NavBack, NavCancel:
		case NavSkip:
			if step.Metadata.Required || !e.cfg.AllowSkip {
				in.Error = fmt.Sprintf("%s cannot be skipped", step.Metadata.Name)
				e.logger.Debug("wizard skip refused", "step", id)
				continue
			}
			return out, nil
		default:
			return StepOutcome{}, fmt.Errorf("%w: step %q returned navigation %q", ErrInvalidConfig, id, out.Navigation)
		}

		if out.Navigation == NavNext {
			if verr := validationError(step, out.Value); verr != nil {
				if errors.Is(verr, ErrValueType) {
					return StepOutcome{}, verr
				}
				in.Error = verr.Error()
				e.logger.Debug("wizard step validation failed", "step", id, "attempt", attempt, "error", verr)
				continue
			}
		}
		return out, nil
	}
}

func buildResult(ws WizardState) *Result {
	values := make(map[string]any)
	for _, id := range ws.StepOrder {
		if st := ws.Steps[id]; st.HasValue {
			values[id] = st.Value
		}
	}
	return &Result{
		Values:    values,
		State:     ws,
		Cancelled: ws.IsCancelled,
	}
}
