package wizard

import (
	"context"
	"fmt"
)

// TypedInput is the typed counterpart of StepInput.
type TypedInput[T any] struct {
	Context  Context
	Defaults T
	IsFirst  bool
	Attempt  int
	Error    string
}

// TypedStepFuncs are the typed hooks of a step producing values of type T.
type TypedStepFuncs[T any] struct {
	Defaults func(Context) T
	Execute  func(ctx context.Context, in TypedInput[T]) (T, Navigation, error)
	Skip     func(Context) bool
	Validate func(T) error
}

// TypedStep adapts typed hooks to a Step. Values crossing into the engine
// are checked against T when they are validated, so a wrongly typed value
// never reaches the context.
func TypedStep[T any](meta StepMetadata, fns TypedStepFuncs[T]) Step {
	step := Step{
		Metadata: meta,
		Skip:     fns.Skip,
	}

	if fns.Defaults != nil {
		step.ComputeDefaults = func(c Context) any { return fns.Defaults(c) }
	}

	if fns.Execute != nil {
		step.Execute = func(ctx context.Context, in StepInput) (StepOutcome, error) {
			var defaults T
			if in.Defaults != nil {
				d, ok := in.Defaults.(T)
				if !ok {
					return StepOutcome{}, fmt.Errorf("%w: step %q defaults are %T", ErrValueType, meta.ID, in.Defaults)
				}
				defaults = d
			}
			v, nav, err := fns.Execute(ctx, TypedInput[T]{
				Context:  in.Context,
				Defaults: defaults,
				IsFirst:  in.IsFirst,
				Attempt:  in.Attempt,
				Error:    in.Error,
			})
			if err != nil {
				return StepOutcome{}, err
			}
			return StepOutcome{Value: v, Navigation: nav}, nil
		}
	}

	step.Validate = func(v any) error {
		tv, ok := v.(T)
		if !ok {
			return fmt.Errorf("%w: step %q produced %T", ErrValueType, meta.ID, v)
		}
		if fns.Validate != nil {
			return fns.Validate(tv)
		}
		return nil
	}

	return step
}
