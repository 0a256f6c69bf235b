package wizard

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
)

// SkipWhen compiles an expr-lang expression into a skip predicate. The
// expression sees the accumulated context, one variable per step id:
//
//	!("mcp" in categories)
//
// Syntax errors are returned immediately since they are assembly mistakes.
// Evaluation errors (for example a type mismatch on a value that is not set
// yet) are logged and treated as "do not skip".
func SkipWhen(expression string, logger *slog.Logger) (func(Context) bool, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("%w: empty skip expression", ErrInvalidConfig)
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: compile skip expression %q: %v", ErrInvalidConfig, expression, err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(c Context) bool {
		env := make(map[string]any, len(c))
		for k, v := range c {
			env[k] = v
		}
		out, err := expr.Run(program, env)
		if err != nil {
			logger.Warn("skip expression failed, not skipping", "expression", expression, "error", err)
			return false
		}
		skip, ok := out.(bool)
		return ok && skip
	}, nil
}

// MustSkipWhen is like SkipWhen but panics on a compile error. Intended for
// step lists assembled from literals.
func MustSkipWhen(expression string, logger *slog.Logger) func(Context) bool {
	fn, err := SkipWhen(expression, logger)
	if err != nil {
		panic(err)
	}
	return fn
}
