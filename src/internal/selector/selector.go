package selector

import (
	"context"
	"errors"
	"fmt"

	"pysel/src/internal/python"
	"pysel/src/internal/telemetry"
)

// Prompt is shown above the candidate list.
const Prompt = "Select Python interpreter"

var (
	// ErrNoInterpreters means neither scan found anything; the picker is
	// never shown in that case.
	ErrNoInterpreters = errors.New("no Python interpreters found in project venvs or system PATH")
	// ErrSelectionCancelled means the user dismissed the picker.
	ErrSelectionCancelled = errors.New("no Python interpreter selected")
)

// Picker asks the user to choose one of candidates. ok is false when the
// user cancelled.
type Picker interface {
	Pick(ctx context.Context, prompt string, candidates []python.Interpreter) (chosen python.Interpreter, ok bool, err error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context, prompt string, candidates []python.Interpreter) (python.Interpreter, bool, error)

func (f PickerFunc) Pick(ctx context.Context, prompt string, candidates []python.Interpreter) (python.Interpreter, bool, error) {
	return f(ctx, prompt, candidates)
}

// Merge builds the candidate list: the venv interpreter first when present,
// then system interpreters in scan order, skipping repeated paths.
func Merge(venv string, hasVenv bool, system []string) []python.Interpreter {
	out := make([]python.Interpreter, 0, len(system)+1)
	seen := make(map[string]struct{}, len(system)+1)
	if hasVenv {
		out = append(out, python.Venv(venv))
		seen[venv] = struct{}{}
	}
	for _, p := range system {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, python.System(p))
	}
	return out
}

// Choose hands candidates to picker. An empty list yields ErrNoInterpreters
// without calling picker, a cancelled pick yields ErrSelectionCancelled.
func Choose(ctx context.Context, candidates []python.Interpreter, picker Picker) (python.Interpreter, error) {
	if len(candidates) == 0 {
		telemetry.Event("selector.empty")
		return python.Interpreter{}, ErrNoInterpreters
	}
	done := telemetry.StartSpan("selector.pick", "candidates", len(candidates))
	chosen, ok, err := picker.Pick(ctx, Prompt, candidates)
	if err != nil {
		done("status", "error", "error", err.Error())
		return python.Interpreter{}, fmt.Errorf("pick interpreter: %w", err)
	}
	if !ok {
		done("status", "cancelled")
		return python.Interpreter{}, ErrSelectionCancelled
	}
	done("status", "ok", "path", chosen.Path, "kind", chosen.Kind.String())
	return chosen, nil
}

// Select merges the two scan results and lets picker choose.
func Select(ctx context.Context, venv string, hasVenv bool, system []string, picker Picker) (python.Interpreter, error) {
	return Choose(ctx, Merge(venv, hasVenv, system), picker)
}
