package activation

import (
	"context"
	"fmt"

	"pysel/src/internal/platform"
	"pysel/src/internal/python"
	"pysel/src/internal/telemetry"
	"pysel/src/internal/venv"
)

const (
	DefaultVirtualEnvVar  = "VIRTUAL_ENV"
	DefaultPathVar        = "PATH"
	DefaultInterpreterVar = "PYSEL_PYTHON"
)

// Notifier is told about the new interpreter after the environment changed.
type Notifier interface {
	InterpreterChanged(ctx context.Context, interpreter string) error
}

// Change is one environment mutation made by Apply.
type Change struct {
	Key   string
	Value string
	Unset bool
}

// NotifyError is returned when the environment was updated but the language
// server could not be told.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return "notify language server: " + e.Err.Error()
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// Result describes a completed activation.
type Result struct {
	Selected python.Interpreter
	VenvRoot string
	Changes  []Change
}

func (r Result) HasVenv() bool {
	return r.VenvRoot != ""
}

// Message is the user-facing confirmation.
func (r Result) Message() string {
	if r.HasVenv() {
		return "Venv python selected: " + r.VenvRoot
	}
	return "System Python selected: " + r.Selected.Path
}

// Applier makes a selected interpreter current.
type Applier struct {
	Env      Env
	Platform platform.Platform
	Notifier Notifier

	VirtualEnvVar  string
	PathVar        string
	InterpreterVar string
}

func NewApplier(env Env, notifier Notifier) *Applier {
	return &Applier{
		Env:            env,
		Platform:       platform.Current(),
		Notifier:       notifier,
		VirtualEnvVar:  DefaultVirtualEnvVar,
		PathVar:        DefaultPathVar,
		InterpreterVar: DefaultInterpreterVar,
	}
}

// VenvRoot is the venv owning sel, or "" for a system interpreter.
func (a *Applier) VenvRoot(sel python.Interpreter) string {
	if sel.Kind != python.KindVenv {
		return ""
	}
	return venv.Root(a.Platform, sel.Path)
}

// Apply sets the virtual-env marker, prepends the venv bin directory to the
// search path when sel is a venv interpreter, records sel as the default
// interpreter and notifies the language server, in that order. A notifier
// failure is returned with the already applied Result.
func (a *Applier) Apply(ctx context.Context, sel python.Interpreter) (res Result, retErr error) {
	done := telemetry.StartSpan("activation.apply", "path", sel.Path, "kind", sel.Kind.String())
	defer func() {
		fields := []any{"status", "ok", "venv_root", res.VenvRoot}
		if retErr != nil {
			fields[1] = "error"
			fields = append(fields, "error", retErr.Error())
		}
		done(fields...)
	}()

	res = Result{Selected: sel, VenvRoot: a.VenvRoot(sel)}

	if res.HasVenv() {
		if err := a.set(&res, a.VirtualEnvVar, res.VenvRoot); err != nil {
			return res, err
		}
		current, _ := a.Env.Lookup(a.PathVar)
		binDir := venv.BinDir(a.Platform, sel.Path)
		if err := a.set(&res, a.PathVar, a.Platform.PrependList(current, binDir)); err != nil {
			return res, err
		}
	} else {
		if err := a.Env.Unset(a.VirtualEnvVar); err != nil {
			return res, fmt.Errorf("unset %s: %w", a.VirtualEnvVar, err)
		}
		res.Changes = append(res.Changes, Change{Key: a.VirtualEnvVar, Unset: true})
	}

	if err := a.set(&res, a.InterpreterVar, sel.Path); err != nil {
		return res, err
	}

	if a.Notifier != nil {
		if err := a.Notifier.InterpreterChanged(ctx, sel.Path); err != nil {
			return res, &NotifyError{Err: err}
		}
	}
	return res, nil
}

func (a *Applier) set(res *Result, key, value string) error {
	if err := a.Env.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	res.Changes = append(res.Changes, Change{Key: key, Value: value})
	return nil
}
