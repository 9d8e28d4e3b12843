// Package engine runs one interpreter selection: resolve the project root,
// scan for interpreters, let the user pick and activate the choice.
package engine

import (
	"context"
	"errors"
	"fmt"

	"pysel/src/internal/activation"
	"pysel/src/internal/python"
	"pysel/src/internal/selector"
	"pysel/src/internal/telemetry"

	"github.com/sourcegraph/conc"
)

type RootProvider interface {
	ProjectRoot(ctx context.Context, cwd string) string
}

type VenvFinder interface {
	FindInterpreter(ctx context.Context, root string) (string, bool, error)
}

type SystemFinder interface {
	FindSystem(ctx context.Context, searchPath string) ([]string, error)
}

type Activator interface {
	Apply(ctx context.Context, sel python.Interpreter) (activation.Result, error)
}

type Engine struct {
	Roots      RootProvider
	Venv       VenvFinder
	System     SystemFinder
	Picker     selector.Picker
	Applier    Activator
	SearchPath func() string
	Cwd        func() (string, error)
}

// Discovery is the outcome of both scans.
type Discovery struct {
	Root         string
	Venv         string
	HasVenv      bool
	System       []string
	Interpreters []python.Interpreter
}

// Discover scans the project tree and the search path concurrently and
// returns the merged candidate list.
func (e *Engine) Discover(ctx context.Context) (Discovery, error) {
	cwd, err := e.Cwd()
	if err != nil {
		return Discovery{}, fmt.Errorf("resolve working directory: %w", err)
	}
	d := Discovery{Root: cwd}
	if e.Roots != nil {
		d.Root = e.Roots.ProjectRoot(ctx, cwd)
	}
	searchPath := e.SearchPath()

	done := telemetry.StartSpan("engine.discover", "root", d.Root)
	var venvErr, systemErr error
	var wg conc.WaitGroup
	wg.Go(func() {
		d.Venv, d.HasVenv, venvErr = e.Venv.FindInterpreter(ctx, d.Root)
	})
	wg.Go(func() {
		d.System, systemErr = e.System.FindSystem(ctx, searchPath)
	})
	wg.Wait()

	if err := errors.Join(venvErr, systemErr); err != nil {
		done("status", "error", "error", err.Error())
		return d, err
	}
	d.Interpreters = selector.Merge(d.Venv, d.HasVenv, d.System)
	done("status", "ok", "has_venv", d.HasVenv, "candidates", len(d.Interpreters))
	return d, nil
}

// SelectAndActivate discovers, asks the picker and applies the choice.
// selector.ErrNoInterpreters and selector.ErrSelectionCancelled come back
// before anything in the environment changed.
func (e *Engine) SelectAndActivate(ctx context.Context) (activation.Result, error) {
	d, err := e.Discover(ctx)
	if err != nil {
		return activation.Result{}, err
	}
	sel, err := selector.Select(ctx, d.Venv, d.HasVenv, d.System, e.Picker)
	if err != nil {
		return activation.Result{}, err
	}
	return e.Applier.Apply(ctx, sel)
}
