package cmd

import (
	"errors"
	"os"

	"pysel/src/internal/activation"
	"pysel/src/internal/engine"
	"pysel/src/internal/lsp"
	"pysel/src/internal/python"
	"pysel/src/internal/selector"
	"pysel/src/internal/venv"

	"github.com/pterm/pterm"
)

var (
	chooseQuery string
	chooseFirst bool
)

func newEngine(s settings, env activation.Env, picker selector.Picker) *engine.Engine {
	registry := lsp.NewRegistry(s.Servers)

	venvScanner := venv.NewScanner()
	venvScanner.MaxDepth = s.MaxDepth
	venvScanner.Skip = s.Skip

	applier := activation.NewApplier(env, lsp.Notifier{Registry: registry, Server: s.Server})
	if s.DefaultVar != "" {
		applier.InterpreterVar = s.DefaultVar
	}

	return &engine.Engine{
		Roots:   lsp.RootProvider{Registry: registry, Server: s.Server},
		Venv:    venvScanner,
		System:  python.NewScanner(),
		Picker:  picker,
		Applier: applier,
		SearchPath: func() string {
			v, _ := env.Lookup(applier.PathVar)
			return v
		},
		Cwd: os.Getwd,
	}
}

func selectedPicker() selector.Picker {
	switch {
	case chooseQuery != "":
		return selector.QueryPicker{Query: chooseQuery}
	case chooseFirst:
		return selector.FirstPicker{}
	default:
		return selector.InteractivePicker{}
	}
}

// report prints the outcome of a selection and reports whether an
// interpreter was activated.
func report(res activation.Result, err error) bool {
	var notifyErr *activation.NotifyError
	switch {
	case err == nil:
		pterm.Success.Println(res.Message())
		return true
	case errors.Is(err, selector.ErrNoInterpreters):
		pterm.Error.Println("No Python interpreters found in project venvs or system PATH")
		return false
	case errors.Is(err, selector.ErrSelectionCancelled):
		pterm.Warning.Println("No Python interpreter selected")
		return false
	case errors.As(err, &notifyErr):
		pterm.Warning.Printf("Language server was not updated: %v\n", err)
		pterm.Success.Println(res.Message())
		return true
	default:
		pterm.Error.Printf("Interpreter selection failed: %v\n", err)
		return false
	}
}
