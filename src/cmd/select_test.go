package cmd

import (
	"context"
	"fmt"
	"os"
	"testing"

	"pysel/src/internal/activation"
	"pysel/src/internal/engine"
	"pysel/src/internal/platform"
	"pysel/src/internal/python"
	"pysel/src/internal/selector"
	"pysel/src/internal/venv"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVenvEngine(t *testing.T, picker selector.Picker) *engine.Engine {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj/.venv/bin", 0755))
	require.NoError(t, afero.WriteFile(fs, "/proj/.venv/bin/python", []byte("#!"), 0755))
	p := platform.For("linux")
	env := activation.MapEnvFrom([]string{"PATH=/usr/bin"}, false)
	applier := activation.NewApplier(env, nil)
	applier.Platform = p
	return &engine.Engine{
		Venv:    &venv.Scanner{FS: fs, Platform: p},
		System:  &python.Scanner{FS: fs, Platform: p},
		Picker:  picker,
		Applier: applier,
		SearchPath: func() string {
			v, _ := env.Lookup("PATH")
			return v
		},
		Cwd: func() (string, error) { return "/proj", nil },
	}
}

// tempFile stands in for a terminal stream.
func tempFile(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func readFile(t *testing.T, f *os.File) string {
	t.Helper()
	b, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return string(b)
}

func swapStdout(t *testing.T, f *os.File) {
	t.Helper()
	stdout := os.Stdout
	os.Stdout = f
	t.Cleanup(func() {
		os.Stdout = stdout
		pterm.SetDefaultOutput(stdout)
	})
}

// menuPicker draws on os.Stdout the way the interactive select does.
func menuPicker(cancel bool) selector.Picker {
	return selector.PickerFunc(func(_ context.Context, prompt string, candidates []python.Interpreter) (python.Interpreter, bool, error) {
		fmt.Fprintf(os.Stdout, "\x1b[96m%s\x1b[0m\n> %s\n", prompt, candidates[0].Label())
		if cancel {
			return python.Interpreter{}, false, nil
		}
		return candidates[0], true, nil
	})
}

func TestEmitWritesOnlyScriptToStdout(t *testing.T) {
	stdout := tempFile(t, "stdout")
	ui := tempFile(t, "ui")
	swapStdout(t, stdout)

	out := os.Stdout
	restore := redirectUI(ui)
	ok := emitSelection(context.Background(), newVenvEngine(t, menuPicker(false)), "sh", out)
	restore()

	require.True(t, ok)
	assert.Same(t, stdout, os.Stdout)
	assert.Equal(t, `export VIRTUAL_ENV='/proj/.venv'
export PATH='/proj/.venv/bin:/usr/bin'
export PYSEL_PYTHON='/proj/.venv/bin/python'
`, readFile(t, stdout))

	shown := readFile(t, ui)
	assert.Contains(t, shown, selector.Prompt)
	assert.Contains(t, shown, "[venv] /proj/.venv/bin/python")
	assert.Contains(t, shown, "Venv python selected: /proj/.venv")
}

func TestEmitCancelledLeavesStdoutEmpty(t *testing.T) {
	stdout := tempFile(t, "stdout")
	ui := tempFile(t, "ui")
	swapStdout(t, stdout)

	out := os.Stdout
	restore := redirectUI(ui)
	ok := emitSelection(context.Background(), newVenvEngine(t, menuPicker(true)), "fish", out)
	restore()

	assert.False(t, ok)
	assert.Empty(t, readFile(t, stdout))
	assert.Contains(t, readFile(t, ui), "No Python interpreter selected")
}
