package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"pysel/src/internal/activation"
	"pysel/src/internal/engine"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var emitShell string

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick the Python interpreter for this project and activate it",
	Long: `Search the project for a virtual environment and PATH for python
executables, then pick one. The choice is applied to VIRTUAL_ENV, PATH and
PYSEL_PYTHON and sent to the configured language server.

A child process cannot change its parent shell, so use --emit to print the
changes for your shell:

  eval "$(pysel select --emit sh)"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// stdout carries the script, resolve it before the UI is moved
		out := cmd.OutOrStdout()
		if emitShell != "" {
			defer redirectUI(os.Stderr)()
			if !validShell(emitShell) {
				pterm.Error.Printf("Unsupported shell %q, use one of %v\n", emitShell, shells)
				return
			}
		}

		wd, err := os.Getwd()
		if err != nil {
			pterm.Error.Printf("Failed to resolve working directory: %v\n", err)
			return
		}
		s, err := loadSettings(cmd, viper.GetViper(), wd)
		if err != nil {
			pterm.Error.Printf("Failed to load settings: %v\n", err)
			return
		}

		eng := newEngine(s, activation.OSEnv{}, selectedPicker())
		if emitShell == "" {
			report(eng.SelectAndActivate(cmd.Context()))
			return
		}
		emitSelection(cmd.Context(), eng, emitShell, out)
	},
}

// redirectUI points pterm and os.Stdout at ui until the returned func runs.
// The interactive select draws through a cursor area bound to os.Stdout, not
// through pterm's default output.
func redirectUI(ui *os.File) (restore func()) {
	stdout := os.Stdout
	os.Stdout = ui
	pterm.SetDefaultOutput(ui)
	return func() {
		os.Stdout = stdout
		pterm.SetDefaultOutput(stdout)
	}
}

// emitSelection runs the selection and writes the export script for shell to
// out. Nothing else is written to out.
func emitSelection(ctx context.Context, eng *engine.Engine, shell string, out io.Writer) bool {
	res, err := eng.SelectAndActivate(ctx)
	if !report(res, err) {
		return false
	}
	script, err := renderExports(shell, res.Changes)
	if err != nil {
		pterm.Error.Println(err)
		return false
	}
	fmt.Fprint(out, script)
	return true
}

func init() {
	selectCmd.Flags().StringVarP(&chooseQuery, "choose", "c", "", "pick the best fuzzy match for `query` instead of prompting")
	selectCmd.Flags().BoolVarP(&chooseFirst, "first", "f", false, "pick the first candidate (the venv interpreter when there is one)")
	selectCmd.Flags().StringVarP(&emitShell, "emit", "e", "", "print the environment changes as a script for `shell` (sh, fish, powershell, cmd)")
	rootCmd.AddCommand(selectCmd)
}
