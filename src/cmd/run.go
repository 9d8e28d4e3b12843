package cmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"pysel/src/internal/activation"
	"pysel/src/internal/platform"
	"pysel/src/internal/python"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exitCode is the status Execute exits with once cobra has finished,
// so PersistentPostRun still closes the trace.
var exitCode int

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Select an interpreter and run a command with it activated",
	Long: `Select an interpreter like select does, then run the command with
VIRTUAL_ENV, PATH and PYSEL_PYTHON set accordingly. A bare python command
(python.exe on Windows) runs the selected interpreter. Everything after --
belongs to the command:

  pysel run --first -- python -c "import sys; print(sys.prefix)"`,
	Args: requireDash,
	Run: func(cmd *cobra.Command, args []string) {
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

		// 1. Activate into a copy of the environment
		p := platform.Current()
		env := activation.MapEnvFrom(os.Environ(), p.Windows())
		res, err := newEngine(s, env, selectedPicker()).SelectAndActivate(cmd.Context())
		if !report(res, err) {
			return
		}

		// 2. Execute command
		commandName := args[0]
		if commandName == "python" || commandName == p.InterpreterName() {
			commandName = res.Selected.Path
		} else {
			commandName = lookPathIn(commandName, env)
		}
		code, err := runChild(cmd.Context(), commandName, args[1:], env.Environ())
		if err != nil {
			pterm.Error.Printf("Failed to run command: %v\n", err)
		}
		exitCode = code
	},
}

// requireDash keeps pysel's own flags apart from the command's: without the
// separator, `pysel run python -c ...` would read -c as --choose.
func requireDash(cmd *cobra.Command, args []string) error {
	if cmd.ArgsLenAtDash() != 0 {
		return errors.New("put the command after --, e.g. pysel run -- python -V")
	}
	return cobra.MinimumNArgs(1)(cmd, args)
}

// runChild runs name with env on the terminal and returns its exit code.
// err is only set when the process could not be started.
func runChild(ctx context.Context, name string, args, env []string) (int, error) {
	c := exec.CommandContext(ctx, name, args...)
	c.Env = env
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return exitError.ExitCode(), nil
		}
		return 1, err
	}
	return 0, nil
}

// lookPathIn resolves a bare command against the PATH of env rather than the
// PATH pysel itself was started with.
func lookPathIn(name string, env activation.Env) string {
	if strings.ContainsAny(name, `/\`) {
		return name
	}
	p := platform.Current()
	candidates := []string{name}
	if p.ExecutableSuffix != "" {
		candidates = []string{name + p.ExecutableSuffix, name}
	}
	scanner := python.NewScanner()
	searchPath, _ := env.Lookup(activation.DefaultPathVar)
	for _, dir := range p.SplitList(searchPath) {
		for _, c := range candidates {
			if full := p.Join(dir, c); scanner.IsExecutable(full) {
				return full
			}
		}
	}
	return name
}

func init() {
	runCmd.Flags().StringVarP(&chooseQuery, "choose", "c", "", "pick the best fuzzy match for `query` instead of prompting")
	runCmd.Flags().BoolVarP(&chooseFirst, "first", "f", false, "pick the first candidate (the venv interpreter when there is one)")
	rootCmd.AddCommand(runCmd)
}
