package cmd

import (
	"os"

	"pysel/src/internal/activation"
	"pysel/src/internal/platform"
	"pysel/src/internal/python"
	"pysel/src/internal/venv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the interpreters select would offer",
	Args:  cobra.NoArgs,
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

		eng := newEngine(s, activation.OSEnv{}, nil)
		d, err := eng.Discover(cmd.Context())
		if err != nil {
			pterm.Error.Printf("Discovery failed: %v\n", err)
			return
		}
		if len(d.Interpreters) == 0 {
			pterm.Error.Println("No Python interpreters found in project venvs or system PATH")
			return
		}

		active, _ := os.LookupEnv(s.DefaultVar)
		pterm.Info.Printf("Project root: %s\n", d.Root)
		if err := pterm.DefaultTable.WithHasHeader().WithData(interpreterTable(d.Interpreters, active)).Render(); err != nil {
			pterm.Error.Printf("Failed to render table: %v\n", err)
		}
	},
}

func interpreterTable(interpreters []python.Interpreter, active string) pterm.TableData {
	p := platform.Current()
	current := python.System(active)
	data := pterm.TableData{{"", "Kind", "Interpreter", "Venv root"}}
	for _, i := range interpreters {
		mark := ""
		if i.Equal(current) {
			mark = "*"
		}
		root := ""
		if i.Kind == python.KindVenv {
			root = venv.Root(p, i.Path)
		}
		data = append(data, []string{mark, i.Kind.String(), i.Path, root})
	}
	return data
}

func init() {
	rootCmd.AddCommand(listCmd)
}
