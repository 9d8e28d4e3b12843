package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"pysel/src/internal/activation"
	"pysel/src/internal/seldir"
	"pysel/src/internal/telemetry"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	traceDir  string
	maxDepth  int
	serverArg string
)

var rootCmd = &cobra.Command{
	Use:   "pysel",
	Short: "pysel selects the Python interpreter for the current project",
	Long: `pysel finds the virtual environment of the current project and the
python executables on PATH, lets you pick one and activates it: VIRTUAL_ENV and
PATH are updated and the configured language server is told about the new
interpreter.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if traceDir == "" {
			return
		}
		info, err := telemetry.Start(traceDir)
		if err != nil {
			pterm.Warning.Printf("Tracing disabled: %v\n", err)
			return
		}
		telemetry.Event("command.start", "command", cmd.CommandPath())
		pterm.Debug.Printf("Writing trace to %s\n", info.LogPath)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if _, err := telemetry.Stop(); err != nil {
			pterm.Warning.Printf("Failed to close trace: %v\n", err)
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		stop()
		os.Exit(1)
	}
	if exitCode != 0 {
		stop()
		os.Exit(exitCode)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is "+seldir.ConfigFile()+")")
	flags.StringVar(&traceDir, "trace", "", "write a JSON trace of this run to `dir`")
	flags.Lookup("trace").NoOptDefVal = seldir.TraceDir()
	flags.IntVar(&maxDepth, "max-depth", 0, "how many directory levels below the project root to search for a venv (0 = unlimited)")
	flags.StringVar(&serverArg, "server", "", "name of the configured language server to notify")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.max_depth", 0)
	v.SetDefault("scan.skip", []string{})
	v.SetDefault("lsp.server", "")
	v.SetDefault("env.default_var", activation.DefaultInterpreterVar)
}

func initConfig() {
	setDefaults(viper.GetViper())
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(seldir.MustHome())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PYSEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			pterm.Warning.Printf("Ignoring config: %v\n", err)
		}
	}
}
