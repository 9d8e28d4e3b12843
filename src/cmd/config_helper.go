package cmd

import (
	"fmt"

	"pysel/src/internal/lsp"
	"pysel/src/internal/project"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings is the effective configuration for one invocation.
type settings struct {
	MaxDepth   int
	Skip       []string
	Server     string
	Servers    map[string]lsp.Server
	DefaultVar string
}

// loadSettings resolves configuration for the project in wd.
// Resolution order, later wins:
// 1. Global config (~/.config/pysel/config.yaml) and PYSEL_* env vars
// 2. .pysel.toml in wd
// 3. Command-line flags
func loadSettings(cmd *cobra.Command, v *viper.Viper, wd string) (settings, error) {
	s := settings{
		MaxDepth:   v.GetInt("scan.max_depth"),
		Skip:       v.GetStringSlice("scan.skip"),
		Server:     v.GetString("lsp.server"),
		DefaultVar: v.GetString("env.default_var"),
		Servers:    map[string]lsp.Server{},
	}
	if err := v.UnmarshalKey("lsp.servers", &s.Servers); err != nil {
		return s, fmt.Errorf("parse lsp.servers: %w", err)
	}

	proj, _, err := project.Load(wd)
	if err != nil {
		return s, fmt.Errorf("read %s: %w", project.FileName, err)
	}
	if proj.Scan.MaxDepth != 0 {
		s.MaxDepth = proj.Scan.MaxDepth
	}
	if len(proj.Scan.Skip) > 0 {
		s.Skip = proj.Scan.Skip
	}
	if proj.LSP.Server != "" {
		s.Server = proj.LSP.Server
	}
	if proj.Env.DefaultVar != "" {
		s.DefaultVar = proj.Env.DefaultVar
	}

	if f := cmd.Flag("max-depth"); f != nil && f.Changed {
		s.MaxDepth = maxDepth
	}
	if f := cmd.Flag("server"); f != nil && f.Changed {
		s.Server = serverArg
	}
	if s.MaxDepth < 0 {
		return s, fmt.Errorf("max depth must not be negative, got %d", s.MaxDepth)
	}
	return s, nil
}
