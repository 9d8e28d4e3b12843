package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"pysel/src/internal/project"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveProjectConfig writes cfg as a .pysel.toml fixture at path.
func saveProjectConfig(path string, cfg project.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(selectCmd, newTestViper(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, s.MaxDepth)
	assert.Empty(t, s.Server)
	assert.Equal(t, "PYSEL_PYTHON", s.DefaultVar)
	assert.Empty(t, s.Servers)
}

func TestLoadSettingsServersFromGlobalConfig(t *testing.T) {
	v := newTestViper()
	v.Set("lsp.server", "pyright")
	v.Set("lsp.servers", map[string]any{
		"pyright": map[string]any{
			"address":      "unix:/run/user/1000/pyright.sock",
			"root_markers": []string{"pyproject.toml"},
		},
	})

	s, err := loadSettings(selectCmd, v, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "pyright", s.Server)
	require.Contains(t, s.Servers, "pyright")
	assert.Equal(t, "unix:/run/user/1000/pyright.sock", s.Servers["pyright"].Address)
	assert.Equal(t, []string{"pyproject.toml"}, s.Servers["pyright"].RootMarkers)
}

func TestLoadSettingsProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, saveProjectConfig(filepath.Join(dir, project.FileName), project.Config{
		Scan: project.ScanConfig{MaxDepth: 3, Skip: []string{"node_modules"}},
		LSP:  project.LSPConfig{Server: "pylsp"},
	}))
	v := newTestViper()
	v.Set("scan.max_depth", 9)
	v.Set("lsp.server", "pyright")

	s, err := loadSettings(selectCmd, v, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, s.MaxDepth)
	assert.Equal(t, []string{"node_modules"}, s.Skip)
	assert.Equal(t, "pylsp", s.Server)
}

func TestLoadSettingsFlagOverridesProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, saveProjectConfig(filepath.Join(dir, project.FileName), project.Config{
		Scan: project.ScanConfig{MaxDepth: 3},
	}))
	flag := rootCmd.PersistentFlags().Lookup("max-depth")
	require.NoError(t, rootCmd.PersistentFlags().Set("max-depth", "5"))
	t.Cleanup(func() {
		maxDepth = 0
		flag.Changed = false
	})

	s, err := loadSettings(selectCmd, newTestViper(), dir)
	require.NoError(t, err)
	assert.Equal(t, 5, s.MaxDepth)
}

func TestLoadSettingsBrokenProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.FileName), []byte("[scan"), 0644))

	_, err := loadSettings(selectCmd, newTestViper(), dir)
	assert.Error(t, err)
}
