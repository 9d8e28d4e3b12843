package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const FileName = ".pysel.toml"

// Config is the optional per-project settings file. Zero values mean "not
// set" so the global configuration applies.
type Config struct {
	Scan ScanConfig `toml:"scan"`
	LSP  LSPConfig  `toml:"lsp"`
	Env  EnvConfig  `toml:"env"`
}

type ScanConfig struct {
	MaxDepth int      `toml:"max_depth"`
	Skip     []string `toml:"skip"`
}

type LSPConfig struct {
	Server string `toml:"server"`
}

type EnvConfig struct {
	DefaultVar string `toml:"default_var"`
}

// Load reads .pysel.toml from projectDir. A missing file is not an error;
// found reports whether one was read.
func Load(projectDir string) (cfg Config, found bool, err error) {
	path := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Config{}, false, nil
	}
	cfg, err = LoadFile(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

func LoadFile(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
