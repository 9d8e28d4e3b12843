package seldir

import (
	"os"
	"path/filepath"
	"runtime"
)

// Home is the per-user state directory for pysel.
func Home() (string, error) {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "pysel"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Local", "pysel"), nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pysel"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pysel"), nil
}

func MustHome() string {
	home, err := Home()
	if err != nil {
		return "pysel"
	}
	return home
}

func ConfigFile() string {
	return filepath.Join(MustHome(), "config.yaml")
}

func TraceDir() string {
	return filepath.Join(MustHome(), "traces")
}
