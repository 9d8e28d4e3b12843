// Package platform centralizes the path and search-path conventions of the
// host OS so that scanners and the activation step never branch on GOOS.
package platform

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	posixBinDir   = "bin"
	windowsBinDir = "Scripts"
)

// Platform holds the separators and layout names for one OS family.
type Platform struct {
	OS               string
	PathSeparator    string
	ListSeparator    string
	ExecutableSuffix string
	VenvBinDir       string
}

var current = For(runtime.GOOS)

// Current returns the platform of the running process.
func Current() Platform {
	return current
}

// For returns the platform conventions for goos.
func For(goos string) Platform {
	if goos == "windows" {
		return Platform{
			OS:               goos,
			PathSeparator:    `\`,
			ListSeparator:    ";",
			ExecutableSuffix: ".exe",
			VenvBinDir:       windowsBinDir,
		}
	}
	return Platform{
		OS:               goos,
		PathSeparator:    "/",
		ListSeparator:    ":",
		ExecutableSuffix: "",
		VenvBinDir:       posixBinDir,
	}
}

func (p Platform) Windows() bool {
	return p.OS == "windows"
}

func (p Platform) native() bool {
	return p.PathSeparator == string(os.PathSeparator)
}

func (p Platform) toSlash(s string) string {
	if p.PathSeparator == "/" {
		return s
	}
	return strings.ReplaceAll(s, p.PathSeparator, "/")
}

func (p Platform) fromSlash(s string) string {
	if p.PathSeparator == "/" {
		return s
	}
	return strings.ReplaceAll(s, "/", p.PathSeparator)
}

// Join joins path elements with the platform separator and cleans the result.
func (p Platform) Join(elem ...string) string {
	if p.native() {
		return filepath.Join(elem...)
	}
	parts := make([]string, len(elem))
	for i, e := range elem {
		parts[i] = p.toSlash(e)
	}
	return p.fromSlash(path.Join(parts...))
}

// Dir returns all but the last element of name.
func (p Platform) Dir(name string) string {
	if p.native() {
		return filepath.Dir(name)
	}
	return p.fromSlash(path.Dir(p.toSlash(name)))
}

// SplitList splits a search-path value, dropping empty entries.
func (p Platform) SplitList(list string) []string {
	if list == "" {
		return nil
	}
	raw := strings.Split(list, p.ListSeparator)
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		if entry == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// PrependList puts dir in front of list.
func (p Platform) PrependList(list, dir string) string {
	if list == "" {
		return dir
	}
	return dir + p.ListSeparator + list
}

// InterpreterName is the bare interpreter file name on this platform.
func (p Platform) InterpreterName() string {
	return "python" + p.ExecutableSuffix
}

// VenvInterpreterRels lists the interpreter locations relative to a venv root,
// native layout first. Both layouts are always probed.
func (p Platform) VenvInterpreterRels() [][]string {
	posix := []string{posixBinDir, "python"}
	windows := []string{windowsBinDir, "python.exe"}
	if p.Windows() {
		return [][]string{windows, posix}
	}
	return [][]string{posix, windows}
}
