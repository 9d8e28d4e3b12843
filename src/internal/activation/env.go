package activation

import (
	"os"
	"sort"
	"strings"
)

// Env is the slice of the process environment activation touches.
type Env interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
	Unset(key string) error
}

// OSEnv reads and writes the real process environment.
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnv) Set(key, value string) error      { return os.Setenv(key, value) }
func (OSEnv) Unset(key string) error           { return os.Unsetenv(key) }

// MapEnv is an in-memory environment, used to build the environment of a
// child process and in tests. With FoldCase set, keys compare
// case-insensitively as they do on Windows.
type MapEnv struct {
	FoldCase bool
	vars     map[string]string
	names    map[string]string
}

func NewMapEnv(foldCase bool) *MapEnv {
	return &MapEnv{
		FoldCase: foldCase,
		vars:     map[string]string{},
		names:    map[string]string{},
	}
}

// MapEnvFrom seeds a MapEnv from KEY=VALUE pairs such as os.Environ().
func MapEnvFrom(environ []string, foldCase bool) *MapEnv {
	e := NewMapEnv(foldCase)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		_ = e.Set(key, value)
	}
	return e
}

func (e *MapEnv) norm(key string) string {
	if e.FoldCase {
		return strings.ToUpper(key)
	}
	return key
}

func (e *MapEnv) Lookup(key string) (string, bool) {
	v, ok := e.vars[e.norm(key)]
	return v, ok
}

func (e *MapEnv) Set(key, value string) error {
	k := e.norm(key)
	if _, exists := e.names[k]; !exists {
		e.names[k] = key
	}
	e.vars[k] = value
	return nil
}

func (e *MapEnv) Unset(key string) error {
	k := e.norm(key)
	delete(e.vars, k)
	delete(e.names, k)
	return nil
}

// Environ returns KEY=VALUE pairs sorted by key.
func (e *MapEnv) Environ() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.names[k]+"="+e.vars[k])
	}
	return out
}
