package lsp

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"pysel/src/internal/telemetry"

	"github.com/spf13/afero"
)

const DefaultDialTimeout = 500 * time.Millisecond

// Server is a language server pysel can reach.
type Server struct {
	Name string `mapstructure:"name"`
	// Address is unix:/path/to.sock, tcp:host:port or host:port.
	Address     string   `mapstructure:"address"`
	RootDir     string   `mapstructure:"root_dir"`
	RootMarkers []string `mapstructure:"root_markers"`
}

// Registry holds the configured servers.
type Registry struct {
	Servers map[string]Server
	Timeout time.Duration
	Dial    func(ctx context.Context, network, address string) (net.Conn, error)
}

func NewRegistry(servers map[string]Server) *Registry {
	named := make(map[string]Server, len(servers))
	for name, s := range servers {
		if s.Name == "" {
			s.Name = name
		}
		named[name] = s
	}
	d := &net.Dialer{}
	return &Registry{Servers: named, Timeout: DefaultDialTimeout, Dial: d.DialContext}
}

// ParseAddress splits a server address into a net.Dial network and address.
func ParseAddress(addr string) (network, address string, err error) {
	switch {
	case addr == "":
		return "", "", fmt.Errorf("empty address")
	case strings.HasPrefix(addr, "unix:"):
		return "unix", strings.TrimPrefix(addr, "unix:"), nil
	case strings.HasPrefix(addr, "tcp:"):
		return "tcp", strings.TrimPrefix(addr, "tcp:"), nil
	default:
		return "tcp", addr, nil
	}
}

func (r *Registry) Lookup(name string) (Server, bool) {
	if r == nil {
		return Server{}, false
	}
	s, ok := r.Servers[name]
	return s, ok
}

// Connect dials the named server. ok is false when it is not configured.
func (r *Registry) Connect(ctx context.Context, name string) (conn net.Conn, ok bool, err error) {
	s, ok := r.Lookup(name)
	if !ok || s.Address == "" {
		return nil, false, nil
	}
	network, address, err := ParseAddress(s.Address)
	if err != nil {
		return nil, true, fmt.Errorf("server %s: %w", name, err)
	}
	dialCtx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()
	dial := r.Dial
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}
	conn, err = dial(dialCtx, network, address)
	if err != nil {
		return nil, true, fmt.Errorf("dial %s: %w", name, err)
	}
	return conn, true, nil
}

func (r *Registry) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultDialTimeout
	}
	return r.Timeout
}

// Attached reports whether the named server is configured and reachable.
func (r *Registry) Attached(ctx context.Context, name string) bool {
	conn, ok, err := r.Connect(ctx, name)
	if !ok || err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// RootProvider resolves the project root from the attached language server,
// falling back to the working directory.
type RootProvider struct {
	Registry *Registry
	Server   string
	FS       afero.Fs
}

func (p RootProvider) ProjectRoot(ctx context.Context, cwd string) string {
	if p.Server == "" || !p.Registry.Attached(ctx, p.Server) {
		telemetry.Event("lsp.root", "source", "cwd", "root", cwd)
		return cwd
	}
	s, _ := p.Registry.Lookup(p.Server)
	if s.RootDir != "" {
		telemetry.Event("lsp.root", "source", "server", "server", s.Name, "root", s.RootDir)
		return s.RootDir
	}
	if root, ok := p.findMarker(cwd, s.RootMarkers); ok {
		telemetry.Event("lsp.root", "source", "markers", "server", s.Name, "root", root)
		return root
	}
	return cwd
}

// findMarker walks up from dir to the first directory holding a marker.
func (p RootProvider) findMarker(dir string, markers []string) (string, bool) {
	if len(markers) == 0 {
		return "", false
	}
	fs := p.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	for {
		for _, m := range markers {
			if ok, _ := afero.Exists(fs, filepath.Join(dir, m)); ok {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
