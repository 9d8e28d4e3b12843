package venv

import (
	"context"
	"os"

	"pysel/src/internal/platform"
	"pysel/src/internal/telemetry"

	"github.com/spf13/afero"
)

// Scanner looks for the first virtual environment below a project root.
type Scanner struct {
	FS       afero.Fs
	Platform platform.Platform
	// MaxDepth bounds how many levels below the root are inspected; zero
	// means no bound.
	MaxDepth int
	// Skip lists directory names that are never inspected or descended into.
	Skip []string
}

func NewScanner() *Scanner {
	return &Scanner{FS: afero.NewOsFs(), Platform: platform.Current()}
}

type frame struct {
	dir   string
	depth int
}

// FindInterpreter walks root depth-first in directory order and returns the
// interpreter of the first directory that looks like a venv. Unreadable
// directories are skipped and symlinked directories are not followed.
func (s *Scanner) FindInterpreter(ctx context.Context, root string) (exe string, found bool, retErr error) {
	done := telemetry.StartSpan("venv.scan", "root", root, "max_depth", s.MaxDepth)
	visitedDirs := 0
	defer func() {
		fields := []any{"status", "ok", "found", found, "visited", visitedDirs}
		if retErr != nil {
			fields[1] = "error"
			fields = append(fields, "error", retErr.Error())
		}
		if found {
			fields = append(fields, "interpreter", exe)
		}
		done(fields...)
	}()

	visited := make(map[any]struct{})
	if info, err := s.FS.Stat(root); err == nil {
		visited[visitKey(root, info)] = struct{}{}
	}

	stack := []frame{{dir: root}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visitedDirs++

		if top.depth > 0 {
			if p, ok := s.interpreterIn(top.dir); ok {
				return p, true, nil
			}
		}
		if s.MaxDepth > 0 && top.depth >= s.MaxDepth {
			continue
		}

		entries, err := afero.ReadDir(s.FS, top.dir)
		if err != nil {
			telemetry.Event("venv.scan.skip", "dir", top.dir, "error", err.Error())
			continue
		}
		children := make([]frame, 0, len(entries))
		for _, entry := range entries {
			if !entry.IsDir() || s.skipped(entry.Name()) {
				continue
			}
			dir := s.Platform.Join(top.dir, entry.Name())
			key := visitKey(dir, entry)
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			children = append(children, frame{dir: dir, depth: top.depth + 1})
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return "", false, nil
}

// interpreterIn probes both venv layouts inside dir.
func (s *Scanner) interpreterIn(dir string) (string, bool) {
	for _, rel := range s.Platform.VenvInterpreterRels() {
		p := s.Platform.Join(append([]string{dir}, rel...)...)
		if info, err := s.FS.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func (s *Scanner) skipped(name string) bool {
	for _, skip := range s.Skip {
		if skip == name {
			return true
		}
	}
	return false
}

// visitKey identifies a directory by device and inode when the filesystem
// exposes them, by path otherwise.
func visitKey(path string, info os.FileInfo) any {
	if id, ok := fileID(info); ok {
		return id
	}
	return path
}
