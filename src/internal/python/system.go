package python

import (
	"context"
	"regexp"
	"strings"

	"pysel/src/internal/platform"
	"pysel/src/internal/telemetry"

	"github.com/spf13/afero"
)

// interpreterPattern matches python, python3, python3.12 and nothing else.
var interpreterPattern = regexp.MustCompile(`^python[0-9.]*$`)

// Scanner enumerates interpreters on a search path.
type Scanner struct {
	FS       afero.Fs
	Platform platform.Platform
}

func NewScanner() *Scanner {
	return &Scanner{FS: afero.NewOsFs(), Platform: platform.Current()}
}

// FindSystem lists every executable python* file in the directories of
// searchPath, in search-path order and then directory order, without
// duplicates. Directories that cannot be read are skipped. The only error is
// ctx cancellation, returned together with what was found so far.
func (s *Scanner) FindSystem(ctx context.Context, searchPath string) (found []string, retErr error) {
	dirs := s.Platform.SplitList(searchPath)
	done := telemetry.StartSpan("python.scan_path", "dirs", len(dirs))
	defer func() {
		fields := []any{"status", "ok", "found", len(found)}
		if retErr != nil {
			fields[1] = "error"
			fields = append(fields, "error", retErr.Error())
		}
		done(fields...)
	}()

	seen := make(map[string]struct{})
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		entries, err := afero.ReadDir(s.FS, dir)
		if err != nil {
			telemetry.Event("python.scan_path.skip", "dir", dir, "error", err.Error())
			continue
		}
		for _, entry := range entries {
			if !s.MatchesName(entry.Name()) {
				continue
			}
			p := s.Platform.Join(dir, entry.Name())
			if _, dup := seen[p]; dup {
				continue
			}
			if !s.IsExecutable(p) {
				continue
			}
			seen[p] = struct{}{}
			found = append(found, p)
		}
	}
	return found, nil
}

// MatchesName reports whether a directory entry name looks like a python
// interpreter. On Windows the executable suffix is required and stripped first.
func (s *Scanner) MatchesName(name string) bool {
	if suffix := s.Platform.ExecutableSuffix; suffix != "" {
		if len(name) <= len(suffix) || !strings.EqualFold(name[len(name)-len(suffix):], suffix) {
			return false
		}
		name = name[:len(name)-len(suffix)]
	}
	return interpreterPattern.MatchString(name)
}

// IsExecutable follows symlinks and requires a regular file with an execute
// bit. Windows has no execute bit, the suffix check in MatchesName stands in.
func (s *Scanner) IsExecutable(p string) bool {
	info, err := s.FS.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if s.Platform.Windows() {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}
