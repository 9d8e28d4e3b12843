package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session describes an active JSON-lines trace.
type Session struct {
	ID      string
	LogPath string
}

type session struct {
	startedAt time.Time
	info      Session
	logFile   *os.File
	logger    *slog.Logger
}

var (
	mu     sync.RWMutex
	active *session
)

// Start opens a trace file under dir. Calling Start twice returns the
// already running session.
func Start(dir string) (Session, error) {
	mu.Lock()
	defer mu.Unlock()

	if active != nil {
		return active.info, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Session{}, err
	}

	id := uuid.NewString()
	stamp := time.Now().UTC().Format("20060102-150405.000")
	info := Session{
		ID:      id,
		LogPath: filepath.Join(dir, fmt.Sprintf("trace-%s.jsonl", stamp)),
	}
	logFile, err := os.Create(info.LogPath)
	if err != nil {
		return Session{}, err
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("session", id)
	active = &session{
		startedAt: time.Now(),
		info:      info,
		logFile:   logFile,
		logger:    logger,
	}
	logger.Info("trace.session_start",
		"pid", os.Getpid(),
		"goos", runtime.GOOS,
		"goarch", runtime.GOARCH,
	)
	return info, nil
}

func Stop() (Session, error) {
	mu.Lock()
	s := active
	active = nil
	mu.Unlock()

	if s == nil {
		return Session{}, nil
	}
	s.logger.Info("trace.session_stop", "elapsed_ms", time.Since(s.startedAt).Milliseconds())
	return s.info, s.logFile.Close()
}

func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return active != nil
}

func Event(name string, kv ...any) {
	mu.RLock()
	s := active
	mu.RUnlock()
	if s == nil {
		return
	}
	s.logger.Info(name, normalizeKV(kv)...)
}

// StartSpan logs name+".start" and returns a func that logs name+".done"
// with the elapsed time and any extra fields.
func StartSpan(name string, kv ...any) func(kv ...any) {
	if !Enabled() {
		return func(...any) {}
	}
	started := time.Now()
	Event(name+".start", kv...)
	return func(doneKV ...any) {
		fields := make([]any, 0, len(kv)+len(doneKV)+2)
		fields = append(fields, kv...)
		fields = append(fields, doneKV...)
		fields = append(fields, "duration_ms", time.Since(started).Milliseconds())
		Event(name+".done", fields...)
	}
}

func normalizeKV(kv []any) []any {
	if len(kv)%2 == 0 {
		return kv
	}
	out := make([]any, len(kv)+1)
	copy(out, kv)
	out[len(out)-1] = "(missing)"
	return out
}
