package lsp

import (
	"context"
	"fmt"
	"time"

	"pysel/src/internal/telemetry"
)

// Notifier pushes interpreter changes to one named language server.
type Notifier struct {
	Registry *Registry
	Server   string
}

// InterpreterChanged sends workspace/didChangeConfiguration with the new
// interpreter path. It does nothing when the server is not configured or not
// running.
func (n Notifier) InterpreterChanged(ctx context.Context, interpreter string) error {
	if n.Server == "" {
		return nil
	}
	conn, ok, err := n.Registry.Connect(ctx, n.Server)
	if !ok {
		telemetry.Event("lsp.notify.skip", "server", n.Server, "reason", "not_configured")
		return nil
	}
	if err != nil {
		telemetry.Event("lsp.notify.skip", "server", n.Server, "reason", "not_running", "error", err.Error())
		return nil
	}
	defer conn.Close()

	done := telemetry.StartSpan("lsp.notify", "server", n.Server, "interpreter", interpreter)
	deadline := time.Now().Add(n.Registry.timeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	if err := WriteMessage(conn, InterpreterChangedNotification(interpreter)); err != nil {
		done("status", "error", "error", err.Error())
		return fmt.Errorf("send %s to %s: %w", MethodDidChangeConfiguration, n.Server, err)
	}
	done("status", "ok")
	return nil
}
