package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const MethodDidChangeConfiguration = "workspace/didChangeConfiguration"

// maxMessageSize bounds the body readMessage will allocate for.
const maxMessageSize = 1 << 20

// Notification is a JSON-RPC 2.0 message without an id.
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type DidChangeConfigurationParams struct {
	Settings Settings `json:"settings"`
}

type Settings struct {
	Python PythonSettings `json:"python"`
}

type PythonSettings struct {
	PythonPath string `json:"pythonPath"`
}

// InterpreterChangedNotification builds the didChangeConfiguration message
// carrying the new interpreter path.
func InterpreterChangedNotification(interpreter string) Notification {
	return Notification{
		JSONRPC: "2.0",
		Method:  MethodDidChangeConfiguration,
		Params: DidChangeConfigurationParams{
			Settings: Settings{Python: PythonSettings{PythonPath: interpreter}},
		},
	}
}

// WriteMessage frames v with a Content-Length header.
func WriteMessage(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n", len(body))
	b.Write(body)
	_, err = w.Write(b.Bytes())
	return err
}

// readMessage reads one Content-Length framed body.
func readMessage(r *bufio.Reader) ([]byte, error) {
	contentLen := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "content-length") {
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("bad content-length %q: %w", val, err)
			}
			contentLen = n
		}
	}
	if contentLen < 0 {
		return nil, fmt.Errorf("missing content-length header")
	}
	if contentLen > maxMessageSize {
		return nil, fmt.Errorf("content-length %d exceeds %d bytes", contentLen, maxMessageSize)
	}
	buf := make([]byte, contentLen)
	_, err := io.ReadFull(r, buf)
	return buf, err
}
