package cmd

import (
	"fmt"
	"strings"

	"pysel/src/internal/activation"
)

var shells = []string{"sh", "fish", "powershell", "cmd"}

// renderExports turns activation changes into a script for shell, meant to
// be eval'd by the calling shell.
func renderExports(shell string, changes []activation.Change) (string, error) {
	var b strings.Builder
	for _, c := range changes {
		switch shell {
		case "sh":
			if c.Unset {
				fmt.Fprintf(&b, "unset %s\n", c.Key)
			} else {
				fmt.Fprintf(&b, "export %s=%s\n", c.Key, shQuote(c.Value))
			}
		case "fish":
			if c.Unset {
				fmt.Fprintf(&b, "set -e %s\n", c.Key)
			} else {
				fmt.Fprintf(&b, "set -gx %s %s\n", c.Key, fishQuote(c.Value))
			}
		case "powershell":
			if c.Unset {
				fmt.Fprintf(&b, "Remove-Item Env:%s -ErrorAction SilentlyContinue\n", c.Key)
			} else {
				fmt.Fprintf(&b, "$env:%s = %s\n", c.Key, psQuote(c.Value))
			}
		case "cmd":
			if c.Unset {
				fmt.Fprintf(&b, "set %s=\r\n", c.Key)
			} else {
				fmt.Fprintf(&b, "set \"%s=%s\"\r\n", c.Key, c.Value)
			}
		default:
			return "", fmt.Errorf("unsupported shell %q: must be one of %v", shell, shells)
		}
	}
	return b.String(), nil
}

func validShell(shell string) bool {
	for _, s := range shells {
		if s == shell {
			return true
		}
	}
	return false
}

func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
