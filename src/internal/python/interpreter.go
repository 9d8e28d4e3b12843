package python

import "fmt"

// Kind tells where an interpreter was discovered.
type Kind int

const (
	KindSystem Kind = iota
	KindVenv
)

func (k Kind) String() string {
	switch k {
	case KindVenv:
		return "venv"
	case KindSystem:
		return "system"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Interpreter is an absolute interpreter path plus its discovery kind.
type Interpreter struct {
	Path string
	Kind Kind
}

func Venv(path string) Interpreter {
	return Interpreter{Path: path, Kind: KindVenv}
}

func System(path string) Interpreter {
	return Interpreter{Path: path, Kind: KindSystem}
}

// Equal reports whether both interpreters point at the same path.
func (i Interpreter) Equal(other Interpreter) bool {
	return i.Path == other.Path
}

// Label is the picker display text.
func (i Interpreter) Label() string {
	return fmt.Sprintf("[%s] %s", i.Kind, i.Path)
}
