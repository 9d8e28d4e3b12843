package venv

import "pysel/src/internal/platform"

// Root returns the venv directory owning interpreter, two levels above the
// executable (strips bin/python or Scripts/python.exe).
func Root(p platform.Platform, interpreter string) string {
	return p.Dir(BinDir(p, interpreter))
}

// BinDir is the directory holding the venv interpreter, bin or Scripts
// depending on the layout the interpreter was found in.
func BinDir(p platform.Platform, interpreter string) string {
	return p.Dir(interpreter)
}
