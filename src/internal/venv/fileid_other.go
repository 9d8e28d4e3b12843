//go:build !unix

package venv

import "os"

type inode struct{}

func fileID(os.FileInfo) (inode, bool) {
	return inode{}, false
}
