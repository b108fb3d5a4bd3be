//go:build !unix

package mapfile

import (
	"errors"
	"io"
)

var errIsDir = errors.New("is a directory")

// load reads the whole file where mmap is not available
func (mf *File) load(size int) error {
	data := make([]byte, size)
	if _, err := io.ReadFull(mf.f, data); err != nil {
		return err
	}
	mf.data = data
	return nil
}
