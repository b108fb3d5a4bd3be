//go:build unix

package mapfile

import (
	"syscall"

	"golang.org/x/sys/unix"
)

var errIsDir = syscall.EISDIR

func (mf *File) load(size int) error {
	data, err := unix.Mmap(int(mf.f.Fd()), 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	mf.data = data
	mf.unmap = unix.Munmap
	return nil
}
