// Package mapfile gives read-only access to the whole content of a file.
package mapfile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var errNotRegular = errors.New("not a regular file")

// File is an immutable view of a file's content. The view is only valid
// until Close.
type File struct {
	data  []byte
	f     *os.File
	unmap func([]byte) error
}

// Open maps the file at path read-only. Only regular files are accepted.
func Open(path string) (*File, error) {
	// Stat before opening: opening a FIFO for reading blocks until a writer shows up
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := checkRegular(path, info); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err = f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := checkRegular(path, info); err != nil {
		f.Close()
		return nil, err
	}

	mf := &File{f: f}
	if info.Size() == 0 {
		// Pseudo files such as /proc entries report no size but have content
		data, err := io.ReadAll(f)
		if err != nil {
			mf.Close()
			return nil, &os.PathError{Op: "read", Path: path, Err: err}
		}
		if len(data) > 0 {
			mf.data = data
		}
		return mf, nil
	}

	if err := mf.load(int(info.Size())); err != nil {
		mf.Close()
		return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	return mf, nil
}

func checkRegular(path string, info os.FileInfo) error {
	switch {
	case info.IsDir():
		return &os.PathError{Op: "open", Path: path, Err: errIsDir}
	case !info.Mode().IsRegular():
		return &os.PathError{Op: "open", Path: path, Err: errNotRegular}
	}
	return nil
}

// Bytes returns the file content. Callers must not modify it.
func (mf *File) Bytes() []byte {
	return mf.data
}

// Len returns the content size in bytes
func (mf *File) Len() int {
	return len(mf.data)
}

// Close releases the mapping and the descriptor. It is safe to call twice.
func (mf *File) Close() error {
	var errs []error
	if mf.unmap != nil && mf.data != nil {
		if err := mf.unmap(mf.data); err != nil {
			errs = append(errs, err)
		}
	}
	mf.data = nil
	mf.unmap = nil

	if mf.f != nil {
		if err := mf.f.Close(); err != nil {
			errs = append(errs, err)
		}
		mf.f = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("mapfile: close: %v", errs)
	}
	return nil
}
