package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSource resolves a basename into a sequentially readable file (spec
// §4.C: "Resolve name into a fixed prefix path. Open file for sequential
// read").
type FileSource interface {
	Open(basename string) (io.ReadSeekCloser, error)
}

// DirFileSource resolves basenames against a single fixed root directory.
type DirFileSource struct {
	root string
}

// NewDirFileSource returns a FileSource rooted at root.
func NewDirFileSource(root string) *DirFileSource {
	return &DirFileSource{root: root}
}

// Open rejects any basename that would escape root via path separators,
// then opens the resolved path for sequential read.
func (d *DirFileSource) Open(basename string) (io.ReadSeekCloser, error) {
	if basename == "" || filepath.Base(basename) != basename {
		return nil, fmt.Errorf("transfer: invalid basename %q", basename)
	}
	return os.Open(filepath.Join(d.root, basename))
}

// sizeOf determines a file's length by seeking to the end and back, per
// spec §4.C: "Determine file size; on seek/size failure, close and send
// FS_ERROR."
func sizeOf(f io.ReadSeekCloser) (uint32, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	if size < 0 || size > int64(^uint32(0)) {
		return 0, fmt.Errorf("transfer: file size %d out of range", size)
	}
	return uint32(size), nil
}
