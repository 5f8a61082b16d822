package util

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadMapped reads a file through a memory mapping, falling back to
// os.ReadFile when mapping fails (empty files, exotic filesystems). Scene
// exports from large documents run to tens of megabytes; mapping avoids
// copying them through a read buffer before the JSON decoder sees them.
//
// The returned bytes are valid until release is called. release is never
// nil.
func ReadMapped(path string) (data []byte, release func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		f.Close()
		return nil, func() error { return nil }, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		// fall back to a plain read
		f.Close()
		b, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, rerr)
		}
		return b, func() error { return nil }, nil
	}

	release = func() error {
		uerr := m.Unmap()
		cerr := f.Close()
		if uerr != nil {
			return uerr
		}
		return cerr
	}
	return m, release, nil
}
