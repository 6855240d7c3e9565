package media

import (
	"fmt"
	"os"
	"sync"
)

// Preview is a transient, locally renderable copy of a file asset created for
// immediate UI feedback. It is never uploaded and must be released when the
// asset is removed or the surrounding scope ends; release is independent of
// upload.
type Preview struct {
	path string
	once sync.Once
	err  error
}

// NewPreview writes data to a temporary file and returns a handle to it.
// ext, when non-empty, is appended to the temp file name (without dot).
func NewPreview(data []byte, ext string) (*Preview, error) {
	pattern := "nexus-preview-*"
	if ext != "" {
		pattern += "." + ext
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("create preview file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write preview file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("close preview file: %w", err)
	}

	return &Preview{path: f.Name()}, nil
}

// Path returns the local path of the preview file.
func (p *Preview) Path() string {
	return p.path
}

// Release removes the preview file. It is safe to call multiple times; only
// the first call performs the removal.
func (p *Preview) Release() error {
	p.once.Do(func() {
		p.err = os.Remove(p.path)
	})
	return p.err
}
