package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/ivansreport/internal/model"
)

// DefaultMaxFileSize is the largest input file Load accepts.
const DefaultMaxFileSize int64 = 64 << 20

// Load reads the file at path into a RawDocument. It is the only blocking
// operation of a conversion and stops reading when ctx is done.
func Load(ctx context.Context, path string) (*model.RawDocument, error) {
	return LoadLimit(ctx, path, DefaultMaxFileSize)
}

// LoadLimit is Load with an explicit size limit in bytes.
// A non-positive limit means DefaultMaxFileSize.
func LoadLimit(ctx context.Context, path string, limit int64) (*model.RawDocument, error) {
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), ErrFileTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(&contextReader{ctx: ctx, r: f}, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w", path, ErrFileTooLarge)
	}

	return model.NewRawDocument(filepath.Base(path), data), nil
}

// contextReader fails reads once its context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
