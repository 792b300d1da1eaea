package report

import (
	"bytes"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nao1215/ivansreport/internal/model"
)

// Packager serializes laid out reports into artifacts.
// A Packager is safe for concurrent use.
type Packager struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy

	// compress enables PDF stream compression.
	compress bool
}

// PackagerOption configures a Packager.
type PackagerOption func(*Packager)

// WithPackagerCompression enables or disables PDF stream compression.
func WithPackagerCompression(compress bool) PackagerOption {
	return func(p *Packager) {
		p.compress = compress
	}
}

// NewPackager creates a Packager. Compression is on by default.
func NewPackager(opts ...PackagerOption) *Packager {
	p := &Packager{
		entropy:  ulid.Monotonic(rand.Reader, 0),
		compress: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Package renders report to PDF and wraps it into a ReportArtifact whose
// file name is derived from the source name.
func (p *Packager) Package(report *Report) (*model.ReportArtifact, error) {
	var buf bytes.Buffer
	if _, err := NewPDFWriter(&buf, WithCompression(p.compress)).Write(report); err != nil {
		return nil, err
	}

	return &model.ReportArtifact{
		ID:       p.newID(report.GeneratedAt),
		FileName: OutputFileName(report.SourceName),
		MimeType: model.MIMETypePDF,
		Bytes:    buf.Bytes(),
		Pages:    report.Pages,
	}, nil
}

// newID returns a new ULID for an artifact generated at t.
func (p *Packager) newID(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), p.entropy).String()
}
