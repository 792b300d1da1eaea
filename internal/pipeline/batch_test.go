package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nao1215/ivansreport/internal/model"
)

func newTestFactory() func() *Pipeline {
	return func() *Pipeline {
		return NewConversionPipeline(DefaultSettings(), WithLogger(discardLogger()))
	}
}

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })

		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.maxFileSize != DefaultMaxFileSize {
			t.Errorf("expected default max file size, got %d", bp.maxFileSize)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(
			func() *Pipeline { return New() },
			WithConcurrency(2),
			WithMaxFileSize(1024),
			WithTitle("Weekly Download"),
			WithBatchLogger(discardLogger()),
		)

		if bp.concurrency != 2 || bp.maxFileSize != 1024 || bp.title != "Weekly Download" {
			t.Errorf("options not applied: %d %d %q", bp.concurrency, bp.maxFileSize, bp.title)
		}
	})

	t.Run("ignores non-positive values", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(
			func() *Pipeline { return New() },
			WithConcurrency(0),
			WithMaxFileSize(-1),
		)

		if bp.concurrency != DefaultConcurrency || bp.maxFileSize != DefaultMaxFileSize {
			t.Error("expected defaults to be kept")
		}
	})
}

// TestBatchProcessorProcessBatch tests batch conversion.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("converts all files in order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var paths []string
		for i := 0; i < 6; i++ {
			data := fmt.Sprintf("POLICY|PREMIUM\nPA-%d|%d.00\n", i, 100+i)
			paths = append(paths, writeFile(t, dir, fmt.Sprintf("file%d.dat", i), []byte(data)))
		}

		bp := NewBatchProcessor(newTestFactory(), WithConcurrency(3), WithBatchLogger(discardLogger()))
		results, err := bp.ProcessBatch(context.Background(), paths)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != len(paths) {
			t.Fatalf("expected %d results, got %d", len(paths), len(results))
		}
		for i, conv := range results {
			if !conv.Succeeded() {
				t.Errorf("file %d failed: %v", i, conv.Err)
				continue
			}
			if want := fmt.Sprintf("file%d.pdf", i); conv.Artifact.FileName != want {
				t.Errorf("expected %s at index %d, got %s", want, i, conv.Artifact.FileName)
			}
		}
	})

	t.Run("records failures without stopping the batch", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		paths := []string{
			writeFile(t, dir, "good.dat", []byte("A|B\n1|2\n")),
			writeFile(t, dir, "empty.dat", nil),
			filepath.Join(dir, "missing.dat"),
			writeFile(t, dir, "header.dat", []byte("A|B\n")),
		}

		bp := NewBatchProcessor(newTestFactory(), WithBatchLogger(discardLogger()))
		results, err := bp.ProcessBatch(context.Background(), paths)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantKinds := []model.ErrorKind{
			model.KindNone,
			model.KindEncodingDecodeFailure,
			model.KindUnknown,
			model.KindNoDataRowsFound,
		}
		for i, want := range wantKinds {
			if got := results[i].ErrorKind(); got != want {
				t.Errorf("index %d: expected %s, got %s", i, want, got)
			}
		}
		if results[2].Raw.Name != "missing.dat" {
			t.Errorf("expected failed load to keep the file name, got %q", results[2].Raw.Name)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.dat", []byte("A|B\n1|2\n"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(newTestFactory(), WithBatchLogger(discardLogger()))
		results, err := bp.ProcessBatch(ctx, []string{path, path})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected result slots for every path, got %d", len(results))
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(newTestFactory(), WithBatchLogger(discardLogger()))
		results, err := bp.ProcessBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}

// TestBatchProcessorCallback tests streaming results.
func TestBatchProcessorCallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.dat", []byte("A|B\n1|2\n")),
		writeFile(t, dir, "b.dat", []byte("A|B\n3|4\n")),
		writeFile(t, dir, "c.dat", []byte("A|B\n5|6\n")),
	}

	var (
		mu    sync.Mutex
		seen  = make(map[int]string)
		count atomic.Int32
	)

	bp := NewBatchProcessor(newTestFactory(), WithConcurrency(2), WithTitle("Batch"), WithBatchLogger(discardLogger()))
	err := bp.ProcessBatchWithCallback(context.Background(), paths, func(conv *model.Conversion, index int) {
		count.Add(1)
		mu.Lock()
		seen[index] = conv.Raw.Name
		mu.Unlock()
		if conv.Title != "Batch" {
			t.Errorf("expected batch title, got %q", conv.Title)
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count.Load() != 3 {
		t.Errorf("expected 3 callbacks, got %d", count.Load())
	}
	for i, path := range paths {
		if seen[i] != filepath.Base(path) {
			t.Errorf("index %d: expected %s, got %s", i, filepath.Base(path), seen[i])
		}
	}
}
