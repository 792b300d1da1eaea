package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/ivansreport/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// newTestRecord returns a successful record created at the given offset
// from a fixed time.
func newTestRecord(id, digest string, offset time.Duration) *Record {
	return &Record{
		ID:             id,
		Source:         "POLICY0412.DAT",
		Digest:         digest,
		Size:           2048,
		Encoding:       "utf-8",
		Delimiter:      "sentinel",
		HeaderDetected: true,
		Columns:        5,
		Rows:           120,
		Pages:          4,
		Output:         "/srv/reports/POLICY0412.pdf",
		Status:         StatusOK,
		CreatedAt:      time.Date(2024, time.April, 12, 9, 0, 0, 0, time.UTC).Add(offset),
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := db.SaveConversion(context.Background(), newTestRecord("01HV0000000000000000000001", "abc", 0)); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		if _, err := db.GetConversion(context.Background(), "01HV0000000000000000000001"); err != nil {
			t.Errorf("expected record to persist: %v", err)
		}
	})
}

// TestSaveAndGetConversion tests storing and reading a record.
func TestSaveAndGetConversion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)

	want := newTestRecord("01HV0000000000000000000001", "abc", 0)
	if err := db.SaveConversion(ctx, want); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := db.GetConversion(ctx, want.ID)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}

	if got.Source != want.Source || got.Digest != want.Digest || got.Size != want.Size {
		t.Errorf("unexpected identity fields %+v", got)
	}
	if got.Encoding != "utf-8" || got.Delimiter != "sentinel" || !got.HeaderDetected {
		t.Errorf("unexpected read fields %+v", got)
	}
	if got.Columns != 5 || got.Rows != 120 || got.Pages != 4 {
		t.Errorf("unexpected counts %+v", got)
	}
	if got.Output != want.Output || !got.Succeeded() {
		t.Errorf("unexpected outcome %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("expected created at %v, got %v", want.CreatedAt, got.CreatedAt)
	}

	t.Run("replaces record with same id", func(t *testing.T) {
		updated := *want
		updated.Pages = 5
		if err := db.SaveConversion(ctx, &updated); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		got, err := db.GetConversion(ctx, want.ID)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.Pages != 5 {
			t.Errorf("expected 5 pages, got %d", got.Pages)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := db.GetConversion(ctx, "nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("record without id is rejected", func(t *testing.T) {
		if err := db.SaveConversion(ctx, &Record{}); err == nil {
			t.Error("expected error for record without id")
		}
	})
}

// TestListConversions tests listing records newest first.
func TestListConversions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)

	for i := 0; i < 5; i++ {
		r := newTestRecord(fmt.Sprintf("01HV000000000000000000000%d", i), "abc", time.Duration(i)*time.Minute)
		if err := db.SaveConversion(ctx, r); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}

	t.Run("all records", func(t *testing.T) {
		records, err := db.ListConversions(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(records) != 5 {
			t.Fatalf("expected 5 records, got %d", len(records))
		}
		if records[0].ID != "01HV0000000000000000000004" {
			t.Errorf("expected newest first, got %s", records[0].ID)
		}
	})

	t.Run("limited", func(t *testing.T) {
		records, err := db.ListConversions(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[1].ID != "01HV0000000000000000000003" {
			t.Errorf("unexpected second record %s", records[1].ID)
		}
	})
}

// TestFindByDigest tests lookup by content digest.
func TestFindByDigest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)

	records := []*Record{
		newTestRecord("01HV0000000000000000000001", "aaa", 0),
		newTestRecord("01HV0000000000000000000002", "bbb", time.Minute),
		newTestRecord("01HV0000000000000000000003", "aaa", 2*time.Minute),
	}
	for _, r := range records {
		if err := db.SaveConversion(ctx, r); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}

	found, err := db.FindByDigest(ctx, "aaa")
	if err != nil {
		t.Fatalf("failed to find: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 records, got %d", len(found))
	}
	if found[0].ID != "01HV0000000000000000000003" {
		t.Errorf("expected newest first, got %s", found[0].ID)
	}

	none, err := db.FindByDigest(ctx, "zzz")
	if err != nil {
		t.Fatalf("failed to find: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no records, got %d", len(none))
	}
}

// TestNewRecord tests building records from conversions.
func TestNewRecord(t *testing.T) {
	t.Parallel()

	raw := model.NewRawDocument("claims.txt", []byte("A|B\n1|2\n"))

	t.Run("successful conversion", func(t *testing.T) {
		t.Parallel()

		conv := model.NewConversion(raw, "")
		conv.Decoded = &model.DecodedText{Text: "A|B\n1|2\n", Encoding: "utf-8"}
		conv.Delimiter = &model.Delimiter{Name: "pipe", Kind: model.DelimiterChar, Token: "|"}
		conv.Table = &model.ParsedTable{Headers: []string{"A", "B"}, Rows: []model.Row{{"1", "2"}}, HeaderDetected: true}
		conv.Artifact = &model.ReportArtifact{ID: "01HV0000000000000000000009", Pages: make([]model.ReportPage, 1)}

		r := NewRecord(conv, "/out/claims.pdf")
		if r.ID != "01HV0000000000000000000009" || r.Status != StatusOK {
			t.Errorf("unexpected id/status %s %s", r.ID, r.Status)
		}
		if r.Digest != raw.Digest() || r.Size != raw.Size() {
			t.Errorf("unexpected digest/size %s %d", r.Digest, r.Size)
		}
		if r.Delimiter != "pipe" || r.Columns != 2 || r.Rows != 1 || r.Pages != 1 {
			t.Errorf("unexpected record %+v", r)
		}
		if r.Output != "/out/claims.pdf" {
			t.Errorf("unexpected output %q", r.Output)
		}
	})

	t.Run("failed conversion", func(t *testing.T) {
		t.Parallel()

		conv := model.NewConversion(raw, "")
		conv.Err = fmt.Errorf("parse: %w", model.ErrNoDataRowsFound)

		r := NewRecord(conv, "/out/claims.pdf")
		if r.Status != StatusFailed || r.Succeeded() {
			t.Errorf("expected failed status, got %s", r.Status)
		}
		if r.ErrorKind != model.KindNoDataRowsFound.String() {
			t.Errorf("unexpected error kind %q", r.ErrorKind)
		}
		if r.Output != "" {
			t.Error("expected no output for a failed conversion")
		}
		if len(r.ID) != 26 {
			t.Errorf("expected a generated ULID, got %q", r.ID)
		}
	})
}

// TestParseTimestamp tests stored timestamp parsing.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, time.April, 12, 9, 30, 15, 123000000, time.UTC)
	tests := []string{
		"2024-04-12 09:30:15.123000000",
		"2024-04-12 09:30:15.123",
		"2024-04-12T09:30:15.123Z",
	}
	for _, s := range tests {
		if got := parseTimestamp(s); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", s, got, want)
		}
	}
	if got := parseTimestamp("yesterday"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
