package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/ivansreport/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "ivansreport.db"

// Conversion statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ErrNotFound is returned when a conversion record does not exist.
var ErrNotFound = errors.New("conversion record not found")

// HistoryDB provides SQLite-based storage for conversion records.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so readers do not block the
	// writer.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversions (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		digest TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		encoding TEXT,
		delimiter TEXT,
		header_detected INTEGER NOT NULL DEFAULT 0,
		columns INTEGER NOT NULL DEFAULT 0,
		rows INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		output TEXT,
		status TEXT NOT NULL,
		error_kind TEXT,
		error TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversions_digest ON conversions(digest);
	CREATE INDEX IF NOT EXISTS idx_conversions_created ON conversions(created_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Record is one stored conversion.
type Record struct {
	// ID is the artifact ULID, or a fresh ULID for failed conversions.
	ID string

	// Source is the file name of the carrier export.
	Source string

	// Digest is the SHA3-256 digest of the source bytes, hex encoded.
	Digest string

	// Size is the source size in bytes.
	Size int

	Encoding       string
	Delimiter      string
	HeaderDetected bool
	Columns        int
	Rows           int
	Pages          int

	// Output is where the PDF was written. Empty for failures.
	Output string

	// Status is StatusOK or StatusFailed.
	Status string

	// ErrorKind and Error describe a failure.
	ErrorKind string
	Error     string

	// CreatedAt is when the conversion ran.
	CreatedAt time.Time
}

// Succeeded reports whether the record describes a successful conversion.
func (r *Record) Succeeded() bool {
	return r.Status == StatusOK
}

// NewRecord builds the record of conv, whose PDF was written to output.
func NewRecord(conv *model.Conversion, output string) *Record {
	r := &Record{
		Status:    StatusOK,
		CreatedAt: conv.GeneratedAt,
		Output:    output,
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	if conv.Raw != nil {
		r.Source = conv.Raw.Name
		r.Digest = conv.Raw.Digest()
		r.Size = conv.Raw.Size()
	}
	if conv.Decoded != nil {
		r.Encoding = conv.Decoded.Encoding
	}
	if conv.Delimiter != nil {
		r.Delimiter = conv.Delimiter.Name
	}
	if conv.Table != nil {
		r.HeaderDetected = conv.Table.HeaderDetected
		r.Columns = conv.Table.ColumnCount()
		r.Rows = conv.Table.RowCount()
	}
	if conv.Artifact != nil {
		r.ID = conv.Artifact.ID
		r.Pages = conv.Artifact.PageCount()
	}
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}

	if conv.Err != nil {
		r.Status = StatusFailed
		r.ErrorKind = conv.ErrorKind().String()
		r.Error = conv.Err.Error()
		r.Output = ""
	}

	return r
}

// timeLayout is a fixed width layout so stored timestamps sort as text.
const timeLayout = "2006-01-02 15:04:05.000000000"

// SaveConversion inserts or replaces a conversion record.
func (hdb *HistoryDB) SaveConversion(ctx context.Context, r *Record) error {
	if r.ID == "" {
		return errors.New("conversion record has no id")
	}

	query := `
	INSERT OR REPLACE INTO conversions
		(id, source, digest, size, encoding, delimiter, header_detected,
		 columns, rows, pages, output, status, error_kind, error, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := hdb.db.ExecContext(ctx, query,
		r.ID,
		r.Source,
		r.Digest,
		r.Size,
		r.Encoding,
		r.Delimiter,
		r.HeaderDetected,
		r.Columns,
		r.Rows,
		r.Pages,
		r.Output,
		r.Status,
		r.ErrorKind,
		r.Error,
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save conversion %s: %w", r.ID, err)
	}
	return nil
}

// selectColumns lists the columns scanned by scanRecord, in order.
const selectColumns = `id, source, digest, size, encoding, delimiter, header_detected,
	columns, rows, pages, output, status, error_kind, error, created_at`

// GetConversion retrieves a conversion record by ID.
// It returns ErrNotFound if no record has that ID.
func (hdb *HistoryDB) GetConversion(ctx context.Context, id string) (*Record, error) {
	query := `SELECT ` + selectColumns + ` FROM conversions WHERE id = ?`

	r, err := scanRecord(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion: %w", err)
	}
	return r, nil
}

// ListConversions returns the most recent conversions, newest first.
// A non-positive limit returns all of them.
func (hdb *HistoryDB) ListConversions(ctx context.Context, limit int) ([]*Record, error) {
	query := `SELECT ` + selectColumns + ` FROM conversions ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return hdb.queryRecords(ctx, query, args...)
}

// FindByDigest returns the conversions of files with the given digest,
// newest first.
func (hdb *HistoryDB) FindByDigest(ctx context.Context, digest string) ([]*Record, error) {
	query := `SELECT ` + selectColumns + ` FROM conversions WHERE digest = ? ORDER BY created_at DESC, id DESC`
	return hdb.queryRecords(ctx, query, digest)
}

func (hdb *HistoryDB) queryRecords(ctx context.Context, query string, args ...any) ([]*Record, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversions: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (*Record, error) {
	var (
		r                           Record
		encoding, delimiter, output sql.NullString
		errorKind, errorText        sql.NullString
		createdAt                   string
	)

	err := s.Scan(
		&r.ID,
		&r.Source,
		&r.Digest,
		&r.Size,
		&encoding,
		&delimiter,
		&r.HeaderDetected,
		&r.Columns,
		&r.Rows,
		&r.Pages,
		&output,
		&r.Status,
		&errorKind,
		&errorText,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.Encoding = encoding.String
	r.Delimiter = delimiter.String
	r.Output = output.String
	r.ErrorKind = errorKind.String
	r.Error = errorText.String
	r.CreatedAt = parseTimestamp(createdAt)
	return &r, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// parseTimestamp parses a stored timestamp as UTC.
// If parsing fails with all formats, it returns the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
