package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/ivansreport/internal/layout"
)

// Default configuration values.
const (
	// DefaultBatchSize is the number of files converted concurrently.
	// Conversions are CPU bound, so a small number is enough.
	DefaultBatchSize = 4

	// DefaultMaxFileSize is the largest carrier export accepted.
	// Real downloads are a few megabytes at most.
	DefaultMaxFileSize int64 = 64 << 20

	// DefaultPreviewRows is the number of rows in the Markdown preview.
	DefaultPreviewRows = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "ivansreport"
)

// Config holds all configuration options for ivansreport.
// It is populated from CLI flags and the optional configuration file and
// passed through the application rather than kept in global state.
type Config struct {
	// Inputs is the list of carrier export files to convert.
	Inputs []string

	// OutputDir is where PDF reports are written.
	// Empty means next to each input file.
	OutputDir string

	// Overwrite allows replacing existing PDF files.
	Overwrite bool

	// Title is the report title drawn on the first page.
	// Empty means report.DefaultTitle.
	Title string

	// Subject is the document subject metadata.
	// Empty means report.DefaultSubject.
	Subject string

	// EncodingHint is an encoding label tried before UTF-8 detection,
	// e.g. "iso-8859-1". Empty means none.
	EncodingHint string

	// Geometry is the page geometry of the generated reports.
	Geometry layout.Geometry

	// Compress enables PDF stream compression.
	Compress bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of files converted concurrently.
	BatchSize int

	// MaxFileSize is the largest input file accepted, in bytes.
	MaxFileSize int64

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .ivansreport in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds the settings loaded from the configuration file.
	// It is nil when no file was found.
	File *File

	// JSONReport prints a JSON document per conversion instead of the
	// human-readable summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints a Markdown preview per conversion instead of the
	// human-readable summary. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// PreviewRows limits the rows of the Markdown preview. Zero means all.
	PreviewRows int

	// DBDir is the directory of the conversion history database.
	// Defaults to the XDG data directory (~/.local/share/ivansreport on Linux).
	DBDir string

	// SaveToDB records each conversion in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Geometry:    layout.DefaultGeometry(),
		Compress:    true,
		BatchSize:   DefaultBatchSize,
		MaxFileSize: DefaultMaxFileSize,
		PreviewRows: DefaultPreviewRows,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for ivansreport.
// On Linux: ~/.local/share/ivansreport
// On macOS: ~/Library/Application Support/ivansreport
// On Windows: %LOCALAPPDATA%\ivansreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ivansreport.
// On Linux: ~/.config/ivansreport
// On macOS: ~/Library/Application Support/ivansreport
// On Windows: %APPDATA%\ivansreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxFileSize <= 0 {
		return ErrInvalidMaxFileSize
	}

	if c.PreviewRows < 0 {
		return ErrInvalidPreviewRows
	}

	if err := c.Geometry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}

	if c.File != nil {
		if err := c.File.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ApplyFile merges the settings of f into c. Values already set on c by
// command line flags win; flagged lists the names of those flags.
func (c *Config) ApplyFile(f *File, flagged func(name string) bool) error {
	if f == nil {
		return nil
	}
	if flagged == nil {
		flagged = func(string) bool { return false }
	}
	c.File = f

	if f.Report.Title != "" && !flagged("title") {
		c.Title = f.Report.Title
	}
	if f.Report.Subject != "" && !flagged("subject") {
		c.Subject = f.Report.Subject
	}
	if f.Report.Encoding != "" && !flagged("encoding") {
		c.EncodingHint = f.Report.Encoding
	}
	if f.Report.OutputDir != "" && !flagged("output-dir") {
		c.OutputDir = f.Report.OutputDir
	}

	g, err := f.Page.Apply(c.Geometry)
	if err != nil {
		return err
	}
	c.Geometry = g
	return nil
}
