package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/ivansreport/internal/config"
	"github.com/nao1215/ivansreport/internal/database"
	"github.com/nao1215/ivansreport/internal/pipeline"
)

// defaultHistoryLimit is the number of records listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past conversions",
		Long: `History lists conversions recorded by the convert command, newest first.

Records hold the source name, a SHA3-256 digest of its content, the
detected encoding and delimiter, table and page counts, and the outcome.
Cell values are never stored.

Examples:
  # Show the 20 most recent conversions
  ivansreport history

  # Show one conversion by its report ID
  ivansreport history --id 01J9Z7Q8W2B5K3C4D6E7F8G9H0

  # Check whether a download was already converted
  ivansreport history --file POLICY0412.DAT

  # Dump all records as JSON
  ivansreport history -n 0 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of records to show (0 for all)")
	cmd.Flags().String("id", "",
		"Show the record with this report ID")
	cmd.Flags().String("file", "",
		"Show the records of files with the same content as this file")
	cmd.Flags().BoolP("json", "j", false,
		"Output records as JSON")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	cmd.MarkFlagsMutuallyExclusive("id", "file")

	return cmd
}

// historyEntry is the JSON form of a database.Record.
type historyEntry struct {
	ID             string `json:"id"`
	Source         string `json:"source"`
	Digest         string `json:"digest"`
	Size           int    `json:"size"`
	Encoding       string `json:"encoding,omitempty"`
	Delimiter      string `json:"delimiter,omitempty"`
	HeaderDetected bool   `json:"header_detected"`
	Columns        int    `json:"columns"`
	Rows           int    `json:"rows"`
	Pages          int    `json:"pages"`
	Output         string `json:"output,omitempty"`
	Status         string `json:"status"`
	ErrorKind      string `json:"error_kind,omitempty"`
	Error          string `json:"error,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must not be negative", limit)
	}
	id, err := flags.GetString("id")
	if err != nil {
		return err
	}
	file, err := flags.GetString("file")
	if err != nil {
		return err
	}
	asJSON, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Listing history must not create an empty database.
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No conversions recorded yet.")
		return nil
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	var records []*database.Record
	switch {
	case id != "":
		r, err := db.GetConversion(ctx, id)
		if err != nil {
			return err
		}
		records = []*database.Record{r}
	case file != "":
		raw, err := pipeline.Load(ctx, file)
		if err != nil {
			return err
		}
		records, err = db.FindByDigest(ctx, raw.Digest())
		if err != nil {
			return err
		}
	default:
		records, err = db.ListConversions(ctx, limit)
		if err != nil {
			return err
		}
	}

	if asJSON {
		return writeHistoryJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No matching conversions.")
		return nil
	}
	if id != "" {
		return writeHistoryDetail(out, records[0])
	}
	return writeHistoryTable(out, records)
}

// writeHistoryJSON writes records as a JSON array.
func writeHistoryJSON(out io.Writer, records []*database.Record) error {
	entries := make([]historyEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, historyEntry{
			ID:             r.ID,
			Source:         r.Source,
			Digest:         r.Digest,
			Size:           r.Size,
			Encoding:       r.Encoding,
			Delimiter:      r.Delimiter,
			HeaderDetected: r.HeaderDetected,
			Columns:        r.Columns,
			Rows:           r.Rows,
			Pages:          r.Pages,
			Output:         r.Output,
			Status:         r.Status,
			ErrorKind:      r.ErrorKind,
			Error:          r.Error,
			CreatedAt:      r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// writeHistoryTable writes one Markdown table row per record, so the
// list can be pasted into a ticket as is.
func writeHistoryTable(out io.Writer, records []*database.Record) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		status := r.Status
		if !r.Succeeded() && r.ErrorKind != "" {
			status = r.Status + " (" + r.ErrorKind + ")"
		}
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			strings.ReplaceAll(r.Source, "|", `\|`),
			status,
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Pages),
		})
	}

	return markdown.NewMarkdown(out).
		Table(markdown.TableSet{
			Header: []string{"ID", "Date", "Source", "Status", "Rows", "Pages"},
			Rows:   rows,
		}).
		Build()
}

// writeHistoryDetail writes every field of one record.
func writeHistoryDetail(out io.Writer, r *database.Record) error {
	header := "no"
	if r.HeaderDetected {
		header = "yes"
	}

	_, err := fmt.Fprintf(out,
		"ID:         %s\nDate:       %s\nSource:     %s\nDigest:     %s\nSize:       %d bytes\n"+
			"Encoding:   %s\nDelimiter:  %s\nHeader row: %s\nColumns:    %d\nRows:       %d\n"+
			"Pages:      %d\nOutput:     %s\nStatus:     %s\n",
		r.ID,
		r.CreatedAt.Local().Format("2006-01-02 15:04:05 MST"),
		r.Source,
		r.Digest,
		r.Size,
		r.Encoding,
		r.Delimiter,
		header,
		r.Columns,
		r.Rows,
		r.Pages,
		r.Output,
		r.Status,
	)
	if err != nil {
		return err
	}
	if !r.Succeeded() {
		_, err = fmt.Fprintf(out, "Error:      %s: %s\n", r.ErrorKind, r.Error)
	}
	return err
}
