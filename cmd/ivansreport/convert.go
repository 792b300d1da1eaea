package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/ivansreport/internal/config"
	"github.com/nao1215/ivansreport/internal/database"
	"github.com/nao1215/ivansreport/internal/log"
	"github.com/nao1215/ivansreport/internal/model"
	"github.com/nao1215/ivansreport/internal/parser"
	"github.com/nao1215/ivansreport/internal/pipeline"
	"github.com/nao1215/ivansreport/internal/report"
)

// inputExtensions are the file extensions picked up from directory arguments.
var inputExtensions = []string{".dat", ".txt"}

var (
	// errOutputExists is returned when a PDF would overwrite an existing file.
	errOutputExists = errors.New("output file already exists (use --force to overwrite)")

	// errOutputCollision is returned for an input whose PDF path is already
	// claimed by an earlier input of the same run.
	errOutputCollision = errors.New("output path already used by another input")
)

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file|dir>...",
		Short: "Convert carrier export files into PDF reports",
		Long: `Convert reads carrier export files and writes one PDF report per file.

For each file it:
- decodes the text as UTF-8, falling back to Windows-1252
- detects the delimiter: "???", "|", tab, else runs of two or more spaces
- uses the first line as column headers unless it contains a number
- lays the table out on landscape Letter pages with a repeated header band

Directory arguments are expanded to the .dat and .txt files they contain.
The PDF is named after the source file: POLICY0412.DAT becomes POLICY0412.pdf.

Examples:
  # Convert a single download next to the source file
  ivansreport convert POLICY0412.DAT

  # Convert a whole download directory into a report directory
  ivansreport convert -o reports downloads/

  # Print a Markdown preview of the parsed table
  ivansreport convert --markdown --preview-rows 10 claims.txt

  # Force an encoding for files from an old carrier system
  ivansreport convert -e iso-8859-1 legacy.dat`,
		Args: cobra.MinimumNArgs(1),
		RunE: runConvertCmd,
	}

	// Output flags
	cmd.Flags().StringP("output-dir", "o", "",
		"Directory for PDF reports (default: next to each source file)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing PDF files")

	// Document flags
	cmd.Flags().StringP("title", "t", "",
		"Report title (default: "+report.DefaultTitle+")")
	cmd.Flags().String("subject", "",
		"PDF subject metadata (default: "+report.DefaultSubject+")")
	cmd.Flags().StringP("encoding", "e", "",
		"Encoding to try before UTF-8 detection, e.g. iso-8859-1")
	cmd.Flags().String("page-size", "",
		"Paper size: letter, legal or a4 (default: letter)")
	cmd.Flags().Bool("portrait", false,
		"Use portrait instead of landscape pages")
	cmd.Flags().Bool("no-compress", false,
		"Write uncompressed PDF streams")

	// Processing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files converted concurrently")
	cmd.Flags().Int64("max-size", config.DefaultMaxFileSize,
		"Largest input file accepted, in bytes")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ivansreport in current or home directory)")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Print a JSON document per file (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print a Markdown preview per file (mutually exclusive with --json)")
	cmd.Flags().Int("preview-rows", config.DefaultPreviewRows,
		"Rows shown in the Markdown preview (0 for all)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record conversions in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runConvert(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and cobra
// command flags. Flags that were set explicitly win over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
		return nil, err
	}
	if cfg.Overwrite, err = flags.GetBool("force"); err != nil {
		return nil, err
	}
	if cfg.Title, err = flags.GetString("title"); err != nil {
		return nil, err
	}
	if cfg.Subject, err = flags.GetString("subject"); err != nil {
		return nil, err
	}
	if cfg.EncodingHint, err = flags.GetString("encoding"); err != nil {
		return nil, err
	}
	noCompress, err := flags.GetBool("no-compress")
	if err != nil {
		return nil, err
	}
	cfg.Compress = !noCompress

	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.MaxFileSize, err = flags.GetInt64("max-size"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.PreviewRows, err = flags.GetInt("preview-rows"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default search may
	// find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.ApplyFile(file, flags.Changed); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	pageSize, err := flags.GetString("page-size")
	if err != nil {
		return nil, err
	}
	portrait, err := flags.GetBool("portrait")
	if err != nil {
		return nil, err
	}
	if pageSize != "" || portrait {
		// Without --portrait the orientation from the config file is kept.
		page := config.PageConfig{Size: pageSize, Orientation: config.OrientationLandscape}
		if portrait || cfg.Geometry.PageWidth < cfg.Geometry.PageHeight {
			page.Orientation = config.OrientationPortrait
		}
		if cfg.Geometry, err = page.Apply(cfg.Geometry); err != nil {
			return nil, err
		}
	}

	cfg.Inputs, err = expandInputs(args)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// expandInputs replaces directory arguments by the export files they
// contain. File arguments are kept as given whatever their extension.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if entry.Type().IsRegular() && slices.Contains(inputExtensions, ext) {
				inputs = append(inputs, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return inputs, nil
}

// outcome is the result of converting one input.
type outcome struct {
	conv *model.Conversion

	// output is the path the PDF was written to.
	output string

	// previous lists earlier conversions of the same content.
	previous []*database.Record
}

// runConvert converts every input of cfg, writes the PDFs and prints one
// summary per input to out. It returns an error when any conversion failed.
func runConvert(ctx context.Context, cfg *config.Config, out, errOut io.Writer, logger *slog.Logger) error {
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Debug("history database opened", "path", db.Path())
	}

	settings := pipeline.Settings{
		Title:        cfg.Title,
		Subject:      cfg.Subject,
		EncodingHint: cfg.EncodingHint,
		Geometry:     cfg.Geometry,
		Parser:       parser.New(parser.WithExtraRules(cfg.File.DelimiterRules()...)),
		Packager:     report.NewPackager(report.WithPackagerCompression(cfg.Compress)),
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.NewConversionPipeline(settings, pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithMaxFileSize(cfg.MaxFileSize),
		pipeline.WithTitle(cfg.Title),
		pipeline.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	outcomes := make([]*outcome, len(cfg.Inputs))

	// Inputs that would write the same PDF, such as X.DAT and X.txt, are
	// rejected before any conversion starts. The first one keeps the name.
	outputs, collisions := planOutputs(cfg)
	var batch []string
	var batchIndex []int
	for i, input := range cfg.Inputs {
		if other, ok := collisions[i]; ok {
			conv := model.NewConversion(model.NewRawDocument(filepath.Base(input), nil), cfg.Title)
			conv.Err = fmt.Errorf("%s: %w (%s)", outputs[i], errOutputCollision, cfg.Inputs[other])
			outcomes[i] = &outcome{conv: conv}
			continue
		}
		batch = append(batch, input)
		batchIndex = append(batchIndex, i)
	}

	err := bp.ProcessBatchWithCallback(ctx, batch, func(conv *model.Conversion, index int) {
		index = batchIndex[index]
		o := &outcome{conv: conv}

		if conv.Succeeded() {
			if err := writeArtifact(outputs[index], cfg.Overwrite, conv.Artifact); err != nil {
				conv.Err = err
			} else {
				o.output = outputs[index]
			}
		}

		if db != nil {
			o.previous = findPrevious(ctx, db, conv, logger)
			if err := db.SaveConversion(ctx, database.NewRecord(conv, o.output)); err != nil {
				logger.Error("failed to record conversion", "source", conv.Raw.Name, "error", err)
			}
		}

		mu.Lock()
		outcomes[index] = o
		mu.Unlock()
	})
	if err != nil {
		return err
	}

	failed := 0
	for i, o := range outcomes {
		if o == nil {
			continue
		}
		if !o.conv.Succeeded() {
			failed++
			fmt.Fprintf(errOut, "Error: %s: %s: %v\n", cfg.Inputs[i], o.conv.ErrorKind(), o.conv.Err)
			continue
		}
		if err := printSummary(out, cfg, o); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(cfg.Inputs))
	}
	return nil
}

// planOutputs returns the PDF path of every input and, for each input
// whose path was already taken, the index of the input that took it.
func planOutputs(cfg *config.Config) ([]string, map[int]int) {
	outputs := make([]string, len(cfg.Inputs))
	collisions := make(map[int]int)
	claimed := make(map[string]int, len(cfg.Inputs))

	for i, input := range cfg.Inputs {
		dir := cfg.OutputDir
		if dir == "" {
			dir = filepath.Dir(input)
		}
		outputs[i] = filepath.Join(dir, report.OutputFileName(filepath.Base(input)))

		key := outputs[i]
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if first, ok := claimed[key]; ok {
			collisions[i] = first
			continue
		}
		claimed[key] = i
	}
	return outputs, collisions
}

// writeArtifact writes the PDF of a conversion to path.
// PDFs contain policyholder data, so they are readable by the owner only.
func writeArtifact(path string, overwrite bool, artifact *model.ReportArtifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flag |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flag, 0o600) //nolint:gosec // output path is built from user input on purpose
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, errOutputExists)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := io.Copy(f, artifact.Preview()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// findPrevious returns earlier successful conversions of the same content.
func findPrevious(ctx context.Context, db *database.HistoryDB, conv *model.Conversion, logger *slog.Logger) []*database.Record {
	if conv.Raw == nil || conv.Raw.Size() == 0 {
		return nil
	}
	records, err := db.FindByDigest(ctx, conv.Raw.Digest())
	if err != nil {
		logger.Warn("failed to look up conversion history", "source", conv.Raw.Name, "error", err)
		return nil
	}
	return slices.DeleteFunc(records, func(r *database.Record) bool { return !r.Succeeded() })
}

// printSummary writes the summary of a successful conversion in the
// format selected by cfg.
func printSummary(out io.Writer, cfg *config.Config, o *outcome) error {
	r := report.NewReport(o.conv, cfg.Geometry, cfg.Subject)

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out, report.WithMaxRows(cfg.PreviewRows))
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
	if _, err := w.Write(r); err != nil {
		return err
	}

	if cfg.JSONReport || cfg.MarkdownReport {
		return nil
	}
	fmt.Fprintf(out, "Written:    %s\n", o.output)
	if len(o.previous) > 0 {
		last := o.previous[0]
		fmt.Fprintf(out, "Note:       same content converted on %s (%s)\n",
			last.CreatedAt.Local().Format("2006-01-02 15:04"), last.Output)
	}
	return nil
}
