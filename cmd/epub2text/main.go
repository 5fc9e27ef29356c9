package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuanying/epub2text/internal/converter"
)

const stdoutPath = "-"

// cliOptions holds everything read from the command line.
type cliOptions struct {
	InputPath  string
	OutputPath string
	Render     converter.RenderOptions
	Lenient    bool
	Jobs       int
	Logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epub2text <book.epub>",
		Short: "Convert EPUB files to plain text",
		Long: `epub2text converts an EPUB 2 ebook into plain text organised by its
table of contents.

Each table of contents entry becomes a chapter holding the text between
its position and the next entry. Text before the first entry is written as
the preface.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", stdoutPath, `Output file path ("-" for stdout, "" for input name with format extension)`)
	f.StringP("format", "f", string(converter.FormatText), "Output format: text or json")
	f.Bool("toc", false, "Prepend a table of contents to text output")
	f.Bool("lenient", false, "Parse content that is not well-formed XHTML with the HTML parser")
	f.IntP("jobs", "j", 0, "Content documents decoded in parallel (0 = number of CPUs)")
	f.String("log-level", "info", "Log level: debug, info, warn, error")
	f.String("log-format", "text", "Log format: text or json")
	f.BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")
	return cmd
}

// readCLIOptions validates flags and builds the options for a run.
func readCLIOptions(cmd *cobra.Command, args []string) (*cliOptions, error) {
	f := cmd.Flags()
	outputPath, _ := f.GetString("output")
	formatName, _ := f.GetString("format")
	toc, _ := f.GetBool("toc")
	lenient, _ := f.GetBool("lenient")
	jobs, _ := f.GetInt("jobs")
	logLevel, _ := f.GetString("log-level")
	logFormat, _ := f.GetString("log-format")
	verbose, _ := f.GetBool("verbose")

	format, err := converter.ParseFormat(formatName)
	if err != nil {
		return nil, fmt.Errorf("invalid --format: %w", err)
	}
	if jobs < 0 {
		return nil, fmt.Errorf("invalid --jobs %d: must not be negative", jobs)
	}
	if _, err := parseLogLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	switch strings.ToLower(logFormat) {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid --log-format %q (want text or json)", logFormat)
	}
	if verbose {
		logLevel = "debug"
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(args[0], format)
	}

	return &cliOptions{
		InputPath:  args[0],
		OutputPath: outputPath,
		Render:     converter.RenderOptions{Format: format, TOC: toc},
		Lenient:    lenient,
		Jobs:       jobs,
		Logger:     buildLogger(cmd.ErrOrStderr(), logLevel, logFormat),
	}, nil
}

func run(cmd *cobra.Command, opts *cliOptions) error {
	opts.Logger.Info("converting", "input", opts.InputPath, "output", opts.OutputPath)

	p := converter.NewPipeline(converter.Options{
		Logger:      opts.Logger,
		Lenient:     opts.Lenient,
		Concurrency: opts.Jobs,
	})
	book, err := p.ConvertFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if opts.OutputPath == stdoutPath {
		return converter.Render(cmd.OutOrStdout(), book, opts.Render)
	}

	out, err := os.Create(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := converter.Render(out, book, opts.Render); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	opts.Logger.Info("done", "output", opts.OutputPath, "chapters", book.ChapterCount())
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}

// buildLogger creates a slog logger writing to w. Unknown levels fall back
// to info; format "json" (any case) selects the JSON handler.
func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, err := parseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// defaultOutputPath replaces the input extension with the format's.
func defaultOutputPath(inputPath string, format converter.Format) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + format.Extension()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
