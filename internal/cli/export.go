package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/budget-tracker/internal/config"
	"github.com/mrlokans/budget-tracker/internal/exporters"
)

// ExportCommand writes the whole store as CSV, JSON or a database snapshot.
type ExportCommand struct {
	DatabasePath string
	ExportDir    string
	AppName      string
	Format       string
	Bundling     string
	OutputPath   string
	LogLevel     string
	Verbose      bool

	Stdout io.Writer
	Stderr io.Writer
}

func NewExportCommand(cfg *config.Config) *ExportCommand {
	return &ExportCommand{
		DatabasePath: cfg.Database.Path,
		ExportDir:    cfg.Export.Dir,
		AppName:      cfg.AppName,
		LogLevel:     cfg.Log.Level,
	}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the budget database")
	fs.StringVar(&cmd.Format, "format", "csv", "Output format: csv, json or db")
	fs.StringVar(&cmd.Bundling, "bundling", "combined", "combined (one file) or per-entity (zip with one file per entity)")
	fs.StringVar(&cmd.OutputPath, "out", "", "Output file (default: timestamped name in -dir)")
	fs.StringVar(&cmd.ExportDir, "dir", cmd.ExportDir, "Directory for exports without -out")
	fs.StringVar(&cmd.AppName, "app-name", cmd.AppName, "Application name written into the export header")
	fs.StringVar(&cmd.LogLevel, "log-level", cmd.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export categories, wallets, expenses, goals and the profile.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export -format json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -format csv -bundling per-entity -out backup.zip\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := exporters.ParseFormat(cmd.Format); err != nil {
		return err
	}
	if _, err := exporters.ParseBundling(cmd.Bundling); err != nil {
		return err
	}
	return nil
}

func (cmd *ExportCommand) Run() error {
	out := stdout(cmd.Stdout)

	format, err := exporters.ParseFormat(cmd.Format)
	if err != nil {
		return err
	}
	bundling, err := exporters.ParseBundling(cmd.Bundling)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd.DatabasePath, cmd.Verbose, cmd.LogLevel, stderr(cmd.Stderr))
	if err != nil {
		return err
	}
	defer e.Close()

	exporter := exporters.NewExporter(e.db, cmd.AppName, cmd.ExportDir, e.audit, e.log)
	result, err := exporter.Export(format, bundling, cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(out, "Exported to %s\n", result.Path)
	if result.Rows != nil {
		printCounts(out, result.Rows)
	}
	return nil
}
