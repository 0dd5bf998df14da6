package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/budget-tracker/internal/config"
	"github.com/mrlokans/budget-tracker/internal/exporters"
)

// SnapshotCommand copies the store into a standalone SQLite file.
type SnapshotCommand struct {
	DatabasePath string
	ExportDir    string
	OutputPath   string
	Overwrite    bool
	LogLevel     string
	Verbose      bool

	Stdout io.Writer
	Stderr io.Writer
}

func NewSnapshotCommand(cfg *config.Config) *SnapshotCommand {
	return &SnapshotCommand{
		DatabasePath: cfg.Database.Path,
		ExportDir:    cfg.Export.Dir,
		LogLevel:     cfg.Log.Level,
	}
}

func (cmd *SnapshotCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the budget database")
	fs.StringVar(&cmd.OutputPath, "out", "", "Snapshot file (default: <db name>_export_<timestamp>.db in -dir)")
	fs.StringVar(&cmd.ExportDir, "dir", cmd.ExportDir, "Directory for snapshots without -out")
	fs.BoolVar(&cmd.Overwrite, "overwrite", false, "Replace the output file if it exists")
	fs.StringVar(&cmd.LogLevel, "log-level", cmd.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s snapshot [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Write a consistent copy of the budget database that can be imported later.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SnapshotCommand) Run() error {
	e, err := openEnv(cmd.DatabasePath, cmd.Verbose, cmd.LogLevel, stderr(cmd.Stderr))
	if err != nil {
		return err
	}
	defer e.Close()

	exporter := exporters.NewExporter(e.db, "", cmd.ExportDir, e.audit, e.log)
	result, err := exporter.Snapshot(cmd.OutputPath, cmd.Overwrite)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	fmt.Fprintf(stdout(cmd.Stdout), "Snapshot written to %s (%s)\n", result.Path, result.Method)
	return nil
}
