package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/budget-tracker/internal/config"
	"github.com/mrlokans/budget-tracker/internal/importers"
)

// ImportCommand reads an interchange file or snapshot and merges it into the store.
type ImportCommand struct {
	FilePath     string
	DatabasePath string
	LogLevel     string
	Verbose      bool
	DryRun       bool

	Stdout io.Writer
	Stderr io.Writer
}

func NewImportCommand(cfg *config.Config) *ImportCommand {
	return &ImportCommand{
		DatabasePath: cfg.Database.Path,
		LogLevel:     cfg.Log.Level,
	}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the file to import (required)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the budget database")
	fs.StringVar(&cmd.LogLevel, "log-level", cmd.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and count records without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Merge an export into the budget database. Accepted inputs:\n")
		fmt.Fprintf(os.Stderr, "  .csv            sectioned CSV export\n")
		fmt.Fprintf(os.Stderr, "  .json           single JSON document\n")
		fmt.Fprintf(os.Stderr, "  .zip            one CSV or JSON file per entity\n")
		fmt.Fprintf(os.Stderr, "  .db / .sqlite   database snapshot\n\n")
		fmt.Fprintf(os.Stderr, "Categories and wallets that already exist are reused, everything else is added.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file export_all_20240101_120000.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file backup.db -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportCommand) Run() error {
	out := stdout(cmd.Stdout)

	e, err := openEnv(cmd.DatabasePath, cmd.Verbose, cmd.LogLevel, stderr(cmd.Stderr))
	if err != nil {
		return err
	}
	defer e.Close()

	pipeline := importers.NewPipeline(e.db, e.audit, e.log)

	result, err := pipeline.Import(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", cmd.FilePath, err)
	}

	fmt.Fprintf(out, "Source: %s (%s)\n", result.Source.Path, result.Source.Kind)
	fmt.Fprintln(out, "Records found:")
	printCounts(out, result.Tables.Counts())

	if cmd.DryRun {
		fmt.Fprintln(out, "\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	report := pipeline.Apply(result.Tables)
	fmt.Fprintf(out, "\nBatch: %s\n", report.BatchID)
	fmt.Fprintln(out, "Records added:")
	printCounts(out, report.Inserted)

	if msgs := report.ErrorMessages(); len(msgs) > 0 {
		fmt.Fprintf(out, "\n%d records could not be imported:\n", len(msgs))
		for _, msg := range msgs {
			fmt.Fprintf(out, "  - %s\n", msg)
		}
	}
	return nil
}
