package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrlokans/budget-tracker/internal/audit"
	"github.com/mrlokans/budget-tracker/internal/database"
	auditRepo "github.com/mrlokans/budget-tracker/internal/database/audit"
	"github.com/mrlokans/budget-tracker/internal/logger"
	"github.com/mrlokans/budget-tracker/internal/schema"
)

// env carries what every command opens: the store, its audit trail and a logger.
type env struct {
	db    *database.Database
	audit *audit.Service
	log   zerolog.Logger
}

func openEnv(dbPath string, verbose bool, logLevel string, stderr io.Writer) (*env, error) {
	if verbose {
		logLevel = "debug"
	}
	log := logger.NewWithWriter(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).Level(logger.ParseLevel(logLevel))

	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath, database.WithLogger(log, logger.GormLevel(log.GetLevel())))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &env{
		db:    db,
		audit: audit.NewService(auditRepo.NewRepository(db.DB), log),
		log:   log,
	}, nil
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		e.log.Warn().Err(err).Msg("failed to close database")
	}
}

// printCounts writes one "entity: n" line per entity in interchange order.
func printCounts(w io.Writer, counts map[schema.Entity]int) {
	for _, e := range schema.Entities {
		fmt.Fprintf(w, "  %-10s %d\n", string(e)+":", counts[e])
	}
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func stderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}
