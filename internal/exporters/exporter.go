// Package exporters writes the budget store out as interchange documents
// (CSV or JSON, combined or one file per entity) and as standalone SQLite
// snapshots that the importers package reads back.
package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/budget-tracker/internal/audit"
	"github.com/mrlokans/budget-tracker/internal/database"
	"github.com/mrlokans/budget-tracker/internal/entities"
	"github.com/mrlokans/budget-tracker/internal/schema"
)

const timestampLayout = "20060102_150405"

// DefaultAppName is written into export metadata when none is configured.
const DefaultAppName = "Finance Tool"

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatDB   Format = "db"
)

// Bundling selects a single document or an archive with one member per entity.
type Bundling string

const (
	BundlingCombined  Bundling = "combined"
	BundlingPerEntity Bundling = "per-entity"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatDB:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseBundling accepts "combined" and "per-entity"; empty means combined.
func ParseBundling(s string) (Bundling, error) {
	switch b := Bundling(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BundlingCombined, nil
	case BundlingCombined, BundlingPerEntity:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBundling, s)
}

// Store is what the exporter reads from.
type Store interface {
	ListCategories() ([]entities.Category, error)
	ListWallets() ([]entities.Wallet, error)
	ListExpenses() ([]entities.Expense, error)
	ListGoals() ([]entities.Goal, error)
	ListProfiles() ([]entities.Profile, error)
	VacuumInto(dest string) error // refuses an existing dest with fs.ErrExist
	BackupTo(dest string) error
	Path() string
}

var _ Store = (*database.Database)(nil)

type ExportResult struct {
	Path     string                `json:"path"`
	Format   Format                `json:"format"`
	Bundling Bundling              `json:"bundling,omitempty"`
	Rows     map[schema.Entity]int `json:"rows,omitempty"`
	Method   string                `json:"method,omitempty"` // snapshot copy mechanism
}

type Exporter struct {
	store     Store
	appName   string
	exportDir string
	audit     *audit.Service
	log       zerolog.Logger
	now       func() time.Time
}

// NewExporter creates an exporter. Exports without an explicit output path
// land in exportDir. auditSvc may be nil.
func NewExporter(store Store, appName, exportDir string, auditSvc *audit.Service, log zerolog.Logger) *Exporter {
	if appName == "" {
		appName = DefaultAppName
	}
	return &Exporter{
		store:     store,
		appName:   appName,
		exportDir: exportDir,
		audit:     auditSvc,
		log:       log,
		now:       time.Now,
	}
}

// Export writes every entity in the given format. An empty outPath picks a
// timestamped name inside the export directory.
func (x *Exporter) Export(format Format, bundling Bundling, outPath string) (ExportResult, error) {
	if format == FormatDB {
		return x.Snapshot(outPath, false)
	}

	result, err := x.export(format, bundling, outPath)
	x.audit.LogExport(result.Path, string(format), string(bundling), result.Rows, err)
	if err != nil {
		return result, err
	}

	x.log.Info().
		Str("path", result.Path).
		Str("format", string(format)).
		Str("bundling", string(bundling)).
		Interface("rows", result.Rows).
		Msg("export written")
	return result, nil
}

func (x *Exporter) export(format Format, bundling Bundling, outPath string) (ExportResult, error) {
	ts := x.now().Format(timestampLayout)
	result := ExportResult{Format: format, Bundling: bundling}

	var write func(path, ts string, tables schema.RawTables) error
	ext := ".zip"
	switch {
	case format == FormatCSV && bundling == BundlingCombined:
		write, ext = x.writeFlat, ".csv"
	case format == FormatCSV && bundling == BundlingPerEntity:
		write = x.writeFlatArchive
	case format == FormatJSON && bundling == BundlingCombined:
		write, ext = x.writeStructured, ".json"
	case format == FormatJSON && bundling == BundlingPerEntity:
		write = x.writeStructuredArchive
	case format != FormatCSV && format != FormatJSON:
		return result, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	default:
		return result, fmt.Errorf("%w: %q", ErrUnknownBundling, bundling)
	}

	if outPath == "" {
		outPath = filepath.Join(x.exportDir, "export_all_"+ts+ext)
	}
	result.Path = outPath

	tables, err := x.collect()
	if err != nil {
		return result, err
	}
	result.Rows = tables.Counts()

	if err := ensureDir(outPath); err != nil {
		return result, err
	}
	if err := write(outPath, ts, tables.Raw()); err != nil {
		_ = os.Remove(outPath)
		return result, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return result, nil
}

// collect loads every entity ordered by id.
func (x *Exporter) collect() (schema.Tables, error) {
	var t schema.Tables

	categories, err := x.store.ListCategories()
	if err != nil {
		return t, fmt.Errorf("failed to list categories: %w", err)
	}
	wallets, err := x.store.ListWallets()
	if err != nil {
		return t, fmt.Errorf("failed to list wallets: %w", err)
	}
	expenses, err := x.store.ListExpenses()
	if err != nil {
		return t, fmt.Errorf("failed to list expenses: %w", err)
	}
	goals, err := x.store.ListGoals()
	if err != nil {
		return t, fmt.Errorf("failed to list goals: %w", err)
	}
	profiles, err := x.store.ListProfiles()
	if err != nil {
		return t, fmt.Errorf("failed to list profiles: %w", err)
	}

	for _, c := range categories {
		t.Categories = append(t.Categories, categoryRecord(c))
	}
	for _, w := range wallets {
		t.Wallets = append(t.Wallets, walletRecord(w))
	}
	for _, e := range expenses {
		t.Expenses = append(t.Expenses, expenseRecord(e))
	}
	for _, g := range goals {
		t.Goals = append(t.Goals, goalRecord(g))
	}
	for _, p := range profiles {
		t.Profiles = append(t.Profiles, profileRecord(p))
	}
	return t, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}
