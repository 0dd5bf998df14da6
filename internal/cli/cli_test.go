package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/budget-tracker/internal/config"
	"github.com/mrlokans/budget-tracker/internal/database"
	"github.com/mrlokans/budget-tracker/internal/entities"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Database: config.Database{Path: filepath.Join(dir, "budget.db")},
		Export:   config.Export{Dir: filepath.Join(dir, "exports"), AppName: "Finance Tool"},
		Log:      config.Log{Level: "error"},
	}
}

func seedDatabase(t *testing.T, path string) {
	t.Helper()
	db, err := database.NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	food := &entities.Category{Name: "Food", Currency: "EUR"}
	require.NoError(t, db.CreateCategory(food))
	require.NoError(t, db.CreateExpense(&entities.Expense{
		Name: "Lunch", CategoryID: &food.ID, Cost: decimal.RequireFromString("12.5"), Date: "2024-03-01",
	}))
}

func TestExportImportCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	seedDatabase(t, cfg.Database.Path)

	exportPath := filepath.Join(dir, "out", "budget.json")
	export := NewExportCommand(cfg)
	require.NoError(t, export.ParseFlags([]string{"-format", "json", "-out", exportPath}))
	var exportOut bytes.Buffer
	export.Stdout, export.Stderr = &exportOut, &bytes.Buffer{}
	require.NoError(t, export.Run())
	assert.Contains(t, exportOut.String(), "Exported to "+exportPath)
	assert.Contains(t, exportOut.String(), "expense:")
	assert.FileExists(t, exportPath)

	targetPath := filepath.Join(dir, "target.db")

	t.Run("dry run writes nothing", func(t *testing.T) {
		cmd := NewImportCommand(cfg)
		require.NoError(t, cmd.ParseFlags([]string{"-file", exportPath, "-db", targetPath, "-dry-run"}))
		var out bytes.Buffer
		cmd.Stdout, cmd.Stderr = &out, &bytes.Buffer{}
		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "structured-combined")
		assert.Contains(t, out.String(), "Dry run complete")

		db, err := database.NewDatabase(targetPath)
		require.NoError(t, err)
		defer db.Close()
		stats, err := db.Stats()
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats["expense"])
	})

	t.Run("import applies", func(t *testing.T) {
		cmd := NewImportCommand(cfg)
		require.NoError(t, cmd.ParseFlags([]string{"-file", exportPath, "-db", targetPath}))
		var out bytes.Buffer
		cmd.Stdout, cmd.Stderr = &out, &bytes.Buffer{}
		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "Records added:")

		db, err := database.NewDatabase(targetPath)
		require.NoError(t, err)
		defer db.Close()
		expenses, err := db.ListExpenses()
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Lunch", expenses[0].Name)
		assert.NotNil(t, expenses[0].CategoryID)
	})
}

func TestImportCommand_RequiresFile(t *testing.T) {
	cmd := NewImportCommand(testConfig(t.TempDir()))
	err := cmd.ParseFlags([]string{})
	assert.EqualError(t, err, "required flag -file not provided")
}

func TestImportCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cmd := NewImportCommand(testConfig(dir))
	require.NoError(t, cmd.ParseFlags([]string{"-file", filepath.Join(dir, "nope.csv")}))
	cmd.Stdout, cmd.Stderr = &bytes.Buffer{}, &bytes.Buffer{}
	assert.Error(t, cmd.Run())
}

func TestExportCommand_DefaultsToExportDir(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	seedDatabase(t, cfg.Database.Path)

	cmd := NewExportCommand(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"-bundling", "per-entity"}))
	cmd.Stdout, cmd.Stderr = &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, cmd.Run())

	entries, err := os.ReadDir(cfg.Export.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".zip", filepath.Ext(entries[0].Name()))
}

func TestExportCommand_RejectsUnknownFormat(t *testing.T) {
	cmd := NewExportCommand(testConfig(t.TempDir()))
	assert.Error(t, cmd.ParseFlags([]string{"-format", "xml"}))
}

func TestSnapshotCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	seedDatabase(t, cfg.Database.Path)
	out := filepath.Join(dir, "copy.db")

	cmd := NewSnapshotCommand(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"-out", out}))
	var stdout bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &bytes.Buffer{}
	require.NoError(t, cmd.Run())
	assert.Contains(t, stdout.String(), "Snapshot written to "+out)

	t.Run("refuses to overwrite", func(t *testing.T) {
		again := NewSnapshotCommand(cfg)
		require.NoError(t, again.ParseFlags([]string{"-out", out}))
		again.Stdout, again.Stderr = &bytes.Buffer{}, &bytes.Buffer{}
		assert.Error(t, again.Run())
	})

	t.Run("overwrite flag replaces", func(t *testing.T) {
		again := NewSnapshotCommand(cfg)
		require.NoError(t, again.ParseFlags([]string{"-out", out, "-overwrite"}))
		again.Stdout, again.Stderr = &bytes.Buffer{}, &bytes.Buffer{}
		assert.NoError(t, again.Run())
	})
}
