package importers

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/budget-tracker/internal/audit"
	auditRepo "github.com/mrlokans/budget-tracker/internal/database/audit"
	"github.com/mrlokans/budget-tracker/internal/entities"
	"github.com/mrlokans/budget-tracker/internal/schema"
)

func TestPipeline_EndToEndFlatCombined(t *testing.T) {
	db := setupTestDB(t)
	auditSvc := audit.NewService(auditRepo.NewRepository(db.DB), zerolog.Nop())
	pipeline := NewPipeline(db, auditSvc, zerolog.Nop())

	path := writeFile(t, t.TempDir(), "export.csv", "__TABLE__,category\nname,limit_amount,type,currency\nFood,300.00,0,EUR\n")

	result, err := pipeline.Import(path)
	require.NoError(t, err)
	assert.Equal(t, KindFlatCombined, result.Source.Kind)
	assert.True(t, filepath.IsAbs(result.Source.Path))
	require.Len(t, result.Tables.Categories, 1)

	report := pipeline.Apply(result.Tables)
	assert.Equal(t, map[schema.Entity]int{
		schema.EntityCategory: 1,
		schema.EntityWallet:   0,
		schema.EntityExpense:  0,
		schema.EntityGoal:     0,
		schema.EntityProfile:  0,
	}, report.Inserted)
	assert.Empty(t, report.Errors)

	category, err := db.FindCategoryByName("Food")
	require.NoError(t, err)
	require.NotNil(t, category)
	assert.Equal(t, "300.00", category.LimitAmount.Decimal.StringFixed(2))

	t.Run("both phases are audited", func(t *testing.T) {
		imports, _, err := auditSvc.GetEventsByType(entities.AuditEventImport, 10, 0)
		require.NoError(t, err)
		require.Len(t, imports, 1)
		assert.Equal(t, "flat-combined_import", imports[0].Action)

		applies, _, err := auditSvc.GetEventsByType(entities.AuditEventApply, 10, 0)
		require.NoError(t, err)
		require.Len(t, applies, 1)
		assert.Equal(t, report.BatchID, applies[0].BatchID)
	})
}

func TestPipeline_ImportDoesNotWrite(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, nil, zerolog.Nop())

	path := writeFile(t, t.TempDir(), "export.csv", "__TABLE__,wallet\nname,amount,currency\nCash,10,EUR\n")
	_, err := pipeline.Import(path)
	require.NoError(t, err)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats["wallet"])
}

func TestPipeline_ImportAndApply(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, nil, zerolog.Nop())

	path := writeZip(t, t.TempDir(), "export.zip", map[string]string{
		"wallet.json":  `[{"id": 4, "name": "Cash", "amount": 10.5, "currency": "EUR"}]`,
		"expense.json": `[{"id": 1, "name": "Lunch", "cost": 12, "date": "2024-03-01T12:30:00", "wallet_id": 4}]`,
	})

	result, report, err := pipeline.ImportAndApply(path)
	require.NoError(t, err)
	assert.Equal(t, KindStructuredArchive, result.Source.Kind)
	assert.Equal(t, 1, report.Inserted[schema.EntityWallet])
	assert.Equal(t, 1, report.Inserted[schema.EntityExpense])

	expenses, err := db.ListExpenses()
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "2024-03-01", expenses[0].Date)
	require.NotNil(t, expenses[0].WalletID)
}

func TestPipeline_Errors(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, nil, zerolog.Nop())
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := pipeline.Import(filepath.Join(dir, "missing.csv"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unrecognized archive", func(t *testing.T) {
		path := writeZip(t, dir, "odd.zip", map[string]string{"notes.txt": "x"})
		_, _, err := pipeline.ImportAndApply(path)
		assert.ErrorIs(t, err, ErrUnrecognizedFormat)
	})

	t.Run("corrupt json", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", "{")
		_, err := pipeline.Import(path)
		assert.Error(t, err)
	})
}
