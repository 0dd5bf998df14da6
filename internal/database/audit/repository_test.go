package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/budget-tracker/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      "flat-combined_import",
		Description: "Read 3 rows from export.csv",
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for i := 0; i < 15; i++ {
		require.NoError(t, repo.LogEvent(&entities.AuditEvent{
			EventType: entities.AuditEventImport,
			Action:    "test_import",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.LogEvent(&entities.AuditEvent{
			EventType: entities.AuditEventExport,
			Action:    "csv_export",
			Status:    entities.AuditStatusSuccess,
		}))
	}

	t.Run("get all events", func(t *testing.T) {
		events, total, err := repo.GetEvents(50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 20)
	})

	t.Run("default page size", func(t *testing.T) {
		events, _, err := repo.GetEvents(0, 0)
		require.NoError(t, err)
		assert.Len(t, events, 20)
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 5)

		events2, _, err := repo.GetEvents(5, 5)
		require.NoError(t, err)
		assert.Len(t, events2, 5)
		assert.NotEqual(t, events[0].ID, events2[0].ID)
	})

	t.Run("order by created_at desc", func(t *testing.T) {
		events, _, err := repo.GetEvents(20, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].CreatedAt.Before(events[i].CreatedAt))
		}
	})

	t.Run("filter by type", func(t *testing.T) {
		events, total, err := repo.GetEventsByType(entities.AuditEventExport, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, e := range events {
			assert.Equal(t, entities.AuditEventExport, e.EventType)
		}
	})
}

func TestRepository_GetEventsByBatch(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{EventType: entities.AuditEventApply, BatchID: "batch-a"}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{EventType: entities.AuditEventApply, BatchID: "batch-b"}))

	events, err := repo.GetEventsByBatch("batch-a")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "batch-a", events[0].BatchID)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	now := time.Now()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventImport,
		Action:    "old_import",
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventExport,
		Action:    "new_export",
		CreatedAt: now.Add(-1 * time.Hour),
	}))

	deleted, err := repo.DeleteOldEvents(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.GetEvents(50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, "new_export", events[0].Action)
}

func TestRepository_GetEventByID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.AuditEvent{
		EventType: entities.AuditEventImport,
		Action:    "test_import",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, repo.LogEvent(event))

	t.Run("existing event", func(t *testing.T) {
		found, err := repo.GetEventByID(event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.ID, found.ID)
		assert.Equal(t, "test_import", found.Action)
	})

	t.Run("non-existing event", func(t *testing.T) {
		_, err := repo.GetEventByID(999)
		assert.Error(t, err)
	})
}
