package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/budget-tracker/internal/config"
	"github.com/mrlokans/budget-tracker/internal/database"
	"github.com/mrlokans/budget-tracker/internal/entities"
	"github.com/mrlokans/budget-tracker/internal/exporters"
)

type fakeCleaner struct {
	calls     int
	retention time.Duration
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.calls++
	f.retention = retention
	return 0, nil
}

func setupExporter(t *testing.T) *exporters.Exporter {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.CreateWallet(&entities.Wallet{Name: "Cash", Currency: "EUR"}))
	return exporters.NewExporter(db, "", t.TempDir(), nil, zerolog.Nop())
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestSnapshotScheduler_RunNowPrunesOldSnapshots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual.db"), []byte("x"), 0o644))

	cleaner := &fakeCleaner{}
	s := NewSnapshotScheduler(config.Snapshot{Enabled: true, Schedule: "0 3 * * *", Dir: dir, Keep: 2}, 30, setupExporter(t), cleaner, zerolog.Nop())

	clock := time.Date(2024, 5, 1, 3, 0, 0, 0, time.Local)
	s.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		result, err := s.RunNow()
		require.NoError(t, err)
		assert.FileExists(t, result.Path)
		clock = clock.Add(24 * time.Hour)
	}

	assert.Equal(t, []string{
		"manual.db",
		"snapshot_20240502_030000.db",
		"snapshot_20240503_030000.db",
	}, listDir(t, dir))
	assert.Equal(t, 3, cleaner.calls)
	assert.Equal(t, 30*24*time.Hour, cleaner.retention)
}

func TestSnapshotScheduler_KeepZeroRetainsAll(t *testing.T) {
	dir := t.TempDir()
	s := NewSnapshotScheduler(config.Snapshot{Dir: dir}, 0, setupExporter(t), nil, zerolog.Nop())

	clock := time.Date(2024, 5, 1, 3, 0, 0, 0, time.Local)
	s.now = func() time.Time { return clock }
	for i := 0; i < 3; i++ {
		_, err := s.RunNow()
		require.NoError(t, err)
		clock = clock.Add(time.Hour)
	}
	assert.Len(t, listDir(t, dir), 3)
}

func TestSnapshotScheduler_SameSecondFails(t *testing.T) {
	dir := t.TempDir()
	s := NewSnapshotScheduler(config.Snapshot{Dir: dir, Keep: 5}, 0, setupExporter(t), nil, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 3, 0, 0, 0, time.Local) }

	_, err := s.RunNow()
	require.NoError(t, err)
	_, err = s.RunNow()
	assert.ErrorIs(t, err, exporters.ErrAlreadyExists)
}

func TestSnapshotScheduler_StartStop(t *testing.T) {
	t.Run("disabled does not start", func(t *testing.T) {
		s := NewSnapshotScheduler(config.Snapshot{Enabled: false, Schedule: "0 3 * * *", Dir: t.TempDir()}, 0, setupExporter(t), nil, zerolog.Nop())
		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRunTime())
	})

	t.Run("invalid schedule", func(t *testing.T) {
		s := NewSnapshotScheduler(config.Snapshot{Enabled: true, Schedule: "every day", Dir: t.TempDir()}, 0, setupExporter(t), nil, zerolog.Nop())
		assert.Error(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
	})

	t.Run("runs until stopped", func(t *testing.T) {
		s := NewSnapshotScheduler(config.Snapshot{Enabled: true, Schedule: "@daily", Dir: t.TempDir()}, 0, setupExporter(t), nil, zerolog.Nop())
		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())
		require.NotNil(t, s.NextRunTime())
		assert.True(t, s.NextRunTime().After(time.Now()))

		s.Stop()
		assert.False(t, s.IsRunning())
	})

	t.Run("context cancellation stops", func(t *testing.T) {
		s := NewSnapshotScheduler(config.Snapshot{Enabled: true, Schedule: "0 * * * *", Dir: t.TempDir()}, 0, setupExporter(t), nil, zerolog.Nop())
		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, s.Start(ctx))
		cancel()
		assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
	})
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("@hourly"))
	assert.Error(t, ValidateCronSchedule("* * *"))
}
