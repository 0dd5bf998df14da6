package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mrlokans/budget-tracker/internal/config"
	"github.com/mrlokans/budget-tracker/internal/exporters"
)

const (
	snapshotPrefix     = "snapshot_"
	snapshotExt        = ".db"
	snapshotTimeLayout = "20060102_150405"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Snapshotter writes a standalone copy of the store.
type Snapshotter interface {
	Snapshot(dest string, overwrite bool) (exporters.ExportResult, error)
}

// AuditCleaner purges audit events past their retention.
type AuditCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// SnapshotScheduler periodically writes store snapshots into a directory,
// keeps only the newest ones and purges stale audit events.
type SnapshotScheduler struct {
	cfg       config.Snapshot
	retention time.Duration
	snapshots Snapshotter
	audit     AuditCleaner
	log       zerolog.Logger
	now       func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	runMu      sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSnapshotScheduler creates a scheduler. auditCleaner may be nil, and a
// zero retentionDays disables the audit purge.
func NewSnapshotScheduler(cfg config.Snapshot, retentionDays int, snapshots Snapshotter, auditCleaner AuditCleaner, log zerolog.Logger) *SnapshotScheduler {
	return &SnapshotScheduler{
		cfg:       cfg,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		snapshots: snapshots,
		audit:     auditCleaner,
		log:       log.With().Str("component", "snapshot_scheduler").Logger(),
		now:       time.Now,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateCronSchedule checks a five-field cron expression or descriptor.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start begins the scheduler if snapshots are enabled
func (s *SnapshotScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		s.log.Info().Msg("disabled")
		return nil
	}

	if s.cfg.Dir == "" {
		s.log.Warn().Msg("snapshot directory not configured, skipping")
		return nil
	}

	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.Info().
		Str("schedule", s.cfg.Schedule).
		Str("dir", s.cfg.Dir).
		Int("keep", s.cfg.Keep).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish
func (s *SnapshotScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	s.log.Info().Msg("stopped")
}

func (s *SnapshotScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next snapshot will be taken, or nil when stopped.
func (s *SnapshotScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}

// RunNow takes a snapshot synchronously, outside the schedule.
func (s *SnapshotScheduler) RunNow() (exporters.ExportResult, error) {
	return s.runOnce()
}

func (s *SnapshotScheduler) run() {
	_, _ = s.runOnce()
}

func (s *SnapshotScheduler) runOnce() (exporters.ExportResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	startTime := s.now()
	dest := filepath.Join(s.cfg.Dir, snapshotPrefix+startTime.Format(snapshotTimeLayout)+snapshotExt)

	result, err := s.snapshots.Snapshot(dest, false)
	if err != nil {
		s.log.Error().Err(err).Str("path", dest).Msg("snapshot failed")
		return result, err
	}

	removed, err := s.prune()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to prune old snapshots")
	}

	if s.audit != nil && s.retention > 0 {
		purged, err := s.audit.DeleteOldEvents(s.retention)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to purge audit events")
		} else if purged > 0 {
			s.log.Info().Int64("events", purged).Msg("purged old audit events")
		}
	}

	s.log.Info().
		Str("path", result.Path).
		Str("method", result.Method).
		Int("pruned", removed).
		Dur("duration", time.Since(startTime).Round(time.Millisecond)).
		Msg("snapshot taken")
	return result, nil
}

// prune removes scheduled snapshots beyond the newest Keep. Names sort
// chronologically, and files not written by the scheduler are left alone.
func (s *SnapshotScheduler) prune() (int, error) {
	if s.cfg.Keep <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return 0, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, snapshotExt) {
			names = append(names, name)
		}
	}
	if len(names) <= s.cfg.Keep {
		return 0, nil
	}

	sort.Strings(names)
	removed := 0
	for _, name := range names[:len(names)-s.cfg.Keep] {
		if err := os.Remove(filepath.Join(s.cfg.Dir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
