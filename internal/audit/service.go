package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mrlokans/budget-tracker/internal/database/audit"
	"github.com/mrlokans/budget-tracker/internal/entities"
	"github.com/mrlokans/budget-tracker/internal/schema"
)

const maxErrorLen = 500

// Service records import, apply, export and snapshot runs. A nil *Service is
// valid and records nothing.
type Service struct {
	repo *audit.Repository
	log  zerolog.Logger
}

func NewService(repo *audit.Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	if s == nil {
		return nil
	}
	return s.repo.LogEvent(event)
}

// LogImport records the read phase of an import.
func (s *Service) LogImport(path, kind string, counts map[schema.Entity]int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      kind + "_import",
		Description: fmt.Sprintf("Read %d rows from %s", total(counts), path),
		Path:        path,
		Status:      entities.AuditStatusSuccess,
	}
	s.record(event, map[string]any{"kind": kind, "rows": counts}, err)
}

// LogApply records one merge batch. A batch with per-record errors is partial.
func (s *Service) LogApply(batchID string, inserted map[schema.Entity]int, recordErrors []string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventApply,
		Action:      "merge_apply",
		Description: fmt.Sprintf("Inserted %d rows with %d errors", total(inserted), len(recordErrors)),
		BatchID:     batchID,
		Status:      entities.AuditStatusSuccess,
	}
	if len(recordErrors) > 0 {
		event.Status = entities.AuditStatusPartial
		event.ErrorMsg = truncate(recordErrors[0], maxErrorLen)
	}
	s.record(event, map[string]any{"inserted": inserted, "errors": recordErrors}, nil)
}

// LogExport records a document export.
func (s *Service) LogExport(path, format, bundling string, counts map[schema.Entity]int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExport,
		Action:      format + "_export",
		Description: fmt.Sprintf("Exported %d rows as %s/%s", total(counts), format, bundling),
		Path:        path,
		Status:      entities.AuditStatusSuccess,
	}
	s.record(event, map[string]any{"format": format, "bundling": bundling, "rows": counts}, err)
}

// LogSnapshot records a store snapshot. method names the copy mechanism used.
func (s *Service) LogSnapshot(path, method string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSnapshot,
		Action:      "snapshot",
		Description: "Snapshot written to " + path,
		Path:        path,
		Status:      entities.AuditStatusSuccess,
	}
	s.record(event, map[string]any{"method": method}, err)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	if s == nil {
		return nil, 0, nil
	}
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	if s == nil {
		return nil, 0, nil
	}
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// GetBatchEvents returns the events recorded for one apply batch.
func (s *Service) GetBatchEvents(batchID string) ([]entities.AuditEvent, error) {
	if s == nil {
		return nil, nil
	}
	return s.repo.GetEventsByBatch(batchID)
}

func (s *Service) GetEvent(id uint) (*entities.AuditEvent, error) {
	if s == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.repo.GetEventByID(id)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	if s == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func (s *Service) record(event *entities.AuditEvent, metadata map[string]any, err error) {
	if s == nil {
		return
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	}
	if e := s.repo.LogEvent(event); e != nil {
		s.log.Error().Err(e).Str("action", event.Action).Msg("failed to log audit event")
	}
}

func total(counts map[schema.Entity]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
