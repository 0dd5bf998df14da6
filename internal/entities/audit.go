package entities

import "time"

type AuditEventType string

const (
	AuditEventImport   AuditEventType = "import"
	AuditEventApply    AuditEventType = "apply"
	AuditEventExport   AuditEventType = "export"
	AuditEventSnapshot AuditEventType = "snapshot"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusPartial AuditStatus = "partial" // apply finished with per-record errors
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g., "zip-csv_import", "json_export"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	Path        string         `gorm:"size:1024" json:"path,omitempty"`
	BatchID     string         `gorm:"index;size:36" json:"batch_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
