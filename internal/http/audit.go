package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/budget-tracker/internal/audit"
	"github.com/mrlokans/budget-tracker/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?type=import|apply|export|snapshot
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := parsePagination(c)
	eventType := c.Query("type")
	offset := (page - 1) * limit

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}

// GetBatchEvents lists the audit trail of one apply batch.
// GET /api/audit/batches/:batch_id
func (ac *AuditController) GetBatchEvents(c *gin.Context) {
	events, err := ac.auditService.GetBatchEvents(c.Param("batch_id"))
	if err != nil {
		respondInternalError(c, err, "batch events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"data": events, "total": len(events)})
}

// GET /api/audit/events/:id
func (ac *AuditController) GetEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid event id")
		return
	}
	event, err := ac.auditService.GetEvent(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "not_found", "audit event not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "audit event")
		return
	}
	c.JSON(http.StatusOK, event)
}
