package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/budget-tracker/internal/database"
)

const (
	statusUp   = "up"
	statusDown = "down"
)

// StoreHealth describes the budget store as seen by the health probe.
type StoreHealth struct {
	Path  string           `json:"path,omitempty"`
	State string           `json:"state"`
	Error string           `json:"error,omitempty"`
	Rows  map[string]int64 `json:"rows,omitempty"`
}

type HealthResponse struct {
	Status    string      `json:"status"`
	CheckedAt time.Time   `json:"checked_at"`
	Version   string      `json:"version,omitempty"`
	Store     StoreHealth `json:"store"`
}

// HealthController serves liveness and per-entity row counts.
type HealthController struct {
	db      *database.Database
	version string
	now     func() time.Time
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version, now: time.Now}
}

// Status answers 200 while the store accepts queries and 503 otherwise.
// Without a configured store the process itself is still considered up.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:    statusUp,
		CheckedAt: h.now().UTC(),
		Version:   h.version,
		Store:     h.probeStore(),
	}

	code := http.StatusOK
	if resp.Store.State == statusDown {
		resp.Status = statusDown
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func (h *HealthController) probeStore() StoreHealth {
	if h.db == nil {
		return StoreHealth{State: "unconfigured"}
	}
	store := StoreHealth{Path: h.db.Path(), State: statusUp}
	rows, err := h.db.Stats()
	if err != nil {
		store.State = statusDown
		store.Error = err.Error()
		return store
	}
	store.Rows = rows
	return store
}

// Stats reports row counts per budget entity.
// GET /api/stats
func (h *HealthController) Stats(c *gin.Context) {
	if h.db == nil {
		respondError(c, http.StatusServiceUnavailable, "no_database", "database not configured")
		return
	}
	stats, err := h.db.Stats()
	if err != nil {
		respondInternalError(c, err, "stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
