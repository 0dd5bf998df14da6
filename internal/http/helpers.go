package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/budget-tracker/internal/logger"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log := logger.FromContext(c.Request.Context())
	log.Error().Err(err).Str("context", context).Msg("internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// --- Parameter Parsing ---

// parseBoolQuery reads a boolean query or form value, falling back to def
// when absent. Unparseable values answer 400 and return false, false.
func parseBoolQuery(c *gin.Context, name string, def bool) (value bool, ok bool) {
	raw, present := c.GetQuery(name)
	if !present {
		raw, present = c.GetPostForm(name)
	}
	if !present || strings.TrimSpace(raw) == "" {
		return def, true
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return false, false
	}
	return v, true
}

// parsePagination reads page and limit, clamping limit to 1..100.
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "25"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	return page, limit
}
