package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestParseBoolQuery(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		def      bool
		expected bool
		ok       bool
	}{
		{"absent uses default", "/", true, true, true},
		{"empty uses default", "/?apply=", false, false, true},
		{"false", "/?apply=false", true, false, true},
		{"numeric true", "/?apply=1", false, true, true},
		{"invalid", "/?apply=maybe", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", tt.url, nil)

			value, ok := parseBoolQuery(c, "apply", tt.def)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, value)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), "invalid apply")
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		url   string
		page  int
		limit int
	}{
		{"/", 1, 25},
		{"/?page=3&limit=10", 3, 10},
		{"/?page=0&limit=500", 1, 25},
		{"/?page=abc&limit=-1", 1, 25},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", tt.url, nil)

			page, limit := parsePagination(c)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(testLogger()))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		id := w.Header().Get(requestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRespondInternalError_UsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(zerolog.New(&buf)))
	router.GET("/fail", func(c *gin.Context) {
		respondInternalError(c, errors.New("disk full"), "export")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/fail", nil)
	req.Header.Set(requestIDHeader, "req-42")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
	assert.Contains(t, buf.String(), `"error":"disk full"`)
	assert.Contains(t, buf.String(), `"context":"export"`)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestRecovery_LogsPanic(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(zerolog.New(&buf)))
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), `"path":"/panic"`)
}
