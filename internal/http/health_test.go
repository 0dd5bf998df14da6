package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/budget-tracker/internal/database"
	"github.com/mrlokans/budget-tracker/internal/entities"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func getHealth(t *testing.T, controller *HealthController) (int, HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("store up reports row counts", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.CreateCategory(&entities.Category{Name: "Food", Currency: "EUR"}))
		controller := NewHealthController(db, "1.0.0")
		checked := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		controller.now = func() time.Time { return checked }

		code, response := getHealth(t, controller)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "up", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.True(t, checked.Equal(response.CheckedAt))
		assert.Equal(t, "up", response.Store.State)
		assert.Equal(t, db.Path(), response.Store.Path)
		assert.Equal(t, int64(1), response.Store.Rows["category"])
	})

	t.Run("no store configured", func(t *testing.T) {
		code, response := getHealth(t, NewHealthController(nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "up", response.Status)
		assert.Equal(t, "unconfigured", response.Store.State)
	})

	t.Run("closed store is down", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.Close())

		code, response := getHealth(t, NewHealthController(db, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "down", response.Status)
		assert.Equal(t, "down", response.Store.State)
		assert.NotEmpty(t, response.Store.Error)
	})
}

func TestHealthController_Stats(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.CreateWallet(&entities.Wallet{Name: "Cash", Currency: "EUR"}))

	router := gin.New()
	router.Use(RequestID(testLogger()))
	router.GET("/api/stats", NewHealthController(db, "").Stats)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats["wallet"])
	assert.Equal(t, int64(0), stats["expense"])
}
