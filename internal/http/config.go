package http

import (
	"github.com/rs/zerolog"

	"github.com/mrlokans/budget-tracker/internal/audit"
	"github.com/mrlokans/budget-tracker/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database
	Exporter Exporter
	Importer Importer
	Audit    *audit.Service // optional, enables /api/audit
	Logger   zerolog.Logger
	Version  string

	AllowedOrigins []string // enables CORS when non-empty
}
