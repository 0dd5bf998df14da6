package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/budget-tracker/internal/audit"
	"github.com/mrlokans/budget-tracker/internal/database"
	"github.com/mrlokans/budget-tracker/internal/exporters"
	"github.com/mrlokans/budget-tracker/internal/http"
	"github.com/mrlokans/budget-tracker/internal/importers"
	"github.com/mrlokans/budget-tracker/internal/scheduler"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Store used by the merge engine
var _ database.Store = (*database.Database)(nil)

// Store read by the exporter
var _ exporters.Store = (*database.Database)(nil)

// =============================================================================
// Import and Export
// =============================================================================

// Readers for every detected kind
var _ importers.Reader = importers.FlatReader{}
var _ importers.Reader = importers.FlatArchiveReader{}
var _ importers.Reader = importers.StructuredReader{}
var _ importers.Reader = importers.StructuredArchiveReader{}
var _ importers.Reader = importers.SnapshotReader{}

// HTTP surfaces
var _ http.Importer = (*importers.Pipeline)(nil)
var _ http.Exporter = (*exporters.Exporter)(nil)

// =============================================================================
// Scheduled Jobs
// =============================================================================

var _ scheduler.Snapshotter = (*exporters.Exporter)(nil)
var _ scheduler.AuditCleaner = (*audit.Service)(nil)
