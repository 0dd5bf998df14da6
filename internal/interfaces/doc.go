// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - database.Store: lookups and inserts used by the merge engine, plus
//     nested transactions (internal/database/database.go)
//   - exporters.Store: ordered listing and snapshot primitives
//     (internal/exporters/exporter.go)
//
// ## Import and Export
//
//   - importers.Reader: turns one source shape into raw tables
//     (internal/importers/reader.go)
//   - http.Importer and http.Exporter: what the API handlers call
//     (internal/http/import.go, internal/http/export.go)
//
// ## Scheduled Jobs
//
//   - scheduler.Snapshotter and scheduler.AuditCleaner
//     (internal/scheduler/snapshot.go)
//
// # Adding a New Import Shape
//
//  1. Implement Reader in internal/importers/
//
//     type OdsReader struct{}
//
//     func (OdsReader) Read(path string) (schema.RawTables, error)
//
//  2. Add a Kind constant, teach Detect to return it and register the
//     reader in the Readers map
//
//  3. Add a compile-time check in checks.go
//
// Readers only produce raw tables. Normalization, foreign key remapping and
// deduplication stay in the pipeline, so a new reader gets them for free.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current list.
package interfaces
