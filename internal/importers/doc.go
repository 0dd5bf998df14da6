// Package importers reads budget data exported by this or another instance
// and merges it into the store.
//
// # Architecture
//
// The import pipeline follows a simple flow:
//
//	path → Detect → Reader → schema.RawTables → schema.Normalize → Tables → Engine.Apply → Store
//
// Detect picks one of five source kinds (flat-combined, flat-archive,
// structured-combined, structured-archive, snapshot) from the file extension,
// archive members or content. Each kind has a Reader producing untyped records
// for all five entities. Normalization projects those records onto the
// canonical columns. The Engine then writes them in dependency order,
// remapping foreign keys through the ids the target store assigns.
//
// # Merge rules
//
//   - Categories are matched by name and wallets by (name, currency); matches
//     are reused instead of inserted.
//   - Goals and expenses are always inserted. Expenses lacking a name, cost
//     or date are skipped without an error.
//   - Only the first profile record is applied, as an upsert of the singleton.
//   - Foreign keys that do not resolve inside the batch become null.
//
// Failures of single records are collected in the Report and never stop the
// batch. Detection and read failures abort the import and are reported as
// ErrNotFound or ErrUnrecognizedFormat.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(db, auditService, log)
//
//	result, err := pipeline.Import("export_all_20240101_120000.zip")
//	if err != nil {
//		return err
//	}
//	report := pipeline.Apply(result.Tables)
package importers
