package config

// Default locations, relative to the working directory
const (
	// DefaultDatabasePath is the default path for the budget database
	DefaultDatabasePath = "./budget_tracker.db"

	DefaultExportDir   = "./exports"
	DefaultSnapshotDir = "./snapshots"

	DefaultAppName = "Finance Tool"
)
