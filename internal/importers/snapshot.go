package importers

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/mrlokans/budget-tracker/internal/schema"
)

// SnapshotReader reads the five tables straight out of a standalone SQLite
// file. The file is opened read-only and never attached to the live store.
// Tables missing from the file come back empty.
type SnapshotReader struct{}

func (SnapshotReader) Read(path string) (schema.RawTables, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dsn := (&url.URL{Scheme: "file", Path: abs, RawQuery: "mode=ro"}).String()

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer db.Close()

	tables := schema.NewRawTables()
	for _, entity := range schema.Entities {
		records, err := readSnapshotTable(db, string(entity))
		if err != nil {
			return nil, fmt.Errorf("failed to read table %s: %w", entity, err)
		}
		tables[entity] = records
	}
	return tables, nil
}

func readSnapshotTable(db *sql.DB, table string) ([]schema.RawRecord, error) {
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return []schema.RawRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	columns, err := tableColumns(db, table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %q", table)
	for _, c := range columns {
		if c == "id" {
			query += " ORDER BY id ASC"
			break
		}
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []schema.RawRecord{}
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(schema.RawRecord, len(names))
		for i, n := range names {
			if b, ok := values[i].([]byte); ok {
				record[n] = string(b)
				continue
			}
			record[n] = values[i]
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func tableColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
