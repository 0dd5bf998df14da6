package importers

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/budget-tracker/internal/schema"
)

const (
	exportMarker = "__EXPORT__"
	tableMarker  = "__TABLE__"
)

// FlatReader reads the single sectioned CSV layout:
//
//	__EXPORT__,<app>,timestamp,<ts>
//
//	__TABLE__,category
//	id,name,limit_amount,type,currency
//	1,Food,300.00,0,EUR
type FlatReader struct{}

func (FlatReader) Read(path string) (schema.RawTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return parseSectioned(f)
}

// FlatArchiveReader reads a zip holding one headed CSV per entity.
type FlatArchiveReader struct{}

func (FlatArchiveReader) Read(path string) (schema.RawTables, error) {
	return readArchive(path, ".csv", parseHeaded)
}

func parseSectioned(r io.Reader) (schema.RawTables, error) {
	tables := schema.NewRawTables()

	var section string
	var headers []string
	err := eachRow(r, func(row []string) {
		if len(row) >= 2 && row[0] == exportMarker {
			return
		}
		if len(row) >= 2 && row[0] == tableMarker {
			section = strings.ToLower(row[1])
			headers = nil
			return
		}
		if section == "" {
			return
		}
		if headers == nil {
			if !isMarker(row[0]) {
				headers = row
			}
			return
		}
		entity, ok := schema.ParseEntity(section)
		if !ok {
			return
		}
		tables[entity] = append(tables[entity], rowToRecord(headers, row))
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// isMarker reports whether cell looks like a __NAME__ control cell. Unknown
// markers are only skipped where a header is expected; after the header the
// same cell is ordinary data, e.g. a category named __Misc__.
func isMarker(cell string) bool {
	return len(cell) > 4 && strings.HasPrefix(cell, "__") && strings.HasSuffix(cell, "__")
}

func parseHeaded(r io.Reader) ([]schema.RawRecord, error) {
	records := []schema.RawRecord{}
	var headers []string
	err := eachRow(r, func(row []string) {
		if headers == nil {
			headers = row
			return
		}
		records = append(records, rowToRecord(headers, row))
	})
	return records, err
}

// eachRow yields trimmed, non-blank CSV rows. Rows may have any width.
func eachRow(r io.Reader, fn func(row []string)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for {
		raw, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse csv: %w", err)
		}

		row := make([]string, len(raw))
		blank := true
		for i, cell := range raw {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		fn(row)
	}
}

// rowToRecord maps cells to headers by position. Missing trailing cells and
// empty cells are null.
func rowToRecord(headers, row []string) schema.RawRecord {
	record := make(schema.RawRecord, len(headers))
	for i, h := range headers {
		if i < len(row) && row[i] != "" {
			record[h] = row[i]
		} else {
			record[h] = nil
		}
	}
	return record
}

func readArchive(path, ext string, parse func(io.Reader) ([]schema.RawRecord, error)) (schema.RawTables, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer zr.Close()

	members := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		members[strings.ToLower(f.Name)] = f
	}

	tables := schema.NewRawTables()
	for _, entity := range schema.Entities {
		f, ok := members[string(entity)+ext]
		if !ok {
			continue
		}
		records, err := readMember(f, parse)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		tables[entity] = records
	}
	return tables, nil
}

func readMember(f *zip.File, parse func(io.Reader) ([]schema.RawRecord, error)) ([]schema.RawRecord, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parse(rc)
}
