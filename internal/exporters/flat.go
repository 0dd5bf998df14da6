package exporters

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/mrlokans/budget-tracker/internal/schema"
)

// writeFlat writes every entity into one sectioned CSV document.
func (x *Exporter) writeFlat(path, ts string, tables schema.RawTables) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"__EXPORT__", x.appName, "timestamp", ts}); err != nil {
		return err
	}
	for _, entity := range schema.Entities {
		if err := w.Write([]string{}); err != nil {
			return err
		}
		if err := w.Write([]string{"__TABLE__", string(entity)}); err != nil {
			return err
		}
		if err := writeRows(w, entity, tables[entity]); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// writeFlatArchive writes a zip with manifest.csv and one headed CSV per entity.
func (x *Exporter) writeFlatArchive(path, ts string, tables schema.RawTables) error {
	return writeZip(path, func(zw *zip.Writer) error {
		manifest, err := zw.Create("manifest.csv")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(manifest, "export_timestamp,%s\nsource_db,%s\n", ts, x.store.Path()); err != nil {
			return err
		}

		for _, entity := range schema.Entities {
			member, err := zw.Create(string(entity) + ".csv")
			if err != nil {
				return err
			}
			w := csv.NewWriter(member)
			if err := writeRows(w, entity, tables[entity]); err != nil {
				return err
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRows writes the canonical header and one line per record. Entities
// without records still get their header.
func writeRows(w *csv.Writer, entity schema.Entity, records []schema.RawRecord) error {
	columns := schema.ColumnNames(entity)
	if err := w.Write(columns); err != nil {
		return err
	}
	line := make([]string, len(columns))
	for _, r := range records {
		for i, c := range columns {
			line[i] = cell(r[c])
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// cell renders a canonical value; null becomes the empty string.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func writeZip(path string, fill func(zw *zip.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := fill(zw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

