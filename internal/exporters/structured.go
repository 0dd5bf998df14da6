package exporters

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/mrlokans/budget-tracker/internal/schema"
)

const (
	formatSingleJSON   = "single-json"
	formatPerTableJSON = "per-table-json"
)

type exportMeta struct {
	App       string `json:"app"`
	Timestamp string `json:"timestamp"`
	SourceDB  string `json:"source_db"`
	Format    string `json:"format"`
}

type structuredDocument struct {
	Export exportMeta    `json:"export"`
	Tables orderedTables `json:"tables"`
}

type archiveManifest struct {
	App       string          `json:"app"`
	Timestamp string          `json:"timestamp"`
	SourceDB  string          `json:"source_db"`
	Format    string          `json:"format"`
	Tables    []schema.Entity `json:"tables"`
}

func (x *Exporter) writeStructured(path, ts string, tables schema.RawTables) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc := structuredDocument{
		Export: exportMeta{
			App:       x.appName,
			Timestamp: ts,
			SourceDB:  x.store.Path(),
			Format:    formatSingleJSON,
		},
		Tables: orderedTables(tables),
	}
	if err := encodeIndented(f, doc); err != nil {
		return err
	}
	return f.Close()
}

func (x *Exporter) writeStructuredArchive(path, ts string, tables schema.RawTables) error {
	return writeZip(path, func(zw *zip.Writer) error {
		manifest, err := zw.Create("manifest.json")
		if err != nil {
			return err
		}
		err = encodeIndented(manifest, archiveManifest{
			App:       x.appName,
			Timestamp: ts,
			SourceDB:  x.store.Path(),
			Format:    formatPerTableJSON,
			Tables:    schema.Entities,
		})
		if err != nil {
			return err
		}

		for _, entity := range schema.Entities {
			member, err := zw.Create(string(entity) + ".json")
			if err != nil {
				return err
			}
			if err := encodeIndented(member, recordList{entity: entity, records: tables[entity]}); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// orderedTables marshals entities in the fixed interchange order.
type orderedTables schema.RawTables

func (t orderedTables) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entity := range schema.Entities {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(string(entity))
		buf.Write(key)
		buf.WriteByte(':')
		list, err := recordList{entity: entity, records: t[entity]}.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(list)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// recordList marshals records as objects whose keys follow the canonical
// column order. Money is written as a JSON number.
type recordList struct {
	entity  schema.Entity
	records []schema.RawRecord
}

func (l recordList) MarshalJSON() ([]byte, error) {
	columns := schema.Columns(l.entity)

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range l.records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, c := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(c.Name)
			buf.Write(key)
			buf.WriteByte(':')

			v := r[c.Name]
			if s, ok := v.(string); ok && c.Kind == schema.KindMoney {
				v = json.Number(s)
			}
			value, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
