package importers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/budget-tracker/internal/schema"
)

// StructuredReader reads the single JSON document layout:
//
//	{"export": {...}, "tables": {"category": [{...}], ...}}
//
// Numbers are kept as json.Number so money values are not rounded through
// float64 before normalization.
type StructuredReader struct{}

func (StructuredReader) Read(path string) (schema.RawTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var payload struct {
		Tables map[string]json.RawMessage `json:"tables"`
	}
	if err := newDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	tables := schema.NewRawTables()
	for name, raw := range payload.Tables {
		entity, ok := schema.ParseEntity(name)
		if !ok {
			continue
		}
		records, err := decodeRecords(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode table %s: %w", name, err)
		}
		tables[entity] = append(tables[entity], records...)
	}
	return tables, nil
}

// StructuredArchiveReader reads a zip holding one JSON array per entity.
type StructuredArchiveReader struct{}

func (StructuredArchiveReader) Read(path string) (schema.RawTables, error) {
	return readArchive(path, ".json", func(r io.Reader) ([]schema.RawRecord, error) {
		var raw json.RawMessage
		if err := newDecoder(r).Decode(&raw); err != nil {
			return nil, err
		}
		return decodeRecords(raw)
	})
}

// decodeRecords keeps the object elements of a JSON array. Anything that is
// not an array yields no records.
func decodeRecords(raw json.RawMessage) ([]schema.RawRecord, error) {
	var items []any
	if err := unmarshalNumbers(raw, &items); err != nil {
		var scalar any
		if unmarshalNumbers(raw, &scalar) == nil {
			return []schema.RawRecord{}, nil
		}
		return nil, err
	}

	records := make([]schema.RawRecord, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, schema.RawRecord(obj))
		}
	}
	return records, nil
}

func newDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

func unmarshalNumbers(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
