package importers

import (
	"fmt"

	"github.com/mrlokans/budget-tracker/internal/schema"
)

// Reader parses one source shape into untyped per-entity records. Every
// known entity is present in the result, empty when the source lacks it.
//
// Implementations:
//   - FlatReader (flat.go) - single sectioned CSV document
//   - FlatArchiveReader (flat.go) - zip of <entity>.csv members
//   - StructuredReader (structured.go) - single JSON document
//   - StructuredArchiveReader (structured.go) - zip of <entity>.json members
//   - SnapshotReader (snapshot.go) - standalone SQLite file, opened read-only
type Reader interface {
	Read(path string) (schema.RawTables, error)
}

var (
	_ Reader = FlatReader{}
	_ Reader = FlatArchiveReader{}
	_ Reader = StructuredReader{}
	_ Reader = StructuredArchiveReader{}
	_ Reader = SnapshotReader{}
)

// Readers maps every detectable kind to its reader.
var Readers = map[Kind]Reader{
	KindFlatCombined:       FlatReader{},
	KindFlatArchive:        FlatArchiveReader{},
	KindStructuredCombined: StructuredReader{},
	KindStructuredArchive:  StructuredArchiveReader{},
	KindSnapshot:           SnapshotReader{},
}

// ReaderFor returns the reader registered for kind.
func ReaderFor(kind Kind) (Reader, error) {
	r, ok := Readers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, kind)
	}
	return r, nil
}
