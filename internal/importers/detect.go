package importers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the shape of an import source.
type Kind string

const (
	KindFlatCombined       Kind = "flat-combined"
	KindFlatArchive        Kind = "flat-archive"
	KindStructuredCombined Kind = "structured-combined"
	KindStructuredArchive  Kind = "structured-archive"
	KindSnapshot           Kind = "snapshot"
)

var sqliteMagic = []byte("SQLite format 3\x00")

var snapshotExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// Detect decides which reader understands path. Extension checks run first,
// then archive members are sniffed; files with an unknown extension are
// probed for the SQLite header and for a JSON object before falling back to
// the flat layout.
func Detect(path string) (Kind, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrUnrecognizedFormat, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if snapshotExtensions[ext] {
		return KindSnapshot, nil
	}

	if zr, err := zip.OpenReader(path); err == nil {
		defer zr.Close()
		return detectArchive(zr.File)
	}

	switch ext {
	case ".csv":
		return KindFlatCombined, nil
	case ".json":
		return KindStructuredCombined, nil
	}

	return sniff(path)
}

func detectArchive(files []*zip.File) (Kind, error) {
	hasJSON := false
	for _, f := range files {
		name := strings.ToLower(f.Name)
		if strings.HasSuffix(name, ".csv") {
			return KindFlatArchive, nil
		}
		if strings.HasSuffix(name, ".json") {
			hasJSON = true
		}
	}
	if hasJSON {
		return KindStructuredArchive, nil
	}
	return "", fmt.Errorf("%w: archive holds no .csv or .json members", ErrUnrecognizedFormat)
}

func sniff(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	n, err := io.ReadFull(f, header)
	if err == nil && bytes.Equal(header[:n], sqliteMagic) {
		return KindSnapshot, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	var probe map[string]json.RawMessage
	if json.NewDecoder(f).Decode(&probe) == nil {
		return KindStructuredCombined, nil
	}
	return KindFlatCombined, nil
}
