package exporters

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	methodVacuum = "vacuum"
	methodBackup = "backup"
)

// Snapshot writes a standalone copy of the store to dest. An empty dest picks
// <db name>_export_<ts>.db in the export directory. Existing files are only
// replaced when overwrite is set, and the store's own file never is.
//
// VACUUM INTO is tried first for a compact copy; the online backup API is the
// fallback.
func (x *Exporter) Snapshot(dest string, overwrite bool) (ExportResult, error) {
	result, err := x.snapshot(dest, overwrite)
	x.audit.LogSnapshot(result.Path, result.Method, err)
	if err != nil {
		return result, err
	}
	x.log.Info().Str("path", result.Path).Str("method", result.Method).Msg("snapshot written")
	return result, nil
}

func (x *Exporter) snapshot(dest string, overwrite bool) (ExportResult, error) {
	if dest == "" {
		base := strings.TrimSuffix(filepath.Base(x.store.Path()), filepath.Ext(x.store.Path()))
		if base == "" || base == "." {
			base = "budget_tracker"
		}
		dest = filepath.Join(x.exportDir, fmt.Sprintf("%s_export_%s.db", base, x.now().Format(timestampLayout)))
	}
	result := ExportResult{Path: dest, Format: FormatDB}

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return result, err
	}
	if absDest == x.store.Path() {
		return result, fmt.Errorf("%w: %s", ErrSameFile, dest)
	}

	if overwrite {
		if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("failed to replace %s: %w", dest, err)
		}
	}

	if err := ensureDir(dest); err != nil {
		return result, err
	}

	err = x.store.VacuumInto(dest)
	if err == nil {
		result.Method = methodVacuum
		return result, nil
	}
	if errors.Is(err, fs.ErrExist) {
		return result, fmt.Errorf("%w: %s", ErrAlreadyExists, dest)
	}
	x.log.Warn().Err(err).Msg("vacuum into failed, falling back to backup")

	if err := x.store.BackupTo(dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return result, fmt.Errorf("%w: %s", ErrAlreadyExists, dest)
		}
		return result, fmt.Errorf("failed to back up to %s: %w", dest, err)
	}
	result.Method = methodBackup
	return result, nil
}
