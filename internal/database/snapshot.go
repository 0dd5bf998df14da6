package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/mattn/go-sqlite3"
)

// VacuumInto writes a compacted, consistent copy of the database to dest.
// dest must not exist; an existing file yields an error matching fs.ErrExist.
func (d *Database) VacuumInto(dest string) (err error) {
	if err := reserve(dest); err != nil {
		return err
	}
	defer releaseOnError(dest, &err)

	if err := d.DB.Exec("VACUUM INTO ?", dest).Error; err != nil {
		return fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return nil
}

// BackupTo copies the database page by page into dest using SQLite's online
// backup API. It works on library versions that predate VACUUM INTO. Like
// VacuumInto it refuses an existing dest.
func (d *Database) BackupTo(dest string) (err error) {
	if err := reserve(dest); err != nil {
		return err
	}
	defer releaseOnError(dest, &err)

	return d.backupTo(dest)
}

// reserve creates dest as an empty file, failing if anything is already
// there. SQLite accepts an empty file as a copy target.
func reserve(dest string) error {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	return f.Close()
}

func releaseOnError(dest string, err *error) {
	if *err != nil {
		_ = os.Remove(dest)
	}
}

func (d *Database) backupTo(dest string) error {
	ctx := context.Background()

	srcDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	srcConn, err := srcDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire source connection: %w", err)
	}
	defer srcConn.Close()

	destDB, err := sql.Open("sqlite3", dest)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dest, err)
	}
	defer destDB.Close()

	destConn, err := destDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dest, err)
	}
	defer destConn.Close()

	return destConn.Raw(func(destDriverConn any) error {
		return srcConn.Raw(func(srcDriverConn any) error {
			to, ok := destDriverConn.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("unexpected destination driver %T", destDriverConn)
			}
			from, ok := srcDriverConn.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("unexpected source driver %T", srcDriverConn)
			}

			backup, err := to.Backup("main", from, "main")
			if err != nil {
				return fmt.Errorf("failed to start backup: %w", err)
			}
			if _, err := backup.Step(-1); err != nil {
				_ = backup.Finish()
				return fmt.Errorf("backup step: %w", err)
			}
			return backup.Finish()
		})
	})
}
