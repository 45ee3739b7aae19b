package credstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/govadmin/internal/client/migrations"
	"github.com/dmitrijs2005/govadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/govadmin/internal/common"
	"github.com/dmitrijs2005/govadmin/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Storage drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite file at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return db, nil
}

// Open builds a Store on the requested backend. The returned closer
// releases the underlying database.
func Open(ctx context.Context, driver, path string) (*Store, io.Closer, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, nil, err
	}

	switch driver {
	case DriverSQLite, "":
		db, err := InitDatabase(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return New(metadata.NewSQLiteRepository(db)), db, nil

	case DriverBolt:
		repo, err := metadata.OpenBolt(path)
		if err != nil {
			return nil, nil, err
		}
		return New(repo), repo, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", common.ErrUnknownStoreDriver, driver)
	}
}
