// Package localdb bootstraps the client's local sqlite database and wires
// the repositories on top of it.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/talentlink/talentlink-client/internal/client/migrations"
	"github.com/talentlink/talentlink-client/internal/client/repositories/prefs"
	"github.com/talentlink/talentlink-client/internal/client/repositories/session"
)

type Repositories struct {
	Session session.Repository
	Prefs   prefs.Repository
	DB      *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func Init(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Session: session.NewSQLiteRepository(db),
		Prefs:   prefs.NewSQLiteRepository(db),
		DB:      db,
	}, nil
}
