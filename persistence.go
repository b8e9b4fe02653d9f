package auth

import (
	"context"
	"database/sql"
	"io/fs"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// RegisterModels registers this package's models with the persistence
// client so relations resolve before the first query.
func RegisterModels() {
	persistence.RegisterModel((*User)(nil))
	persistence.RegisterModel((*Course)(nil))
	persistence.RegisterModel((*Module)(nil))
	persistence.RegisterModel((*Lesson)(nil))
}

// SetupPersistence opens a sqlite-backed bun DB, registers models, runs the
// embedded migrations, and returns the ready database handle. Composition
// roots own the returned handle's lifecycle and close it at shutdown.
func SetupPersistence(ctx context.Context, cfg persistence.Config, dsn string) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	RegisterModels()

	client, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	migrations, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}

	client.RegisterDialectMigrations(
		migrations,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, err
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	return client.DB(), nil
}
