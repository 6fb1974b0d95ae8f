package application

import (
	"context"
	"embed"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigrationManager collects the schema filesystems each module embeds
// and applies them with goose against the shared pool. Each module gets
// its own goose version table: modules version their schemas
// independently, so sharing one table would make goose flag one
// module's versions as missing from another's sequence.
type MigrationManager interface {
	RegisterSchema(module string, fsys *embed.FS, dir string)
	Apply(ctx context.Context) error
}

type schemaSource struct {
	table string
	fsys  *embed.FS
	dir   string
}

type migrationManager struct {
	pool    *pgxpool.Pool
	sources []schemaSource
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

func (m *migrationManager) RegisterSchema(module string, fsys *embed.FS, dir string) {
	m.sources = append(m.sources, schemaSource{
		table: versionTableName(module),
		fsys:  fsys,
		dir:   dir,
	})
}

func versionTableName(module string) string {
	return "npiams_schema_versions_" + module
}

func (m *migrationManager) Apply(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	for _, src := range m.sources {
		sub, err := fs.Sub(src.fsys, src.dir)
		if err != nil {
			return err
		}
		goose.SetTableName(src.table)
		goose.SetBaseFS(sub)
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return err
		}
	}
	goose.SetBaseFS(nil)
	return nil
}
