// Package migrations provides schema migration support for the PeopleKit
// state store.
//
// It embeds the SQL migration files and applies them with golang-migrate
// through a custom SQLite driver compatible with ncruces/go-sqlite3. The
// stock golang-migrate sqlite3 driver imports mattn/go-sqlite3, which would
// collide with the ncruces driver registration (both register as "sqlite3"),
// so a mattn-free driver shim lives in this package.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var embeddedFS embed.FS

// FS returns the embedded migration files, exposed for tests.
func FS() fs.FS {
	return embeddedFS
}

// Run applies all pending migrations to db. A database that is already up to
// date is not an error (migrate.ErrNoChange is handled here).
func Run(db *sql.DB) error {
	source, err := iofs.New(embeddedFS, ".")
	if err != nil {
		return err
	}

	driver, err := WithInstance(db, &Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
