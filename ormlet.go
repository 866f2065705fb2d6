// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package ormlet

import (
	"context"
	"database/sql"

	"github.com/seaware/ormlet/internal/typeinfo"
)

// DB wraps a database handle with the metadata catalog and the prepared
// statement cache shared by every unit of work created on it. The catalog
// is safe for concurrent lookup; units of work are not and must not be
// shared across goroutines.
type DB struct {
	sqldb   *sql.DB
	catalog *typeinfo.Catalog
	stmts   *stmtCache
}

// NewDB creates a new [ormlet.DB] from a [sql.DB].
func NewDB(sqldb *sql.DB) *DB {
	if sqldb == nil {
		return nil
	}
	return &DB{
		sqldb:   sqldb,
		catalog: typeinfo.NewCatalog(),
		stmts:   newStmtCache(),
	}
}

// PlainDB returns the underlying database object.
func (db *DB) PlainDB() *sql.DB {
	return db.sqldb
}

// prepare returns a driver prepared statement for the generated SQL,
// preparing and caching it on first use.
func (db *DB) prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	return db.stmts.prepare(ctx, db.sqldb, query)
}
