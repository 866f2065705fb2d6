// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package ormlet

import (
	"context"
	"database/sql"
	"runtime"
	"sync"
)

// stmtCache caches the sql.Stmt objects for the statements a DB's units of
// work generate. Repositories emit a small, repeating set of SQL texts per
// entity type, so statements are cached by their text and re-preparation is
// avoided across repositories and units of work.
//
// The cache closes its sql.Stmt objects with a finalizer set on itself,
// which runs once the owning DB becomes unreachable.
type stmtCache struct {
	mutex sync.RWMutex
	stmts map[string]*sql.Stmt
}

func newStmtCache() *stmtCache {
	sc := &stmtCache{stmts: map[string]*sql.Stmt{}}
	runtime.SetFinalizer(sc, func(sc *stmtCache) {
		sc.mutex.Lock()
		defer sc.mutex.Unlock()
		for _, stmt := range sc.stmts {
			stmt.Close()
		}
		sc.stmts = nil
	})
	return sc
}

// prepare returns the cached statement for the query text, preparing it on
// the database on first use.
func (sc *stmtCache) prepare(ctx context.Context, sqldb *sql.DB, query string) (*sql.Stmt, error) {
	sc.mutex.RLock()
	stmt, ok := sc.stmts[query]
	sc.mutex.RUnlock()
	if ok {
		return stmt, nil
	}

	stmt, err := sqldb.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	sc.mutex.Lock()
	// Check if a statement has been inserted by someone else since we last
	// checked.
	if prior, ok := sc.stmts[query]; ok {
		stmt.Close()
		stmt = prior
	} else {
		sc.stmts[query] = stmt
	}
	sc.mutex.Unlock()
	return stmt, nil
}
