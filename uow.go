// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package ormlet

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seaware/ormlet/internal/sqlbuild"
	"github.com/seaware/ormlet/internal/track"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// State is the lifecycle state of a tracked entity.
type State = track.State

const (
	// Detached is the state of an entity never registered with a tracker.
	Detached = track.Detached
	// Unchanged entities match their snapshot.
	Unchanged = track.Unchanged
	// Added entities are pending INSERT.
	Added = track.Added
	// Modified entities are pending UPDATE.
	Modified = track.Modified
	// Deleted entities are pending DELETE.
	Deleted = track.Deleted
)

// UnitOfWork coordinates typed repositories over one change tracker: reads
// register their results with the tracker, writes are deferred until
// SaveChanges flushes the dirty set in one pass.
//
// A UnitOfWork owns exclusive access to its tracker and must not be shared
// across goroutines without external locking.
type UnitOfWork struct {
	db      *DB
	tracker *track.Tracker
	tx      *sql.Tx
}

// NewUnitOfWork creates a unit of work on the database with an empty
// tracker.
func NewUnitOfWork(db *DB) *UnitOfWork {
	return &UnitOfWork{
		db:      db,
		tracker: track.NewTracker(db.catalog),
	}
}

// StateOf returns the lifecycle state of the entity instance. Entities
// never registered are Detached.
func (u *UnitOfWork) StateOf(entity any) State {
	if entry, ok := u.tracker.Entry(entity); ok {
		return entry.State()
	}
	return Detached
}

// IsTracking reports whether the entity instance is registered with the
// unit of work's tracker.
func (u *UnitOfWork) IsTracking(entity any) bool {
	return u.tracker.IsTracking(entity)
}

// MarkDirty records an eager change notification for a mutated field: an
// Unchanged entity transitions to Modified immediately instead of waiting
// for the snapshot diff at flush time.
func (u *UnitOfWork) MarkDirty(entity any, field string) error {
	return u.tracker.MarkDirty(entity, field)
}

// DetectChanges diffs every Unchanged entity against its snapshot and
// transitions the changed ones to Modified. SaveChanges runs it
// implicitly.
func (u *UnitOfWork) DetectChanges() error {
	return u.tracker.DetectChanges()
}

// ModifiedFields returns the names of the entity's fields that differ from
// its snapshot, in declaration order.
func (u *UnitOfWork) ModifiedFields(entity any) ([]string, error) {
	entry, ok := u.tracker.Entry(entity)
	if !ok {
		return nil, &EntityNotTrackedError{TypeName: fmt.Sprintf("%T", entity)}
	}
	return entry.ModifiedFields()
}

// Untrack removes the entity from the tracker without touching the store.
func (u *UnitOfWork) Untrack(entity any) {
	u.tracker.Untrack(entity)
}

// Clear removes every tracked entity.
func (u *UnitOfWork) Clear() {
	u.tracker.Clear()
}

// Begin starts a transaction on the underlying database. Statements issued
// by SaveChanges and by repository reads run against it until Commit or
// Rollback.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrDuplicateTransaction
	}
	if ctx == nil {
		ctx = context.Background()
	}
	tx, err := u.db.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	u.tx = tx
	return nil
}

// Commit commits the active transaction.
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	err := u.tx.Commit()
	u.tx = nil
	return err
}

// Rollback aborts the active transaction. The store's data is undone;
// in-memory entity state already resolved by a flush inside the
// transaction is not reverted.
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	err := u.tx.Rollback()
	u.tx = nil
	return err
}

// SaveChanges flushes the dirty set: one INSERT per Added entity (capturing
// the generated key), one UPDATE per Modified entity and one DELETE per
// Deleted entity, keyed by primary key, in tracking order. On success the
// tracker accepts all changes and the number of flushed entities is
// returned.
//
// A failure partway through stops the flush and leaves the tracker's
// bookkeeping unaccepted; statements already executed are the caller's to
// resolve, by rolling back the outer transaction or retrying.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := u.tracker.DetectChanges(); err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range u.tracker.ChangedEntries() {
		var err error
		switch entry.State() {
		case track.Added:
			err = u.flushInsert(ctx, entry)
		case track.Modified:
			err = u.flushUpdate(ctx, entry)
		case track.Deleted:
			err = u.flushDelete(ctx, entry)
		}
		if err != nil {
			return count, err
		}
		count++
	}

	if err := u.tracker.AcceptAll(); err != nil {
		return count, err
	}
	return count, nil
}

func (u *UnitOfWork) flushInsert(ctx context.Context, entry *track.Entry) error {
	info := entry.Info()
	b := sqlbuild.NewInsert().Columns(info, entry.Entity())
	query, params, err := b.Build()
	if err != nil {
		return err
	}
	res, err := u.exec(ctx, query, params)
	if err != nil {
		return err
	}
	pk, err := info.PrimaryKey()
	if err == nil && pk.AutoIncrement {
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		return typeinfo.SetFieldValue(info, entry.Entity(), pk.Name, id)
	}
	return nil
}

func (u *UnitOfWork) flushUpdate(ctx context.Context, entry *track.Entry) error {
	info := entry.Info()
	pk, err := info.PrimaryKey()
	if err != nil {
		return err
	}

	b := sqlbuild.NewUpdate().Table(info.Table)
	fields, err := entry.ModifiedFields()
	if err != nil {
		return err
	}
	wrote := false
	for _, field := range fields {
		binding, _ := info.Binding(field)
		if binding.PrimaryKey {
			continue
		}
		value, err := typeinfo.FieldValue(info, entry.Entity(), field)
		if err != nil {
			return err
		}
		b.Set(binding.Column, value)
		wrote = true
	}
	if !wrote {
		// Marked dirty without a detectable diff: write all updatable
		// columns so the flush still round-trips the entity.
		b.Columns(info, entry.Entity())
	}

	key, err := typeinfo.FieldValue(info, entry.Entity(), pk.Name)
	if err != nil {
		return err
	}
	b.Where("[" + pk.Column + "] = " + b.Bind(key))
	query, params, err := b.Build()
	if err != nil {
		return err
	}
	_, err = u.exec(ctx, query, params)
	return err
}

func (u *UnitOfWork) flushDelete(ctx context.Context, entry *track.Entry) error {
	info := entry.Info()
	pk, err := info.PrimaryKey()
	if err != nil {
		return err
	}
	key, err := typeinfo.FieldValue(info, entry.Entity(), pk.Name)
	if err != nil {
		return err
	}
	b := sqlbuild.NewDelete().From(info.Table)
	b.Where("[" + pk.Column + "] = " + b.Bind(key))
	query, params, err := b.Build()
	if err != nil {
		return err
	}
	_, err = u.exec(ctx, query, params)
	return err
}

// exec runs a generated statement against the active transaction, or
// against the database directly when none is, reusing the DB's prepared
// statement cache.
func (u *UnitOfWork) exec(ctx context.Context, query string, params []any) (sql.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if u.tx != nil {
		return u.tx.ExecContext(ctx, query, params...)
	}
	stmt, err := u.db.prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.ExecContext(ctx, params...)
}

// query runs a generated query the same way exec runs a statement.
func (u *UnitOfWork) query(ctx context.Context, query string, params []any) (*sql.Rows, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if u.tx != nil {
		return u.tx.QueryContext(ctx, query, params...)
	}
	stmt, err := u.db.prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.QueryContext(ctx, params...)
}
