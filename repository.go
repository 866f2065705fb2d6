// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package ormlet

import (
	"context"
	"database/sql"

	"github.com/seaware/ormlet/internal/predicate"
	"github.com/seaware/ormlet/internal/sqlbuild"
	"github.com/seaware/ormlet/internal/track"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// Repository is the typed facade over one entity type: reads go through the
// statement builders and the predicate compiler, writes are recorded with
// the unit of work's tracker and deferred until SaveChanges.
type Repository[T any] struct {
	uow  *UnitOfWork
	info *typeinfo.Info
}

// GetRepository returns the repository for entity type T on the given unit
// of work, resolving T's metadata through the shared catalog.
func GetRepository[T any](uow *UnitOfWork) (*Repository[T], error) {
	var sample T
	info, err := uow.db.catalog.Resolve(&sample)
	if err != nil {
		return nil, err
	}
	return &Repository[T]{uow: uow, info: info}, nil
}

// Add tracks the entity as Added. The INSERT is deferred to SaveChanges,
// which also captures the generated key back onto the entity.
func (r *Repository[T]) Add(entity *T) error {
	_, err := r.uow.tracker.Track(entity, track.Added)
	return err
}

// Update tracks the entity as Modified, or re-marks an already-tracked
// instance. An entity pending insertion stays Added.
func (r *Repository[T]) Update(entity *T) error {
	if entry, ok := r.uow.tracker.Entry(entity); ok && entry.State() == track.Added {
		return nil
	}
	_, err := r.uow.tracker.Track(entity, track.Modified)
	return err
}

// Delete tracks the entity as Deleted. An entity pending insertion is
// simply untracked; there is nothing in the store to delete yet.
func (r *Repository[T]) Delete(entity *T) error {
	if entry, ok := r.uow.tracker.Entry(entity); ok && entry.State() == track.Added {
		r.uow.tracker.Untrack(entity)
		return nil
	}
	_, err := r.uow.tracker.Track(entity, track.Deleted)
	return err
}

// GetByID fetches the entity with the given primary key value. It returns
// [ErrNoRows] when no row has the key.
func (r *Repository[T]) GetByID(ctx context.Context, id any) (*T, error) {
	pk, err := r.info.PrimaryKey()
	if err != nil {
		return nil, err
	}
	b := sqlbuild.NewSelect().From(r.info.Table)
	b.Where("[" + pk.Column + "] = " + b.Bind(id))
	entities, err := r.queryEntities(ctx, b)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrNoRows
	}
	return entities[0], nil
}

// GetAll fetches every entity of the repository's type.
func (r *Repository[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.queryEntities(ctx, sqlbuild.NewSelect().From(r.info.Table))
}

// Find fetches the entities matching the predicate.
func (r *Repository[T]) Find(ctx context.Context, pred Predicate) ([]*T, error) {
	b := sqlbuild.NewSelect().From(r.info.Table)
	b.WherePredicate(r.info, pred)
	return r.queryEntities(ctx, b)
}

// FirstOrDefault fetches the first entity matching the predicate, or nil
// when none does.
func (r *Repository[T]) FirstOrDefault(ctx context.Context, pred Predicate) (*T, error) {
	b := sqlbuild.NewSelect().From(r.info.Table).Limit(1)
	b.WherePredicate(r.info, pred)
	entities, err := r.queryEntities(ctx, b)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}
	return entities[0], nil
}

// Count returns the number of rows matching the predicate, or the table's
// row count when pred is nil.
func (r *Repository[T]) Count(ctx context.Context, pred Predicate) (int64, error) {
	b := sqlbuild.NewSelect().From(r.info.Table)
	if pred != nil {
		b.WherePredicate(r.info, pred)
	}
	query, params, err := b.BuildCount()
	if err != nil {
		return 0, err
	}
	rows, err := r.uow.query(ctx, query, params)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var n int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, sql.ErrNoRows
	}
	if err := rows.Scan(&n); err != nil {
		return 0, err
	}
	return n, rows.Close()
}

// Any reports whether any row matches the predicate, or whether the table
// is non-empty when pred is nil.
func (r *Repository[T]) Any(ctx context.Context, pred Predicate) (bool, error) {
	n, err := r.Count(ctx, pred)
	return n > 0, err
}

// queryEntities builds the select, runs it, and maps each row back through
// the catalog. Mapped entities register with the tracker as Unchanged; a
// row whose identity is already tracked yields the existing instance.
func (r *Repository[T]) queryEntities(ctx context.Context, b *sqlbuild.Select) ([]*T, error) {
	query, params, err := b.Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.uow.query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var entities []*T
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		entity, err := r.mapRow(columns, values)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entities, rows.Close()
}

// mapRow maps one scanned row onto an entity. Row-mapped entities start
// Unchanged.
func (r *Repository[T]) mapRow(columns []string, values []any) (*T, error) {
	if pk, err := r.info.PrimaryKey(); err == nil {
		for i, column := range columns {
			if column != pk.Column {
				continue
			}
			if entry, ok := r.uow.tracker.FindByKey(r.info, pk.Name, values[i]); ok {
				return entry.Entity().(*T), nil
			}
			break
		}
	}

	entity := new(T)
	for i, column := range columns {
		binding, ok := r.info.BindingForColumn(column)
		if !ok {
			continue
		}
		if err := typeinfo.SetFieldValue(r.info, entity, binding.Name, values[i]); err != nil {
			return nil, err
		}
	}
	if _, err := r.uow.tracker.Track(entity, track.Unchanged); err != nil {
		return nil, err
	}
	return entity, nil
}

// FindWhere is a convenience for the common single-column equality lookup.
func (r *Repository[T]) FindWhere(ctx context.Context, field string, value any) ([]*T, error) {
	return r.Find(ctx, predicate.Col(field).Eq(value))
}
