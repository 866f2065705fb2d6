// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/seaware/ormlet/internal/predicate"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// Update builds a parameterized UPDATE statement. Building without a WHERE
// clause fails with an UnsafeStatementError.
type Update struct {
	params Params
	table  string
	sets   []string
	where  whereList
	err    error
}

// NewUpdate returns a fresh Update builder.
func NewUpdate() *Update {
	return &Update{}
}

// Bind registers a value with the statement and returns its placeholder,
// for use in raw fragments passed to Where.
func (u *Update) Bind(value any) string {
	return u.params.Bind(value)
}

// Table sets the target table.
func (u *Update) Table(table string) *Update {
	u.table = table
	return u
}

// Set appends an explicit SET pair.
func (u *Update) Set(column string, value any) *Update {
	u.sets = append(u.sets, quoteColumn(column)+" = "+u.params.Bind(value))
	return u
}

// Columns appends a SET pair for every updatable column of the entity: all
// mapped columns except the primary key. The target table is taken from the
// metadata when not already set.
func (u *Update) Columns(info *typeinfo.Info, entity any) *Update {
	if u.table == "" {
		u.table = info.Table
	}
	values, err := typeinfo.FieldValues(info, entity)
	if err != nil {
		if u.err == nil {
			u.err = err
		}
		return u
	}
	for _, b := range info.UpdateColumns() {
		u.Set(b.Column, values[b.Name])
	}
	return u
}

// Where appends a condition fragment with AND.
func (u *Update) Where(fragment string) *Update {
	u.where.add(fragment, false)
	return u
}

// OrWhere appends a condition fragment with OR.
func (u *Update) OrWhere(fragment string) *Update {
	u.where.add(fragment, true)
	return u
}

// WherePredicate compiles a predicate tree and appends it with AND.
func (u *Update) WherePredicate(info *typeinfo.Info, expr predicate.Expr) *Update {
	if err := u.where.addPredicate(info, expr, &u.params, false); err != nil && u.err == nil {
		u.err = err
	}
	return u
}

// Build emits the statement text and its parameters in binding order.
func (u *Update) Build() (string, []any, error) {
	if u.err != nil {
		return "", nil, u.err
	}
	if u.table == "" {
		return "", nil, fmt.Errorf("cannot build UPDATE without a target table")
	}
	if len(u.sets) == 0 {
		return "", nil, fmt.Errorf("cannot build UPDATE without SET pairs")
	}
	if u.where.empty() {
		return "", nil, &UnsafeStatementError{Statement: "UPDATE"}
	}

	var buf strings.Builder
	buf.WriteString("UPDATE ")
	buf.WriteString(u.table)
	buf.WriteString(" SET ")
	buf.WriteString(strings.Join(u.sets, ", "))
	u.where.write(&buf)
	return buf.String(), u.params.List(), nil
}
