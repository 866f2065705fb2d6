// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/seaware/ormlet/internal/predicate"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// Delete builds a parameterized DELETE statement. Building without a WHERE
// clause fails with an UnsafeStatementError.
type Delete struct {
	params Params
	table  string
	where  whereList
	err    error
}

// NewDelete returns a fresh Delete builder.
func NewDelete() *Delete {
	return &Delete{}
}

// Bind registers a value with the statement and returns its placeholder,
// for use in raw fragments passed to Where.
func (d *Delete) Bind(value any) string {
	return d.params.Bind(value)
}

// From sets the target table.
func (d *Delete) From(table string) *Delete {
	d.table = table
	return d
}

// Where appends a condition fragment with AND.
func (d *Delete) Where(fragment string) *Delete {
	d.where.add(fragment, false)
	return d
}

// OrWhere appends a condition fragment with OR.
func (d *Delete) OrWhere(fragment string) *Delete {
	d.where.add(fragment, true)
	return d
}

// WherePredicate compiles a predicate tree and appends it with AND.
func (d *Delete) WherePredicate(info *typeinfo.Info, expr predicate.Expr) *Delete {
	if err := d.where.addPredicate(info, expr, &d.params, false); err != nil && d.err == nil {
		d.err = err
	}
	return d
}

// Build emits the statement text and its parameters in binding order.
func (d *Delete) Build() (string, []any, error) {
	if d.err != nil {
		return "", nil, d.err
	}
	if d.table == "" {
		return "", nil, fmt.Errorf("cannot build DELETE without a target table")
	}
	if d.where.empty() {
		return "", nil, &UnsafeStatementError{Statement: "DELETE"}
	}

	var buf strings.Builder
	buf.WriteString("DELETE FROM ")
	buf.WriteString(d.table)
	d.where.write(&buf)
	return buf.String(), d.params.List(), nil
}
