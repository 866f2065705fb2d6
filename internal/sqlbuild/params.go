// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package sqlbuild composes parameterized SELECT, INSERT, UPDATE and DELETE
// statements from accumulated clause state. Each builder is single-use:
// build the statement, execute it, discard the builder.
//
// All builders share one parameter scheme: every bound value gets a named
// placeholder @pN with N zero-based and strictly increasing within the
// builder, and Build returns the parameters in binding order so they align
// positionally with the placeholders in the text.
package sqlbuild

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Params accumulates the named parameters of one statement. The zero value
// is ready to use. Params implements the predicate compiler's sink.
type Params struct {
	args []any
}

// Bind registers a value and returns its fresh placeholder.
func (p *Params) Bind(value any) string {
	name := "p" + strconv.Itoa(len(p.args))
	p.args = append(p.args, sql.Named(name, value))
	return "@" + name
}

// List returns the registered parameters in binding order.
func (p *Params) List() []any {
	return p.args
}

// UnsafeStatementError reports an UPDATE or DELETE built without a WHERE
// clause. The missing clause has to be added by the caller; full-table
// mutation is never emitted implicitly.
type UnsafeStatementError struct {
	Statement string
}

func (e *UnsafeStatementError) Error() string {
	return fmt.Sprintf("refusing to build %s statement without a WHERE clause", e.Statement)
}

// quoteColumn renders a catalog column name for use in generated SQL.
func quoteColumn(column string) string {
	return "[" + column + "]"
}
