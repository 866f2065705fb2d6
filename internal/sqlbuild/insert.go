// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/seaware/ormlet/internal/typeinfo"
)

// Insert builds a parameterized INSERT statement.
type Insert struct {
	params       Params
	table        string
	columns      []string
	placeholders []string
	returning    string
	err          error
}

// NewInsert returns a fresh Insert builder.
func NewInsert() *Insert {
	return &Insert{}
}

// Into sets the target table.
func (i *Insert) Into(table string) *Insert {
	i.table = table
	return i
}

// Set appends an explicit column/value pair.
func (i *Insert) Set(column string, value any) *Insert {
	i.columns = append(i.columns, quoteColumn(column))
	i.placeholders = append(i.placeholders, i.params.Bind(value))
	return i
}

// Columns appends every insertable column of the entity: all mapped columns
// except those the database generates. The target table is taken from the
// metadata when not already set.
func (i *Insert) Columns(info *typeinfo.Info, entity any) *Insert {
	if i.table == "" {
		i.table = info.Table
	}
	values, err := typeinfo.FieldValues(info, entity)
	if err != nil {
		if i.err == nil {
			i.err = err
		}
		return i
	}
	for _, b := range info.InsertColumns() {
		i.Set(b.Column, values[b.Name])
	}
	return i
}

// Returning appends a trailer that makes the statement return the generated
// key column. Support depends on the dialect.
func (i *Insert) Returning(column string) *Insert {
	i.returning = " RETURNING " + quoteColumn(column)
	return i
}

// Build emits the statement text and its parameters in binding order.
func (i *Insert) Build() (string, []any, error) {
	if i.err != nil {
		return "", nil, i.err
	}
	if i.table == "" {
		return "", nil, fmt.Errorf("cannot build INSERT without a target table")
	}
	if len(i.columns) == 0 {
		return "", nil, fmt.Errorf("cannot build INSERT without columns")
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(i.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(i.columns, ", "))
	buf.WriteString(") VALUES (")
	buf.WriteString(strings.Join(i.placeholders, ", "))
	buf.WriteString(")")
	buf.WriteString(i.returning)
	return buf.String(), i.params.List(), nil
}
