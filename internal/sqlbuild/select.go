// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seaware/ormlet/internal/predicate"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// Direction orders a column ascending or descending.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// JoinKind selects the join flavor of a join clause.
type JoinKind string

const (
	InnerJoin JoinKind = "JOIN"
	LeftJoin  JoinKind = "LEFT JOIN"
)

// Select builds a parameterized SELECT statement. The zero value is not
// useful; use NewSelect.
type Select struct {
	params    Params
	columns   []string
	table     string
	alias     string
	joins     []string
	where     whereList
	groupBy   []string
	orderBy   []string
	distinct  bool
	limit     int64
	offset    int64
	hasLimit  bool
	hasOffset bool
	err       error
}

// NewSelect returns a fresh Select builder.
func NewSelect() *Select {
	return &Select{}
}

// Bind registers a value with the statement and returns its placeholder,
// for use in raw fragments passed to Where and Join.
func (s *Select) Bind(value any) string {
	return s.params.Bind(value)
}

// Columns sets the column list. When never called the statement selects *.
func (s *Select) Columns(columns ...string) *Select {
	s.columns = append(s.columns, columns...)
	return s
}

// From sets the source table.
func (s *Select) From(table string) *Select {
	s.table = table
	return s
}

// FromAs sets the source table with an alias.
func (s *Select) FromAs(table, alias string) *Select {
	s.table = table
	s.alias = alias
	return s
}

// Join appends a join clause with its ON condition.
func (s *Select) Join(kind JoinKind, table, on string) *Select {
	s.joins = append(s.joins, string(kind)+" "+table+" ON "+on)
	return s
}

// Where appends a condition fragment with AND.
func (s *Select) Where(fragment string) *Select {
	s.where.add(fragment, false)
	return s
}

// OrWhere appends a condition fragment with OR.
func (s *Select) OrWhere(fragment string) *Select {
	s.where.add(fragment, true)
	return s
}

// WherePredicate compiles a predicate tree and appends it with AND.
func (s *Select) WherePredicate(info *typeinfo.Info, expr predicate.Expr) *Select {
	if err := s.where.addPredicate(info, expr, &s.params, false); err != nil && s.err == nil {
		s.err = err
	}
	return s
}

// OrWherePredicate compiles a predicate tree and appends it with OR.
func (s *Select) OrWherePredicate(info *typeinfo.Info, expr predicate.Expr) *Select {
	if err := s.where.addPredicate(info, expr, &s.params, true); err != nil && s.err == nil {
		s.err = err
	}
	return s
}

// GroupBy appends grouping columns.
func (s *Select) GroupBy(columns ...string) *Select {
	s.groupBy = append(s.groupBy, columns...)
	return s
}

// OrderBy appends an ordering column.
func (s *Select) OrderBy(column string, dir Direction) *Select {
	s.orderBy = append(s.orderBy, column+" "+string(dir))
	return s
}

// Distinct marks the statement DISTINCT.
func (s *Select) Distinct() *Select {
	s.distinct = true
	return s
}

// Limit caps the number of returned rows.
func (s *Select) Limit(n int64) *Select {
	s.limit = n
	s.hasLimit = true
	return s
}

// Offset skips the first n rows.
func (s *Select) Offset(n int64) *Select {
	s.offset = n
	s.hasOffset = true
	return s
}

// Build emits the statement text and its parameters in binding order.
// Clause order is fixed: SELECT [DISTINCT] columns FROM source joins
// [WHERE] [GROUP BY] [ORDER BY] [LIMIT] [OFFSET].
func (s *Select) Build() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	if s.table == "" {
		return "", nil, fmt.Errorf("cannot build SELECT without a source table")
	}

	var buf strings.Builder
	buf.WriteString("SELECT ")
	if s.distinct {
		buf.WriteString("DISTINCT ")
	}
	if len(s.columns) == 0 {
		buf.WriteString("*")
	} else {
		buf.WriteString(strings.Join(s.columns, ", "))
	}
	s.writeSource(&buf)
	s.where.write(&buf)
	if len(s.groupBy) > 0 {
		buf.WriteString(" GROUP BY ")
		buf.WriteString(strings.Join(s.groupBy, ", "))
	}
	if len(s.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(s.orderBy, ", "))
	}
	if s.hasLimit {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.FormatInt(s.limit, 10))
	}
	if s.hasOffset {
		buf.WriteString(" OFFSET ")
		buf.WriteString(strconv.FormatInt(s.offset, 10))
	}
	return buf.String(), s.params.List(), nil
}

// BuildCount emits the companion count form: the column list, ordering and
// paging are stripped and COUNT(*) is selected from the same source and
// conditions.
func (s *Select) BuildCount() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	if s.table == "" {
		return "", nil, fmt.Errorf("cannot build SELECT without a source table")
	}

	var buf strings.Builder
	buf.WriteString("SELECT COUNT(*)")
	s.writeSource(&buf)
	s.where.write(&buf)
	return buf.String(), s.params.List(), nil
}

func (s *Select) writeSource(buf *strings.Builder) {
	buf.WriteString(" FROM ")
	buf.WriteString(s.table)
	if s.alias != "" {
		buf.WriteString(" AS ")
		buf.WriteString(s.alias)
	}
	for _, join := range s.joins {
		buf.WriteString(" ")
		buf.WriteString(join)
	}
}
