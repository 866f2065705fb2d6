// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbuild

import (
	"strings"

	"github.com/seaware/ormlet/internal/predicate"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// whereList accumulates WHERE fragments together with the connective that
// attaches each one to the clause built so far.
type whereList struct {
	clauses []whereClause
}

type whereClause struct {
	fragment string
	or       bool
}

func (w *whereList) add(fragment string, or bool) {
	w.clauses = append(w.clauses, whereClause{fragment: fragment, or: or})
}

// addPredicate compiles a predicate tree against the entity metadata, using
// the statement's parameter set as the sink, and appends the fragment.
func (w *whereList) addPredicate(info *typeinfo.Info, expr predicate.Expr, params *Params, or bool) error {
	fragment, err := predicate.Compile(info, expr, params)
	if err != nil {
		return err
	}
	w.add(fragment, or)
	return nil
}

func (w *whereList) empty() bool {
	return len(w.clauses) == 0
}

// write renders " WHERE ..." into the builder, joining the accumulated
// fragments with their connectives.
func (w *whereList) write(buf *strings.Builder) {
	if w.empty() {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range w.clauses {
		if i != 0 {
			if c.or {
				buf.WriteString(" OR ")
			} else {
				buf.WriteString(" AND ")
			}
		}
		buf.WriteString(c.fragment)
	}
}
