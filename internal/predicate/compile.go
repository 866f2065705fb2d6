// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package predicate

import (
	"fmt"
	"strings"

	"github.com/seaware/ormlet/internal/typeinfo"
)

// ParamSink registers a runtime value with the statement under construction
// and returns the fresh placeholder that refers to it.
type ParamSink interface {
	Bind(value any) string
}

// UnsupportedExpressionError reports a predicate node the compiler cannot
// translate. The predicate must be restructured by the caller; this is a
// hard limitation, not a recoverable condition.
type UnsupportedExpressionError struct {
	Kind string
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("cannot translate %s expression to SQL", e.Kind)
}

// Compile walks the predicate tree and returns a parameterized WHERE
// fragment. Field references resolve to columns via the entity metadata;
// values are registered with the sink in emission order.
func Compile(info *typeinfo.Info, e Expr, sink ParamSink) (string, error) {
	switch e := e.(type) {
	case *logicalExpr:
		left, err := Compile(info, e.left, sink)
		if err != nil {
			return "", err
		}
		right, err := Compile(info, e.right, sink)
		if err != nil {
			return "", err
		}
		op := "AND"
		if e.or {
			op = "OR"
		}
		return "(" + left + ") " + op + " (" + right + ")", nil
	case *notExpr:
		inner, err := Compile(info, e.inner, sink)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case *compareExpr:
		return compileCompare(info, e, sink)
	case *callExpr:
		return compileMatch(info, e, sink)
	case *inExpr:
		return compileIn(info, e, sink)
	default:
		return "", &UnsupportedExpressionError{Kind: e.kind()}
	}
}

// compileCompare emits <left> <op> <placeholder>, with the null forms for =
// and <> against an absent value.
func compileCompare(info *typeinfo.Info, e *compareExpr, sink ParamSink) (string, error) {
	left, err := compileOperand(info, e.left, sink)
	if err != nil {
		return "", err
	}

	val, ok := e.right.(*valueExpr)
	if !ok {
		return "", &UnsupportedExpressionError{Kind: e.right.kind()}
	}
	if val.v == nil {
		switch e.op {
		case OpEq:
			return left + " IS NULL", nil
		case OpNe:
			return left + " IS NOT NULL", nil
		}
		return "", fmt.Errorf("cannot compare to NULL with %s", e.op)
	}
	return left + " " + string(e.op) + " " + sink.Bind(val.v), nil
}

// compileOperand renders the left side of a comparison: a field reference
// becomes a quoted column, a transform call wraps its column in the SQL
// function, and anything else is evaluated to a bound literal.
func compileOperand(info *typeinfo.Info, e Expr, sink ParamSink) (string, error) {
	switch e := e.(type) {
	case *fieldExpr:
		return columnRef(info, e)
	case *callExpr:
		var fn string
		switch e.call {
		case CallUpper:
			fn = "UPPER"
		case CallLower:
			fn = "LOWER"
		case CallTrim:
			fn = "TRIM"
		default:
			return "", &UnsupportedExpressionError{Kind: e.kind()}
		}
		col, err := compileOperand(info, e.recv, sink)
		if err != nil {
			return "", err
		}
		return fn + "(" + col + ")", nil
	case *valueExpr:
		return sink.Bind(e.v), nil
	default:
		return "", &UnsupportedExpressionError{Kind: e.kind()}
	}
}

// compileMatch emits the LIKE form of a string-match call. A bare transform
// call has no comparison above it and cannot stand alone as a predicate.
func compileMatch(info *typeinfo.Info, e *callExpr, sink ParamSink) (string, error) {
	var pattern string
	switch e.call {
	case CallContains:
		pattern = "%" + e.arg + "%"
	case CallStartsWith:
		pattern = e.arg + "%"
	case CallEndsWith:
		pattern = "%" + e.arg
	default:
		return "", &UnsupportedExpressionError{Kind: e.kind()}
	}
	col, err := compileOperand(info, e.recv, sink)
	if err != nil {
		return "", err
	}
	return col + " LIKE " + sink.Bind(pattern), nil
}

// compileIn emits <col> IN (<p0>, <p1>, ...) with one parameter per
// element. Membership of the empty set cannot hold, so it compiles to a
// false constant.
func compileIn(info *typeinfo.Info, e *inExpr, sink ParamSink) (string, error) {
	col, err := compileOperand(info, e.field, sink)
	if err != nil {
		return "", err
	}
	if len(e.values) == 0 {
		return "1 = 0", nil
	}
	placeholders := make([]string, 0, len(e.values))
	for _, v := range e.values {
		placeholders = append(placeholders, sink.Bind(v))
	}
	return col + " IN (" + strings.Join(placeholders, ", ") + ")", nil
}

// columnRef resolves a field reference to its bracket-quoted column name.
func columnRef(info *typeinfo.Info, e *fieldExpr) (string, error) {
	b, ok := info.Binding(e.name)
	if !ok {
		return "", fmt.Errorf("type %q has no mapped field %q", info.Type.Name(), e.name)
	}
	return "[" + b.Column + "]", nil
}
