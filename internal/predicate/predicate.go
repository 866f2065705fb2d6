// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package predicate defines the typed boolean expression trees that describe
// WHERE clauses over one entity's fields, and the compiler that turns a tree
// into a parameterized SQL fragment.
//
// Trees are built with the fluent constructors and are immutable inputs to
// the compiler:
//
//	p := predicate.And(
//		predicate.Col("Age").Gt(18),
//		predicate.Col("IsActive").Eq(true),
//	)
//
// The node set is closed. The compiler dispatches exhaustively over it and
// anything outside the supported kinds fails with an
// UnsupportedExpressionError rather than attempting a translation.
package predicate

// Expr is a node of a predicate tree.
type Expr interface {
	// kind names the node variant for error reporting.
	kind() string
}

// CompareOp enumerates the comparison operators.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpNe CompareOp = "<>"
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// CallKind enumerates the supported string-match and string-transform calls.
type CallKind string

const (
	CallContains   CallKind = "contains"
	CallStartsWith CallKind = "startswith"
	CallEndsWith   CallKind = "endswith"
	CallUpper      CallKind = "upper"
	CallLower      CallKind = "lower"
	CallTrim       CallKind = "trim"
)

type fieldExpr struct {
	name string
}

func (*fieldExpr) kind() string { return "field" }

type valueExpr struct {
	v any
}

func (*valueExpr) kind() string { return "value" }

type compareExpr struct {
	op    CompareOp
	left  Expr
	right Expr
}

func (*compareExpr) kind() string { return "compare" }

type logicalExpr struct {
	or    bool
	left  Expr
	right Expr
}

func (e *logicalExpr) kind() string {
	if e.or {
		return "or"
	}
	return "and"
}

type notExpr struct {
	inner Expr
}

func (*notExpr) kind() string { return "not" }

// callExpr is a string call on a column reference. For the match kinds the
// pattern is in arg; for the transform kinds the node wraps the column and
// needs a comparison above it.
type callExpr struct {
	call CallKind
	recv Expr
	arg  string
}

func (e *callExpr) kind() string { return string(e.call) }

type inExpr struct {
	field  Expr
	values []any
}

func (*inExpr) kind() string { return "in" }

// Column starts a predicate over a single entity field. The name is the
// struct field name; the compiler resolves it to the mapped column.
type Column struct {
	expr Expr
}

// Col references an entity field by struct field name.
func Col(name string) Column {
	return Column{expr: &fieldExpr{name: name}}
}

// Eq compares the column for equality. Eq(nil) compiles to IS NULL.
func (c Column) Eq(v any) Expr { return &compareExpr{op: OpEq, left: c.expr, right: &valueExpr{v: v}} }

// Ne compares the column for inequality. Ne(nil) compiles to IS NOT NULL.
func (c Column) Ne(v any) Expr { return &compareExpr{op: OpNe, left: c.expr, right: &valueExpr{v: v}} }

// Lt compares the column with <.
func (c Column) Lt(v any) Expr { return &compareExpr{op: OpLt, left: c.expr, right: &valueExpr{v: v}} }

// Le compares the column with <=.
func (c Column) Le(v any) Expr { return &compareExpr{op: OpLe, left: c.expr, right: &valueExpr{v: v}} }

// Gt compares the column with >.
func (c Column) Gt(v any) Expr { return &compareExpr{op: OpGt, left: c.expr, right: &valueExpr{v: v}} }

// Ge compares the column with >=.
func (c Column) Ge(v any) Expr { return &compareExpr{op: OpGe, left: c.expr, right: &valueExpr{v: v}} }

// Contains matches rows whose column contains the substring.
func (c Column) Contains(s string) Expr {
	return &callExpr{call: CallContains, recv: c.expr, arg: s}
}

// StartsWith matches rows whose column starts with the prefix.
func (c Column) StartsWith(s string) Expr {
	return &callExpr{call: CallStartsWith, recv: c.expr, arg: s}
}

// EndsWith matches rows whose column ends with the suffix.
func (c Column) EndsWith(s string) Expr {
	return &callExpr{call: CallEndsWith, recv: c.expr, arg: s}
}

// Upper wraps the column reference in UPPER. The result must be compared.
func (c Column) Upper() Column {
	return Column{expr: &callExpr{call: CallUpper, recv: c.expr}}
}

// Lower wraps the column reference in LOWER. The result must be compared.
func (c Column) Lower() Column {
	return Column{expr: &callExpr{call: CallLower, recv: c.expr}}
}

// Trim wraps the column reference in TRIM. The result must be compared.
func (c Column) Trim() Column {
	return Column{expr: &callExpr{call: CallTrim, recv: c.expr}}
}

// In matches rows whose column equals one of the values.
func (c Column) In(values ...any) Expr {
	return &inExpr{field: c.expr, values: values}
}

// And joins two predicates with AND.
func And(left, right Expr) Expr {
	return &logicalExpr{left: left, right: right}
}

// Or joins two predicates with OR.
func Or(left, right Expr) Expr {
	return &logicalExpr{or: true, left: left, right: right}
}

// Not negates a predicate.
func Not(inner Expr) Expr {
	return &notExpr{inner: inner}
}

// Value wraps a literal for use on the left side of a comparison.
func Value(v any) Column {
	return Column{expr: &valueExpr{v: v}}
}
