// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package ormlet

import (
	"github.com/seaware/ormlet/internal/predicate"
)

// Predicate is a typed boolean expression over one entity's fields. It is
// built with [Col], [And], [Or] and [Not] and compiled to a parameterized
// WHERE fragment when a repository read runs.
type Predicate = predicate.Expr

// Column is a predicate under construction over a single entity field.
type Column = predicate.Column

// Col references an entity field by struct field name.
func Col(name string) Column {
	return predicate.Col(name)
}

// And joins two predicates with AND.
func And(left, right Predicate) Predicate {
	return predicate.And(left, right)
}

// Or joins two predicates with OR.
func Or(left, right Predicate) Predicate {
	return predicate.Or(left, right)
}

// Not negates a predicate.
func Not(inner Predicate) Predicate {
	return predicate.Not(inner)
}
