// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"fmt"
	"reflect"
)

// Binding describes how a single struct field maps onto a table column. A
// Binding is immutable once derived; there is exactly one per (entity type,
// tagged field) pair.
type Binding struct {
	// Name is the struct field name.
	Name string

	// Index is the field's index for Type.Field.
	Index int

	// Type is the Go type of the field.
	Type reflect.Type

	// Column is the column name from the field's "db" tag.
	Column string

	// PrimaryKey is true when the field carries the "primarykey" flag.
	PrimaryKey bool

	// AutoIncrement is true when the column value is generated by the
	// database on insert.
	AutoIncrement bool

	// Nullable is true when the column permits NULL.
	Nullable bool

	// MaxLength holds the "maxlength=N" flag value, or 0 when unset.
	MaxLength int

	// References holds the "Type.column" target of a foreign key binding,
	// or the empty string when the field is not a foreign key.
	References string
}

// Info holds the resolved table mapping for one entity type. Bindings keeps
// the struct's declaration order, which is the order snapshots, inserts and
// modified-field reports use.
type Info struct {
	// Type is the reflected entity struct type.
	Type reflect.Type

	// Table is the resolved table name.
	Table string

	// Bindings are the column bindings in field declaration order.
	Bindings []*Binding

	byField  map[string]*Binding
	byColumn map[string]*Binding
	pk       *Binding
}

// Binding returns the binding for the given struct field name.
func (info *Info) Binding(field string) (*Binding, bool) {
	b, ok := info.byField[field]
	return b, ok
}

// BindingForColumn returns the binding for the given column name.
func (info *Info) BindingForColumn(column string) (*Binding, bool) {
	b, ok := info.byColumn[column]
	return b, ok
}

// PrimaryKey returns the primary key binding. Types without one are legal to
// resolve, but any operation that needs the key gets a
// MissingPrimaryKeyError here.
func (info *Info) PrimaryKey() (*Binding, error) {
	if info.pk == nil {
		return nil, &MissingPrimaryKeyError{TypeName: info.Type.Name()}
	}
	return info.pk, nil
}

// InsertColumns returns the bindings written on insert: every mapped column
// except those generated by the database.
func (info *Info) InsertColumns() []*Binding {
	var bs []*Binding
	for _, b := range info.Bindings {
		if !b.AutoIncrement {
			bs = append(bs, b)
		}
	}
	return bs
}

// UpdateColumns returns the bindings written on update: every mapped column
// except the primary key.
func (info *Info) UpdateColumns() []*Binding {
	var bs []*Binding
	for _, b := range info.Bindings {
		if !b.PrimaryKey {
			bs = append(bs, b)
		}
	}
	return bs
}

// FieldNames returns the mapped field names in declaration order.
func (info *Info) FieldNames() []string {
	names := make([]string, 0, len(info.Bindings))
	for _, b := range info.Bindings {
		names = append(names, b.Name)
	}
	return names
}

// MissingPrimaryKeyError is returned when an operation requires a primary
// key binding that the entity type does not declare.
type MissingPrimaryKeyError struct {
	TypeName string
}

func (e *MissingPrimaryKeyError) Error() string {
	return fmt.Sprintf("type %q has no primary key binding", e.TypeName)
}
