// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"bytes"
	"fmt"
	"reflect"
	"time"
)

// structValue returns the addressable struct value behind an entity pointer.
func structValue(info *Info, entity any) (reflect.Value, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("need non-nil pointer to %s, got %T", info.Type.Name(), entity)
	}
	v = v.Elem()
	if v.Type() != info.Type {
		return reflect.Value{}, fmt.Errorf("need pointer to %s, got pointer to %s", info.Type.Name(), v.Type().Name())
	}
	return v, nil
}

// FieldValues snapshots every mapped field of the entity. The returned map
// has exactly the catalog's binding field set as keys. Nil pointer fields
// snapshot as nil.
func FieldValues(info *Info, entity any) (map[string]any, error) {
	v, err := structValue(info, entity)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(info.Bindings))
	for _, b := range info.Bindings {
		values[b.Name] = fieldValue(v.Field(b.Index))
	}
	return values, nil
}

// FieldValue returns the value of a single mapped field.
func FieldValue(info *Info, entity any, field string) (any, error) {
	b, ok := info.Binding(field)
	if !ok {
		return nil, fmt.Errorf("type %q has no mapped field %q", info.Type.Name(), field)
	}
	v, err := structValue(info, entity)
	if err != nil {
		return nil, err
	}
	return fieldValue(v.Field(b.Index)), nil
}

func fieldValue(f reflect.Value) any {
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return nil
		}
		f = f.Elem()
	}
	return f.Interface()
}

// SetFieldValue assigns a value obtained from the database to a mapped
// field, coercing the driver's representation to the field type. NULL sets
// pointer fields to nil and zeroes value fields.
func SetFieldValue(info *Info, entity any, field string, value any) error {
	b, ok := info.Binding(field)
	if !ok {
		return fmt.Errorf("type %q has no mapped field %q", info.Type.Name(), field)
	}
	v, err := structValue(info, entity)
	if err != nil {
		return err
	}
	f := v.Field(b.Index)

	if value == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}

	target := f
	if f.Kind() == reflect.Pointer {
		target = reflect.New(f.Type().Elem()).Elem()
	}
	if err := coerce(target, value); err != nil {
		return fmt.Errorf("cannot assign %s.%s: %s", info.Type.Name(), field, err)
	}
	if f.Kind() == reflect.Pointer {
		p := reflect.New(f.Type().Elem())
		p.Elem().Set(target)
		f.Set(p)
	}
	return nil
}

// coerce assigns a driver value to target, converting between the small set
// of representations SQL drivers hand back (int64, float64, bool, string,
// []byte, time.Time) and the field's Go type.
func coerce(target reflect.Value, value any) error {
	vv := reflect.ValueOf(value)
	if vv.Type() == target.Type() {
		target.Set(vv)
		return nil
	}

	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch value := value.(type) {
		case int64:
			target.SetInt(value)
			return nil
		case float64:
			target.SetInt(int64(value))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i, ok := value.(int64); ok {
			target.SetUint(uint64(i))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		switch value := value.(type) {
		case float64:
			target.SetFloat(value)
			return nil
		case int64:
			target.SetFloat(float64(value))
			return nil
		}
	case reflect.Bool:
		// SQLite has no boolean storage class; integers come back.
		if i, ok := value.(int64); ok {
			target.SetBool(i != 0)
			return nil
		}
	case reflect.String:
		if bs, ok := value.([]byte); ok {
			target.SetString(string(bs))
			return nil
		}
	case reflect.Slice:
		if target.Type().Elem().Kind() == reflect.Uint8 {
			if s, ok := value.(string); ok {
				target.SetBytes([]byte(s))
				return nil
			}
		}
	}

	if vv.Type().ConvertibleTo(target.Type()) {
		target.Set(vv.Convert(target.Type()))
		return nil
	}
	return fmt.Errorf("cannot convert %T to %s", value, target.Type())
}

// EqualValue compares two snapshot values by value rather than by
// representation: all integer widths compare as integers, floats as floats,
// times with time.Time.Equal and byte slices bytewise.
func EqualValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && bytes.Equal(ab, bb)
	}
	if ai, aok := asInt64(a); aok {
		bi, bok := asInt64(b)
		return bok && ai == bi
	}
	if af, aok := asFloat64(a); aok {
		bf, bok := asFloat64(b)
		return bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func asInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
