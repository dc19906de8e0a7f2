package common

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// ErrFieldNotFound indicates a struct has no field with the requested name.
// It signals a structural mismatch with the runtime internals the caller
// expected, not a recoverable condition.
var ErrFieldNotFound = errors.New("field not found")

type fieldKey struct {
	typ  reflect.Type
	name string
}

// fieldCache memoizes resolved field indexes per (type, field name).
var fieldCache sync.Map // fieldKey -> int

func fieldIndex(typ reflect.Type, name string) (int, error) {
	key := fieldKey{typ: typ, name: name}
	if idx, ok := fieldCache.Load(key); ok {
		return idx.(int), nil
	}
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Name == name {
			fieldCache.Store(key, i)
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, typ, name)
}

// ReadField returns the value of the named field on instance, which must be
// a pointer to a struct. Unexported fields are read through an aliased
// pointer, bypassing the usual visibility rules.
func ReadField(instance any, name string) (any, error) {
	elem, err := structValue(instance)
	if err != nil {
		return nil, err
	}
	idx, err := fieldIndex(elem.Type(), name)
	if err != nil {
		return nil, err
	}
	field := elem.Field(idx)
	if !field.CanInterface() {
		field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	}
	return field.Interface(), nil
}

// WriteField sets the named field on instance, which must be a pointer to a
// struct, to value. Unexported fields are written the same way ReadField
// reads them.
func WriteField(instance any, name string, value any) error {
	elem, err := structValue(instance)
	if err != nil {
		return err
	}
	idx, err := fieldIndex(elem.Type(), name)
	if err != nil {
		return err
	}
	field := elem.Field(idx)
	if !field.CanSet() {
		field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	}
	field.Set(reflect.ValueOf(value))
	return nil
}

func structValue(instance any) (reflect.Value, error) {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("expected pointer to struct, got %T", instance)
	}
	return v.Elem(), nil
}
