package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	registry = map[reflect.Type]any{}
	mutex    sync.RWMutex
)

type values[T comparable] struct {
	byName map[string]T
	order  []T
}

// New registers value as a member of its enum type and returns it, so enums
// are declared as `var X = enum.New(T("x"))`. The registered name is the
// string form of the value.
func New[T comparable](value T) T {
	mutex.Lock()
	defer mutex.Unlock()

	t := reflect.TypeOf(value)
	if _, ok := registry[t]; !ok {
		registry[t] = &values[T]{byName: map[string]T{}}
	}

	v := registry[t].(*values[T])
	name := fmt.Sprint(value)
	if _, ok := v.byName[name]; !ok {
		v.order = append(v.order, value)
	}
	v.byName[name] = value

	return value
}

func ToEnum[T comparable](s string) (T, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	var zero T
	e, ok := registry[reflect.TypeOf(zero)]
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := e.(*values[T]).byName[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}

// Values returns the registered members of T in declaration order.
func Values[T comparable]() []T {
	mutex.RLock()
	defer mutex.RUnlock()

	var zero T
	e, ok := registry[reflect.TypeOf(zero)]
	if !ok {
		return nil
	}

	return append([]T(nil), e.(*values[T]).order...)
}
