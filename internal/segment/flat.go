// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segment

import (
	"fmt"
	"reflect"
)

// assertFlat reports an error if T is not a flat, bitwise-copyable value
// type: no pointers, slices, maps, channels, funcs or interfaces reachable
// from T's fields.
//
// Go generics have no compile-time bound equivalent to the original
// source's `std::is_trivially_copyable<T>` static_assert, so this check
// runs once per Segment[T] construction instead — the same trade-off
// slotcache.Open makes for is64Bit/isLittleEndian, gates it can't express
// as type constraints either.
func assertFlat[T any]() error {
	var zero T
	return checkFlat(reflect.TypeOf(zero), "T")
}

func checkFlat(t reflect.Type, path string) error {
	if t == nil {
		// T is itself an interface type instantiated with a nil value;
		// reflect.TypeOf(zero) is nil in that case.
		return fmt.Errorf("segment: %s is not a flat type (interface types are not bitwise copyable)", path)
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer, reflect.String:
		return fmt.Errorf("segment: %s has kind %s, which is not bitwise copyable", path, t.Kind())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if err := checkFlat(f.Type, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil
	case reflect.Array:
		return checkFlat(t.Elem(), path+"[]")
	default:
		// Bool, numeric kinds: flat by construction.
		return nil
	}
}
