package entity

import "reflect"

const (
	hashBase       = 17
	hashMultiplier = 31
)

// Proxy is implemented by stand-ins (lazy references) for another type.
// ProxiedType is the type being stood in for, dereferenced.
type Proxy interface {
	ProxiedType() reflect.Type
}

// RealType is the conceptual type of v: the proxied type for a Proxy,
// otherwise the dynamic type with pointers removed.
func RealType(v any) reflect.Type {
	if p, ok := v.(Proxy); ok {
		return p.ProxiedType()
	}

	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Equal compares two records by identity.
//
// The same pointer is always equal to itself. Nil values and values of
// different real types are never equal. Otherwise both identities must be
// set and match: a record without identity equals nothing but itself.
func Equal(a, b any) bool {
	if isNil(a) || isNil(b) {
		return false
	}
	if samePointer(a, b) {
		return true
	}
	if RealType(a) != RealType(b) {
		return false
	}

	ia, ok := a.(Identifiable)
	if !ok {
		return false
	}
	ib, ok := b.(Identifiable)
	if !ok {
		return false
	}

	idA, set := ia.Identity()
	if !set {
		return false
	}
	idB, set := ib.Identity()
	return set && idA == idB
}

// Hash is consistent with Equal. All records without identity share the base
// bucket.
func Hash(e Identifiable) int {
	h := int32(hashBase)
	if id, ok := e.Identity(); ok {
		h += int64Hash(id) * hashMultiplier
	}
	return int(h)
}

// int64Hash folds the high word into the low one and keeps 32 bits.
func int64Hash(v int64) int32 {
	u := uint64(v)
	return int32(u ^ (u >> 32))
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func samePointer(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
}
