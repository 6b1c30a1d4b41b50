package entity

import "math/rand/v2"

// Identifiable is implemented by records and by proxies standing in for them.
// The boolean is false while the identity is unset.
type Identifiable interface {
	Identity() (int64, bool)
}

// Assignable is an Identifiable whose identity can be populated by a generator.
type Assignable interface {
	Identifiable
	SetID(id int64)
}

// Generator produces primary-key values for records being inserted.
type Generator interface {
	Generate() int64
}

type GeneratorFunc func() int64

func (f GeneratorFunc) Generate() int64 { return f() }

// RandomGenerator draws uniformly from the full signed 64-bit range.
// math/rand/v2's top-level source is per-thread runtime state, so concurrent
// callers never contend on a lock. No collision check is made: a duplicate
// is rejected by the store's primary-key constraint.
type RandomGenerator struct{}

func (RandomGenerator) Generate() int64 {
	return int64(rand.Uint64())
}

var DefaultGenerator Generator = RandomGenerator{}

// AssignIdentity gives e an identity from g unless it already has one, and
// returns the identity e ends up with. A nil g means DefaultGenerator.
func AssignIdentity(e Assignable, g Generator) int64 {
	if id, ok := e.Identity(); ok {
		return id
	}
	if g == nil {
		g = DefaultGenerator
	}

	id := g.Generate()
	e.SetID(id)
	return id
}

// IsNew reports whether e has not been given an identity yet.
func IsNew(e Identifiable) bool {
	_, ok := e.Identity()
	return !ok
}
