// internal/naming/collision.go
package naming

import (
	"fmt"
	"strconv"
)

// CollisionPolicy decides what happens when a name already denotes a live
// object.
type CollisionPolicy int

const (
	// Ignore returns the name unchanged; the caller deals with aliasing.
	Ignore CollisionPolicy = iota
	// Throw fails with a *NameCollisionError.
	Throw
	// Replace deletes the live object so the name can be reused.
	Replace
	// Increment searches upward for a free trailing number.
	Increment
)

func (p CollisionPolicy) String() string {
	switch p {
	case Ignore:
		return "ignore"
	case Throw:
		return "throw"
	case Replace:
		return "replace"
	case Increment:
		return "increment"
	default:
		return "unknown"
	}
}

// Namespace is the part of the scene collision resolution needs.
type Namespace interface {
	Exists(handle string) bool
	Delete(handle string) error
}

// ResolveCollision applies policy to id against the live objects in ns.
//
// Increment strips any trailing digits from the semantic name and scans
// upward starting at the parsed number (zero when absent). The number is
// omitted from the candidate when it is zero, so `Foo` is tried before
// `Foo1`. Existing `Foo3` and `Foo4` resolve `Foo3` to `Foo5`.
func ResolveCollision(ns Namespace, id Identity, policy CollisionPolicy) (Identity, error) {
	if policy == Increment && !id.IsStructured() {
		return nil, fmt.Errorf("cannot increment %q: %w", id.ToSceneHandle(), ErrNotStructured)
	}
	handle := id.ToSceneHandle()
	if !ns.Exists(handle) {
		return id, nil
	}

	switch policy {
	case Ignore:
		return id, nil
	case Throw:
		return nil, &NameCollisionError{Name: handle}
	case Replace:
		if err := ns.Delete(handle); err != nil {
			return nil, fmt.Errorf("failed to replace %q: %w", handle, err)
		}
		return id, nil
	case Increment:
		return increment(ns, id.(Structured))
	}
	return nil, fmt.Errorf("unknown collision policy %d", policy)
}

// Resolve is ResolveCollision for callers that already hold a Structured name.
func Resolve(ns Namespace, s Structured, policy CollisionPolicy) (Structured, error) {
	id, err := ResolveCollision(ns, s, policy)
	if err != nil {
		return Structured{}, err
	}
	return id.(Structured), nil
}

func increment(ns Namespace, s Structured) (Identity, error) {
	stem, n := s.Base()
	for ; ; n++ {
		candidate := s
		candidate.Name = numbered(stem, n)
		if !ValidSegment(candidate.Name) {
			continue
		}
		if !ns.Exists(candidate.ToSceneHandle()) {
			return candidate, nil
		}
	}
}

func numbered(stem string, n int) string {
	if n == 0 {
		return stem
	}
	return stem + strconv.Itoa(n)
}
