package ident

import "strconv"

// Allocator hands out identifiers for one kind. An identifier is never handed
// out twice, and identifiers retired during the allocator's lifetime stay
// blocked so deleted nodes cannot be confused with new ones.
type Allocator struct {
	used map[int]struct{}
}

// NewAllocator seeds an allocator with identifiers already in use.
// Non-numeric values are ignored.
func NewAllocator(existing ...string) *Allocator {
	a := &Allocator{used: make(map[int]struct{}, len(existing))}
	for _, id := range existing {
		a.Reserve(id)
	}
	return a
}

// Reserve marks id as used. It reports false when id is not a valid
// identifier or was already taken.
func (a *Allocator) Reserve(id string) bool {
	if !ValidID(id) {
		return false
	}
	n, _ := strconv.Atoi(id)
	if _, taken := a.used[n]; taken {
		return false
	}
	a.used[n] = struct{}{}
	return true
}

// Retire records that id was deleted. Retired identifiers stay reserved.
func (a *Allocator) Retire(id string) {
	a.Reserve(id)
}

// Next returns the smallest positive identifier not yet used and reserves it.
func (a *Allocator) Next() string {
	for n := 1; ; n++ {
		if _, taken := a.used[n]; !taken {
			a.used[n] = struct{}{}
			return strconv.Itoa(n)
		}
	}
}

// InUse reports whether id has been reserved, allocated or retired.
func (a *Allocator) InUse(id string) bool {
	n, err := strconv.Atoi(id)
	if err != nil {
		return false
	}
	_, ok := a.used[n]
	return ok
}
