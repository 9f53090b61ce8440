package domain

import (
	"fmt"
	"math"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/core/types/enums"
)

// Entities allocates generation-stamped handles. Freed slots are reused, but
// their generation is bumped first, so old handles stop resolving.
type Entities struct {
	shard uint8
	gens  []uint16
	kinds []enums.EntityType
	alive []bool
	free  []uint32
	count int
}

func NewEntities(shard uint8) *Entities {
	return &Entities{shard: shard}
}

// Create returns a fresh handle. Slots are reused LIFO.
func (e *Entities) Create(kind enums.EntityType) types.EntityID {
	var idx uint32
	if n := len(e.free); n > 0 {
		idx = e.free[n-1]
		e.free = e.free[:n-1]
	} else {
		idx = uint32(len(e.gens))
		// Generation 0 is reserved so that no live handle equals NilEntityID.
		e.gens = append(e.gens, 1)
		e.kinds = append(e.kinds, enums.EntityTypeUnknown)
		e.alive = append(e.alive, false)
	}
	e.kinds[idx] = kind
	e.alive[idx] = true
	e.count++
	return types.PackEntityID(e.shard, uint8(kind), e.gens[idx], idx)
}

// IsAlive reports whether id refers to the current occupant of its slot.
func (e *Entities) IsAlive(id types.EntityID) bool {
	if id.IsNil() {
		return false
	}
	idx := id.Index()
	if int(idx) >= len(e.gens) {
		return false
	}
	return e.alive[idx] && e.gens[idx] == id.Generation() && id.Shard() == e.shard
}

func (e *Entities) Kind(id types.EntityID) enums.EntityType {
	if !e.IsAlive(id) {
		return enums.EntityTypeUnknown
	}
	return e.kinds[id.Index()]
}

func (e *Entities) destroy(id types.EntityID) error {
	if !e.IsAlive(id) {
		return fmt.Errorf("destroy %s: %w", id, ErrStaleEntity)
	}
	idx := id.Index()
	e.alive[idx] = false
	e.count--
	// A slot whose generation is used up is retired rather than wrapped, so
	// no old handle can ever resolve again.
	if e.gens[idx] == math.MaxUint16 {
		return nil
	}
	e.gens[idx]++
	e.free = append(e.free, idx)
	return nil
}

func (e *Entities) Len() int {
	return e.count
}

// componentStore is what World needs from every Storage to delete or
// describe an entity without knowing the component type.
type componentStore interface {
	remove(id types.EntityID) bool
	Has(id types.EntityID) bool
	Clear()
	Name() string
}

// Storage holds one component type, indexed by entity slot. Iteration is in
// ascending slot order, which makes every system pass deterministic.
type Storage[T any] struct {
	name     string
	entities *Entities
	ids      []types.EntityID
	vals     []T
	count    int
}

func newStorage[T any](w *World, name string) *Storage[T] {
	s := &Storage[T]{name: name, entities: w.Entities}
	w.stores = append(w.stores, s)
	return s
}

func (s *Storage[T]) Name() string {
	return s.name
}

// Insert attaches or replaces the component. Attaching to a dead handle is a
// programming error and panics.
func (s *Storage[T]) Insert(id types.EntityID, v T) {
	if !s.entities.IsAlive(id) {
		panic(fmt.Errorf("%w: insert %s on %s: %w", ErrContractViolation, s.name, id, ErrStaleEntity))
	}
	idx := int(id.Index())
	for len(s.ids) <= idx {
		var zero T
		s.ids = append(s.ids, types.NilEntityID)
		s.vals = append(s.vals, zero)
	}
	if s.ids[idx] != id {
		s.count++
	}
	s.ids[idx] = id
	s.vals[idx] = v
}

// Get returns a copy of the component.
func (s *Storage[T]) Get(id types.EntityID) (T, bool) {
	if p := s.Ptr(id); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Ptr returns a pointer for in-place mutation, or nil when absent. The pointer
// is invalidated by the next Insert into this storage.
func (s *Storage[T]) Ptr(id types.EntityID) *T {
	if id.IsNil() {
		return nil
	}
	idx := int(id.Index())
	if idx >= len(s.ids) || s.ids[idx] != id {
		return nil
	}
	return &s.vals[idx]
}

func (s *Storage[T]) Has(id types.EntityID) bool {
	return s.Ptr(id) != nil
}

// Remove detaches the component; it reports whether anything was removed.
func (s *Storage[T]) Remove(id types.EntityID) bool {
	return s.remove(id)
}

func (s *Storage[T]) remove(id types.EntityID) bool {
	if !s.Has(id) {
		return false
	}
	idx := int(id.Index())
	var zero T
	s.ids[idx] = types.NilEntityID
	s.vals[idx] = zero
	s.count--
	return true
}

// Clear drops every component in the storage. Intent storages are cleared at
// the end of the pass that consumes them.
func (s *Storage[T]) Clear() {
	for i := range s.ids {
		var zero T
		s.ids[i] = types.NilEntityID
		s.vals[i] = zero
	}
	s.count = 0
}

func (s *Storage[T]) Len() int {
	return s.count
}

// IDs returns the owners in ascending slot order. The slice is a snapshot, so
// callers may insert or remove while walking it.
func (s *Storage[T]) IDs() []types.EntityID {
	out := make([]types.EntityID, 0, s.count)
	for _, id := range s.ids {
		if !id.IsNil() {
			out = append(out, id)
		}
	}
	return out
}

// Each calls fn for every component in slot order. fn may mutate the value
// through the pointer but must not insert into this storage.
func (s *Storage[T]) Each(fn func(id types.EntityID, v *T)) {
	for i, id := range s.ids {
		if id.IsNil() {
			continue
		}
		fn(id, &s.vals[i])
	}
}
