package genarena

import "math"

const (
	// maxSlots limits the arena to what a 32-bit slot position can address.
	maxSlots = math.MaxUint32

	// maxGeneration is the saturation point of a slot's generation counter.
	// A slot whose counter can no longer advance is retired instead of reused,
	// so a stale index can never alias a fresh occupant.
	maxGeneration = math.MaxUint32
)

// Free-list link sentinels. A vacant slot's next link either points at
// another vacant slot, ends the chain, or marks the slot as permanently
// retired from reuse.
const (
	freeListEnd = -1
	slotRetired = -2
)

// slot is one storage cell. While occupied, generation is the generation the
// current element was inserted under. While vacant, generation is the one the
// next occupant will receive and next threads the free list.
type slot[T any] struct {
	value      T
	generation uint32
	next       int
	occupied   bool
}

// Arena is a growable store of values of a single type, addressed by stable
// generational indices rather than raw offsets.
//
// Removing an element advances its slot's generation, so every index issued
// for the old occupant becomes permanently invalid even after the slot is
// reused. Accessors report staleness as an absent result; they never panic.
//
// An Arena is not safe for concurrent use. One goroutine owns and mutates it,
// or the caller wraps it in external synchronization (see the package doc).
type Arena[T any] struct {
	slots    []slot[T]
	freeHead int
	occupied int
	retired  int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{freeHead: freeListEnd}
}

// WithCapacity creates an arena with n pre-allocated vacant slots. The first
// n insertions fill positions 0..n-1 in ascending order without growing the
// backing storage.
func WithCapacity[T any](n int) *Arena[T] {
	a := New[T]()
	a.Reserve(n)
	return a
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int { return a.occupied }

// Cap returns the total number of slots, occupied or not.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// IsEmpty reports whether no slot is occupied.
func (a *Arena[T]) IsEmpty() bool { return a.occupied == 0 }

// Reserve appends additional vacant slots to the arena. The new slots are
// preferred for upcoming insertions, filled in ascending position order.
// Len is unchanged.
func (a *Arena[T]) Reserve(additional int) {
	if additional <= 0 {
		return
	}
	start := len(a.slots)
	if uint64(start)+uint64(additional) > maxSlots {
		additional = int(maxSlots - uint64(start))
		if additional <= 0 {
			return
		}
	}
	end := start + additional
	a.slots = append(a.slots, make([]slot[T], additional)...)
	for i := start; i < end-1; i++ {
		a.slots[i].next = i + 1
	}
	a.slots[end-1].next = a.freeHead
	a.freeHead = start
}

// nextIndex returns the index the next insertion will be assigned, without
// changing any state. The error is ErrCapacityExhausted when no slot can be
// found or created.
func (a *Arena[T]) nextIndex() (Index, error) {
	if a.freeHead != freeListEnd {
		i := a.freeHead
		return Index{slot: uint32(i), generation: a.slots[i].generation}, nil
	}
	if uint64(len(a.slots)) >= maxSlots {
		return Index{}, ErrCapacityExhausted
	}
	return Index{slot: uint32(len(a.slots))}, nil
}

// commit occupies the slot previously announced by nextIndex.
func (a *Arena[T]) commit(idx Index, value T) {
	if int(idx.slot) == len(a.slots) {
		a.slots = append(a.slots, slot[T]{value: value, occupied: true})
	} else {
		s := &a.slots[idx.slot]
		a.freeHead = s.next
		s.value = value
		s.occupied = true
	}
	a.occupied++
}

// TryInsert places value into a vacant slot, or appends a new slot if none is
// free, and returns the element's index. It fails with ErrCapacityExhausted
// when the arena already holds the maximum representable number of slots.
func (a *Arena[T]) TryInsert(value T) (Index, error) {
	idx, err := a.nextIndex()
	if err != nil {
		return Index{}, err
	}
	a.commit(idx, value)
	return idx, nil
}

// TryInsertWith is TryInsert for values that need to know their own index,
// such as records that embed a handle to themselves. fn is called exactly
// once, with the index the value will be stored under, before the slot is
// committed.
func (a *Arena[T]) TryInsertWith(fn func(Index) T) (Index, error) {
	idx, err := a.nextIndex()
	if err != nil {
		return Index{}, err
	}
	a.commit(idx, fn(idx))
	return idx, nil
}

// Insert is the unchecked variant of TryInsert: capacity exhaustion panics.
// Use TryInsert where allocation failure must be recoverable.
func (a *Arena[T]) Insert(value T) Index {
	idx, err := a.TryInsert(value)
	if err != nil {
		panic(err)
	}
	return idx
}

// InsertWith is the unchecked variant of TryInsertWith.
func (a *Arena[T]) InsertWith(fn func(Index) T) Index {
	idx, err := a.TryInsertWith(fn)
	if err != nil {
		panic(err)
	}
	return idx
}

// lookup resolves an index to its slot, or nil when the index is out of
// bounds, stale, or names a vacant slot.
func (a *Arena[T]) lookup(i Index) *slot[T] {
	if int64(i.slot) >= int64(len(a.slots)) {
		return nil
	}
	s := &a.slots[i.slot]
	if !s.occupied || s.generation != i.generation {
		return nil
	}
	return s
}

// Contains reports whether i is valid against the arena: in bounds, occupied,
// and of the current generation.
func (a *Arena[T]) Contains(i Index) bool {
	return a.lookup(i) != nil
}

// Get returns a pointer to the element identified by i, or (nil, false) if
// the index is invalid. The pointer stays valid until the element is removed
// or the backing storage grows; callers that hold it across mutations should
// re-resolve the index instead.
func (a *Arena[T]) Get(i Index) (*T, bool) {
	s := a.lookup(i)
	if s == nil {
		return nil, false
	}
	return &s.value, true
}

// Get2 resolves two indices at once, for callers that need simultaneous
// access to two elements. If both indices name the same physical slot it
// fails with ErrAliasedIndices, whatever the generations say; two views into
// one element are never handed out. Otherwise each side resolves
// independently and an invalid side is simply nil.
func (a *Arena[T]) Get2(i, j Index) (*T, *T, error) {
	if i.slot == j.slot {
		return nil, nil, ErrAliasedIndices
	}
	pi, _ := a.Get(i)
	pj, _ := a.Get(j)
	return pi, pj, nil
}

// AtSlot returns the element at a physical slot position together with its
// current generation-bearing index. It allows integrating with external
// position tracking that does not carry generations. ok is false when the
// position is out of range or the slot is vacant.
func (a *Arena[T]) AtSlot(position uint32) (Index, *T, bool) {
	if int64(position) >= int64(len(a.slots)) {
		return Index{}, nil, false
	}
	s := &a.slots[position]
	if !s.occupied {
		return Index{}, nil, false
	}
	return Index{slot: position, generation: s.generation}, &s.value, true
}

// vacate flips an occupied slot to vacant and advances its generation. When
// the counter saturates the slot is retired instead of joining the free list.
// The slot's value is zeroed so the arena does not pin the old element.
func (a *Arena[T]) vacate(position int) {
	s := &a.slots[position]
	var zero T
	s.value = zero
	s.occupied = false
	if s.generation == maxGeneration {
		s.next = slotRetired
		a.retired++
	} else {
		s.generation++
		s.next = a.freeHead
		a.freeHead = position
	}
	a.occupied--
}

// Remove extracts the element identified by i and frees its slot for reuse
// under a new generation. Removing with a stale or never-issued index is a
// no-op returning (zero, false), so Remove is idempotent.
func (a *Arena[T]) Remove(i Index) (T, bool) {
	s := a.lookup(i)
	if s == nil {
		var zero T
		return zero, false
	}
	value := s.value
	a.vacate(int(i.slot))
	return value, true
}

// Retain removes every element for which keep returns false. The walk visits
// every occupied slot exactly once in ascending position order, driven by
// physical positions rather than the free list, so removals during the walk
// cannot cause later slots to be skipped.
func (a *Arena[T]) Retain(keep func(i Index, value *T) bool) {
	for pos := range a.slots {
		s := &a.slots[pos]
		if !s.occupied {
			continue
		}
		if !keep(Index{slot: uint32(pos), generation: s.generation}, &s.value) {
			a.vacate(pos)
		}
	}
}

// Clear removes every element. All previously issued indices become invalid,
// exactly as if each element had been removed individually. Slot capacity is
// retained and the freed slots are reused in ascending position order.
func (a *Arena[T]) Clear() {
	var zero T
	a.freeHead = freeListEnd
	// Reverse walk threads the rebuilt free list in ascending position order.
	for pos := len(a.slots) - 1; pos >= 0; pos-- {
		s := &a.slots[pos]
		if s.occupied {
			s.value = zero
			s.occupied = false
			if s.generation == maxGeneration {
				s.next = slotRetired
				a.retired++
				continue
			}
			s.generation++
		} else if s.next == slotRetired {
			continue
		}
		s.next = a.freeHead
		a.freeHead = pos
	}
	a.occupied = 0
}

// Stats describes the arena's slot accounting.
type Stats struct {
	Occupied int // slots currently holding an element
	Capacity int // total slots, occupied or not
	Free     int // vacant slots available for reuse
	Retired  int // slots permanently taken out of reuse by generation saturation
}

// Stats returns current slot accounting. It reads counters only and does not
// walk the storage.
func (a *Arena[T]) Stats() Stats {
	return Stats{
		Occupied: a.occupied,
		Capacity: len(a.slots),
		Free:     len(a.slots) - a.occupied - a.retired,
		Retired:  a.retired,
	}
}
