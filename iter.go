package genarena

import "iter"

// Iter returns a sequence of (index, element) pairs over the occupied slots
// in ascending slot-position order.
//
// Each call to Iter starts a fresh traversal; a single returned sequence is
// consumed as it is ranged over. The arena must not be mutated while a
// traversal is in progress, except through the yielded values themselves.
func (a *Arena[T]) Iter() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for pos := range a.slots {
			s := &a.slots[pos]
			if !s.occupied {
				continue
			}
			if !yield(Index{slot: uint32(pos), generation: s.generation}, s.value) {
				return
			}
		}
	}
}

// Backward is Iter in descending slot-position order.
func (a *Arena[T]) Backward() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for pos := len(a.slots) - 1; pos >= 0; pos-- {
			s := &a.slots[pos]
			if !s.occupied {
				continue
			}
			if !yield(Index{slot: uint32(pos), generation: s.generation}, s.value) {
				return
			}
		}
	}
}

// IterMut is Iter yielding pointers, so elements can be updated in place
// during the walk. The pointers are valid for the duration of their yield.
func (a *Arena[T]) IterMut() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		for pos := range a.slots {
			s := &a.slots[pos]
			if !s.occupied {
				continue
			}
			if !yield(Index{slot: uint32(pos), generation: s.generation}, &s.value) {
				return
			}
		}
	}
}

// BackwardMut is IterMut in descending slot-position order.
func (a *Arena[T]) BackwardMut() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		for pos := len(a.slots) - 1; pos >= 0; pos-- {
			s := &a.slots[pos]
			if !s.occupied {
				continue
			}
			if !yield(Index{slot: uint32(pos), generation: s.generation}, &s.value) {
				return
			}
		}
	}
}

// Drain returns a sequence that removes each element from the arena as it is
// yielded, in ascending slot-position order. An element is already removed,
// generation advanced, by the time the loop body sees it. Breaking out early
// leaves the arena holding exactly the not-yet-yielded elements, each still
// valid under its original index.
func (a *Arena[T]) Drain() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for pos := range a.slots {
			s := &a.slots[pos]
			if !s.occupied {
				continue
			}
			idx := Index{slot: uint32(pos), generation: s.generation}
			value := s.value
			a.vacate(pos)
			if !yield(idx, value) {
				return
			}
		}
	}
}
