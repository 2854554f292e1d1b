package genarena

import "fmt"

// Index is a handle to an element stored in an Arena.
//
// An Index pairs a physical slot position with the generation the element was
// inserted under. It is a plain value: copying it, storing it in other data
// structures, or using it as a map key are all fine. Holding an Index grants
// no ownership; the arena it came from decides whether it is still valid.
//
// Two indices are equal iff both their slot position and generation are equal,
// so == and map lookups behave as expected.
type Index struct {
	slot       uint32
	generation uint32
}

// FromRawParts reassembles an Index from its raw numeric parts, typically
// after the parts travelled through an external serialized format or a
// foreign handle scheme.
//
// No validation happens here. The result may be stale or refer to a slot that
// never existed; that is only detected when the Index is next used against an
// arena.
func FromRawParts(slot, generation uint32) Index {
	return Index{slot: slot, generation: generation}
}

// RawParts returns the slot position and generation as plain numbers, for
// embedding the handle in external formats.
func (i Index) RawParts() (slot, generation uint32) {
	return i.slot, i.generation
}

// Slot returns the physical slot position the index refers to.
func (i Index) Slot() uint32 { return i.slot }

// Generation returns the generation the index was issued under.
func (i Index) Generation() uint32 { return i.generation }

func (i Index) String() string {
	return fmt.Sprintf("Index(%d, gen %d)", i.slot, i.generation)
}
