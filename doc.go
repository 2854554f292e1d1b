// Package genarena provides a generational arena: a growable store of values
// of a single type addressed by stable, comparison-safe indices.
//
// Slots freed by Remove are recycled for later insertions, but every recycle
// advances the slot's generation. An Index carries the generation it was
// issued under, so a stale handle into a recycled slot is detected instead of
// silently resolving to the new occupant (the classic use-after-free/ABA
// hazard of plain offsets into a pool).
//
// # Quick Start
//
//	arena := genarena.New[string]()
//
//	a := arena.Insert("alice")
//	b := arena.Insert("bob")
//
//	if v, ok := arena.Get(a); ok {
//	    fmt.Println(*v) // alice
//	}
//
//	arena.Remove(a)
//	_ = arena.Insert("carol") // may reuse alice's slot
//
//	arena.Contains(a) // false: the old handle stays dead
//	arena.Contains(b) // true
//
// # Insert Families
//
// Two insert families are offered so callers choose how capacity exhaustion
// (more than 1<<32 - 1 slots) surfaces:
//
//	// Checked: exhaustion is a recoverable error.
//	idx, err := arena.TryInsert(v)
//
//	// Unchecked: exhaustion panics. Fine when the bound is unreachable.
//	idx := arena.Insert(v)
//
// InsertWith and TryInsertWith compute the value after its index is known,
// so an element can embed its own handle.
//
// # Iteration
//
// Iter, Backward, IterMut and Drain expose the occupied slots as iter.Seq2
// sequences in slot-position order:
//
//	for idx, v := range arena.Iter() {
//	    fmt.Println(idx, v)
//	}
//
// # Snapshots
//
// An arena round-trips through JSON (vacant slots encode as null, occupied
// slots as [generation, value] pairs) and through a compact binary snapshot
// with optional LZ4/ZSTD compression:
//
//	var buf bytes.Buffer
//	err := arena.WriteSnapshot(&buf, genarena.WithCompression(genarena.CompressionZSTD))
//	restored, err := genarena.ReadSnapshot[string](&buf)
//
// # Concurrency Model
//
// An Arena has no internal locking. A single goroutine owns and mutates it;
// read-only calls may run concurrently with each other but never with a
// mutation. Wrap the arena in external synchronization if it must be shared.
package genarena
