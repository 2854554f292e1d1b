package genarena

import (
	"bytes"
	"encoding/json"
)

// The JSON form mirrors the snapshot contract: an arena is an array with one
// entry per slot, where a vacant slot is null and an occupied slot is the
// pair [generation, value]. An Index is the pair [slot, generation].
//
// Do not change either form; persisted data depends on it.

var (
	_ json.Marshaler   = (*Arena[int])(nil)
	_ json.Unmarshaler = (*Arena[int])(nil)
	_ json.Marshaler   = Index{}
	_ json.Unmarshaler = (*Index)(nil)
)

var jsonNull = []byte("null")

// MarshalJSON encodes the index as [slot, generation].
func (i Index) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{i.slot, i.generation})
}

// UnmarshalJSON decodes an index from [slot, generation]. No validation
// beyond the shape; staleness is only detectable against an arena.
func (i *Index) UnmarshalJSON(data []byte) error {
	var parts [2]uint32
	if err := json.Unmarshal(data, &parts); err != nil {
		return decodeErrorf(err, "index is not a [slot, generation] pair")
	}
	i.slot = parts[0]
	i.generation = parts[1]
	return nil
}

// MarshalJSON encodes every slot in position order: null for vacant slots,
// [generation, value] for occupied ones.
func (a *Arena[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for pos := range a.slots {
		if pos > 0 {
			buf.WriteByte(',')
		}
		s := &a.slots[pos]
		if !s.occupied {
			buf.Write(jsonNull)
			continue
		}
		entry, err := json.Marshal([2]any{s.generation, s.value})
		if err != nil {
			return nil, err
		}
		buf.Write(entry)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON rebuilds an arena from its serialized slot sequence. Occupied
// positions keep their recorded generation; vacant positions restart at a
// baseline generation, since only occupied content and topology are required
// to round-trip. On error the receiver is left unchanged.
func (a *Arena[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return decodeErrorf(err, "arena is not a slot array")
	}

	rebuilt := Arena[T]{
		slots:    make([]slot[T], len(raw)),
		freeHead: freeListEnd,
	}
	for pos, entry := range raw {
		if len(entry) == 0 || bytes.Equal(entry, jsonNull) {
			continue
		}
		var pair [2]json.RawMessage
		if err := json.Unmarshal(entry, &pair); err != nil {
			return decodeErrorf(err, "slot %d is neither null nor a [generation, value] pair", pos)
		}
		s := &rebuilt.slots[pos]
		if err := json.Unmarshal(pair[0], &s.generation); err != nil {
			return decodeErrorf(err, "slot %d has a malformed generation", pos)
		}
		if err := json.Unmarshal(pair[1], &s.value); err != nil {
			return decodeErrorf(err, "slot %d has a malformed value", pos)
		}
		s.occupied = true
		rebuilt.occupied++
	}
	rebuilt.relinkFreeList()

	*a = rebuilt
	return nil
}

// relinkFreeList threads every vacant slot onto the free list. The reverse
// walk makes vacant positions reusable in ascending order.
func (a *Arena[T]) relinkFreeList() {
	a.freeHead = freeListEnd
	for pos := len(a.slots) - 1; pos >= 0; pos-- {
		s := &a.slots[pos]
		if s.occupied {
			continue
		}
		s.next = a.freeHead
		a.freeHead = pos
	}
}
