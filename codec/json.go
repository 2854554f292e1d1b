package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Notes:
// - Works for typical structs/maps/slices used as arena elements.
// - Funcs, channels and complex numbers are not supported.
// - If you need custom encoding (e.g. protobuf/msgpack), implement Codec and
//   pass it when writing the snapshot.
//
// Performance note:
//   - JSON is the most portable/lowest-dependency option.
//   - The library default may change over time; snapshot files always record
//     the codec name so the right one is selected on load.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used for snapshot payloads.
//
// NOTE: This affects newly written snapshots only. Existing snapshot files are
// self-describing (they store the codec name in their header) and are read by
// selecting the appropriate codec by name.
var Default Codec = GoJSON{}
