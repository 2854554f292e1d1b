package genarena

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/fitzgen/generational-arena/codec"
)

// Snapshot layout:
//
//	[magic:4][version:2][compression:1][codec name len:1][codec name:N]
//	then the body, compressed as a whole according to the compression byte:
//	[slot count:4][bitmap len:4][occupied-position bitmap:N]
//	per occupied position, ascending: [generation:4][payload len:4][payload:N]
//
// All integers are little-endian. The occupied-position topology is a
// serialized Roaring bitmap. Vacant-slot generations are not recorded; a
// reconstructed vacant slot restarts at the baseline generation.
var (
	snapshotMagic   = [4]byte{'G', 'A', 'R', '1'}
	snapshotVersion = uint16(1)
)

// CompressionType selects how the snapshot body is compressed.
type CompressionType uint8

const (
	// CompressionNone stores the body uncompressed.
	CompressionNone CompressionType = 0
	// CompressionLZ4 compresses the body with LZ4 (fast, modest ratio).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD compresses the body with ZSTD (better ratio).
	CompressionZSTD CompressionType = 2
)

// SnapshotOptions configures WriteSnapshot.
type SnapshotOptions struct {
	// Compression applied to the snapshot body. Defaults to none.
	Compression CompressionType
	// Codec used for element payloads. Defaults to codec.Default. The codec
	// name is recorded in the header so the reader can select it by name.
	Codec codec.Codec
}

// WithCompression sets the body compression.
func WithCompression(c CompressionType) func(*SnapshotOptions) {
	return func(o *SnapshotOptions) {
		o.Compression = c
	}
}

// WithCodec sets the element payload codec.
func WithCodec(c codec.Codec) func(*SnapshotOptions) {
	return func(o *SnapshotOptions) {
		o.Codec = c
	}
}

// WriteSnapshot writes a self-describing binary snapshot of the arena to w:
// the occupied/vacant topology plus every occupied element's generation and
// encoded value. ReadSnapshot reconstructs an equivalent arena from it.
func (a *Arena[T]) WriteSnapshot(w io.Writer, optFns ...func(o *SnapshotOptions)) error {
	opts := SnapshotOptions{
		Compression: CompressionNone,
		Codec:       codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	name := opts.Codec.Name()
	if len(name) == 0 || len(name) > 255 {
		return fmt.Errorf("genarena: invalid codec name %q", name)
	}

	header := make([]byte, 0, 8+len(name))
	header = append(header, snapshotMagic[:]...)
	header = binary.LittleEndian.AppendUint16(header, snapshotVersion)
	header = append(header, byte(opts.Compression), byte(len(name)))
	header = append(header, name...)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	body, closeBody, err := compressBody(w, opts.Compression)
	if err != nil {
		return err
	}

	if err := a.writeSnapshotBody(body, opts.Codec); err != nil {
		_ = closeBody()
		return err
	}
	return closeBody()
}

func (a *Arena[T]) writeSnapshotBody(w io.Writer, c codec.Codec) error {
	occupancy := roaring.New()
	for pos := range a.slots {
		if a.slots[pos].occupied {
			occupancy.Add(uint32(pos))
		}
	}
	topology, err := occupancy.ToBytes()
	if err != nil {
		return fmt.Errorf("failed to encode occupancy bitmap: %w", err)
	}

	var scratch [8]byte
	binary.LittleEndian.PutUint32(scratch[0:4], uint32(len(a.slots)))
	binary.LittleEndian.PutUint32(scratch[4:8], uint32(len(topology)))
	if _, err := w.Write(scratch[:]); err != nil {
		return fmt.Errorf("failed to write snapshot body: %w", err)
	}
	if _, err := w.Write(topology); err != nil {
		return fmt.Errorf("failed to write occupancy bitmap: %w", err)
	}

	for pos := range a.slots {
		s := &a.slots[pos]
		if !s.occupied {
			continue
		}
		payload, err := c.Marshal(s.value)
		if err != nil {
			return fmt.Errorf("failed to encode element at slot %d: %w", pos, err)
		}
		binary.LittleEndian.PutUint32(scratch[0:4], s.generation)
		binary.LittleEndian.PutUint32(scratch[4:8], uint32(len(payload)))
		if _, err := w.Write(scratch[:]); err != nil {
			return fmt.Errorf("failed to write element header: %w", err)
		}
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("failed to write element payload: %w", err)
		}
	}
	return nil
}

// ReadSnapshot reconstructs an arena from a snapshot produced by
// WriteSnapshot. The element type must match what was written; payloads that
// do not decode into T fail with a SnapshotFormatError.
//
// Occupied positions keep their recorded generations, so indices embedded in
// the elements themselves (via raw parts) keep resolving. Vacant positions
// restart at the baseline generation.
func ReadSnapshot[T any](r io.Reader) (*Arena[T], error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, decodeErrorf(err, "truncated header")
	}
	if [4]byte(header[0:4]) != snapshotMagic {
		return nil, decodeErrorf(nil, "invalid header magic")
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v != snapshotVersion {
		return nil, decodeErrorf(nil, "unsupported snapshot version %d", v)
	}
	compression := CompressionType(header[6])

	name := make([]byte, header[7])
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, decodeErrorf(err, "truncated codec name")
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, decodeErrorf(nil, "unknown codec %q", name)
	}

	body, closeBody, err := decompressBody(r, compression)
	if err != nil {
		return nil, err
	}
	defer closeBody()

	return readSnapshotBody[T](body, c)
}

func readSnapshotBody[T any](r io.Reader, c codec.Codec) (*Arena[T], error) {
	var scratch [8]byte
	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return nil, decodeErrorf(err, "truncated body")
	}
	slotCount := binary.LittleEndian.Uint32(scratch[0:4])
	topologyLen := binary.LittleEndian.Uint32(scratch[4:8])

	topology := make([]byte, topologyLen)
	if _, err := io.ReadFull(r, topology); err != nil {
		return nil, decodeErrorf(err, "truncated occupancy bitmap")
	}
	occupancy := roaring.New()
	if err := occupancy.UnmarshalBinary(topology); err != nil {
		return nil, decodeErrorf(err, "malformed occupancy bitmap")
	}
	if !occupancy.IsEmpty() && occupancy.Maximum() >= slotCount {
		return nil, decodeErrorf(nil, "occupied position %d out of range (%d slots)", occupancy.Maximum(), slotCount)
	}

	a := &Arena[T]{
		slots:    make([]slot[T], slotCount),
		freeHead: freeListEnd,
	}
	it := occupancy.Iterator()
	for it.HasNext() {
		pos := it.Next()
		if _, err := io.ReadFull(r, scratch[:]); err != nil {
			return nil, decodeErrorf(err, "truncated element at slot %d", pos)
		}
		payload := make([]byte, binary.LittleEndian.Uint32(scratch[4:8]))
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, decodeErrorf(err, "truncated payload at slot %d", pos)
		}
		s := &a.slots[pos]
		if err := c.Unmarshal(payload, &s.value); err != nil {
			return nil, decodeErrorf(err, "undecodable payload at slot %d", pos)
		}
		s.generation = binary.LittleEndian.Uint32(scratch[0:4])
		s.occupied = true
		a.occupied++
	}
	a.relinkFreeList()
	return a, nil
}

// compressBody wraps w according to the compression type. The returned close
// function flushes whatever the wrapper buffered; it must be called after the
// body is written.
func compressBody(w io.Writer, compression CompressionType) (io.Writer, func() error, error) {
	switch compression {
	case CompressionNone:
		return w, func() error { return nil }, nil
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		return lw, lw.Close, nil
	case CompressionZSTD:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, zw.Close, nil
	default:
		return nil, nil, fmt.Errorf("genarena: unsupported compression type: %d", compression)
	}
}

func decompressBody(r io.Reader, compression CompressionType) (io.Reader, func(), error) {
	switch compression {
	case CompressionNone:
		return r, func() {}, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	case CompressionZSTD:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, decodeErrorf(err, "malformed zstd body")
		}
		return zr, zr.Close, nil
	default:
		return nil, nil, decodeErrorf(nil, "unsupported compression type %d", compression)
	}
}
