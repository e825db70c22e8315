// Package wire implements the typed binary wire codec: append-only
// and cursor-advancing byte buffers, plus encode/decode helpers for
// the fixed set of shapes the RPC framework needs (fundamental
// values, booleans, enumerations, fixed arrays, variable sequences,
// strings, 16-byte identifiers and user-defined records).
//
// There is no self-describing framing: both sides must agree on the
// schema of each command in lock-step, exactly the way the read/write
// calls are paired up in the code that uses this package.
package wire

import (
	"encoding/binary"
	"math"

	"devicerpc/pkg/errcode"
)

// byteOrder is the fixed wire byte order for every fundamental value.
// The framework does not attempt to negotiate or detect host
// endianness; little-endian was chosen once, for every platform.
var byteOrder = binary.LittleEndian

// Encodable is satisfied by any user-defined record that can write
// itself into an OutputBuffer. Composition (records of records,
// sequences of records, records containing tuples of records) falls
// out of ordinary Go composition: a struct's Encode method just calls
// Encode on its fields in order.
type Encodable interface {
	Encode(*OutputBuffer) error
}

// Decodable is the read-side counterpart of Encodable.
type Decodable interface {
	Decode(*InputBuffer) error
}

/*************************************************************************
 * Fundamental fixed-width numeric values
 *************************************************************************/

func WriteInt8(b *OutputBuffer, v int8) error  { return b.Write([]byte{byte(v)}) }
func WriteUint8(b *OutputBuffer, v uint8) error { return b.Write([]byte{v}) }

func ReadInt8(b *InputBuffer) (int8, error) {
	d, err := b.Read(1)
	if err != nil {
		return 0, err
	}
	return int8(d[0]), nil
}

func ReadUint8(b *InputBuffer) (uint8, error) {
	d, err := b.Read(1)
	if err != nil {
		return 0, err
	}
	return d[0], nil
}

func WriteInt16(b *OutputBuffer, v int16) error {
	var buf [2]byte
	byteOrder.PutUint16(buf[:], uint16(v))
	return b.Write(buf[:])
}

func WriteUint16(b *OutputBuffer, v uint16) error {
	var buf [2]byte
	byteOrder.PutUint16(buf[:], v)
	return b.Write(buf[:])
}

func ReadInt16(b *InputBuffer) (int16, error) {
	d, err := b.Read(2)
	if err != nil {
		return 0, err
	}
	return int16(byteOrder.Uint16(d)), nil
}

func ReadUint16(b *InputBuffer) (uint16, error) {
	d, err := b.Read(2)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint16(d), nil
}

func WriteInt32(b *OutputBuffer, v int32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], uint32(v))
	return b.Write(buf[:])
}

func WriteUint32(b *OutputBuffer, v uint32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], v)
	return b.Write(buf[:])
}

func ReadInt32(b *InputBuffer) (int32, error) {
	d, err := b.Read(4)
	if err != nil {
		return 0, err
	}
	return int32(byteOrder.Uint32(d)), nil
}

func ReadUint32(b *InputBuffer) (uint32, error) {
	d, err := b.Read(4)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint32(d), nil
}

func WriteInt64(b *OutputBuffer, v int64) error {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], uint64(v))
	return b.Write(buf[:])
}

func WriteUint64(b *OutputBuffer, v uint64) error {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], v)
	return b.Write(buf[:])
}

func ReadInt64(b *InputBuffer) (int64, error) {
	d, err := b.Read(8)
	if err != nil {
		return 0, err
	}
	return int64(byteOrder.Uint64(d)), nil
}

func ReadUint64(b *InputBuffer) (uint64, error) {
	d, err := b.Read(8)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint64(d), nil
}

func WriteFloat32(b *OutputBuffer, v float32) error {
	return WriteUint32(b, math.Float32bits(v))
}

func ReadFloat32(b *InputBuffer) (float32, error) {
	u, err := ReadUint32(b)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func WriteFloat64(b *OutputBuffer, v float64) error {
	return WriteUint64(b, math.Float64bits(v))
}

func ReadFloat64(b *InputBuffer) (float64, error) {
	u, err := ReadUint64(b)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

/*************************************************************************
 * Boolean: written as a 32-bit integer containing 1 or 0
 *************************************************************************/

func WriteBool(b *OutputBuffer, v bool) error {
	var i int32
	if v {
		i = 1
	}
	return WriteInt32(b, i)
}

func ReadBool(b *InputBuffer) (bool, error) {
	i, err := ReadInt32(b)
	if err != nil {
		return false, err
	}
	return i != 0, nil
}

/*************************************************************************
 * Enumerations: written as a 32-bit signed integer
 *************************************************************************/

// WriteEnum writes v, a named integer type, as a 32-bit signed value.
func WriteEnum[T ~int32](b *OutputBuffer, v T) error {
	return WriteInt32(b, int32(v))
}

// ReadEnum reads a 32-bit signed value into a named integer type.
func ReadEnum[T ~int32](b *InputBuffer) (T, error) {
	i, err := ReadInt32(b)
	return T(i), err
}

/*************************************************************************
 * Strings and byte slices
 *************************************************************************/

// WriteString writes a length-prefixed UTF-8 string.
func WriteString(b *OutputBuffer, s string) error {
	if err := WriteInt32(b, int32(len(s))); err != nil {
		return err
	}
	return b.Write([]byte(s))
}

// ReadString reads a length-prefixed UTF-8 string.
func ReadString(b *InputBuffer) (string, error) {
	n, err := ReadInt32(b)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	d, err := b.Read(int(n))
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// WriteBytes writes a length-prefixed byte sequence.
func WriteBytes(b *OutputBuffer, p []byte) error {
	if err := WriteInt32(b, int32(len(p))); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	return b.Write(p)
}

// ReadBytes reads a length-prefixed byte sequence. The returned slice
// aliases the input buffer's backing array; it is not copied.
func ReadBytes(b *InputBuffer) ([]byte, error) {
	n, err := ReadInt32(b)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return b.Read(int(n))
}

/*************************************************************************
 * Fixed arrays: [T;N] — length prefix, then N*sizeof(T) raw bytes
 *************************************************************************/

// WriteArray writes a fixed-size array: a 32-bit length prefix (always
// len(values)) followed by each element encoded with write.
func WriteArray[T any](b *OutputBuffer, values []T, write func(*OutputBuffer, T) error) error {
	if err := WriteInt32(b, int32(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := write(b, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadArray reads a fixed-size array of exactly n elements. A length
// prefix that disagrees with n fails with errcode.BadMessage.
func ReadArray[T any](b *InputBuffer, n int, read func(*InputBuffer) (T, error)) ([]T, error) {
	length, err := ReadInt32(b)
	if err != nil {
		return nil, err
	}
	if int(length) != n {
		return nil, errcode.New(errcode.BadMessage, "fixed array length mismatch")
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		v, err := read(b)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

/*************************************************************************
 * Variable sequences: vector/list — length prefix then elements
 *************************************************************************/

// WriteSlice writes a length-prefixed variable sequence.
func WriteSlice[T any](b *OutputBuffer, values []T, write func(*OutputBuffer, T) error) error {
	if err := WriteInt32(b, int32(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := write(b, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadSlice reads a length-prefixed variable sequence of any length.
func ReadSlice[T any](b *InputBuffer, read func(*InputBuffer) (T, error)) ([]T, error) {
	n, err := ReadInt32(b)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]T, 0, n)
	for i := int32(0); i < n; i++ {
		v, err := read(b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

/*************************************************************************
 * Records: any Encodable/Decodable composes transparently
 *************************************************************************/

// WriteRecord writes v by calling its own Encode method — the
// recursive-composition entry point for records of records, slices of
// records, and so on.
func WriteRecord(b *OutputBuffer, v Encodable) error {
	return v.Encode(b)
}

// ReadRecord reads into v by calling its own Decode method.
func ReadRecord(b *InputBuffer, v Decodable) error {
	return v.Decode(b)
}
