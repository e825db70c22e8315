package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	uuid "github.com/satori/go.uuid"

	"devicerpc/pkg/errcode"
)

// Identifier is a 128-bit opaque session identifier. Its canonical
// string form is "{HHHHHHHH-HHHH-HHHH-HHHH-HHHHHHHHHHHH}" with the
// first three groups printed in little-endian byte order and the last
// two in big-endian — not the standard UUID canonical string.
type Identifier [16]byte

// Empty is the distinguished all-zero identifier.
var Empty Identifier

// Generate returns a new random identifier with the version-4 nibble
// and RFC-4122 variant bits forced, regardless of what the underlying
// random source already set.
func Generate() Identifier {
	u := uuid.NewV4()
	var id Identifier
	copy(id[:], u.Bytes())
	id[7] = (id[7] & 0x0F) | 0x40
	id[8] = (id[8] & 0x3F) | 0x80
	return id
}

// IsEmpty reports whether id is the all-zero value.
func (id Identifier) IsEmpty() bool {
	return id == Empty
}

// Compare returns -1, 0 or 1 comparing the raw bytes of id and other
// lexicographically.
func (id Identifier) Compare(other Identifier) int {
	return bytes.Compare(id[:], other[:])
}

// String renders id as "{HHHHHHHH-HHHH-HHHH-HHHH-HHHHHHHHHHHH}".
func (id Identifier) String() string {
	g1 := binary.LittleEndian.Uint32(id[0:4])
	g2 := binary.LittleEndian.Uint16(id[4:6])
	g3 := binary.LittleEndian.Uint16(id[6:8])
	g4 := id[8:10]
	g5 := id[10:16]
	return fmt.Sprintf("{%08X-%04X-%04X-%s-%s}",
		g1, g2, g3,
		strings.ToUpper(hex.EncodeToString(g4)),
		strings.ToUpper(hex.EncodeToString(g5)))
}

// Parse parses the string form produced by String, optionally
// bracketed with "{...}". Any malformed character or wrong group
// width fails with errcode.InvalidArgument.
func Parse(s string) (Identifier, error) {
	var id Identifier

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	groups := strings.Split(s, "-")
	if len(groups) != 5 {
		return id, errcode.New(errcode.InvalidArgument, "identifier must have 5 hyphen-separated groups")
	}

	widths := [5]int{8, 4, 4, 4, 12}
	var raw [5][]byte
	for i, g := range groups {
		if len(g) != widths[i] {
			return id, errcode.New(errcode.InvalidArgument, "identifier group has wrong width")
		}
		b, err := hex.DecodeString(g)
		if err != nil {
			return id, errcode.New(errcode.InvalidArgument, "identifier group is not valid hex")
		}
		raw[i] = b
	}

	binary.LittleEndian.PutUint32(id[0:4], beUint32(raw[0]))
	binary.LittleEndian.PutUint16(id[4:6], beUint16(raw[1]))
	binary.LittleEndian.PutUint16(id[6:8], beUint16(raw[2]))
	copy(id[8:10], raw[3])
	copy(id[10:16], raw[4])

	return id, nil
}

func beUint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func beUint16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// Encode satisfies Encodable: the raw 16 bytes, no length prefix.
func (id Identifier) Encode(b *OutputBuffer) error {
	return b.Write(id[:])
}

// Decode satisfies Decodable, reading the raw 16 bytes without copy.
func (id *Identifier) Decode(b *InputBuffer) error {
	data, err := b.Read(16)
	if err != nil {
		return err
	}
	copy(id[:], data)
	return nil
}
