// Package record converts between the 58-byte compressed box record of CFRU
// games and the PokemonRecord exchanged with clients.
package record

import (
	"fmt"

	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// Size is the length of one compressed record
const Size = 58

const (
	NicknameLength = 10
	OtNameLength   = 7
)

// RawRecord is a compressed record split into its fields. Bit-packed
// fields and strings are kept exactly as stored.
type RawRecord struct {
	Personality uint32
	OtID        uint32
	Nickname    [NicknameLength]byte
	Language    uint8
	Sanity      uint8
	OtName      [OtNameLength]byte
	Markings    uint8
	Species     uint16
	Item        uint16
	Experience  uint32
	PPBonuses   uint8
	Friendship  uint8
	PokeBall    uint8
	Moves       uint64
	EVs         [6]uint8
	Pokerus     uint8
	MetLocation uint8
	MetInfo     uint16
	IVs         uint32
}

// field describes one stored field. ref returns a pointer to the matching
// RawRecord member, or a byte slice aliasing it for strings.
type field struct {
	name   string
	offset int
	width  int
	ref    func(r *RawRecord) any
}

var fields = []field{
	{"personality", 0, 4, func(r *RawRecord) any { return &r.Personality }},
	{"otId", 4, 4, func(r *RawRecord) any { return &r.OtID }},
	{"nickname", 8, NicknameLength, func(r *RawRecord) any { return r.Nickname[:] }},
	{"language", 18, 1, func(r *RawRecord) any { return &r.Language }},
	{"sanity", 19, 1, func(r *RawRecord) any { return &r.Sanity }},
	{"otName", 20, OtNameLength, func(r *RawRecord) any { return r.OtName[:] }},
	{"markings", 27, 1, func(r *RawRecord) any { return &r.Markings }},
	{"species", 28, 2, func(r *RawRecord) any { return &r.Species }},
	{"item", 30, 2, func(r *RawRecord) any { return &r.Item }},
	{"experience", 32, 4, func(r *RawRecord) any { return &r.Experience }},
	{"ppBonuses", 36, 1, func(r *RawRecord) any { return &r.PPBonuses }},
	{"friendship", 37, 1, func(r *RawRecord) any { return &r.Friendship }},
	{"pokeBall", 38, 1, func(r *RawRecord) any { return &r.PokeBall }},
	{"moves", 39, 5, func(r *RawRecord) any { return &r.Moves }},
	{"hpEv", 44, 1, func(r *RawRecord) any { return &r.EVs[0] }},
	{"atkEv", 45, 1, func(r *RawRecord) any { return &r.EVs[1] }},
	{"defEv", 46, 1, func(r *RawRecord) any { return &r.EVs[2] }},
	{"spdEv", 47, 1, func(r *RawRecord) any { return &r.EVs[3] }},
	{"spAtkEv", 48, 1, func(r *RawRecord) any { return &r.EVs[4] }},
	{"spDefEv", 49, 1, func(r *RawRecord) any { return &r.EVs[5] }},
	{"pokerus", 50, 1, func(r *RawRecord) any { return &r.Pokerus }},
	{"metLocation", 51, 1, func(r *RawRecord) any { return &r.MetLocation }},
	{"metInfo", 52, 2, func(r *RawRecord) any { return &r.MetInfo }},
	{"ivs", 54, 4, func(r *RawRecord) any { return &r.IVs }},
}

func readLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func writeLE(dst []byte, v uint64) {
	for i := range dst {
		dst[i] = byte(v)
		v >>= 8
	}
}

// Decode reads the record stored at offset of the assembled box bytes
func Decode(allBoxes []byte, offset int) (RawRecord, error) {
	var r RawRecord
	if offset < 0 || offset+Size > len(allBoxes) {
		return r, fmt.Errorf("%w: offset %d of %d bytes", saveerrors.ErrRecordOutOfBounds, offset, len(allBoxes))
	}
	window := allBoxes[offset : offset+Size]

	for _, f := range fields {
		data := window[f.offset : f.offset+f.width]
		switch dst := f.ref(&r).(type) {
		case *uint8:
			*dst = data[0]
		case *uint16:
			*dst = uint16(readLE(data))
		case *uint32:
			*dst = uint32(readLE(data))
		case *uint64:
			*dst = readLE(data)
		case []byte:
			copy(dst, data)
		}
	}
	return r, nil
}

// Bytes packs the record back into its 58-byte stored form
func (r RawRecord) Bytes() [Size]byte {
	var out [Size]byte
	for _, f := range fields {
		data := out[f.offset : f.offset+f.width]
		switch src := f.ref(&r).(type) {
		case *uint8:
			data[0] = *src
		case *uint16:
			writeLE(data, uint64(*src))
		case *uint32:
			writeLE(data, uint64(*src))
		case *uint64:
			writeLE(data, *src)
		case []byte:
			copy(data, src)
		}
	}
	return out
}
