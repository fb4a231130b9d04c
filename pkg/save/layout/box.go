// Package layout knows where CFRU keeps its data inside the save blocks:
// the scattered box storage, box titles, Pokédex flags, trainer identity,
// story flags and vars.
package layout

import (
	"fmt"

	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// Box geometry
const (
	RecordSize   = 58
	BoxSlots     = 30
	BoxSize      = BoxSlots * RecordSize
	VanillaBoxes = 19
	MaxBoxCount  = 25
)

// segment is a byte range [Start, End) of one block
type segment struct {
	Block uint16
	Start int
	End   int
}

func (s segment) len() int { return s.End - s.Start }

// region is a run of boxes stored across consecutive block segments
type region struct {
	Name     string
	MinBoxes int // region is present when the game has at least this many boxes
	Boxes    int
	Segments []segment
}

var boxRegions = []region{
	{
		Name: "vanilla", MinBoxes: 0, Boxes: VanillaBoxes,
		Segments: []segment{
			{5, 0x4, blocks.BlockDataSize},
			{6, 0, blocks.BlockDataSize},
			{7, 0, blocks.BlockDataSize},
			{8, 0, blocks.BlockDataSize},
			{9, 0, blocks.BlockDataSize},
			{10, 0, blocks.BlockDataSize},
			{11, 0, blocks.BlockDataSize},
			{12, 0, blocks.BlockDataSize},
			{13, 0, blocks.BlockDataSize},
		},
	},
	{
		Name: "expansion_a", MinBoxes: 20, Boxes: 3,
		Segments: []segment{
			{30, 0xB0C, blocks.BlockDataSize},
			{31, 0, 0xF80},
		},
	},
	{
		Name: "expansion_b", MinBoxes: 23, Boxes: 2,
		Segments: []segment{
			{2, 0xF18, blocks.BlockDataSize},
			{3, 0, 0xCC0},
		},
	},
	{
		Name: "expansion_c", MinBoxes: 25, Boxes: 1,
		Segments: []segment{
			{0, 0xB0, 0xB0 + BoxSize},
		},
	},
}

// truncated returns the region's segments clipped to exactly its box bytes
func (r region) truncated() []segment {
	remaining := r.Boxes * BoxSize
	out := make([]segment, 0, len(r.Segments))
	for _, s := range r.Segments {
		if remaining == 0 {
			break
		}
		if s.len() > remaining {
			s.End = s.Start + remaining
		}
		remaining -= s.len()
		out = append(out, s)
	}
	return out
}

func activeSegments(boxCount int) []segment {
	var segs []segment
	for _, r := range boxRegions {
		if boxCount >= r.MinBoxes {
			segs = append(segs, r.truncated()...)
		}
	}
	return segs
}

// StoredBoxes returns how many boxes the assembled storage holds for a game
// with boxCount boxes.
func StoredBoxes(boxCount int) int {
	n := 0
	for _, r := range boxRegions {
		if boxCount >= r.MinBoxes {
			n += r.Boxes
		}
	}
	return n
}

func blockRange(b blocks.Blocks, s segment) ([]byte, error) {
	data, ok := b[s.Block]
	if !ok || len(data) < s.End {
		return nil, fmt.Errorf("%w: block %d needs %d bytes", saveerrors.ErrMissingBlock, s.Block, s.End)
	}
	return data[s.Start:s.End], nil
}

// AssembleBoxBytes concatenates the box storage of a game with boxCount
// boxes into one contiguous buffer of StoredBoxes(boxCount)*BoxSize bytes.
func AssembleBoxBytes(b blocks.Blocks, boxCount int) ([]byte, error) {
	out := make([]byte, 0, StoredBoxes(boxCount)*BoxSize)
	for _, s := range activeSegments(boxCount) {
		data, err := blockRange(b, s)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// ScatterBoxBytes writes a buffer produced by AssembleBoxBytes back into the
// blocks it came from. Bytes outside box storage are left untouched.
func ScatterBoxBytes(b blocks.Blocks, boxCount int, data []byte) error {
	if want := StoredBoxes(boxCount) * BoxSize; len(data) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", saveerrors.ErrBoxDataSize, len(data), want)
	}

	pos := 0
	for _, s := range activeSegments(boxCount) {
		dst, err := blockRange(b, s)
		if err != nil {
			return err
		}
		pos += copy(dst, data[pos:])
	}
	return nil
}
