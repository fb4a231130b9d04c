package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// Flag and var id ranges
const (
	VanillaFlagsEnd   uint16 = 0x900
	CFRUFlagsStart    uint16 = 0x900
	CFRUFlagsEnd      uint16 = 0x1900
	VanillaVarsStart  uint16 = 0x4000
	VanillaVarsEnd    uint16 = 0x4100
	CFRUVarsStart     uint16 = 0x5000
	CFRUVarsEnd       uint16 = 0x5200
	VanillaFlagsStart        = 0xEE0
	VanillaFlagsSize         = 0x120
	VanillaVarsSize          = 0x200
	CFRUVarsSize             = 0x400
)

// vanillaFlagsSpill is how many flag bytes continue into block 2
const vanillaFlagsSpill = VanillaFlagsSize - (blocks.BlockDataSize - VanillaFlagsStart)

// CFRU storage windows in the unchecksummed tails of blocks 0, 4 and 13
const (
	CFRUFlagsASize      = 0xCC
	CFRUFlagsBSize      = 0x134
	CFRUFlagsAEndOffset = 0xFF0
	CFRUFlagsBEndOffset = 0xECC
	CFRUVarsASize       = blocks.BlockDataSize - CFRUFlagsBEndOffset
)

// A window is a byte array spread over consecutive block segments
type window []segment

var (
	vanillaFlagWindow = window{
		{1, VanillaFlagsStart, blocks.BlockDataSize},
		{2, 0, vanillaFlagsSpill},
	}
	vanillaVarWindow = window{
		{2, vanillaFlagsSpill, vanillaFlagsSpill + VanillaVarsSize},
	}
	cfruFlagWindow = window{
		{0, CFRUFlagsAEndOffset - CFRUFlagsASize, CFRUFlagsAEndOffset},
		{4, CFRUFlagsBEndOffset - CFRUFlagsBSize, CFRUFlagsBEndOffset},
	}
	cfruVarWindow = window{
		{4, CFRUFlagsBEndOffset, blocks.BlockDataSize},
		{13, blocks.Block13ChecksumSize, blocks.Block13ChecksumSize + CFRUVarsSize - CFRUVarsASize},
	}
)

// locate maps a byte index of the window to a block and payload offset
func (w window) locate(index int) (uint16, int, bool) {
	for _, s := range w {
		if index < s.len() {
			return s.Block, s.Start + index, true
		}
		index -= s.len()
	}
	return 0, 0, false
}

func (w window) byteRef(b blocks.Blocks, index int) (*byte, error) {
	block, off, ok := w.locate(index)
	if !ok {
		return nil, fmt.Errorf("window index %d out of range", index)
	}
	data := b[block]
	if len(data) <= off {
		return nil, fmt.Errorf("%w: block %d", saveerrors.ErrMissingBlock, block)
	}
	return &data[off], nil
}

func flagLocation(id uint16) (window, int, error) {
	switch {
	case id < VanillaFlagsEnd:
		return vanillaFlagWindow, int(id), nil
	case id >= CFRUFlagsStart && id < CFRUFlagsEnd:
		return cfruFlagWindow, int(id - CFRUFlagsStart), nil
	default:
		return nil, 0, fmt.Errorf("%w: 0x%X", saveerrors.ErrFlagOutOfRange, id)
	}
}

func varLocation(id uint16) (window, int, error) {
	switch {
	case id >= VanillaVarsStart && id < VanillaVarsEnd:
		return vanillaVarWindow, int(id-VanillaVarsStart) * 2, nil
	case id >= CFRUVarsStart && id < CFRUVarsEnd:
		return cfruVarWindow, int(id-CFRUVarsStart) * 2, nil
	default:
		return nil, 0, fmt.Errorf("%w: 0x%X", saveerrors.ErrVarOutOfRange, id)
	}
}

// FlagGet reads story flag id
func FlagGet(id uint16, b blocks.Blocks) (bool, error) {
	w, bit, err := flagLocation(id)
	if err != nil {
		return false, err
	}
	ref, err := w.byteRef(b, bit/8)
	if err != nil {
		return false, err
	}
	return *ref&(1<<(bit%8)) != 0, nil
}

// FlagSet sets or clears story flag id
func FlagSet(id uint16, value bool, b blocks.Blocks) error {
	w, bit, err := flagLocation(id)
	if err != nil {
		return err
	}
	ref, err := w.byteRef(b, bit/8)
	if err != nil {
		return err
	}
	if value {
		*ref |= 1 << (bit % 8)
	} else {
		*ref &^= 1 << (bit % 8)
	}
	return nil
}

// VarGet reads the 16-bit var id
func VarGet(id uint16, b blocks.Blocks) (uint16, error) {
	w, off, err := varLocation(id)
	if err != nil {
		return 0, err
	}
	var buf [2]byte
	for i := range buf {
		ref, err := w.byteRef(b, off+i)
		if err != nil {
			return 0, err
		}
		buf[i] = *ref
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// VarSet writes the 16-bit var id
func VarSet(id uint16, value uint16, b blocks.Blocks) error {
	w, off, err := varLocation(id)
	if err != nil {
		return err
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	for i := range buf {
		ref, err := w.byteRef(b, off+i)
		if err != nil {
			return err
		}
		*ref = buf[i]
	}
	return nil
}
