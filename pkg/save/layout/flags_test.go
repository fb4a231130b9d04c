package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

func TestFlagLocations(t *testing.T) {
	testCases := []struct {
		name  string
		id    uint16
		block uint16
		off   int
		bit   uint
	}{
		{name: "first_vanilla", id: 0, block: 1, off: 0xEE0, bit: 0},
		{name: "last_in_block_1", id: 0x87F, block: 1, off: 0xFEF, bit: 7},
		{name: "spill_into_block_2", id: 0x880, block: 2, off: 0, bit: 0},
		{name: "game_clear", id: 0x82C, block: 1, off: 0xFE5, bit: 4},
		{name: "last_vanilla", id: 0x8FF, block: 2, off: 0xF, bit: 7},
		{name: "first_cfru", id: 0x900, block: 0, off: 0xF24, bit: 0},
		{name: "last_in_block_0", id: 0xF5F, block: 0, off: 0xFEF, bit: 7},
		{name: "first_in_block_4", id: 0xF60, block: 4, off: 0xD98, bit: 0},
		{name: "last_cfru", id: 0x18FF, block: 4, off: 0xECB, bit: 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := blankBlocks()
			b[tc.block][tc.off] = 1 << tc.bit

			set, err := FlagGet(tc.id, b)
			require.NoError(t, err)
			assert.True(t, set)

			require.NoError(t, FlagSet(tc.id, false, b))
			assert.Zero(t, b[tc.block][tc.off])

			require.NoError(t, FlagSet(tc.id, true, b))
			assert.Equal(t, byte(1<<tc.bit), b[tc.block][tc.off])
		})
	}
}

func TestVarLocations(t *testing.T) {
	testCases := []struct {
		name  string
		id    uint16
		block uint16
		off   int
	}{
		{name: "first_vanilla", id: 0x4000, block: 2, off: 0x10},
		{name: "last_vanilla", id: 0x40FF, block: 2, off: 0x20E},
		{name: "first_cfru", id: 0x5000, block: 4, off: 0xECC},
		{name: "last_in_block_4", id: 0x5091, block: 4, off: 0xFEE},
		{name: "first_in_block_13", id: 0x5092, block: 13, off: 0x450},
		{name: "difficulty", id: 0x50DF, block: 13, off: 0x4EA},
		{name: "last_cfru", id: 0x51FF, block: 13, off: 0x72A},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := blankBlocks()
			b[tc.block][tc.off] = 0x34
			b[tc.block][tc.off+1] = 0x12

			v, err := VarGet(tc.id, b)
			require.NoError(t, err)
			assert.Equal(t, uint16(0x1234), v)

			require.NoError(t, VarSet(tc.id, 0xBEEF, b))
			assert.Equal(t, []byte{0xEF, 0xBE}, b[tc.block][tc.off:tc.off+2])
		})
	}
}

func TestFlagAndVarRanges(t *testing.T) {
	b := blankBlocks()

	for _, id := range []uint16{0x1900, 0x4000, 0xFFFF} {
		_, err := FlagGet(id, b)
		assert.ErrorIs(t, err, saveerrors.ErrFlagOutOfRange, "flag 0x%X", id)
	}
	for _, id := range []uint16{0x0, 0x3FFF, 0x4100, 0x4FFF, 0x5200} {
		_, err := VarGet(id, b)
		assert.ErrorIs(t, err, saveerrors.ErrVarOutOfRange, "var 0x%X", id)
	}
}
