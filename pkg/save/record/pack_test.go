package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

func TestPackedFields(t *testing.T) {
	t.Run("moves", func(t *testing.T) {
		moves := [MaxMoves]uint16{235, 188, 38, 1023}
		v := packMoves(moves)
		assert.Equal(t, moves, unpackMoves(v))
		assert.Less(t, v, uint64(1)<<40, "four moves fit in five bytes")
	})

	t.Run("ivs_with_flags", func(t *testing.T) {
		ivs := [6]uint8{31, 0, 17, 5, 30, 1}
		v := packIVs(ivs, true, false)
		got, egg, hidden := unpackIVs(v)
		assert.Equal(t, ivs, got)
		assert.True(t, egg)
		assert.False(t, hidden)
		assert.Equal(t, uint32(1)<<30, v&(3<<30))

		_, egg, hidden = unpackIVs(packIVs(ivs, false, true))
		assert.False(t, egg)
		assert.True(t, hidden)
	})

	t.Run("pp_bonuses", func(t *testing.T) {
		assert.Equal(t, [MaxMoves]uint8{3, 0, 1, 2}, unpackPPBonuses(0b10_01_00_11))
		assert.Equal(t, uint8(0b10_01_00_11), packPPBonuses([MaxMoves]uint8{3, 0, 1, 2}))
	})

	t.Run("markings", func(t *testing.T) {
		m := unpackMarkings(0x81)
		assert.True(t, m[0])
		assert.True(t, m[7])
		assert.False(t, m[3])
		assert.Equal(t, uint8(0x81), packMarkings(m))
	})

	t.Run("met_info", func(t *testing.T) {
		v := uint16(100) | 4<<7 | 0x800 | 0x8000
		m := unpackMetInfo(v)
		assert.Equal(t, metInfo{Level: 100, Game: 4, Gigantamax: true, OtFemale: true}, m)
		assert.Equal(t, v, m.pack())
		// gigantamax lives in bit 3 of the second met info byte
		assert.Equal(t, uint16(0x8), metInfo{Gigantamax: true}.pack()>>8)
	})
}

func TestDecodeFieldTable(t *testing.T) {
	window := make([]byte, Size)
	for i := range window {
		window[i] = byte(i + 1)
	}

	raw, err := Decode(window, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), raw.Personality)
	assert.Equal(t, uint32(0x08070605), raw.OtID)
	assert.Equal(t, byte(9), raw.Nickname[0])
	assert.Equal(t, uint8(19), raw.Language)
	assert.Equal(t, uint8(20), raw.Sanity)
	assert.Equal(t, byte(21), raw.OtName[0])
	assert.Equal(t, uint8(28), raw.Markings)
	assert.Equal(t, uint16(0x1E1D), raw.Species)
	assert.Equal(t, uint64(0x2C2B2A2928), raw.Moves)
	assert.Equal(t, [6]uint8{45, 46, 47, 48, 49, 50}, raw.EVs)
	assert.Equal(t, uint8(52), raw.MetLocation)
	assert.Equal(t, uint16(0x3635), raw.MetInfo)
	assert.Equal(t, uint32(0x3A393837), raw.IVs)

	assert.Equal(t, [Size]byte(window), raw.Bytes())
}

func TestDecodeOffsets(t *testing.T) {
	data := make([]byte, 2*Size)
	data[Size] = 0xAA

	raw, err := Decode(data, Size)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAA), raw.Personality)

	_, err = Decode(data, Size+1)
	assert.ErrorIs(t, err, saveerrors.ErrRecordOutOfBounds)
	_, err = Decode(data, -1)
	assert.ErrorIs(t, err, saveerrors.ErrRecordOutOfBounds)
}
