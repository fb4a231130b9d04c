package record

// Bit layouts of the packed fields
const (
	MaxMoves     = 4
	moveBits     = 10
	moveMask     = 1<<moveBits - 1
	ivBits       = 5
	ivMask       = 1<<ivBits - 1
	ppBonusBits  = 2
	ppBonusMask  = 1<<ppBonusBits - 1
	numMarkings  = 8
	ivEggBit     = 30
	ivHiddenBit  = 31
	metLevelMask = 0x7F
	metGameShift = 7
	metGameMask  = 0xF

	metGigantamaxBit uint16 = 0x800
	metOtFemaleBit   uint16 = 0x8000

	sanityBadEgg = 0x1
)

func unpackMoves(v uint64) [MaxMoves]uint16 {
	var moves [MaxMoves]uint16
	for i := range moves {
		moves[i] = uint16(v & moveMask)
		v >>= moveBits
	}
	return moves
}

func packMoves(moves [MaxMoves]uint16) uint64 {
	var v uint64
	for i, m := range moves {
		v |= uint64(m&moveMask) << (moveBits * i)
	}
	return v
}

func unpackIVs(v uint32) (ivs [6]uint8, egg, hidden bool) {
	for i := range ivs {
		ivs[i] = uint8(v & ivMask)
		v >>= ivBits
	}
	return ivs, v&1 != 0, v&2 != 0
}

func packIVs(ivs [6]uint8, egg, hidden bool) uint32 {
	var v uint32
	for i, iv := range ivs {
		v |= uint32(iv&ivMask) << (ivBits * i)
	}
	if egg {
		v |= 1 << ivEggBit
	}
	if hidden {
		v |= 1 << ivHiddenBit
	}
	return v
}

func unpackPPBonuses(v uint8) [MaxMoves]uint8 {
	var pp [MaxMoves]uint8
	for i := range pp {
		pp[i] = v & ppBonusMask
		v >>= ppBonusBits
	}
	return pp
}

func packPPBonuses(pp [MaxMoves]uint8) uint8 {
	var v uint8
	for i, b := range pp {
		v |= (b & ppBonusMask) << (ppBonusBits * i)
	}
	return v
}

func unpackMarkings(v uint8) [numMarkings]bool {
	var m [numMarkings]bool
	for i := range m {
		m[i] = v&(1<<i) != 0
	}
	return m
}

func packMarkings(m [numMarkings]bool) uint8 {
	var v uint8
	for i, set := range m {
		if set {
			v |= 1 << i
		}
	}
	return v
}

// metInfo is the unpacked 16-bit met info field
type metInfo struct {
	Level      uint8
	Game       uint8
	Gigantamax bool
	OtFemale   bool
}

func unpackMetInfo(v uint16) metInfo {
	return metInfo{
		Level:      uint8(v & metLevelMask),
		Game:       uint8(v>>metGameShift) & metGameMask,
		Gigantamax: v&metGigantamaxBit != 0,
		OtFemale:   v&metOtFemaleBit != 0,
	}
}

func (m metInfo) pack() uint16 {
	v := uint16(m.Level)&metLevelMask | (uint16(m.Game)&metGameMask)<<metGameShift
	if m.Gigantamax {
		v |= metGigantamaxBit
	}
	if m.OtFemale {
		v |= metOtFemaleBit
	}
	return v
}
