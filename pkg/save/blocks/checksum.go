package blocks

import "encoding/binary"

// ChecksumSize returns how many payload bytes of blockID are checksummed
func ChecksumSize(blockID uint16) int {
	switch blockID {
	case 0:
		return Block0ChecksumSize
	case 4:
		return Block4ChecksumSize
	case 13:
		return Block13ChecksumSize
	default:
		return BlockDataSize
	}
}

// Checksum computes the 16-bit footer checksum of a block payload: the
// little-endian u32 words of the checksummed prefix are summed modulo 2^32,
// then the two halves of the sum are added and folded back into 16 bits.
// Missing trailing bytes count as zero.
func Checksum(payload []byte, blockID uint16) uint16 {
	size := ChecksumSize(blockID)

	var sum uint32
	var word [4]byte
	for i := 0; i < size; i += 4 {
		word = [4]byte{}
		if i < len(payload) {
			copy(word[:], payload[i:])
		}
		sum += binary.LittleEndian.Uint32(word[:])
	}

	return uint16(sum>>16) + uint16(sum)
}
