package blocks

// =================================
// Save image geometry
// =================================
const (
	SaveSize      = 0xE000 // One save slot: 14 blocks
	BlockSize     = 0x1000
	BlockDataSize = 0xFF0 // Payload bytes per block
	BlocksPerSlot = SaveSize / BlockSize

	FileSize          = 0x20000 // 128 KiB flash
	FlashcartFileSize = 0x20010 // 128 KiB plus flashcart trailer
)

// =================================
// Block footer layout
// =================================
const (
	BlockIDOffset       = 0xFF4 // u16
	ChecksumOffset      = 0xFF6 // u16
	FileSignatureOffset = 0xFF8 // u32, identifies the game
	SaveIndexOffset     = 0xFFC // u32, incremented on every save
)

// =================================
// Checksummed payload prefix per block
// =================================
const (
	Block0ChecksumSize  = 0xF24
	Block4ChecksumSize  = 0xD98
	Block13ChecksumSize = 0x450
)

// EmptyMarker fills the footer of a slot that was never written
const EmptyMarker = 0xFFFFFFFF

// Blocks 30 and 31 live at fixed offsets outside both slots
const (
	ExtraBlockA uint16 = 30
	ExtraBlockB uint16 = 31
)

// BlockIDs lists every block id that may appear in a save
var BlockIDs = []uint16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, ExtraBlockA, ExtraBlockB}

// IsBlockID reports whether id is a known block id
func IsBlockID(id uint16) bool {
	return id <= 13 || id == ExtraBlockA || id == ExtraBlockB
}

// IsValidFileSize reports whether size is an accepted save file size
func IsValidFileSize(size int64) bool {
	return size == FileSize || size == FlashcartFileSize
}
