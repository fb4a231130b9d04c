package fixtures

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
)

// Slot describes the contents written into one save slot
type Slot struct {
	SaveIndex uint32
	Signature uint32
	// Rotation shifts block ids through the physical positions, the way
	// the game does on every save.
	Rotation int
	Payloads blocks.Blocks
}

// Image is an in-memory save file
type Image struct {
	Data []byte
}

// NewImage returns an erased image: every byte is 0xFF
func NewImage() *Image {
	data := make([]byte, blocks.FileSize)
	for i := range data {
		data[i] = 0xFF
	}
	return &Image{Data: data}
}

// NewSave returns an image with slot A holding payloads at save index 1 and
// slot B erased. Blocks 30 and 31 are written when present in payloads.
func NewSave(signature uint32, payloads blocks.Blocks) *Image {
	img := NewImage()
	img.WriteSlot(0, Slot{SaveIndex: 1, Signature: signature, Payloads: payloads})
	img.WriteExtraBlocks(payloads)
	return img
}

// BlankPayloads returns zero payloads for every block id
func BlankPayloads() blocks.Blocks {
	out := make(blocks.Blocks, len(blocks.BlockIDs))
	for _, id := range blocks.BlockIDs {
		out[id] = make([]byte, blocks.BlockDataSize)
	}
	return out
}

// WriteSlot writes the 14 primary blocks of slot (0 or 1) with valid footers
func (img *Image) WriteSlot(slot int, s Slot) {
	base := slot * blocks.SaveSize
	for id := 0; id < blocks.BlocksPerSlot; id++ {
		position := (id + s.Rotation) % blocks.BlocksPerSlot
		img.writeBlock(base+position*blocks.BlockSize, uint16(id), s.Signature, s.SaveIndex, s.Payloads[uint16(id)])
	}
}

// WriteExtraBlocks writes blocks 30 and 31 at their fixed offsets
func (img *Image) WriteExtraBlocks(payloads blocks.Blocks) {
	for _, id := range []uint16{blocks.ExtraBlockA, blocks.ExtraBlockB} {
		if payload, ok := payloads[id]; ok {
			img.writeBlock(int(id)*blocks.BlockSize, id, 0, 0, payload)
		}
	}
}

func (img *Image) writeBlock(offset int, id uint16, signature, saveIndex uint32, payload []byte) {
	data := img.Data[offset : offset+blocks.BlockSize]
	for i := 0; i < blocks.BlockDataSize; i++ {
		data[i] = 0
	}
	copy(data[:blocks.BlockDataSize], payload)

	binary.LittleEndian.PutUint16(data[blocks.BlockIDOffset:], id)
	binary.LittleEndian.PutUint16(data[blocks.ChecksumOffset:], blocks.Checksum(data[:blocks.BlockDataSize], id))
	binary.LittleEndian.PutUint32(data[blocks.FileSignatureOffset:], signature)
	binary.LittleEndian.PutUint32(data[blocks.SaveIndexOffset:], saveIndex)
}

// Footer returns the block id, checksum, signature and save index at offset
func (img *Image) Footer(offset int) (uint16, uint16, uint32, uint32) {
	data := img.Data[offset : offset+blocks.BlockSize]
	return binary.LittleEndian.Uint16(data[blocks.BlockIDOffset:]),
		binary.LittleEndian.Uint16(data[blocks.ChecksumOffset:]),
		binary.LittleEndian.Uint32(data[blocks.FileSignatureOffset:]),
		binary.LittleEndian.Uint32(data[blocks.SaveIndexOffset:])
}

// Write stores the image in a temp directory and returns its path
func (img *Image) Write(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		t.Fatalf("writing save image: %v", err)
	}
	return path
}
