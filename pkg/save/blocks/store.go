// Package blocks reads, validates and rewrites the 4 KiB blocks of a
// GBA flash save image.
package blocks

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// Blocks maps a block id to its payload
type Blocks map[uint16][]byte

// Clone returns a deep copy
func (b Blocks) Clone() Blocks {
	out := make(Blocks, len(b))
	for id, data := range b {
		out[id] = append([]byte(nil), data...)
	}
	return out
}

// SignatureValidator decides which file signatures a store accepts
type SignatureValidator interface {
	IsValidFileSignature(signature uint32) bool
	IsOldVersion(signature uint32) bool
}

// Store reads and writes save images
type Store struct {
	validator SignatureValidator
	logger    hclog.Logger
}

// NewStore creates a store that accepts the signatures known to validator
func NewStore(validator SignatureValidator) *Store {
	return NewStoreWithLogger(validator, hclog.NewNullLogger())
}

// NewStoreWithLogger creates a store with a custom logger
func NewStoreWithLogger(validator SignatureValidator, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{validator: validator, logger: logger}
}

// footer is the trailer of one block
type footer struct {
	BlockID   uint16
	Checksum  uint16
	Signature uint32
	SaveIndex uint32
}

func readFooter(r io.ReaderAt, blockOffset int64) (footer, error) {
	var buf [BlockSize - BlockIDOffset]byte
	if _, err := r.ReadAt(buf[:], blockOffset+BlockIDOffset); err != nil {
		return footer{}, fmt.Errorf("reading footer at 0x%X: %w", blockOffset, err)
	}
	return footer{
		BlockID:   binary.LittleEndian.Uint16(buf[0:]),
		Checksum:  binary.LittleEndian.Uint16(buf[ChecksumOffset-BlockIDOffset:]),
		Signature: binary.LittleEndian.Uint32(buf[FileSignatureOffset-BlockIDOffset:]),
		SaveIndex: binary.LittleEndian.Uint32(buf[SaveIndexOffset-BlockIDOffset:]),
	}, nil
}

func (f footer) empty() bool {
	return f.Signature == EmptyMarker
}

// ValidateFile checks the size of the file at path and the consistency of
// its slots. A file with one never-written slot is valid only when the
// other slot is its very first save.
func (s *Store) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", saveerrors.ErrSaveFileNotFound, path)
	}
	if !info.Mode().IsRegular() || !IsValidFileSize(info.Size()) {
		return fmt.Errorf("%w: %d bytes", saveerrors.ErrInvalidSaveSize, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return s.validate(f)
}

func (s *Store) validate(r io.ReaderAt) error {
	a, err := readFooter(r, 0)
	if err != nil {
		return err
	}
	b, err := readFooter(r, SaveSize)
	if err != nil {
		return err
	}

	switch {
	case a.empty():
		return s.validateLoneSlot(r, SaveSize)
	case b.empty():
		return s.validateLoneSlot(r, 0)
	}

	if err := s.ValidateSlot(r, 0, SaveSize); err != nil {
		return fmt.Errorf("slot A: %w", err)
	}
	if err := s.ValidateSlot(r, SaveSize, 2*SaveSize); err != nil {
		return fmt.Errorf("slot B: %w", err)
	}
	return nil
}

func (s *Store) validateLoneSlot(r io.ReaderAt, start int64) error {
	if err := s.ValidateSlot(r, start, start+SaveSize); err != nil {
		return fmt.Errorf("slot at 0x%X: %w", start, err)
	}

	f, err := readFooter(r, start)
	if err != nil {
		return err
	}
	// Only the low half of the index is meaningful for a first save
	if uint16(f.SaveIndex) != 1 {
		return fmt.Errorf("%w: index %d", saveerrors.ErrEmptySlotIndex, f.SaveIndex)
	}
	return nil
}

// ValidateSlot checks every block between start and end: known and unique
// block ids, one accepted signature, one save index and correct checksums.
func (s *Store) ValidateSlot(r io.ReaderAt, start, end int64) error {
	seen := make(map[uint16]bool, BlocksPerSlot)
	var first footer
	payload := make([]byte, BlockDataSize)

	for offset := start; offset < end; offset += BlockSize {
		f, err := readFooter(r, offset)
		if err != nil {
			return err
		}

		if !IsBlockID(f.BlockID) {
			return fmt.Errorf("%w: %d at 0x%X", saveerrors.ErrUnknownBlockID, f.BlockID, offset)
		}
		if seen[f.BlockID] {
			return fmt.Errorf("%w: %d at 0x%X", saveerrors.ErrDuplicateBlockID, f.BlockID, offset)
		}
		seen[f.BlockID] = true

		if offset == start {
			first = f
			if !s.validator.IsValidFileSignature(f.Signature) {
				return fmt.Errorf("%w: 0x%08X", saveerrors.ErrInvalidSignature, f.Signature)
			}
		} else {
			if f.Signature != first.Signature {
				return fmt.Errorf("%w: 0x%08X != 0x%08X", saveerrors.ErrSignatureMismatch, f.Signature, first.Signature)
			}
			if f.SaveIndex != first.SaveIndex {
				return fmt.Errorf("%w: %d != %d", saveerrors.ErrSaveIndexMismatch, f.SaveIndex, first.SaveIndex)
			}
		}

		if _, err := r.ReadAt(payload, offset); err != nil {
			return fmt.Errorf("reading block at 0x%X: %w", offset, err)
		}
		if sum := Checksum(payload, f.BlockID); sum != f.Checksum {
			return fmt.Errorf("%w: block %d has 0x%04X, computed 0x%04X",
				saveerrors.ErrChecksumMismatch, f.BlockID, f.Checksum, sum)
		}
	}

	return nil
}

// ActiveSlot picks the slot holding the latest save. A slot is skipped as
// never written only when both its save index and its file signature read
// 0xFFFFFFFF; a slot with an erased signature but a real save index still
// competes on its index. Otherwise the higher save index wins and ties go
// to slot A. It returns the slot offset and the slot's file signature.
func ActiveSlot(r io.ReaderAt) (int64, uint32, error) {
	a, err := readFooter(r, 0)
	if err != nil {
		return 0, 0, err
	}
	b, err := readFooter(r, SaveSize)
	if err != nil {
		return 0, 0, err
	}

	switch {
	case a.SaveIndex == EmptyMarker && a.empty():
		return SaveSize, b.Signature, nil
	case b.SaveIndex == EmptyMarker && b.empty():
		return 0, a.Signature, nil
	case b.SaveIndex > a.SaveIndex:
		return SaveSize, b.Signature, nil
	default:
		return 0, a.Signature, nil
	}
}

// LoadOne reads the block id and payload of the block at slotOffset+blockOffset
func LoadOne(r io.ReaderAt, slotOffset, blockOffset int64) (uint16, []byte, error) {
	offset := slotOffset + blockOffset

	f, err := readFooter(r, offset)
	if err != nil {
		return 0, nil, err
	}

	payload := make([]byte, BlockDataSize)
	if _, err := r.ReadAt(payload, offset); err != nil {
		return 0, nil, fmt.Errorf("reading block at 0x%X: %w", offset, err)
	}
	return f.BlockID, payload, nil
}

// LoadAll validates the save at path and returns the payloads of the active
// slot keyed by block id, plus blocks 30 and 31, along with the file
// signature. An invalid file yields empty blocks and signature 0. A file
// from a retired game version yields empty blocks and its signature.
func (s *Store) LoadAll(path string) (Blocks, uint32, error) {
	if err := s.ValidateFile(path); err != nil {
		s.logger.Warn("⚠️ Save failed validation", "path", path, "error", err)
		return Blocks{}, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Blocks{}, 0, err
	}
	defer f.Close()

	slotOffset, signature, err := ActiveSlot(f)
	if err != nil {
		return Blocks{}, 0, err
	}

	if s.validator.IsOldVersion(signature) {
		s.logger.Info("🕰️ Save comes from a retired game version", "signature", fmt.Sprintf("0x%08X", signature))
		return Blocks{}, signature, nil
	}

	s.logger.Debug("📂 Loading active slot",
		"path", path,
		"slot_offset", fmt.Sprintf("0x%X", slotOffset),
		"signature", fmt.Sprintf("0x%08X", signature),
	)

	blocks := make(Blocks, len(BlockIDs))
	for blockOffset := int64(0); blockOffset < SaveSize; blockOffset += BlockSize {
		id, payload, err := LoadOne(f, slotOffset, blockOffset)
		if err != nil {
			return Blocks{}, 0, err
		}
		if IsBlockID(id) {
			blocks[id] = payload
			s.logger.Trace("🧱 Loaded block", "block_id", id, "offset", fmt.Sprintf("0x%X", slotOffset+blockOffset))
		}
	}

	for _, id := range []uint16{ExtraBlockA, ExtraBlockB} {
		_, payload, err := LoadOne(f, 0, int64(id)*BlockSize)
		if err != nil {
			return Blocks{}, 0, err
		}
		blocks[id] = payload
	}

	return blocks, signature, nil
}

// ReaderWriterAt is the random access a block rewrite needs
type ReaderWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// ReplaceOne writes payload at offset and refreshes the block checksum.
// The rest of the footer is left untouched.
func ReplaceOne(rw ReaderWriterAt, offset int64, payload []byte, blockID uint16) error {
	if len(payload) > BlockDataSize {
		payload = payload[:BlockDataSize]
	}
	if _, err := rw.WriteAt(payload, offset); err != nil {
		return fmt.Errorf("writing block %d: %w", blockID, err)
	}

	data := make([]byte, BlockDataSize)
	if _, err := rw.ReadAt(data, offset); err != nil {
		return fmt.Errorf("re-reading block %d: %w", blockID, err)
	}

	var sum [2]byte
	binary.LittleEndian.PutUint16(sum[:], Checksum(data, blockID))
	if _, err := rw.WriteAt(sum[:], offset+ChecksumOffset); err != nil {
		return fmt.Errorf("writing checksum of block %d: %w", blockID, err)
	}
	return nil
}

// ReplaceAll writes blocks into the active slot of the save at path, each
// to the position its id currently occupies, and rewrites blocks 30 and 31
// at their fixed offsets. Footers other than checksums are preserved.
func (s *Store) ReplaceAll(path string, blocks Blocks) error {
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", saveerrors.ErrSaveFileNotFound, path)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	slotOffset, _, err := ActiveSlot(f)
	if err != nil {
		return err
	}

	for blockOffset := int64(0); blockOffset < SaveSize; blockOffset += BlockSize {
		offset := slotOffset + blockOffset
		ftr, err := readFooter(f, offset)
		if err != nil {
			return err
		}

		payload, ok := blocks[ftr.BlockID]
		if !ok {
			continue
		}
		if err := ReplaceOne(f, offset, payload, ftr.BlockID); err != nil {
			return err
		}
		s.logger.Trace("✏️ Replaced block", "block_id", ftr.BlockID, "offset", fmt.Sprintf("0x%X", offset))
	}

	for _, id := range []uint16{ExtraBlockA, ExtraBlockB} {
		payload, ok := blocks[id]
		if !ok {
			continue
		}
		if err := ReplaceOne(f, int64(id)*BlockSize, payload, id); err != nil {
			return err
		}
	}

	s.logger.Debug("💾 Save rewritten", "path", path, "slot_offset", fmt.Sprintf("0x%X", slotOffset))
	return f.Sync()
}
