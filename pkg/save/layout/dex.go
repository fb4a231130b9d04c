package layout

import (
	"fmt"

	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// Pokédex flag storage in block 1
const (
	DexBlock       uint16 = 1
	DexSeenStart          = 0x310
	DexCaughtStart        = 0x38D
	DexFlagsSize          = 0x7D
)

// DexFlags holds one bit per national dex number, LSB first
type DexFlags []byte

// Has reports whether dexNum's bit is set
func (f DexFlags) Has(dexNum int) bool {
	i := dexNum - 1
	if i < 0 || i/8 >= len(f) {
		return false
	}
	return f[i/8]&(1<<(i%8)) != 0
}

// Set sets dexNum's bit; numbers outside the table are ignored
func (f DexFlags) Set(dexNum int) {
	i := dexNum - 1
	if i < 0 || i/8 >= len(f) {
		return
	}
	f[i/8] |= 1 << (i % 8)
}

// Count returns the number of set bits
func (f DexFlags) Count() int {
	n := 0
	for _, b := range f {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// LoadPokedexFlags copies the seen and caught flags out of block 1
func LoadPokedexFlags(b blocks.Blocks) (DexFlags, DexFlags, error) {
	data := b[DexBlock]
	if len(data) < DexCaughtStart+DexFlagsSize {
		return nil, nil, fmt.Errorf("%w: block %d", saveerrors.ErrMissingBlock, DexBlock)
	}
	seen := append(DexFlags(nil), data[DexSeenStart:DexSeenStart+DexFlagsSize]...)
	caught := append(DexFlags(nil), data[DexCaughtStart:DexCaughtStart+DexFlagsSize]...)
	return seen, caught, nil
}

// UpdatePokedexFlags marks every dex number as seen and caught. Bits are
// only ever set; zero dex numbers are skipped.
func UpdatePokedexFlags(seen, caught DexFlags, dexNums []int) {
	for _, n := range dexNums {
		if n <= 0 {
			continue
		}
		seen.Set(n)
		caught.Set(n)
	}
}

// StorePokedexFlags writes the seen and caught flags back into block 1
func StorePokedexFlags(b blocks.Blocks, seen, caught DexFlags) error {
	data := b[DexBlock]
	if len(data) < DexCaughtStart+DexFlagsSize {
		return fmt.Errorf("%w: block %d", saveerrors.ErrMissingBlock, DexBlock)
	}
	copy(data[DexSeenStart:DexSeenStart+DexFlagsSize], seen)
	copy(data[DexCaughtStart:DexCaughtStart+DexFlagsSize], caught)
	return nil
}
