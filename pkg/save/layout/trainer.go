package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

// Trainer identity in block 0
const (
	TrainerBlock      uint16 = 0
	TrainerNameOffset        = 0x0
	TrainerNameWidth         = 8
	TrainerIDOffset          = 0xA
)

// LoadTrainerDetails returns the player's name and full 32-bit trainer id
func LoadTrainerDetails(b blocks.Blocks, charMap *profile.CharMap) (string, uint32, error) {
	data := b[TrainerBlock]
	if len(data) < TrainerIDOffset+4 {
		return "", 0, fmt.Errorf("%w: block %d", saveerrors.ErrMissingBlock, TrainerBlock)
	}
	name := charMap.Decode(data[TrainerNameOffset : TrainerNameOffset+TrainerNameWidth])
	return name, binary.LittleEndian.Uint32(data[TrainerIDOffset:]), nil
}
