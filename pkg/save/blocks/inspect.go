package blocks

import (
	"fmt"
	"os"

	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// SlotReport describes one save slot of an image
type SlotReport struct {
	Name      string
	Offset    int64
	Empty     bool
	Active    bool
	Signature uint32
	SaveIndex uint32
	Err       error
}

// Valid reports whether the slot passed validation
func (r SlotReport) Valid() bool {
	return r.Err == nil
}

// Inspect validates both slots of the save at path independently
func (s *Store) Inspect(path string) ([]SlotReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !IsValidFileSize(info.Size()) {
		return nil, fmt.Errorf("%w: %d bytes", saveerrors.ErrInvalidSaveSize, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	active, _, err := ActiveSlot(f)
	if err != nil {
		return nil, err
	}

	reports := make([]SlotReport, 0, 2)
	for i, offset := range []int64{0, SaveSize} {
		ftr, err := readFooter(f, offset)
		if err != nil {
			return nil, err
		}

		report := SlotReport{
			Name:      string(rune('A' + i)),
			Offset:    offset,
			Empty:     ftr.empty(),
			Active:    offset == active,
			Signature: ftr.Signature,
			SaveIndex: ftr.SaveIndex,
		}
		if !report.Empty {
			report.Err = s.ValidateSlot(f, offset, offset+SaveSize)
		}
		reports = append(reports, report)
	}

	return reports, nil
}
