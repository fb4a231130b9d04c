package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/provide-io/savebox/go/savebox/internal/fixtures"
)

func TestLoadBoxTitles(t *testing.T) {
	charMap := fixtures.CharMap()

	t.Run("twenty_five_boxes", func(t *testing.T) {
		b := blankBlocks()
		stored := make([]string, 25)
		// stored order: boxes 12..25 reversed into the vanilla slots
		for j := 0; j < 14; j++ {
			stored[11+j] = fmt.Sprintf("Box%d", j+1)
		}
		for m := 0; m < 10; m++ {
			stored[10-m] = fmt.Sprintf("Box%d", 15+m)
		}
		stored[0] = "Box25"
		stored[11] = "PARTY"

		start := TitlesEnd - 25*TitleWidth
		for i, name := range stored {
			copy(b[TitleBlock][start+i*TitleWidth:], charMap.Encode(name, TitleWidth))
		}

		titles := LoadBoxTitles(b, 25, charMap)
		assert.Len(t, titles, 25)
		assert.Equal(t, "PARTY", titles[0])
		for i := 1; i < 25; i++ {
			assert.Equal(t, fmt.Sprintf("Box %d", i+1), titles[i])
		}
	})

	t.Run("fourteen_boxes_keep_order", func(t *testing.T) {
		b := blankBlocks()
		start := TitlesEnd - 14*TitleWidth
		for i := 0; i < 14; i++ {
			copy(b[TitleBlock][start+i*TitleWidth:], charMap.Encode(fmt.Sprintf("Box%d", i+1), TitleWidth))
		}

		titles := LoadBoxTitles(b, 14, charMap)
		assert.Equal(t, "Box 1", titles[0])
		assert.Equal(t, "Box 14", titles[13])
	})
}

func TestNormalizeTitle(t *testing.T) {
	testCases := map[string]string{
		"Box24":  "Box 24",
		"Box7":   "Box 7",
		"Box":    "Box",
		"Boxes":  "Boxes",
		"My Box": "My Box",
		"Box 3":  "Box 3",
		"BOX12":  "BOX 12",
		"box9":   "box 9",
		"Box1a":  "Box 1a",
		"Boxé1":  "Boxé1",
	}
	for in, want := range testCases {
		assert.Equal(t, want, normalizeTitle(in), in)
	}
}
