package layout

import (
	"strings"
	"unicode"

	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

// Box title storage in block 13
const (
	TitleBlock    uint16 = 13
	TitleWidth           = 9
	TitlesEnd            = 0x442
	VanillaTitles        = 14
)

// LoadBoxTitles returns the titles of boxes 1..boxCount. The game stores the
// names of the boxes added past the vanilla fourteen first and the vanilla
// names in reverse, so the stored order is permuted back here.
func LoadBoxTitles(b blocks.Blocks, boxCount int, charMap *profile.CharMap) []string {
	data := b[TitleBlock]
	start := TitlesEnd - boxCount*TitleWidth
	if boxCount <= 0 || start < 0 || len(data) < TitlesEnd {
		return nil
	}

	raw := make([]string, boxCount)
	for i := range raw {
		off := start + i*TitleWidth
		raw[i] = normalizeTitle(charMap.Decode(data[off : off+TitleWidth]))
	}

	k := boxCount - VanillaTitles
	if k <= 0 {
		return raw
	}

	titles := make([]string, 0, boxCount)
	titles = append(titles, raw[k:]...)
	for i := k - 1; i >= 1; i-- {
		titles = append(titles, raw[i])
	}
	return append(titles, raw[0])
}

// normalizeTitle turns titles like "Box24" or "BOX7a" into "Box 24" and
// "BOX 7a": any casing of "box" directly followed by a digit gets a space
func normalizeTitle(title string) string {
	r := []rune(title)
	if len(r) < 4 || !strings.EqualFold(string(r[:3]), "box") || !unicode.IsDigit(r[3]) {
		return title
	}
	return string(r[:3]) + " " + string(r[3:])
}
