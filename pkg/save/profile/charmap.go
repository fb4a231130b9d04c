package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EOS terminates strings in the game's encoding
const EOS byte = 0xFF

// CharMap translates between game bytes and text glyphs
type CharMap struct {
	glyphs  map[byte]string
	reverse map[string]byte
}

// NewCharMap builds a char map from byte to glyph pairs. Byte 0 always maps to a space.
func NewCharMap(glyphs map[byte]string) *CharMap {
	cm := &CharMap{
		glyphs:  map[byte]string{0: " "},
		reverse: map[string]byte{" ": 0},
	}
	for b := 0; b < 0x100; b++ {
		if g, ok := glyphs[byte(b)]; ok {
			cm.set(byte(b), g)
		}
	}
	return cm
}

func (cm *CharMap) set(b byte, glyph string) {
	cm.glyphs[b] = glyph
	cm.reverse[glyph] = b
}

// ParseCharMap reads a .tbl file. Lines look like "BB=A"; a backslash glyph
// takes two characters ("FE=\n"). Lines with longer keys and the "/FF"
// terminator line are skipped. When two bytes share a glyph the later line
// wins for encoding.
func ParseCharMap(r io.Reader) (*CharMap, error) {
	cm := NewCharMap(nil)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if trimmed := strings.TrimSpace(line); trimmed == "" || trimmed == "/FF" {
			continue
		}
		if len(line) < 4 || line[2] != '=' {
			continue
		}

		key, err := strconv.ParseUint(line[:2], 16, 8)
		if err != nil {
			continue
		}

		value := line[3:]
		if value[0] == '\\' && len(value) >= 2 {
			value = value[:2]
		} else {
			r := []rune(value)
			value = string(r[0])
		}
		cm.set(byte(key), value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading char map: %w", err)
	}

	return cm, nil
}

// LoadCharMap parses the .tbl file at path
func LoadCharMap(path string) (*CharMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCharMap(f)
}

// Glyph returns the glyph for b
func (cm *CharMap) Glyph(b byte) (string, bool) {
	g, ok := cm.glyphs[b]
	return g, ok
}

// Byte returns the byte encoding glyph
func (cm *CharMap) Byte(glyph string) (byte, bool) {
	b, ok := cm.reverse[glyph]
	return b, ok
}

// Decode converts game bytes to text. Decoding stops at EOS and bytes
// without a glyph are skipped.
func (cm *CharMap) Decode(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if b == EOS {
			break
		}
		if g, ok := cm.glyphs[b]; ok {
			sb.WriteString(g)
		}
	}
	return sb.String()
}

// Encode converts text to exactly width game bytes. Two character escape
// glyphs such as `\n` are matched before single runes. Glyphs without a
// byte are skipped; the result is truncated to width and padded with EOS.
func (cm *CharMap) Encode(text string, width int) []byte {
	out := make([]byte, 0, width)
	for i := 0; i < len(text) && len(out) < width; {
		if text[i] == '\\' && i+1 < len(text) {
			_, size := utf8.DecodeRuneInString(text[i+1:])
			if b, ok := cm.reverse[text[i:i+1+size]]; ok {
				out = append(out, b)
				i += 1 + size
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if b, ok := cm.reverse[string(r)]; ok {
			out = append(out, b)
		}
		i += size
	}
	for len(out) < width {
		out = append(out, EOS)
	}
	return out
}
