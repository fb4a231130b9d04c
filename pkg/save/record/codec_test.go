package record

import (
	"encoding/json"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/savebox/go/savebox/internal/fixtures"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

const testSalt = "test-salt"

func testCodec() *Codec {
	logger := hclog.New(&hclog.LoggerOptions{Name: "record_test", Level: hclog.Trace})
	return NewCodecWithLogger(fixtures.Profile(profile.SignatureUnbound), testSalt, logger)
}

func encodeText(s string, width int) []byte {
	return fixtures.CharMap().Encode(s, width)
}

// venusaurRaw is a level 100 Bold Venusaur met in FireRed
func venusaurRaw() RawRecord {
	r := RawRecord{
		Personality: 959407730,
		OtID:        1468790980,
		Language:    2,
		Species:     fixtures.SpeciesVenusaur,
		Experience:  1059860,
		Friendship:  50,
		PokeBall:    3,
		Moves: packMoves([MaxMoves]uint16{
			fixtures.MoveSynthesis, fixtures.MoveSludgeBomb, fixtures.MoveDoubleEdge, fixtures.MoveSolarBeam,
		}),
		MetLocation: 88,
		MetInfo:     metInfo{Level: 100, Game: profile.VersionFireRed}.pack(),
		IVs:         packIVs([6]uint8{31, 31, 31, 31, 31, 31}, false, false),
	}
	copy(r.Nickname[:], encodeText("Venusaur", NicknameLength))
	copy(r.OtName[:], encodeText("Skeli", OtNameLength))
	return r
}

func TestNormalizeVenusaur(t *testing.T) {
	c := testCodec()
	rec := c.Normalize(venusaurRaw())

	assert.Equal(t, "SPECIES_VENUSAUR", rec.Species)
	assert.Equal(t, "Venusaur", rec.Nickname)
	assert.Equal(t, "Skeli", rec.OtName)
	assert.Equal(t, "LANGUAGE_ENGLISH", rec.Language)
	assert.Equal(t, "ITEM_NONE", rec.Item)
	assert.Equal(t, "BALL_TYPE_POKE_BALL", rec.PokeBall)
	assert.Equal(t, []string{"MOVE_SYNTHESIS", "MOVE_SLUDGEBOMB", "MOVE_DOUBLEEDGE", "MOVE_SOLARBEAM"}, rec.Moves)
	assert.Equal(t, uint8(100), rec.Level)
	assert.Equal(t, "NATURE_BOLD", rec.Nature)
	assert.Equal(t, "M", rec.Gender)
	assert.Equal(t, "M", rec.OtGender)
	assert.Equal(t, "unbound", rec.MetGame)
	assert.Equal(t, uint8(100), rec.MetLevel)
	assert.Equal(t, uint8(88), rec.MetLocation)
	assert.Equal(t, uint8(0), rec.AbilitySlot)
	assert.False(t, rec.Shiny)
	assert.False(t, rec.IsEgg)
	assert.Equal(t, [6]uint16{301, 180, 222, 196, 236, 236}, rec.RawStats)
	assert.Equal(t, "59419f69cd4ee2315413d9248d2e38c6", rec.Checksum)
}

func TestRoundTripIsByteExact(t *testing.T) {
	c := testCodec()

	gengar := venusaurRaw()
	gengar.Species = fixtures.SpeciesGengar
	gengar.Personality = 1795261361
	gengar.Item = fixtures.ItemLeftovers
	gengar.Markings = 0x05
	gengar.PPBonuses = 0b11_10_01_00
	gengar.EVs = [6]uint8{252, 0, 4, 252, 0, 0}
	gengar.MetInfo = metInfo{Level: 25, Game: profile.VersionUnbound, Gigantamax: true, OtFemale: true}.pack()
	gengar.IVs = packIVs([6]uint8{1, 2, 3, 4, 5, 6}, false, true)

	for name, raw := range map[string]RawRecord{"venusaur": venusaurRaw(), "gengar": gengar} {
		t.Run(name, func(t *testing.T) {
			rec := c.Normalize(raw)
			require.NotEqual(t, SpeciesNone, rec.Species)
			assert.Equal(t, raw.Bytes(), c.ToCompressed(rec))
		})
	}
}

func TestRoundTripThroughJSON(t *testing.T) {
	c := testCodec()
	rec := c.Normalize(venusaurRaw())

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back PokemonRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, venusaurRaw().Bytes(), c.ToCompressed(back))
}

func TestBlankRecord(t *testing.T) {
	c := testCodec()
	blank := c.Blank()

	assert.Equal(t, "75d3a7677a1f7b2448094783a2b69f87", blank.Checksum)
	assert.True(t, blank.IsBlank())

	raw, err := Decode(make([]byte, Size), 0)
	require.NoError(t, err)
	assert.Equal(t, blank, c.Normalize(raw))

	assert.Equal(t, [Size]byte{}, c.ToCompressed(blank))
}

func TestNormalizeFallbacks(t *testing.T) {
	c := testCodec()

	testCases := []struct {
		name   string
		mutate func(r *RawRecord)
		check  func(t *testing.T, rec PokemonRecord)
	}{
		{
			name:   "bad_egg",
			mutate: func(r *RawRecord) { r.Sanity |= sanityBadEgg },
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, c.Blank(), rec)
			},
		},
		{
			name:   "unknown_species",
			mutate: func(r *RawRecord) { r.Species = 999 },
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, c.Blank(), rec)
			},
		},
		{
			name: "unknown_ids",
			mutate: func(r *RawRecord) {
				r.Language = 0xFF
				r.Item = 0xFFFF
				r.PokeBall = 0xFF
				r.Moves = 0
			},
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, "LANGUAGE_ENGLISH", rec.Language)
				assert.Equal(t, "ITEM_NONE", rec.Item)
				assert.Equal(t, "BALL_TYPE_POKE_BALL", rec.PokeBall)
				assert.Equal(t, []string{"MOVE_NONE", "MOVE_NONE", "MOVE_NONE", "MOVE_NONE"}, rec.Moves)
			},
		},
		{
			name: "no_known_moves",
			mutate: func(r *RawRecord) {
				r.Moves = packMoves([MaxMoves]uint16{1000, 1001, 1002, 1003})
				r.PPBonuses = 0xFF
			},
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, []string{"MOVE_POUND", "MOVE_NONE", "MOVE_NONE", "MOVE_NONE"}, rec.Moves)
				assert.Equal(t, [MaxMoves]uint8{}, rec.PPBonuses)
			},
		},
		{
			name: "unknown_move_drops_its_pp_bonus",
			mutate: func(r *RawRecord) {
				r.Moves = packMoves([MaxMoves]uint16{1000, fixtures.MoveTackle, fixtures.MoveGrowl, 1001})
				r.PPBonuses = packPPBonuses([MaxMoves]uint8{3, 1, 2, 3})
			},
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, []string{"MOVE_TACKLE", "MOVE_GROWL", "MOVE_NONE", "MOVE_NONE"}, rec.Moves)
				assert.Equal(t, [MaxMoves]uint8{1, 2, 0, 0}, rec.PPBonuses)
			},
		},
		{
			name: "egg_loses_nickname",
			mutate: func(r *RawRecord) {
				r.IVs = packIVs([6]uint8{}, true, false)
			},
			check: func(t *testing.T, rec PokemonRecord) {
				assert.True(t, rec.IsEgg)
				assert.Equal(t, "", rec.Nickname)
			},
		},
		{
			name:   "mega_reverts",
			mutate: func(r *RawRecord) { r.Species = fixtures.SpeciesVenusaurMega },
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, "SPECIES_VENUSAUR", rec.Species)
			},
		},
		{
			name:   "battle_form_reverts",
			mutate: func(r *RawRecord) { r.Species = fixtures.SpeciesCherrimSun },
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, "SPECIES_CHERRIM", rec.Species)
			},
		},
		{
			name:   "unown_letter_collapses",
			mutate: func(r *RawRecord) { r.Species = fixtures.SpeciesUnownC },
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, "SPECIES_UNOWN", rec.Species)
				assert.Equal(t, "U", rec.Gender)
			},
		},
		{
			name:   "species_without_base_stats",
			mutate: func(r *RawRecord) { r.Species = fixtures.SpeciesMissingNo },
			check: func(t *testing.T, rec PokemonRecord) {
				assert.Equal(t, "SPECIES_MISSINGNO", rec.Species)
				assert.Equal(t, "U", rec.Gender)
				assert.Equal(t, uint8(1), rec.Level)
				assert.Equal(t, "NATURE_HARDY", rec.Nature)
				assert.Equal(t, [6]uint16{}, rec.RawStats)
			},
		},
		{
			name: "gigantamax_and_female_trainer",
			mutate: func(r *RawRecord) {
				r.MetInfo = metInfo{Level: 5, Game: profile.VersionFireRed, Gigantamax: true, OtFemale: true}.pack()
			},
			check: func(t *testing.T, rec PokemonRecord) {
				assert.True(t, rec.Gigantamax)
				assert.Equal(t, "F", rec.OtGender)
				assert.Equal(t, uint8(5), rec.MetLevel)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := venusaurRaw()
			tc.mutate(&raw)
			rec := c.Normalize(raw)
			tc.check(t, rec)
			if !rec.IsBlank() {
				assert.Equal(t, c.Checksum(rec), rec.Checksum)
			}
		})
	}
}

func TestToCompressedRejects(t *testing.T) {
	c := testCodec()
	good := c.Normalize(venusaurRaw())
	var zero [Size]byte

	testCases := []struct {
		name   string
		mutate func(r *PokemonRecord)
	}{
		{"missing_checksum", func(r *PokemonRecord) { r.Checksum = "" }},
		{"mismatched_checksum", func(r *PokemonRecord) { r.Checksum = "00000000000000000000000000000000" }},
		{"edited_without_reseal", func(r *PokemonRecord) { r.Experience = 1 }},
		{"blank_species", func(r *PokemonRecord) { r.Species = SpeciesNone }},
		{"species_unknown_to_game", func(r *PokemonRecord) {
			r.Species = "SPECIES_MEWTWO"
			r.Checksum = c.Checksum(*r)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := good
			rec.Moves = append([]string(nil), good.Moves...)
			tc.mutate(&rec)
			assert.Equal(t, zero, c.ToCompressed(rec))
		})
	}
}

func TestToCompressedMarkingsOutsideChecksum(t *testing.T) {
	c := testCodec()
	rec := c.Normalize(venusaurRaw())
	rec.Markings[2] = true

	out := c.ToCompressed(rec)
	raw, err := Decode(out[:], 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x04), raw.Markings)
	assert.Equal(t, uint16(fixtures.SpeciesVenusaur), raw.Species)
}

func TestToCompressedChangesAbilitySlot(t *testing.T) {
	c := testCodec()

	raw := venusaurRaw()
	raw.Species = fixtures.SpeciesMachamp
	rec := c.Normalize(raw)
	require.Equal(t, uint8(0), rec.AbilitySlot)

	rec.AbilitySlot = 1
	rec = c.Seal(rec)
	// sealing re-derives the slot from the personality
	require.Equal(t, uint8(0), rec.AbilitySlot)

	rec.AbilitySlot = 1
	rec.Checksum = c.Checksum(rec)
	out := c.ToCompressed(rec)

	back := c.Normalize(mustDecode(t, out[:]))
	assert.Equal(t, uint8(1), back.AbilitySlot)
	assert.Equal(t, rec.Nature, back.Nature)
	assert.Equal(t, rec.Gender, back.Gender)
	assert.Equal(t, rec.Shiny, back.Shiny)
	assert.Equal(t, rec.RawStats, back.RawStats)

	rec.AbilitySlot = 2
	rec.Checksum = c.Checksum(rec)
	out = c.ToCompressed(rec)
	back = c.Normalize(mustDecode(t, out[:]))
	assert.True(t, back.HiddenAbility)
	assert.Equal(t, uint8(2), back.AbilitySlot)
	assert.Equal(t, rec.Personality, back.Personality)
}

func TestEncodeDecodeAll(t *testing.T) {
	c := testCodec()
	records := []PokemonRecord{c.Normalize(venusaurRaw()), c.Blank(), c.Normalize(venusaurRaw())}

	data := c.EncodeAll(records)
	require.Len(t, data, 3*Size)

	back := c.DecodeAll(data)
	require.Len(t, back, 3)
	assert.Equal(t, records, back)
}

func TestBaseForm(t *testing.T) {
	testCases := map[string]string{
		"SPECIES_CHARIZARD_MEGA_X":    "SPECIES_CHARIZARD",
		"SPECIES_CHARIZARD_MEGA_Y":    "SPECIES_CHARIZARD",
		"SPECIES_VENUSAUR_MEGA":       "SPECIES_VENUSAUR",
		"SPECIES_GROUDON_PRIMAL":      "SPECIES_GROUDON",
		"SPECIES_BUTTERFREE_GIGA":     "SPECIES_BUTTERFREE",
		"SPECIES_AEGISLASH_BLADE":     "SPECIES_AEGISLASH",
		"SPECIES_ETERNATUS_ETERNAMAX": "SPECIES_ETERNATUS",
		"SPECIES_UNOWN_QUESTION":      "SPECIES_UNOWN",
		"SPECIES_MEGANIUM":            "SPECIES_MEGANIUM",
		"SPECIES_PIKACHU":             "SPECIES_PIKACHU",
	}
	for in, want := range testCases {
		assert.Equal(t, want, BaseForm(in), in)
	}
}

func mustDecode(t *testing.T, data []byte) RawRecord {
	t.Helper()
	raw, err := Decode(data, 0)
	require.NoError(t, err)
	return raw
}
