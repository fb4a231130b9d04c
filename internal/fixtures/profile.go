// Package fixtures builds small in-memory game profiles and save images for tests
package fixtures

import (
	"fmt"

	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

// Species ids used by the fixture tables
const (
	SpeciesNone           = 0
	SpeciesBulbasaur      = 1
	SpeciesVenusaur       = 3
	SpeciesCharizard      = 6
	SpeciesPikachu        = 25
	SpeciesMachamp        = 68
	SpeciesGengar         = 94
	SpeciesTauros         = 128
	SpeciesUnown          = 201
	SpeciesMiltank        = 241
	SpeciesShedinja       = 303
	SpeciesUnownB         = 413
	SpeciesUnownC         = 414
	SpeciesCherrim        = 421
	SpeciesMiniorShield   = 774
	SpeciesPheromosa      = 795
	SpeciesVenusaurMega   = 1000
	SpeciesCherrimSun     = 1001
	SpeciesCharizardMegaX = 1002
	SpeciesMissingNo      = 1200
)

// Move and item ids used by the fixture tables
const (
	MovePound       = 1
	MoveVineWhip    = 22
	MoveTackle      = 33
	MoveGrowl       = 45
	MoveLeechSeed   = 73
	MoveSolarBeam   = 76
	MoveThunderbolt = 85
	MoveDoubleEdge  = 38
	MoveSludgeBomb  = 188
	MoveSynthesis   = 235

	ItemPotion    = 13
	ItemLeftovers = 200
)

var speciesNames = map[int]string{
	SpeciesNone:           "SPECIES_NONE",
	SpeciesBulbasaur:      "SPECIES_BULBASAUR",
	SpeciesVenusaur:       "SPECIES_VENUSAUR",
	SpeciesCharizard:      "SPECIES_CHARIZARD",
	SpeciesPikachu:        "SPECIES_PIKACHU",
	SpeciesMachamp:        "SPECIES_MACHAMP",
	SpeciesGengar:         "SPECIES_GENGAR",
	SpeciesTauros:         "SPECIES_TAUROS",
	SpeciesUnown:          "SPECIES_UNOWN",
	SpeciesMiltank:        "SPECIES_MILTANK",
	SpeciesShedinja:       "SPECIES_SHEDINJA",
	SpeciesUnownB:         "SPECIES_UNOWN_B",
	SpeciesUnownC:         "SPECIES_UNOWN_C",
	SpeciesCherrim:        "SPECIES_CHERRIM",
	SpeciesMiniorShield:   "SPECIES_MINIOR_SHIELD",
	SpeciesPheromosa:      "SPECIES_PHEROMOSA",
	SpeciesVenusaurMega:   "SPECIES_VENUSAUR_MEGA",
	SpeciesCherrimSun:     "SPECIES_CHERRIM_SUN",
	SpeciesCharizardMegaX: "SPECIES_CHARIZARD_MEGA_X",
	SpeciesMissingNo:      "SPECIES_MISSINGNO",
}

var moveNames = map[int]string{
	0:               "MOVE_NONE",
	MovePound:       "MOVE_POUND",
	MoveVineWhip:    "MOVE_VINEWHIP",
	MoveTackle:      "MOVE_TACKLE",
	MoveGrowl:       "MOVE_GROWL",
	MoveLeechSeed:   "MOVE_LEECHSEED",
	MoveSolarBeam:   "MOVE_SOLARBEAM",
	MoveThunderbolt: "MOVE_THUNDERBOLT",
	MoveDoubleEdge:  "MOVE_DOUBLEEDGE",
	MoveSludgeBomb:  "MOVE_SLUDGEBOMB",
	MoveSynthesis:   "MOVE_SYNTHESIS",
	660:             "MOVE_FIRST_IMPRESSION",
}

var itemNames = map[int]string{
	0:             "ITEM_NONE",
	1:             "ITEM_MASTER_BALL",
	ItemPotion:    "ITEM_POTION",
	ItemLeftovers: "ITEM_LEFTOVERS",
}

// BallTypes is the ball table in id order
var BallTypes = []string{
	"BALL_TYPE_MASTER_BALL",
	"BALL_TYPE_ULTRA_BALL",
	"BALL_TYPE_GREAT_BALL",
	"BALL_TYPE_POKE_BALL",
	"BALL_TYPE_SAFARI_BALL",
	"BALL_TYPE_NET_BALL",
	"BALL_TYPE_DIVE_BALL",
	"BALL_TYPE_NEST_BALL",
	"BALL_TYPE_REPEAT_BALL",
	"BALL_TYPE_TIMER_BALL",
	"BALL_TYPE_LUXURY_BALL",
	"BALL_TYPE_PREMIER_BALL",
}

// Natures is the nature table in id order
var Natures = []string{
	"NATURE_HARDY", "NATURE_LONELY", "NATURE_BRAVE", "NATURE_ADAMANT", "NATURE_NAUGHTY",
	"NATURE_BOLD", "NATURE_DOCILE", "NATURE_RELAXED", "NATURE_IMPISH", "NATURE_LAX",
	"NATURE_TIMID", "NATURE_HASTY", "NATURE_SERIOUS", "NATURE_JOLLY", "NATURE_NAIVE",
	"NATURE_MODEST", "NATURE_MILD", "NATURE_QUIET", "NATURE_BASHFUL", "NATURE_RASH",
	"NATURE_CALM", "NATURE_GENTLE", "NATURE_SASSY", "NATURE_CAREFUL", "NATURE_QUIRKY",
}

// Languages is the language table in id order
var Languages = []string{
	"",
	"LANGUAGE_JAPANESE",
	"LANGUAGE_ENGLISH",
	"LANGUAGE_FRENCH",
	"LANGUAGE_ITALIAN",
	"LANGUAGE_GERMAN",
	"LANGUAGE_KOREAN",
	"LANGUAGE_SPANISH",
}

var dexNames = map[int]string{
	1:   "NATIONAL_DEX_BULBASAUR",
	3:   "NATIONAL_DEX_VENUSAUR",
	6:   "NATIONAL_DEX_CHARIZARD",
	25:  "NATIONAL_DEX_PIKACHU",
	68:  "NATIONAL_DEX_MACHAMP",
	94:  "NATIONAL_DEX_GENGAR",
	128: "NATIONAL_DEX_TAUROS",
	201: "NATIONAL_DEX_UNOWN",
	241: "NATIONAL_DEX_MILTANK",
	292: "NATIONAL_DEX_SHEDINJA",
	421: "NATIONAL_DEX_CHERRIM",
	774: "NATIONAL_DEX_MINIOR",
	795: "NATIONAL_DEX_PHEROMOSA",
}

var speciesToDex = map[string]string{
	"SPECIES_BULBASAUR":        "NATIONAL_DEX_BULBASAUR",
	"SPECIES_VENUSAUR":         "NATIONAL_DEX_VENUSAUR",
	"SPECIES_VENUSAUR_MEGA":    "NATIONAL_DEX_VENUSAUR",
	"SPECIES_CHARIZARD":        "NATIONAL_DEX_CHARIZARD",
	"SPECIES_CHARIZARD_MEGA_X": "NATIONAL_DEX_CHARIZARD",
	"SPECIES_PIKACHU":          "NATIONAL_DEX_PIKACHU",
	"SPECIES_MACHAMP":          "NATIONAL_DEX_MACHAMP",
	"SPECIES_GENGAR":           "NATIONAL_DEX_GENGAR",
	"SPECIES_TAUROS":           "NATIONAL_DEX_TAUROS",
	"SPECIES_UNOWN":            "NATIONAL_DEX_UNOWN",
	"SPECIES_UNOWN_B":          "NATIONAL_DEX_UNOWN",
	"SPECIES_UNOWN_C":          "NATIONAL_DEX_UNOWN",
	"SPECIES_MILTANK":          "NATIONAL_DEX_MILTANK",
	"SPECIES_SHEDINJA":         "NATIONAL_DEX_SHEDINJA",
	"SPECIES_CHERRIM":          "NATIONAL_DEX_CHERRIM",
	"SPECIES_CHERRIM_SUN":      "NATIONAL_DEX_CHERRIM",
	"SPECIES_MINIOR_SHIELD":    "NATIONAL_DEX_MINIOR",
	"SPECIES_PHEROMOSA":        "NATIONAL_DEX_PHEROMOSA",
}

func stats(hp, atk, def, spa, spd, spe int, t1, t2, gender, growth, a1, a2, hidden string) profile.BaseStats {
	return profile.BaseStats{
		BaseHP: hp, BaseAttack: atk, BaseDefense: def,
		BaseSpAttack: spa, BaseSpDefense: spd, BaseSpeed: spe,
		Type1: t1, Type2: t2,
		GenderRatio: gender, GrowthRate: growth,
		Ability1: a1, Ability2: a2, HiddenAbility: hidden,
	}
}

var baseStats = map[string]profile.BaseStats{
	"SPECIES_BULBASAUR": stats(45, 49, 49, 65, 65, 45, "TYPE_GRASS", "TYPE_POISON",
		"PERCENT_FEMALE(12.5)", "GROWTH_MEDIUM_SLOW", "ABILITY_OVERGROW", "ABILITY_NONE", "ABILITY_CHLOROPHYLL"),
	"SPECIES_VENUSAUR": stats(80, 82, 83, 100, 100, 80, "TYPE_GRASS", "TYPE_POISON",
		"PERCENT_FEMALE(12.5)", "GROWTH_MEDIUM_SLOW", "ABILITY_OVERGROW", "ABILITY_NONE", "ABILITY_CHLOROPHYLL"),
	"SPECIES_VENUSAUR_MEGA": stats(80, 100, 123, 122, 120, 80, "TYPE_GRASS", "TYPE_POISON",
		"PERCENT_FEMALE(12.5)", "GROWTH_MEDIUM_SLOW", "ABILITY_THICKFAT", "ABILITY_NONE", "ABILITY_NONE"),
	"SPECIES_CHARIZARD": stats(78, 84, 78, 109, 85, 100, "TYPE_FIRE", "TYPE_FLYING",
		"PERCENT_FEMALE(12.5)", "GROWTH_MEDIUM_SLOW", "ABILITY_BLAZE", "ABILITY_NONE", "ABILITY_SOLARPOWER"),
	"SPECIES_PIKACHU": stats(35, 55, 40, 50, 50, 90, "TYPE_ELECTRIC", "TYPE_ELECTRIC",
		"PERCENT_FEMALE(50)", "GROWTH_MEDIUM_FAST", "ABILITY_STATIC", "ABILITY_NONE", "ABILITY_LIGHTNINGROD"),
	"SPECIES_MACHAMP": stats(90, 130, 80, 65, 85, 55, "TYPE_FIGHTING", "TYPE_FIGHTING",
		"PERCENT_FEMALE(25)", "GROWTH_MEDIUM_SLOW", "ABILITY_GUTS", "ABILITY_NOGUARD", "ABILITY_STEADFAST"),
	"SPECIES_GENGAR": stats(60, 65, 60, 130, 75, 110, "TYPE_GHOST", "TYPE_POISON",
		"PERCENT_FEMALE(50)", "GROWTH_MEDIUM_SLOW", "ABILITY_CURSEDBODY", "ABILITY_NONE", "ABILITY_NONE"),
	"SPECIES_TAUROS": stats(75, 100, 95, 40, 70, 110, "TYPE_NORMAL", "TYPE_NORMAL",
		"MON_MALE", "GROWTH_SLOW", "ABILITY_INTIMIDATE", "ABILITY_ANGERPOINT", "ABILITY_SHEERFORCE"),
	"SPECIES_UNOWN": stats(48, 72, 48, 72, 48, 48, "TYPE_PSYCHIC", "TYPE_PSYCHIC",
		"MON_GENDERLESS", "GROWTH_MEDIUM_FAST", "ABILITY_LEVITATE", "ABILITY_NONE", "ABILITY_NONE"),
	"SPECIES_MILTANK": stats(95, 80, 105, 40, 70, 100, "TYPE_NORMAL", "TYPE_NORMAL",
		"MON_FEMALE", "GROWTH_SLOW", "ABILITY_THICKFAT", "ABILITY_SCRAPPY", "ABILITY_SAPSIPPER"),
	"SPECIES_SHEDINJA": stats(1, 90, 45, 30, 30, 40, "TYPE_BUG", "TYPE_GHOST",
		"MON_GENDERLESS", "GROWTH_MEDIUM_FAST", "ABILITY_WONDERGUARD", "ABILITY_NONE", "ABILITY_NONE"),
	"SPECIES_CHERRIM": stats(70, 60, 70, 87, 78, 85, "TYPE_GRASS", "TYPE_GRASS",
		"PERCENT_FEMALE(50)", "GROWTH_MEDIUM_FAST", "ABILITY_FLOWERGIFT", "ABILITY_NONE", "ABILITY_NONE"),
	"SPECIES_CHERRIM_SUN": stats(70, 60, 70, 87, 78, 85, "TYPE_GRASS", "TYPE_GRASS",
		"PERCENT_FEMALE(50)", "GROWTH_MEDIUM_FAST", "ABILITY_FLOWERGIFT", "ABILITY_NONE", "ABILITY_NONE"),
	"SPECIES_MINIOR_SHIELD": stats(60, 60, 100, 60, 100, 60, "TYPE_ROCK", "TYPE_FLYING",
		"MON_GENDERLESS", "GROWTH_MEDIUM_SLOW", "ABILITY_SHIELDSDOWN", "ABILITY_SHIELDSDOWN", "ABILITY_NONE"),
	"SPECIES_PHEROMOSA": stats(71, 137, 37, 137, 37, 151, "TYPE_BUG", "TYPE_FIGHTING",
		"MON_GENDERLESS", "GROWTH_SLOW", "ABILITY_BEASTBOOST", "ABILITY_NONE", "ABILITY_NONE"),
}

// GrowthCurves returns cumulative experience tables indexed by level 0..100
func GrowthCurves() map[string][]uint32 {
	formulas := map[string]func(n int) int{
		"GROWTH_MEDIUM_FAST": func(n int) int { return n * n * n },
		"GROWTH_MEDIUM_SLOW": func(n int) int { return 6*n*n*n/5 - 15*n*n + 100*n - 140 },
		"GROWTH_FAST":        func(n int) int { return 4 * n * n * n / 5 },
		"GROWTH_SLOW":        func(n int) int { return 5 * n * n * n / 4 },
	}

	curves := make(map[string][]uint32, len(formulas))
	for name, f := range formulas {
		curve := make([]uint32, 101)
		for level := 2; level <= 100; level++ {
			curve[level] = uint32(f(level))
		}
		curves[name] = curve
	}
	return curves
}

// CharMap returns the English subset of the game encoding
func CharMap() *profile.CharMap {
	glyphs := map[byte]string{
		0x00: " ",
		0x1B: "é",
		0xAB: "!",
		0xAC: "?",
		0xAD: ".",
		0xAE: "-",
		0xB4: "'",
		0xEF: "▶",
	}
	for i := 0; i < 10; i++ {
		glyphs[byte(0xA1+i)] = string(rune('0' + i))
	}
	for i := 0; i < 26; i++ {
		glyphs[byte(0xBB+i)] = string(rune('A' + i))
		glyphs[byte(0xD5+i)] = string(rune('a' + i))
	}
	return profile.NewCharMap(glyphs)
}

// Tables returns fresh copies of the fixture tables
func Tables() profile.Tables {
	bs := make(map[string]profile.BaseStats, len(baseStats))
	for k, v := range baseStats {
		bs[k] = v
	}
	s2d := make(map[string]string, len(speciesToDex))
	for k, v := range speciesToDex {
		s2d[k] = v
	}

	return profile.Tables{
		Species:          profile.NewNameTable(speciesNames),
		Moves:            profile.NewNameTable(moveNames),
		Items:            profile.NewNameTable(itemNames),
		BallTypes:        profile.NewNameList(BallTypes),
		Natures:          profile.NewNameList(Natures),
		Languages:        profile.NewNameList(Languages),
		DexNums:          profile.NewNameTable(dexNames),
		SpeciesToDex:     s2d,
		BaseStats:        bs,
		ExperienceCurves: GrowthCurves(),
		CharMap:          CharMap(),
	}
}

// Profile returns a fixture profile for a built-in signature
func Profile(signature uint32) *profile.GameProfile {
	p, err := profile.New(profile.DefaultRegistry(), signature, Tables())
	if err != nil {
		panic(fmt.Sprintf("fixture profile 0x%08X: %v", signature, err))
	}
	return p
}

// Profiles serves fixture profiles by signature, in place of a Loader
type Profiles struct{}

// Load builds a fresh fixture profile for signature
func (Profiles) Load(signature uint32) (*profile.GameProfile, error) {
	return profile.New(profile.DefaultRegistry(), signature, Tables())
}
