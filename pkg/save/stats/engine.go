// Package stats derives the values a game computes from a record's
// personality, species and experience: ability, gender, nature, shininess,
// level and the six battle stats.
package stats

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/savebox/go/savebox/pkg/config"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

const (
	AbilityNone = "ABILITY_NONE"

	GenderMale       = "M"
	GenderFemale     = "F"
	GenderGenderless = "U"

	MinLevel = 1
	MaxLevel = 100

	// UnownForms is the number of Unown letters including ! and ?
	UnownForms = 28

	speciesShedinja = "SPECIES_SHEDINJA"
	speciesUnown    = "SPECIES_UNOWN"
	speciesMinior   = "SPECIES_MINIOR"
)

// MiniorCores lists the core colours in personality order
var MiniorCores = []string{"RED", "BLUE", "ORANGE", "YELLOW", "INDIGO", "GREEN", "VIOLET"}

// Engine computes derived values against one game profile. It is safe for
// concurrent use.
type Engine struct {
	profile     *profile.GameProfile
	logger      hclog.Logger
	maxAttempts int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an engine with a null logger
func NewEngine(p *profile.GameProfile) *Engine {
	return NewEngineWithLogger(p, nil)
}

// NewEngineWithLogger creates an engine logging to logger
func NewEngineWithLogger(p *profile.GameProfile, logger hclog.Logger) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Engine{
		profile:     p,
		logger:      logger,
		maxAttempts: config.DefaultMaxAbilityAttempts,
	}
}

// SetRandSource makes ChangeAbility draw personalities from src
func (e *Engine) SetRandSource(src rand.Source) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if src == nil {
		e.rng = nil
		return
	}
	e.rng = rand.New(src)
}

// SetMaxAttempts bounds the personality search of ChangeAbility
func (e *Engine) SetMaxAttempts(n int) {
	if n > 0 {
		e.maxAttempts = n
	}
}

// Profile returns the profile the engine computes against
func (e *Engine) Profile() *profile.GameProfile {
	return e.profile
}

// BaseStats returns the species' base stat block
func (e *Engine) BaseStats(species string) (profile.BaseStats, bool) {
	bs, ok := e.profile.BaseStats[species]
	return bs, ok
}

// AbilitySlot returns 2 for an active hidden ability, 1 for the second
// ability and 0 otherwise.
func (e *Engine) AbilitySlot(species string, personality uint32, hiddenAbility bool) uint8 {
	bs, ok := e.BaseStats(species)
	if !ok {
		return 0
	}
	if hiddenAbility && hasAbility(bs.HiddenAbility) {
		return 2
	}
	if personality&1 == 0 || !hasAbility(bs.Ability2) {
		return 0
	}
	return 1
}

// Ability returns the ability name of the given slot selection
func (e *Engine) Ability(species string, personality uint32, hiddenAbility bool) string {
	bs, ok := e.BaseStats(species)
	if !ok {
		return AbilityNone
	}
	switch e.AbilitySlot(species, personality, hiddenAbility) {
	case 2:
		return bs.HiddenAbility
	case 1:
		return bs.Ability2
	default:
		return bs.Ability1
	}
}

// Gender returns M, F or U for the species and personality
func (e *Engine) Gender(species string, personality uint32) string {
	bs, ok := e.BaseStats(species)
	if !ok {
		return GenderGenderless
	}

	switch ratio := bs.GenderRatio; ratio {
	case "MON_MALE":
		return GenderMale
	case "MON_FEMALE":
		return GenderFemale
	case "MON_GENDERLESS":
		return GenderGenderless
	default:
		pct, ok := percentFemale(ratio)
		if !ok {
			e.logger.Warn("⚠️ Unknown gender ratio", "species", species, "ratio", ratio)
			return GenderGenderless
		}
		switch {
		case pct <= 0:
			return GenderMale
		case pct >= 100:
			return GenderFemale
		}
		threshold := min(254, int(pct*255/100))
		if threshold > int(personality&0xFF) {
			return GenderFemale
		}
		return GenderMale
	}
}

func percentFemale(ratio string) (float64, bool) {
	inner, ok := strings.CutPrefix(ratio, "PERCENT_FEMALE(")
	if !ok {
		return 0, false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return 0, false
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(inner), 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

// NatureName returns the nature table name for the personality
func (e *Engine) NatureName(personality uint32) string {
	name, _ := e.profile.Natures.Name(Nature(personality))
	return name
}

// IsShiny checks the record against the game's shiny odds
func (e *Engine) IsShiny(otID, personality uint32) bool {
	return IsShiny(otID, personality, e.profile.Details.ShinyOdds)
}

// IsShiny reports whether the XOR of the four personality and trainer id
// halves falls below odds.
func IsShiny(otID, personality, odds uint32) bool {
	return shinyValue(otID, personality) < odds
}

func shinyValue(otID, personality uint32) uint32 {
	return (otID >> 16) ^ (otID & 0xFFFF) ^ (personality >> 16) ^ (personality & 0xFFFF)
}

// Level returns the highest level whose experience threshold does not
// exceed experience, clamped to 1..100.
func (e *Engine) Level(species string, experience uint32) uint8 {
	bs, ok := e.BaseStats(species)
	if !ok {
		return MinLevel
	}
	curve, ok := e.profile.ExperienceCurves[bs.GrowthRate]
	if !ok || len(curve) <= MinLevel {
		return MinLevel
	}

	top := min(MaxLevel, len(curve)-1)
	// first level above experience, searched over MinLevel..top
	next := MinLevel + sort.Search(top-MinLevel+1, func(i int) bool {
		return curve[MinLevel+i] > experience
	})
	return uint8(max(MinLevel, min(MaxLevel, next-1)))
}

// Stat computes one battle stat
func (e *Engine) Stat(species string, level, nature int, iv, ev uint8, statID int) int {
	bs, ok := e.BaseStats(species)
	if !ok || statID < 0 || statID >= NumStats {
		return 0
	}
	base := bs.Base()[statID]
	raw := (2*base + int(iv) + int(ev)/4) * level / 100

	if statID == StatHP {
		if species == speciesShedinja {
			return 1
		}
		return raw + level + 10
	}
	return ModifyStatByNature(nature, raw+5, statID)
}

// Stats computes all six battle stats
func (e *Engine) Stats(species string, level, nature int, ivs, evs [NumStats]uint8) [NumStats]uint16 {
	var out [NumStats]uint16
	for i := range out {
		out[i] = uint16(e.Stat(species, level, nature, ivs[i], evs[i], i))
	}
	return out
}

// UnownLetter returns the letter index encoded in personality
func UnownLetter(personality uint32) int {
	v := ((personality & 0x3000000) >> 18) |
		((personality & 0x30000) >> 12) |
		((personality & 0x300) >> 6) |
		(personality & 0x3)
	return int(v % UnownForms)
}

// MiniorCore returns the index into MiniorCores encoded in personality
func MiniorCore(personality uint32) int {
	return int(personality % uint32(len(MiniorCores)))
}

func hasAbility(name string) bool {
	return name != "" && name != AbilityNone
}
