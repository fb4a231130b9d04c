package stats

import (
	"fmt"
	"math/rand/v2"
	"strings"

	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// Subject is the part of a record ChangeAbility reads and rewrites
type Subject struct {
	Species       string
	Personality   uint32
	OtID          uint32
	HiddenAbility bool
}

var cloneAbilities = [][2]string{
	{"ABILITY_AIRLOCK", "ABILITY_CLOUDNINE"},
	{"ABILITY_WIMPOUT", "ABILITY_EMERGENCYEXIT"},
}

// IsCloneAbility reports whether two ability names share one in-game effect
// and are stored interchangeably by some games.
func IsCloneAbility(a, b string) bool {
	for _, pair := range cloneAbilities {
		if (a == pair[0] && b == pair[1]) || (a == pair[1] && b == pair[0]) {
			return true
		}
	}
	return false
}

// SameAbility compares ability names treating clones as equal
func SameAbility(a, b string) bool {
	return a == b || IsCloneAbility(a, b)
}

// ChangeAbility returns s moved to the requested ability slot. Slot 2 sets
// the hidden ability flag. Slots 0 and 1 draw new personalities until one
// selects the slot while keeping nature, gender, shininess and the Unown
// letter or Minior core. A slot 1 request for a species without a second
// ability returns s unchanged.
func (e *Engine) ChangeAbility(s Subject, slot int) (Subject, error) {
	orig := s
	switch slot {
	case 0, 1:
	case 2:
		s.HiddenAbility = true
		return s, nil
	default:
		return s, fmt.Errorf("%w: %d", saveerrors.ErrInvalidAbilitySlot, slot)
	}

	bs, ok := e.BaseStats(s.Species)
	if !ok {
		return s, nil
	}
	if slot == 1 && !hasAbility(bs.Ability2) {
		return s, nil
	}

	s.HiddenAbility = false
	if s.Personality&1 == uint32(slot) {
		return s, nil
	}

	keepUnown := strings.HasPrefix(s.Species, speciesUnown)
	keepMinior := strings.HasPrefix(s.Species, speciesMinior)

	want := struct {
		nature, letter, core int
		gender               string
		shiny                bool
	}{
		nature: Nature(s.Personality),
		letter: UnownLetter(s.Personality),
		core:   MiniorCore(s.Personality),
		gender: e.Gender(s.Species, s.Personality),
		shiny:  e.IsShiny(s.OtID, s.Personality),
	}
	xor := shinyValue(s.OtID, s.Personality)
	otFold := (s.OtID >> 16) ^ (s.OtID & 0xFFFF)

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		p := e.nextPersonality()&^1 | uint32(slot)
		if want.shiny {
			// keep the shiny XOR by deriving the upper half from the lower
			lo := p & 0xFFFF
			hi := (otFold ^ lo ^ xor) & 0xFFFF
			p = hi<<16 | lo
		}

		if Nature(p) != want.nature ||
			e.Gender(s.Species, p) != want.gender ||
			e.IsShiny(s.OtID, p) != want.shiny {
			continue
		}
		if keepUnown && UnownLetter(p) != want.letter {
			continue
		}
		if keepMinior && MiniorCore(p) != want.core {
			continue
		}

		e.logger.Trace("🎲 Personality rerolled for ability",
			"species", s.Species,
			"slot", slot,
			"attempts", attempt+1,
		)
		s.Personality = p
		return s, nil
	}

	e.logger.Warn("⚠️ Ability search exhausted", "species", s.Species, "slot", slot, "attempts", e.maxAttempts)
	return orig, fmt.Errorf("%w: %s slot %d after %d attempts",
		saveerrors.ErrAbilitySearchExhausted, s.Species, slot, e.maxAttempts)
}

func (e *Engine) nextPersonality() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rng == nil {
		return rand.Uint32()
	}
	return e.rng.Uint32()
}
