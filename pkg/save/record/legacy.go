package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/provide-io/savebox/go/savebox/pkg/save/stats"
)

// LegacyRecord is the record layout of the first cloud export format, which
// kept several fields in their packed form.
type LegacyRecord struct {
	Personality   uint32   `json:"personality"`
	OtID          uint32   `json:"otId"`
	Nickname      string   `json:"nickname"`
	Language      flexInt  `json:"language"`
	Sanity        uint8    `json:"sanity"`
	OtName        string   `json:"otName"`
	Markings      uint8    `json:"markings"`
	Species       string   `json:"species"`
	Item          string   `json:"item"`
	Experience    uint32   `json:"experience"`
	PPBonuses     uint8    `json:"ppBonuses"`
	Friendship    uint8    `json:"friendship"`
	PokeBall      string   `json:"pokeBall"`
	Moves         []string `json:"moves"`
	HpEv          uint8    `json:"hpEv"`
	AtkEv         uint8    `json:"atkEv"`
	DefEv         uint8    `json:"defEv"`
	SpdEv         uint8    `json:"spdEv"`
	SpAtkEv       uint8    `json:"spAtkEv"`
	SpDefEv       uint8    `json:"spDefEv"`
	Pokerus       uint8    `json:"pokerus"`
	MetLocation   uint8    `json:"metLocaton"`
	MetInfo       uint16   `json:"metInfo"`
	IVs           []int    `json:"ivs"`
	IsEgg         flexBool `json:"isEgg"`
	HiddenAbility flexBool `json:"hiddenAbility"`
	Gigantamax    flexBool `json:"gigantamax"`
	Ability       string   `json:"ability"`
}

// flexBool accepts true/false as well as the 0/1 integers of old exports
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch s := string(bytes.TrimSpace(data)); s {
	case "true":
		*b = true
	case "false", "null", "":
		*b = false
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("expected bool, got %s", s)
		}
		*b = n != 0
	}
	return nil
}

// flexInt accepts an id or a quoted id; anything else reads as -1
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		*n = -1
		return nil
	}
	*n = flexInt(v)
	return nil
}

// IsCurrentFormat reports whether a JSON record object already uses the
// current layout: it carries a checksum and no packed met info.
func IsCurrentFormat(obj map[string]json.RawMessage) bool {
	_, hasChecksum := obj["checksum"]
	_, hasMetInfo := obj["metInfo"]
	return hasChecksum && !hasMetInfo
}

// ConvertLegacy turns an old-format record into a sealed current record
func (c *Codec) ConvertLegacy(old LegacyRecord) PokemonRecord {
	species := BaseForm(old.Species)
	if species == "" || species == SpeciesNone || old.Sanity&sanityBadEgg != 0 {
		return c.Blank()
	}

	var ivs [stats.NumStats]uint8
	for i := 0; i < len(ivs) && i < len(old.IVs); i++ {
		ivs[i] = uint8(old.IVs[i] & ivMask)
	}
	moves, pp := c.resolveMoves(c.moveIDs(old.Moves, unpackPPBonuses(old.PPBonuses)))
	met := unpackMetInfo(old.MetInfo)

	language := LanguageEnglish
	if old.Language >= 0 && old.Language <= 0xFF {
		language = c.languageName(uint8(old.Language))
	}

	rec := PokemonRecord{
		Personality:   old.Personality,
		OtID:          old.OtID,
		Language:      language,
		OtName:        old.OtName,
		Markings:      unpackMarkings(old.Markings),
		Species:       species,
		Item:          knownOr(c.profile.Items.Has(old.Item), old.Item, ItemNone),
		Experience:    old.Experience,
		PPBonuses:     pp,
		Friendship:    old.Friendship,
		PokeBall:      knownOr(c.profile.BallTypes.Has(old.PokeBall), old.PokeBall, BallPokeBall),
		Moves:         moves,
		Pokerus:       old.Pokerus,
		MetLocation:   old.MetLocation,
		IVs:           ivs,
		EVs:           [stats.NumStats]uint8{old.HpEv, old.AtkEv, old.DefEv, old.SpdEv, old.SpAtkEv, old.SpDefEv},
		IsEgg:         bool(old.IsEgg),
		HiddenAbility: bool(old.HiddenAbility),
		Gigantamax:    bool(old.Gigantamax) || met.Gigantamax,
		MetLevel:      met.Level,
		MetGame:       c.profile.MonOriginalGameName(met.Game),
		OtGender:      stats.GenderMale,
		Sanity:        old.Sanity,
	}
	if !rec.IsEgg {
		rec.Nickname = old.Nickname
	}
	if met.OtFemale {
		rec.OtGender = stats.GenderFemale
	}

	if slot, ok := c.slotOfAbility(species, old.Ability); ok {
		c.derive(&rec)
		if rec.AbilitySlot != slot {
			changed, err := c.engine.ChangeAbility(stats.Subject{
				Species:       rec.Species,
				Personality:   rec.Personality,
				OtID:          rec.OtID,
				HiddenAbility: rec.HiddenAbility,
			}, int(slot))
			if err != nil {
				c.logger.Warn("⚠️ Legacy ability kept", "species", species, "ability", old.Ability, "error", err)
			} else {
				rec.Personality = changed.Personality
				rec.HiddenAbility = changed.HiddenAbility
			}
		}
	}

	return c.Seal(rec)
}

// slotOfAbility finds which slot of species holds ability, matching clone
// abilities too. Hidden abilities are checked first.
func (c *Codec) slotOfAbility(species, ability string) (uint8, bool) {
	bs, ok := c.engine.BaseStats(species)
	if !ok || ability == "" {
		return 0, false
	}
	for _, candidate := range []struct {
		slot uint8
		name string
	}{
		{2, bs.HiddenAbility},
		{0, bs.Ability1},
		{1, bs.Ability2},
	} {
		if candidate.name != "" && candidate.name != stats.AbilityNone && stats.SameAbility(ability, candidate.name) {
			return candidate.slot, true
		}
	}
	return 0, false
}

func knownOr(known bool, name, fallback string) string {
	if known {
		return name
	}
	return fallback
}
