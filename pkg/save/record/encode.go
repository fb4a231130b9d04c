package record

import (
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
	"github.com/provide-io/savebox/go/savebox/pkg/save/stats"
)

// ToCompressed packs rec into its stored form. Blank records, records
// without a checksum and records whose checksum does not match their
// fields all encode as 58 zero bytes.
func (c *Codec) ToCompressed(rec PokemonRecord) [Size]byte {
	var empty [Size]byte
	if rec.IsBlank() {
		return empty
	}
	if rec.Checksum == "" {
		c.logger.Warn("⚠️ Record without checksum dropped", "species", rec.Species)
		return empty
	}
	if sum := c.Checksum(rec); sum != rec.Checksum {
		c.logger.Warn("⚠️ Record checksum mismatch, slot cleared",
			"species", rec.Species,
			"stored", rec.Checksum,
			"computed", sum,
		)
		return empty
	}

	speciesID, ok := c.profile.Species.ID(rec.Species)
	if !ok {
		c.logger.Warn("⚠️ Species unknown to this game, slot cleared", "species", rec.Species)
		return empty
	}

	personality, hidden := c.fixAbility(rec)
	moves, pp := c.moveIDs(rec.Moves, rec.PPBonuses)

	raw := RawRecord{
		Personality: personality,
		OtID:        rec.OtID,
		Language:    c.languageID(rec.Language),
		Sanity:      rec.Sanity &^ sanityBadEgg,
		Markings:    packMarkings(rec.Markings),
		Species:     uint16(speciesID),
		Item:        uint16(idOr(c.profile.Items, rec.Item, 0)),
		Experience:  rec.Experience,
		PPBonuses:   packPPBonuses(pp),
		Friendship:  rec.Friendship,
		PokeBall:    uint8(c.ballID(rec.PokeBall)),
		Moves:       packMoves(moves),
		EVs:         rec.EVs,
		Pokerus:     rec.Pokerus,
		MetLocation: rec.MetLocation,
		MetInfo: metInfo{
			Level:      rec.MetLevel,
			Game:       c.profile.MetIDToBeSaved(rec.MetGame),
			Gigantamax: rec.Gigantamax,
			OtFemale:   rec.OtGender == stats.GenderFemale,
		}.pack(),
		IVs: packIVs(rec.IVs, rec.IsEgg, hidden),
	}
	copy(raw.Nickname[:], c.profile.CharMap.Encode(rec.Nickname, NicknameLength))
	copy(raw.OtName[:], c.profile.CharMap.Encode(rec.OtName, OtNameLength))

	return raw.Bytes()
}

// fixAbility moves the record to the ability slot it asks for when its
// personality and hidden flag select a different one.
func (c *Codec) fixAbility(rec PokemonRecord) (uint32, bool) {
	e := c.engine
	if _, ok := e.BaseStats(rec.Species); !ok || rec.AbilitySlot > 2 {
		return rec.Personality, rec.HiddenAbility
	}
	if e.AbilitySlot(rec.Species, rec.Personality, rec.HiddenAbility) == rec.AbilitySlot {
		return rec.Personality, rec.HiddenAbility
	}

	subject, err := e.ChangeAbility(stats.Subject{
		Species:       rec.Species,
		Personality:   rec.Personality,
		OtID:          rec.OtID,
		HiddenAbility: rec.HiddenAbility,
	}, int(rec.AbilitySlot))
	if err != nil {
		c.logger.Warn("⚠️ Ability slot kept", "species", rec.Species, "slot", rec.AbilitySlot, "error", err)
		return rec.Personality, rec.HiddenAbility
	}
	c.logger.Debug("🔁 Ability slot changed", "species", rec.Species, "slot", rec.AbilitySlot)
	return subject.Personality, subject.HiddenAbility
}

// moveIDs resolves move names, dropping unknown ones with their PP bonus
func (c *Codec) moveIDs(names []string, pp [MaxMoves]uint8) ([MaxMoves]uint16, [MaxMoves]uint8) {
	var ids [MaxMoves]uint16
	var bonuses [MaxMoves]uint8
	n := 0
	for i, name := range names {
		if n == MaxMoves {
			break
		}
		id, ok := c.profile.Moves.ID(name)
		if !ok {
			continue
		}
		ids[n] = uint16(id)
		if i < MaxMoves {
			bonuses[n] = pp[i]
		}
		n++
	}

	if n == 0 {
		if id, ok := c.profile.Moves.ID(MovePound); ok {
			ids[0] = uint16(id)
		}
	}
	return ids, bonuses
}

func (c *Codec) languageID(name string) uint8 {
	if id, ok := c.profile.Languages.ID(name); ok && name != "" {
		return uint8(id)
	}
	return uint8(idOr(c.profile.Languages, LanguageEnglish, 0))
}

func (c *Codec) ballID(name string) int {
	if id, ok := c.profile.BallTypes.ID(name); ok {
		return id
	}
	return idOr(c.profile.BallTypes, BallPokeBall, 0)
}

func idOr(t *profile.NameTable, name string, fallback int) int {
	if id, ok := t.ID(name); ok {
		return id
	}
	return fallback
}
