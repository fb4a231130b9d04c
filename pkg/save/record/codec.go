package record

import (
	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
	"github.com/provide-io/savebox/go/savebox/pkg/save/stats"
)

// Codec decodes and encodes records for one game
type Codec struct {
	profile *profile.GameProfile
	engine  *stats.Engine
	salt    string
	logger  hclog.Logger
}

// NewCodec creates a codec with a null logger
func NewCodec(p *profile.GameProfile, salt string) *Codec {
	return NewCodecWithLogger(p, salt, nil)
}

// NewCodecWithLogger creates a codec that hashes records with salt
func NewCodecWithLogger(p *profile.GameProfile, salt string, logger hclog.Logger) *Codec {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Codec{
		profile: p,
		engine:  stats.NewEngineWithLogger(p, logger.Named("stats")),
		salt:    salt,
		logger:  logger,
	}
}

// Engine returns the stat engine the codec derives values with
func (c *Codec) Engine() *stats.Engine {
	return c.engine
}

// Profile returns the game profile of the codec
func (c *Codec) Profile() *profile.GameProfile {
	return c.profile
}

// Checksum hashes rec with the codec's salt
func (c *Codec) Checksum(rec PokemonRecord) string {
	sum, err := Checksum(rec, c.salt)
	if err != nil {
		c.logger.Error("❌ Failed to checksum record", "species", rec.Species, "error", err)
		return ""
	}
	return sum
}

// Seal recomputes the derived fields of rec and stamps its checksum
func (c *Codec) Seal(rec PokemonRecord) PokemonRecord {
	c.derive(&rec)
	rec.Checksum = c.Checksum(rec)
	return rec
}

// Blank returns the canonical empty-slot record
func (c *Codec) Blank() PokemonRecord {
	rec := blankRecord()
	rec.Checksum = c.Checksum(rec)
	return rec
}

// Normalize resolves a raw record against the game's tables. Bad eggs and
// unknown species come back as the blank record.
func (c *Codec) Normalize(raw RawRecord) PokemonRecord {
	if raw.Sanity&sanityBadEgg != 0 {
		c.logger.Warn("🥚 Bad egg wiped", "personality", raw.Personality)
		return c.Blank()
	}

	species := SpeciesNone
	if name, ok := c.profile.Species.Name(int(raw.Species)); ok {
		species = BaseForm(name)
	}
	if species == SpeciesNone {
		return c.Blank()
	}

	ivs, egg, hidden := unpackIVs(raw.IVs)
	moves, pp := c.resolveMoves(unpackMoves(raw.Moves), unpackPPBonuses(raw.PPBonuses))
	met := unpackMetInfo(raw.MetInfo)

	rec := PokemonRecord{
		Personality:   raw.Personality,
		OtID:          raw.OtID,
		Language:      c.languageName(raw.Language),
		OtName:        c.profile.CharMap.Decode(raw.OtName[:]),
		Markings:      unpackMarkings(raw.Markings),
		Species:       species,
		Item:          lookupOr(c.profile.Items, int(raw.Item), ItemNone),
		Experience:    raw.Experience,
		PPBonuses:     pp,
		Friendship:    raw.Friendship,
		PokeBall:      lookupOr(c.profile.BallTypes, int(raw.PokeBall), BallPokeBall),
		Moves:         moves,
		Pokerus:       raw.Pokerus,
		MetLocation:   raw.MetLocation,
		IVs:           ivs,
		EVs:           raw.EVs,
		IsEgg:         egg,
		HiddenAbility: hidden,
		Gigantamax:    met.Gigantamax,
		MetLevel:      met.Level,
		MetGame:       c.profile.MonOriginalGameName(met.Game),
		OtGender:      stats.GenderMale,
		Sanity:        raw.Sanity,
	}
	if !egg {
		rec.Nickname = c.profile.CharMap.Decode(raw.Nickname[:])
	}
	if met.OtFemale {
		rec.OtGender = stats.GenderFemale
	}

	rec = c.Seal(rec)
	c.logger.Trace("🧬 Record decoded",
		"species", rec.Species,
		"level", rec.Level,
		"nickname", rec.Nickname,
	)
	return rec
}

// derive fills the fields computed from personality, species and experience
func (c *Codec) derive(rec *PokemonRecord) {
	e := c.engine
	rec.Shiny = e.IsShiny(rec.OtID, rec.Personality)

	if _, ok := e.BaseStats(rec.Species); !ok {
		rec.AbilitySlot = 0
		rec.Gender = stats.GenderGenderless
		rec.Level = stats.MinLevel
		rec.Nature = NatureHardy
		rec.RawStats = [stats.NumStats]uint16{}
		return
	}

	nature := stats.Nature(rec.Personality)
	rec.AbilitySlot = e.AbilitySlot(rec.Species, rec.Personality, rec.HiddenAbility)
	rec.Gender = e.Gender(rec.Species, rec.Personality)
	rec.Level = e.Level(rec.Species, rec.Experience)
	rec.Nature = e.NatureName(rec.Personality)
	rec.RawStats = e.Stats(rec.Species, int(rec.Level), nature, rec.IVs, rec.EVs)
}

// resolveMoves names the known move ids, dropping unknown ones together
// with their PP bonus. A record left without moves gets Pound.
func (c *Codec) resolveMoves(ids [MaxMoves]uint16, pp [MaxMoves]uint8) ([]string, [MaxMoves]uint8) {
	moves := make([]string, 0, MaxMoves)
	var bonuses [MaxMoves]uint8
	for i, id := range ids {
		name, ok := c.profile.Moves.Name(int(id))
		if !ok {
			continue
		}
		bonuses[len(moves)] = pp[i]
		moves = append(moves, name)
	}

	if len(moves) == 0 {
		return []string{MovePound, MoveNone, MoveNone, MoveNone}, [MaxMoves]uint8{}
	}
	for len(moves) < MaxMoves {
		moves = append(moves, MoveNone)
	}
	return moves, bonuses
}

func (c *Codec) languageName(id uint8) string {
	name, ok := c.profile.Languages.Name(int(id))
	if !ok || name == "" {
		return LanguageEnglish
	}
	return name
}

func lookupOr(t *profile.NameTable, id int, fallback string) string {
	if name, ok := t.Name(id); ok {
		return name
	}
	return fallback
}

// DecodeAll normalizes every record of the assembled box bytes
func (c *Codec) DecodeAll(allBoxes []byte) []PokemonRecord {
	records := make([]PokemonRecord, 0, len(allBoxes)/Size)
	for offset := 0; offset+Size <= len(allBoxes); offset += Size {
		raw, err := Decode(allBoxes, offset)
		if err != nil {
			c.logger.Error("❌ Failed to decode record", "offset", offset, "error", err)
			records = append(records, c.Blank())
			continue
		}
		records = append(records, c.Normalize(raw))
	}

	c.logger.Debug("📦 Box records decoded", "count", len(records))
	return records
}

// EncodeAll compresses records back to back
func (c *Codec) EncodeAll(records []PokemonRecord) []byte {
	out := make([]byte, 0, len(records)*Size)
	for _, rec := range records {
		data := c.ToCompressed(rec)
		out = append(out, data[:]...)
	}
	return out
}
