package record

import "github.com/provide-io/savebox/go/savebox/pkg/save/stats"

// Names used for missing or unknown values
const (
	SpeciesNone     = "SPECIES_NONE"
	ItemNone        = "ITEM_NONE"
	MoveNone        = "MOVE_NONE"
	MovePound       = "MOVE_POUND"
	BallPokeBall    = "BALL_TYPE_POKE_BALL"
	LanguageEnglish = "LANGUAGE_ENGLISH"
	NatureHardy     = "NATURE_HARDY"
)

// PokemonRecord is the decoded form of one box slot as exchanged with
// clients. Checksum covers every field except Markings and
// WonderTradeTimestamp.
type PokemonRecord struct {
	Personality          uint32                 `json:"personality"`
	OtID                 uint32                 `json:"otId"`
	Nickname             string                 `json:"nickname"`
	Language             string                 `json:"language"`
	OtName               string                 `json:"otName"`
	Markings             [numMarkings]bool      `json:"markings"`
	Species              string                 `json:"species"`
	Item                 string                 `json:"item"`
	Experience           uint32                 `json:"experience"`
	PPBonuses            [MaxMoves]uint8        `json:"ppBonuses"`
	Friendship           uint8                  `json:"friendship"`
	PokeBall             string                 `json:"pokeBall"`
	Moves                []string               `json:"moves"`
	Pokerus              uint8                  `json:"pokerus"`
	MetLocation          uint8                  `json:"metLocation"`
	IVs                  [stats.NumStats]uint8  `json:"ivs"`
	EVs                  [stats.NumStats]uint8  `json:"evs"`
	IsEgg                bool                   `json:"isEgg"`
	HiddenAbility        bool                   `json:"hiddenAbility"`
	Gigantamax           bool                   `json:"gigantamax"`
	Shiny                bool                   `json:"shiny"`
	AbilitySlot          uint8                  `json:"abilitySlot"`
	Gender               string                 `json:"gender"`
	Level                uint8                  `json:"level"`
	Nature               string                 `json:"nature"`
	NatureMint           *uint8                 `json:"natureMint,omitempty"`
	MetLevel             uint8                  `json:"metLevel"`
	MetGame              string                 `json:"metGame"`
	OtGender             string                 `json:"otGender"`
	RawStats             [stats.NumStats]uint16 `json:"rawStats"`
	Sanity               uint8                  `json:"sanity,omitempty"`
	Checksum             string                 `json:"checksum"`
	WonderTradeTimestamp *int64                 `json:"wonderTradeTimestamp,omitempty"`
}

// IsBlank reports whether the record holds no Pokémon
func (r PokemonRecord) IsBlank() bool {
	return r.Species == "" || r.Species == SpeciesNone
}

// blankRecord is the record of an empty box slot without its checksum
func blankRecord() PokemonRecord {
	return PokemonRecord{
		Language: LanguageEnglish,
		Species:  SpeciesNone,
		Item:     ItemNone,
		PokeBall: BallPokeBall,
		Moves:    []string{MoveNone, MoveNone, MoveNone, MoveNone},
		Gender:   stats.GenderGenderless,
		Level:    stats.MinLevel,
		Nature:   NatureHardy,
		OtGender: stats.GenderMale,
	}
}
