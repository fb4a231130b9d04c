package stats

// Stat indices in record order
const (
	StatHP = iota
	StatAttack
	StatDefense
	StatSpeed
	StatSpAttack
	StatSpDefense

	NumStats
)

// NumNatures is the number of natures a personality can select
const NumNatures = 25

// natureEffects holds the +1/-1/0 modifier each nature applies to Attack,
// Defense, Speed, Sp. Attack and Sp. Defense, indexed by nature id.
var natureEffects = [NumNatures][NumStats - 1]int8{
	{0, 0, 0, 0, 0},   // Hardy
	{+1, -1, 0, 0, 0}, // Lonely
	{+1, 0, -1, 0, 0}, // Brave
	{+1, 0, 0, -1, 0}, // Adamant
	{+1, 0, 0, 0, -1}, // Naughty
	{-1, +1, 0, 0, 0}, // Bold
	{0, 0, 0, 0, 0},   // Docile
	{0, +1, -1, 0, 0}, // Relaxed
	{0, +1, 0, -1, 0}, // Impish
	{0, +1, 0, 0, -1}, // Lax
	{-1, 0, +1, 0, 0}, // Timid
	{0, -1, +1, 0, 0}, // Hasty
	{0, 0, 0, 0, 0},   // Serious
	{0, 0, +1, -1, 0}, // Jolly
	{0, 0, +1, 0, -1}, // Naive
	{-1, 0, 0, +1, 0}, // Modest
	{0, -1, 0, +1, 0}, // Mild
	{0, 0, -1, +1, 0}, // Quiet
	{0, 0, 0, 0, 0},   // Bashful
	{0, 0, 0, +1, -1}, // Rash
	{-1, 0, 0, 0, +1}, // Calm
	{0, -1, 0, 0, +1}, // Gentle
	{0, 0, -1, 0, +1}, // Sassy
	{0, 0, 0, -1, +1}, // Careful
	{0, 0, 0, 0, 0},   // Quirky
}

// Nature returns the nature id selected by personality
func Nature(personality uint32) int {
	return int(personality % NumNatures)
}

// ModifyStatByNature applies the nature's 10% boost or drop to a raw stat.
// HP and out of range natures are left alone.
func ModifyStatByNature(nature, raw, statID int) int {
	if statID <= StatHP || statID >= NumStats || nature < 0 || nature >= NumNatures {
		return raw
	}
	switch natureEffects[nature][statID-1] {
	case +1:
		return raw * 110 / 100
	case -1:
		return raw * 90 / 100
	default:
		return raw
	}
}
