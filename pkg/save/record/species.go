package record

import "strings"

// battleOnlyForms maps forms that cannot exist outside of battle to the
// form they revert to.
var battleOnlyForms = map[string]string{
	"SPECIES_CHERRIM_SUN":         "SPECIES_CHERRIM",
	"SPECIES_HIPPOPOTAS_F":        "SPECIES_HIPPOPOTAS",
	"SPECIES_HIPPOWDON_F":         "SPECIES_HIPPOWDON",
	"SPECIES_UNFEZANT_F":          "SPECIES_UNFEZANT",
	"SPECIES_DARMANITANZEN":       "SPECIES_DARMANITAN",
	"SPECIES_DARMANITAN_G_ZEN":    "SPECIES_DARMANITAN_G",
	"SPECIES_FRILLISH_F":          "SPECIES_FRILLISH",
	"SPECIES_JELLICENT_F":         "SPECIES_JELLICENT",
	"SPECIES_MELOETTA_PIROUETTE":  "SPECIES_MELOETTA",
	"SPECIES_AEGISLASH_BLADE":     "SPECIES_AEGISLASH",
	"SPECIES_ASHGRENINJA":         "SPECIES_GRENINJA",
	"SPECIES_PYROAR_FEMALE":       "SPECIES_PYROAR",
	"SPECIES_CRAMORANT_GULPING":   "SPECIES_CRAMORANT",
	"SPECIES_CRAMORANT_GORGING":   "SPECIES_CRAMORANT",
	"SPECIES_EISCUE_NOICE":        "SPECIES_EISCUE",
	"SPECIES_ZACIAN_CROWNED":      "SPECIES_ZACIAN",
	"SPECIES_ZAMAZENTA_CROWNED":   "SPECIES_ZAMAZENTA",
	"SPECIES_ETERNATUS_ETERNAMAX": "SPECIES_ETERNATUS",
}

// Temporary transformation suffixes, cut at the first marker found
var transformMarkers = []struct {
	suffixes []string
	cut      string
}{
	{[]string{"_MEGA", "_MEGA_X", "_MEGA_Y"}, "_MEGA"},
	{[]string{"_PRIMAL"}, "_PRIMAL"},
	{[]string{"_GIGA"}, "_GIGA"},
}

const unownPrefix = "SPECIES_UNOWN"

// BaseForm returns the species a stored species should be shown as: battle
// only forms, megas, primals and gigantamax forms revert, and every Unown
// letter collapses into SPECIES_UNOWN.
func BaseForm(species string) string {
	if base, ok := battleOnlyForms[species]; ok {
		return base
	}
	for _, m := range transformMarkers {
		for _, suffix := range m.suffixes {
			if strings.HasSuffix(species, suffix) {
				base, _, _ := strings.Cut(species, m.cut)
				return base
			}
		}
	}
	if strings.HasPrefix(species, unownPrefix) {
		return unownPrefix
	}
	return species
}
