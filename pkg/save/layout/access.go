package layout

import (
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

// Evaluator answers per-game questions about a loaded save: whether the
// boxes may be used right now and whether the save is randomized.
type Evaluator struct {
	details profile.GameDetails
	charMap *profile.CharMap
	logger  hclog.Logger
}

// NewEvaluator creates an evaluator for the game described by p
func NewEvaluator(p *profile.GameProfile, logger hclog.Logger) *Evaluator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Evaluator{details: p.Details, charMap: p.CharMap, logger: logger}
}

// InaccessibleReason returns the reason of the first matching rule, or ""
// when the boxes are accessible. Rules that cannot be evaluated are skipped.
func (e *Evaluator) InaccessibleReason(b blocks.Blocks) string {
	for i, rule := range e.details.Inaccessible {
		matched, err := e.matches(rule, b)
		if err != nil {
			e.logger.Warn("⚠️ Skipping accessibility rule", "game", e.details.Name, "rule", i, "error", err)
			continue
		}
		if matched {
			e.logger.Debug("🔒 Boxes inaccessible", "game", e.details.Name, "rule", i)
			return rule.Reason
		}
	}
	return ""
}

// IsAccessibleCurrently reports whether no inaccessibility rule matches
func (e *Evaluator) IsAccessibleCurrently(b blocks.Blocks) bool {
	return e.InaccessibleReason(b) == ""
}

func (e *Evaluator) matches(rule profile.Rule, b blocks.Blocks) (bool, error) {
	var matched bool
	var err error

	switch {
	case rule.FlagSet != nil:
		matched, err = FlagGet(*rule.FlagSet, b)
	case rule.FlagNotSet != nil:
		matched, err = FlagGet(*rule.FlagNotSet, b)
		matched = !matched
	case len(rule.VarSetTo) == 2:
		var v uint16
		v, err = VarGet(rule.VarSetTo[0], b)
		matched = v == rule.VarSetTo[1]
	case len(rule.VarNotSetTo) == 2:
		var v uint16
		v, err = VarGet(rule.VarNotSetTo[0], b)
		matched = v != rule.VarNotSetTo[1]
	case rule.Script != "":
		matched, err = EvalScript(rule.Script, b)
	}
	if err != nil || !matched {
		return false, err
	}

	for _, flag := range rule.ButNotIfFlagSet {
		set, err := FlagGet(flag, b)
		if err != nil {
			return false, err
		}
		if set {
			return false, nil
		}
	}
	return true, nil
}

// RandomizerFlagsSet reports whether any of the game's randomizer flags is set
func (e *Evaluator) RandomizerFlagsSet(b blocks.Blocks) bool {
	for _, flag := range e.details.RandomizerFlags {
		set, err := FlagGet(flag, b)
		if err != nil {
			e.logger.Warn("⚠️ Unreadable randomizer flag", "flag", flag, "error", err)
			continue
		}
		if set {
			return true
		}
	}
	return false
}

// IsThirdPartyRandomizerFile reports whether the save's trainer matches a
// trainer known to be produced by an external randomizer tool.
func (e *Evaluator) IsThirdPartyRandomizerFile(b blocks.Blocks) bool {
	if len(e.details.RandomizerTrainers) == 0 {
		return false
	}
	name, id, err := LoadTrainerDetails(b, e.charMap)
	if err != nil {
		return false
	}
	for _, t := range e.details.RandomizerTrainers {
		if strings.EqualFold(t.Name, name) && t.ID == id {
			return true
		}
	}
	return false
}

// IsRandomizedSave combines both randomizer signals
func (e *Evaluator) IsRandomizedSave(b blocks.Blocks) bool {
	return e.RandomizerFlagsSet(b) || e.IsThirdPartyRandomizerFile(b)
}
