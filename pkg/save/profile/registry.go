// Package profile describes the games savebox understands: the signature
// registry, the per-game lookup tables and the cross-version remapping of
// a record's origin game.
package profile

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
	"gopkg.in/yaml.v3"
)

// Base game versions as stored in a record's met info
const (
	VersionSapphire  uint8 = 1
	VersionRuby      uint8 = 2
	VersionEmerald   uint8 = 3
	VersionFireRed   uint8 = 4
	VersionLeafGreen uint8 = 5
	VersionWish      uint8 = 13
	VersionMAGM      uint8 = 14
	VersionUnbound   uint8 = 15
)

// File signatures of the built-in games
const (
	SignatureFireRed     uint32 = 0x08012025
	SignatureCFRE        uint32 = 0x29012004
	SignatureUnbound     uint32 = 0x01121999
	SignatureMAGM        uint32 = 0xC7BBC1C7
	SignatureInflamedRed uint32 = 0x14B66BBC
	SignatureUnbound20   uint32 = 0x01121998
)

// Game regions
const (
	RegionKanto   uint8 = 0
	RegionBorrius uint8 = 2
	RegionMAGM    uint8 = 3
)

// Well-known story flags
const (
	FlagGameClear         uint16 = 0x82C
	FlagUnboundEasyPuzzle uint16 = 0x16E3
)

//go:embed games.yml
var builtinGames []byte

// Trainer identifies a save by its trainer name and id
type Trainer struct {
	Name string `yaml:"name"`
	ID   uint32 `yaml:"id"`
}

// Rule is one inaccessibility condition. Exactly one of FlagSet, FlagNotSet,
// VarSetTo, VarNotSetTo or Script is given; ButNotIfFlagSet lists flags that
// cancel the rule.
type Rule struct {
	FlagSet         *uint16  `yaml:"flagSet,omitempty"`
	FlagNotSet      *uint16  `yaml:"flagNotSet,omitempty"`
	VarSetTo        []uint16 `yaml:"varSetTo,omitempty"`
	VarNotSetTo     []uint16 `yaml:"varNotSetTo,omitempty"`
	Script          string   `yaml:"script,omitempty"`
	ButNotIfFlagSet []uint16 `yaml:"butNotIfFlagSet,omitempty"`
	Reason          string   `yaml:"reason"`
}

// Validate checks that the rule names exactly one condition
func (r Rule) Validate() error {
	kinds := 0
	if r.FlagSet != nil {
		kinds++
	}
	if r.FlagNotSet != nil {
		kinds++
	}
	if r.VarSetTo != nil {
		kinds++
		if len(r.VarSetTo) != 2 {
			return fmt.Errorf("%w: varSetTo needs [var, value]", saveerrors.ErrRuleInvalid)
		}
	}
	if r.VarNotSetTo != nil {
		kinds++
		if len(r.VarNotSetTo) != 2 {
			return fmt.Errorf("%w: varNotSetTo needs [var, value]", saveerrors.ErrRuleInvalid)
		}
	}
	if r.Script != "" {
		kinds++
	}
	if kinds != 1 {
		return fmt.Errorf("%w: expected one condition, got %d", saveerrors.ErrRuleInvalid, kinds)
	}
	return nil
}

// GameDetails is the static description of one supported game
type GameDetails struct {
	Signature          uint32    `yaml:"signature"`
	Name               string    `yaml:"name"`
	Version            uint8     `yaml:"version"`
	BaseVersion        uint8     `yaml:"baseVersion"`
	Region             uint8     `yaml:"region"`
	CFRU               bool      `yaml:"cfru"`
	DefinesDir         string    `yaml:"definesDir"`
	ShinyOdds          uint32    `yaml:"shinyOdds"`
	BoxCount           int       `yaml:"boxCount"`
	RandomizerFlags    []uint16  `yaml:"randomizerFlags,omitempty"`
	RandomizerTrainers []Trainer `yaml:"randomizerTrainers,omitempty"`
	Inaccessible       []Rule    `yaml:"inaccessible,omitempty"`
}

type oldVersion struct {
	Signature uint32 `yaml:"signature"`
	Name      string `yaml:"name"`
}

type registryFile struct {
	Games              []GameDetails    `yaml:"games"`
	OldVersions        []oldVersion     `yaml:"oldVersions"`
	BaseVersions       map[uint8]string `yaml:"baseVersions"`
	CustomHackVersions map[uint8]string `yaml:"customHackVersions"`
}

// Registry maps file signatures to game details. It is immutable once built.
type Registry struct {
	games        map[uint32]GameDetails
	oldVersions  map[uint32]string
	baseVersions map[uint8]string
	customHacks  map[uint8]string
}

// DefaultRegistry returns the registry of built-in games
func DefaultRegistry() *Registry {
	r, err := ParseRegistry(builtinGames)
	if err != nil {
		panic(fmt.Sprintf("built-in game registry: %v", err))
	}
	return r
}

// LoadRegistry returns the built-in registry merged with the YAML file at
// overridePath. An empty path yields the built-in registry.
func LoadRegistry(overridePath string) (*Registry, error) {
	r := DefaultRegistry()
	if overridePath == "" {
		return r, nil
	}

	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("reading profiles %s: %w", overridePath, err)
	}

	override, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", overridePath, err)
	}

	return r.Merge(override), nil
}

// ParseRegistry builds a registry from a YAML document
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	r := &Registry{
		games:        make(map[uint32]GameDetails, len(file.Games)),
		oldVersions:  make(map[uint32]string, len(file.OldVersions)),
		baseVersions: file.BaseVersions,
		customHacks:  file.CustomHackVersions,
	}
	if r.baseVersions == nil {
		r.baseVersions = map[uint8]string{}
	}
	if r.customHacks == nil {
		r.customHacks = map[uint8]string{}
	}

	for _, game := range file.Games {
		if game.Name == "" {
			return nil, fmt.Errorf("game 0x%08X has no name", game.Signature)
		}
		for i, rule := range game.Inaccessible {
			if err := rule.Validate(); err != nil {
				return nil, fmt.Errorf("game %s rule %d: %w", game.Name, i, err)
			}
		}
		r.games[game.Signature] = game
	}
	for _, old := range file.OldVersions {
		r.oldVersions[old.Signature] = old.Name
	}

	return r, nil
}

// Merge returns a new registry where entries of other replace entries of r
func (r *Registry) Merge(other *Registry) *Registry {
	merged := &Registry{
		games:        make(map[uint32]GameDetails, len(r.games)+len(other.games)),
		oldVersions:  make(map[uint32]string, len(r.oldVersions)+len(other.oldVersions)),
		baseVersions: make(map[uint8]string, len(r.baseVersions)),
		customHacks:  make(map[uint8]string, len(r.customHacks)),
	}
	for _, src := range []*Registry{r, other} {
		for k, v := range src.games {
			merged.games[k] = v
		}
		for k, v := range src.oldVersions {
			merged.oldVersions[k] = v
		}
		for k, v := range src.baseVersions {
			merged.baseVersions[k] = v
		}
		for k, v := range src.customHacks {
			merged.customHacks[k] = v
		}
	}
	return merged
}

// Details returns the game registered under signature
func (r *Registry) Details(signature uint32) (GameDetails, bool) {
	d, ok := r.games[signature]
	return d, ok
}

// IsKnown reports whether signature belongs to a supported game
func (r *Registry) IsKnown(signature uint32) bool {
	_, ok := r.games[signature]
	return ok
}

// IsOldVersion reports whether signature belongs to a retired game version
func (r *Registry) IsOldVersion(signature uint32) bool {
	_, ok := r.oldVersions[signature]
	return ok
}

// OldVersionName returns the display name of a retired game version
func (r *Registry) OldVersionName(signature uint32) string {
	return r.oldVersions[signature]
}

// IsValidFileSignature accepts supported and retired signatures alike
func (r *Registry) IsValidFileSignature(signature uint32) bool {
	return r.IsKnown(signature) || r.IsOldVersion(signature)
}

// SignatureByName finds a game by its registry name, case-insensitively
func (r *Registry) SignatureByName(name string) (uint32, bool) {
	for sig, game := range r.games {
		if strings.EqualFold(game.Name, name) {
			return sig, true
		}
	}
	return 0, false
}

// BaseVersionName returns the name of a base GBA version id
func (r *Registry) BaseVersionName(version uint8) (string, bool) {
	name, ok := r.baseVersions[version]
	return name, ok
}

// CustomHackName returns the name of a custom hack version id
func (r *Registry) CustomHackName(version uint8) (string, bool) {
	name, ok := r.customHacks[version]
	return name, ok
}

// VersionByName resolves a base or custom hack version name to its id
func (r *Registry) VersionByName(name string) (uint8, bool) {
	for _, table := range []map[uint8]string{r.baseVersions, r.customHacks} {
		for id, n := range table {
			if strings.EqualFold(n, name) {
				return id, true
			}
		}
	}
	return 0, false
}

// Games returns all registered games ordered by name
func (r *Registry) Games() []GameDetails {
	games := make([]GameDetails, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games
}

// DefinesDirs returns the distinct table directories of all games
func (r *Registry) DefinesDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	for _, g := range r.Games() {
		if !seen[g.DefinesDir] {
			seen[g.DefinesDir] = true
			dirs = append(dirs, g.DefinesDir)
		}
	}
	return dirs
}
