package profile

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// Tables holds the lookup tables of one game
type Tables struct {
	Species   *NameTable
	Moves     *NameTable
	Items     *NameTable
	BallTypes *NameTable
	Natures   *NameTable
	Languages *NameTable
	DexNums   *NameTable

	// SpeciesToDex maps a species name to its national dex name
	SpeciesToDex map[string]string

	BaseStats        map[string]BaseStats
	ExperienceCurves map[string][]uint32
	CharMap          *CharMap
}

// GameProfile is the immutable description of one game: its registry entry
// and its lookup tables. A profile may be shared between goroutines.
type GameProfile struct {
	Details GameDetails
	Tables

	registry *Registry
}

// New assembles a profile for signature from already loaded tables
func New(registry *Registry, signature uint32, tables Tables) (*GameProfile, error) {
	details, ok := registry.Details(signature)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%08X", saveerrors.ErrUnknownSignature, signature)
	}
	if tables.CharMap == nil {
		tables.CharMap = NewCharMap(nil)
	}
	return &GameProfile{Details: details, Tables: tables, registry: registry}, nil
}

// Signature returns the file signature of the game
func (p *GameProfile) Signature() uint32 {
	return p.Details.Signature
}

// Registry returns the registry the profile was built from
func (p *GameProfile) Registry() *Registry {
	return p.registry
}

// SpeciesDexNum returns the national dex number of species, or 0
func (p *GameProfile) SpeciesDexNum(species string) int {
	dexName, ok := p.SpeciesToDex[species]
	if !ok {
		return 0
	}
	num, ok := p.DexNums.ID(dexName)
	if !ok {
		return 0
	}
	return num
}

// Loader reads game tables from a data root and caches the resulting profiles
type Loader struct {
	root     string
	registry *Registry
	logger   hclog.Logger

	mu    sync.Mutex
	cache map[uint32]*GameProfile
}

// NewLoader creates a loader reading tables below root
func NewLoader(root string, registry *Registry, logger hclog.Logger) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{
		root:     root,
		registry: registry,
		logger:   logger,
		cache:    make(map[uint32]*GameProfile),
	}
}

// Registry returns the registry the loader resolves signatures against
func (l *Loader) Registry() *Registry {
	return l.registry
}

// Load returns the profile for signature, reading its tables on first use
func (l *Loader) Load(signature uint32) (*GameProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.cache[signature]; ok {
		return p, nil
	}

	details, ok := l.registry.Details(signature)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%08X", saveerrors.ErrUnknownSignature, signature)
	}

	l.logger.Debug("📚 Loading game tables",
		"game", details.Name,
		"defines_dir", details.DefinesDir,
		"root", l.root,
	)

	tables, err := LoadTables(l.root, details.DefinesDir)
	if err != nil {
		return nil, fmt.Errorf("loading tables for %s: %w", details.Name, err)
	}

	p, err := New(l.registry, signature, tables)
	if err != nil {
		return nil, err
	}

	l.logger.Info("✅ Game profile ready",
		"game", details.Name,
		"species", p.Species.Len(),
		"moves", p.Moves.Len(),
	)

	l.cache[signature] = p
	return p, nil
}

// LoadByName returns the profile of the game registered under name
func (l *Loader) LoadByName(name string) (*GameProfile, error) {
	sig, ok := l.registry.SignatureByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", saveerrors.ErrUnknownSignature, name)
	}
	return l.Load(sig)
}

// LoadTables reads the shared tables from root and the per-game tables
// from root/definesDir.
func LoadTables(root, definesDir string) (Tables, error) {
	var t Tables
	var err error

	gameDir := filepath.Join(root, definesDir)
	named := []struct {
		dst  **NameTable
		path string
	}{
		{&t.Species, filepath.Join(gameDir, "Species.json")},
		{&t.Moves, filepath.Join(gameDir, "Moves.json")},
		{&t.Items, filepath.Join(gameDir, "Items.json")},
		{&t.BallTypes, filepath.Join(gameDir, "BallTypes.json")},
		{&t.Natures, filepath.Join(root, "Natures.json")},
		{&t.Languages, filepath.Join(root, "Languages.json")},
		{&t.DexNums, filepath.Join(root, "DexNum.json")},
	}
	for _, n := range named {
		if *n.dst, err = readNameTable(n.path); err != nil {
			return Tables{}, err
		}
	}

	if err := readJSON(filepath.Join(gameDir, "BaseStats.json"), &t.BaseStats); err != nil {
		return Tables{}, err
	}
	if err := readJSON(filepath.Join(root, "SpeciesToDexNum.json"), &t.SpeciesToDex); err != nil {
		return Tables{}, err
	}
	if err := readJSON(filepath.Join(root, "ExperienceCurves.json"), &t.ExperienceCurves); err != nil {
		return Tables{}, err
	}

	if t.CharMap, err = LoadCharMap(filepath.Join(root, "charmap.tbl")); err != nil {
		return Tables{}, fmt.Errorf("%w: charmap.tbl: %v", saveerrors.ErrTableMissing, err)
	}

	return t, nil
}
