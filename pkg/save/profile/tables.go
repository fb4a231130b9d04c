package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
)

// NameTable is a bidirectional mapping between numeric ids and symbolic names
type NameTable struct {
	byID   map[int]string
	byName map[string]int
}

// NewNameTable builds a table from an id to name map
func NewNameTable(names map[int]string) *NameTable {
	t := &NameTable{
		byID:   make(map[int]string, len(names)),
		byName: make(map[string]int, len(names)),
	}
	for id, name := range names {
		t.byID[id] = name
		if prev, ok := t.byName[name]; !ok || id < prev {
			t.byName[name] = id
		}
	}
	return t
}

// NewNameList builds a table where each name's id is its position
func NewNameList(names []string) *NameTable {
	m := make(map[int]string, len(names))
	for i, name := range names {
		m[i] = name
	}
	return NewNameTable(m)
}

// ParseNameTable accepts either a JSON object keyed by id or a JSON list
func ParseNameTable(data []byte) (*NameTable, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", saveerrors.ErrTableInvalid)
	}

	switch trimmed[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", saveerrors.ErrTableInvalid, err)
		}
		return NewNameList(list), nil
	case '{':
		var obj map[string]string
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", saveerrors.ErrTableInvalid, err)
		}
		m := make(map[int]string, len(obj))
		for key, name := range obj {
			id, err := strconv.ParseInt(key, 0, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: key %q is not an id", saveerrors.ErrTableInvalid, key)
			}
			m[int(id)] = name
		}
		return NewNameTable(m), nil
	default:
		return nil, fmt.Errorf("%w: expected object or list", saveerrors.ErrTableInvalid)
	}
}

// Name returns the name registered for id
func (t *NameTable) Name(id int) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.byID[id]
	return name, ok
}

// ID returns the lowest id registered for name
func (t *NameTable) ID(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.byName[name]
	return id, ok
}

// Has reports whether name is in the table
func (t *NameTable) Has(name string) bool {
	_, ok := t.ID(name)
	return ok
}

// Len returns the number of ids in the table
func (t *NameTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byID)
}

// BaseStats is the per-species data the stat engine works from
type BaseStats struct {
	BaseHP        int    `json:"baseHP"`
	BaseAttack    int    `json:"baseAttack"`
	BaseDefense   int    `json:"baseDefense"`
	BaseSpAttack  int    `json:"baseSpAttack"`
	BaseSpDefense int    `json:"baseSpDefense"`
	BaseSpeed     int    `json:"baseSpeed"`
	Type1         string `json:"type1"`
	Type2         string `json:"type2"`
	GenderRatio   string `json:"genderRatio"`
	GrowthRate    string `json:"growthRate"`
	Ability1      string `json:"ability1"`
	Ability2      string `json:"ability2"`
	HiddenAbility string `json:"hiddenAbility"`
}

// Base returns the six base stats in HP, Atk, Def, Spe, SpA, SpD order
func (b BaseStats) Base() [6]int {
	return [6]int{b.BaseHP, b.BaseAttack, b.BaseDefense, b.BaseSpeed, b.BaseSpAttack, b.BaseSpDefense}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", saveerrors.ErrTableMissing, path)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", saveerrors.ErrTableInvalid, path, err)
	}
	return nil
}

func readNameTable(path string) (*NameTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", saveerrors.ErrTableMissing, path)
		}
		return nil, err
	}
	t, err := ParseNameTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
