package workenv

import (
	"fmt"
	"os"
	"path/filepath"
)

// SharedTables lists the tables every game reads from the data root
var SharedTables = []string{
	"Natures.json",
	"Languages.json",
	"DexNum.json",
	"SpeciesToDexNum.json",
	"ExperienceCurves.json",
	"charmap.tbl",
}

// GameTables lists the tables each defines directory must provide
var GameTables = []string{
	"Species.json",
	"Moves.json",
	"Items.json",
	"BaseStats.json",
	"BallTypes.json",
}

// MissingTables returns the table files absent under root for the given
// defines directories. An empty result means the data root is complete.
func MissingTables(root string, definesDirs ...string) []string {
	var missing []string
	for _, name := range SharedTables {
		if !isFile(filepath.Join(root, name)) {
			missing = append(missing, name)
		}
	}

	for _, dir := range definesDirs {
		for _, name := range GameTables {
			if !isFile(filepath.Join(root, dir, name)) {
				missing = append(missing, filepath.Join(dir, name))
			}
		}
	}

	return missing
}

// ValidateDataRoot returns an error naming the missing tables, if any
func ValidateDataRoot(root string, definesDirs ...string) error {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("data root %s is not a directory", root)
	}
	if missing := MissingTables(root, definesDirs...); len(missing) > 0 {
		return fmt.Errorf("data root %s is missing %v", root, missing)
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
