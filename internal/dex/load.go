package dex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// File names looked up by LoadTable. Each may use a .yaml, .yml or .json
// extension; yaml.v3 reads JSON as well.
const (
	speciesFile = "species"
	movesFile   = "moves"
	typesFile   = "types"
)

var dataExtensions = []string{".yaml", ".yml", ".json"}

// LoadTable reads the species and move tables from dir, plus an optional
// type chart. Both tables are maps keyed by ID, the same shape the upstream
// pokedex and move dumps use. Without a types file DefaultTypeChart is used.
func LoadTable(dir string) (*Table, error) {
	var species map[string]Species
	if err := loadDataFile(dir, speciesFile, &species); err != nil {
		return nil, fmt.Errorf("load species: %w", err)
	}
	var moves map[string]Move
	if err := loadDataFile(dir, movesFile, &moves); err != nil {
		return nil, fmt.Errorf("load moves: %w", err)
	}
	var chart TypeChart
	if err := loadDataFile(dir, typesFile, &chart); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load type chart: %w", err)
		}
		chart = nil
	}

	return NewTable(speciesList(species), moveList(moves), chart), nil
}

func loadDataFile(dir, name string, out any) error {
	for _, ext := range dataExtensions {
		path := filepath.Clean(filepath.Join(dir, name+ext))
		b, err := os.ReadFile(path) //nolint:gosec // path is built from the configured data dir
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, out); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", filepath.Join(dir, name+".yaml"), fs.ErrNotExist)
}

// speciesList flattens the keyed file into a slice in key order so that
// NewTable is deterministic; the map key fills in a missing ID.
func speciesList(m map[string]Species) []Species {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Species, 0, len(m))
	for _, k := range keys {
		sp := m[k]
		if sp.ID == "" {
			sp.ID = k
		}
		out = append(out, sp)
	}
	return out
}

func moveList(m map[string]Move) []Move {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Move, 0, len(m))
	for _, k := range keys {
		mv := m[k]
		if mv.ID == "" {
			mv.ID = k
		}
		out = append(out, mv)
	}
	return out
}
