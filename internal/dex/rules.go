package dex

// Rules is the read-only view of the reference data that the engine is
// given. Lookups never fail loudly: a missing entry reports ok=false and the
// caller degrades to a neutral result.
type Rules interface {
	LookupSpecies(id string) (Species, bool)
	LookupMove(id string) (Move, bool)
	TypeEffectiveness(attack Type, defender []Type) float64
}

// Table is the in-memory Rules implementation.
type Table struct {
	species map[string]Species
	moves   map[string]Move
	chart   TypeChart
}

// NewTable indexes species and moves by normalised ID (falling back to the
// normalised name when an entry has no ID). A nil chart selects
// DefaultTypeChart.
func NewTable(species []Species, moves []Move, chart TypeChart) *Table {
	if chart == nil {
		chart = DefaultTypeChart()
	}
	t := &Table{
		species: make(map[string]Species, len(species)),
		moves:   make(map[string]Move, len(moves)),
		chart:   chart.canonical(),
	}
	for _, sp := range species {
		key := NormalizeID(sp.ID)
		if key == "" {
			key = NormalizeID(sp.Name)
		}
		if key == "" {
			continue
		}
		sp.ID = key
		if sp.Name == "" {
			sp.Name = key
		}
		types := make([]Type, 0, len(sp.Types))
		for _, ty := range sp.Types {
			if c := CanonicalType(string(ty)); c != "" {
				types = append(types, c)
			}
		}
		sp.Types = types
		sp.Abilities = append([]string(nil), sp.Abilities...)
		t.species[key] = sp
	}
	for _, mv := range moves {
		key := NormalizeID(mv.ID)
		if key == "" {
			key = NormalizeID(mv.Name)
		}
		if key == "" {
			continue
		}
		mv.ID = key
		if mv.Name == "" {
			mv.Name = key
		}
		mv.Type = CanonicalType(string(mv.Type))
		mv.Category = canonicalCategory(mv.Category)
		t.moves[key] = mv
	}
	return t
}

func (t *Table) LookupSpecies(id string) (Species, bool) {
	sp, ok := t.species[NormalizeID(id)]
	return sp, ok
}

func (t *Table) LookupMove(id string) (Move, bool) {
	mv, ok := t.moves[NormalizeID(id)]
	return mv, ok
}

func (t *Table) TypeEffectiveness(attack Type, defender []Type) float64 {
	canon := make([]Type, len(defender))
	for i, d := range defender {
		canon[i] = CanonicalType(string(d))
	}
	return t.chart.Effectiveness(CanonicalType(string(attack)), canon)
}

// SpeciesCount and MoveCount report table sizes, mostly for startup logs.
func (t *Table) SpeciesCount() int { return len(t.species) }
func (t *Table) MoveCount() int    { return len(t.moves) }

func canonicalCategory(c Category) Category {
	switch NormalizeID(string(c)) {
	case "physical":
		return Physical
	case "special":
		return Special
	case "status", "other":
		return Status
	default:
		return c
	}
}
