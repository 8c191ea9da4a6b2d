package battle

import (
	"strings"

	"github.com/targoons/rnb-helper/internal/dex"
)

// Nature is a personality archetype; all but five shift one stat up 10% and
// another down 10%.
type Nature string

type natureShift struct {
	up, down dex.Stat
}

var natures = map[string]natureShift{
	"hardy": {}, "docile": {}, "serious": {}, "bashful": {}, "quirky": {},

	"lonely": {dex.Atk, dex.Def}, "brave": {dex.Atk, dex.Spe}, "adamant": {dex.Atk, dex.SpA}, "naughty": {dex.Atk, dex.SpD},
	"bold": {dex.Def, dex.Atk}, "relaxed": {dex.Def, dex.Spe}, "impish": {dex.Def, dex.SpA}, "lax": {dex.Def, dex.SpD},
	"timid": {dex.Spe, dex.Atk}, "hasty": {dex.Spe, dex.Def}, "jolly": {dex.Spe, dex.SpA}, "naive": {dex.Spe, dex.SpD},
	"modest": {dex.SpA, dex.Atk}, "mild": {dex.SpA, dex.Def}, "quiet": {dex.SpA, dex.Spe}, "rash": {dex.SpA, dex.SpD},
	"calm": {dex.SpD, dex.Atk}, "gentle": {dex.SpD, dex.Def}, "sassy": {dex.SpD, dex.Spe}, "careful": {dex.SpD, dex.SpA},
}

// Known reports whether n is one of the 25 natures. Unknown natures are
// treated as neutral everywhere.
func (n Nature) Known() bool {
	_, ok := natures[n.key()]
	return ok
}

func (n Nature) key() string { return strings.ToLower(strings.TrimSpace(string(n))) }

// percent is the nature factor for s as an integer percentage.
func (n Nature) percent(s dex.Stat) int {
	shift, ok := natures[n.key()]
	if !ok || shift.up == "" {
		return 100
	}
	switch s {
	case shift.up:
		return 110
	case shift.down:
		return 90
	default:
		return 100
	}
}

// NatureMultiplier returns 1.1, 0.9 or 1.0.
func NatureMultiplier(n Nature, s dex.Stat) float64 {
	return float64(n.percent(s)) / 100
}

// ComputeStat applies the standard stat formula. The nature factor is
// applied in integer percent so that flooring is exact.
func ComputeStat(base, iv, ev, level int, nature Nature, kind dex.Stat) int {
	raw := (2*base + iv + ev/4) * level / 100
	if kind == dex.HP {
		if base == 1 {
			return 1
		}
		return raw + level + 10
	}
	return (raw + 5) * nature.percent(kind) / 100
}

// StatBlock holds the six battle statistics. It is also used for IV and EV
// spreads.
type StatBlock struct {
	HP  int `json:"hp" yaml:"hp"`
	Atk int `json:"atk" yaml:"atk"`
	Def int `json:"def" yaml:"def"`
	SpA int `json:"spa" yaml:"spa"`
	SpD int `json:"spd" yaml:"spd"`
	Spe int `json:"spe" yaml:"spe"`
}

func (b StatBlock) Get(s dex.Stat) int {
	switch s {
	case dex.HP:
		return b.HP
	case dex.Atk:
		return b.Atk
	case dex.Def:
		return b.Def
	case dex.SpA:
		return b.SpA
	case dex.SpD:
		return b.SpD
	case dex.Spe:
		return b.Spe
	default:
		return 0
	}
}

// Stats returns the battle statistics of c. A Stats override on the
// combatant (live values read from the game) always wins; otherwise the
// block is computed from the species base stats. Unknown species yield a
// zero block.
func Stats(rules dex.Rules, c *Combatant) StatBlock {
	if c.Stats != nil {
		return *c.Stats
	}
	if rules == nil {
		return StatBlock{}
	}
	sp, ok := rules.LookupSpecies(c.SpeciesID)
	if !ok {
		return StatBlock{}
	}
	calc := func(s dex.Stat) int {
		return ComputeStat(sp.BaseStats.Get(s), c.IVs.Get(s), c.EVs.Get(s), c.Level, c.Nature, s)
	}
	return StatBlock{
		HP:  calc(dex.HP),
		Atk: calc(dex.Atk),
		Def: calc(dex.Def),
		SpA: calc(dex.SpA),
		SpD: calc(dex.SpD),
		Spe: calc(dex.Spe),
	}
}
