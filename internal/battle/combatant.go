package battle

import (
	"github.com/targoons/rnb-helper/internal/dex"
)

// Status is a non-volatile status condition. The engine carries it but does
// not act on it.
type Status string

const (
	StatusNone Status = ""
	Paralysis  Status = "PAR"
	Burn       Status = "BRN"
	Freeze     Status = "FRZ"
	Poison     Status = "PSN"
	BadPoison  Status = "TOX"
	Sleep      Status = "SLP"
)

const (
	minStage = -6
	maxStage = 6
)

// Stages are the -6..+6 modifiers of a combatant. Only Accuracy and Evasion
// are read by the engine; the others are expected to be folded into a live
// Stats override already.
type Stages struct {
	Atk      int `json:"atk,omitempty" yaml:"atk,omitempty" jsonschema:"minimum=-6,maximum=6"`
	Def      int `json:"def,omitempty" yaml:"def,omitempty" jsonschema:"minimum=-6,maximum=6"`
	SpA      int `json:"spa,omitempty" yaml:"spa,omitempty" jsonschema:"minimum=-6,maximum=6"`
	SpD      int `json:"spd,omitempty" yaml:"spd,omitempty" jsonschema:"minimum=-6,maximum=6"`
	Spe      int `json:"spe,omitempty" yaml:"spe,omitempty" jsonschema:"minimum=-6,maximum=6"`
	Accuracy int `json:"acc,omitempty" yaml:"acc,omitempty" jsonschema:"minimum=-6,maximum=6"`
	Evasion  int `json:"eva,omitempty" yaml:"eva,omitempty" jsonschema:"minimum=-6,maximum=6"`
}

func clampStage(v int) int {
	return min(max(v, minStage), maxStage)
}

// Combatant is one creature on a team. A State owns its combatants; use
// Clone to hand one out.
type Combatant struct {
	ID        string     `json:"id" yaml:"id" jsonschema:"required,minLength=1,description=Unique within the team"`
	SpeciesID string     `json:"speciesId" yaml:"speciesId" jsonschema:"required,minLength=1"`
	Nickname  string     `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	Level     int        `json:"level" yaml:"level" jsonschema:"required,minimum=1,maximum=100"`
	Nature    Nature     `json:"nature,omitempty" yaml:"nature,omitempty" jsonschema:"description=Unknown or empty natures are neutral"`
	Ability   string     `json:"ability,omitempty" yaml:"ability,omitempty"`
	Item      string     `json:"item,omitempty" yaml:"item,omitempty"`
	Moves     []string   `json:"moves" yaml:"moves" jsonschema:"maxItems=4"`
	IVs       StatBlock  `json:"ivs" yaml:"ivs"`
	EVs       StatBlock  `json:"evs" yaml:"evs"`
	Stats     *StatBlock `json:"stats,omitempty" yaml:"stats,omitempty" jsonschema:"description=Live stats; override computed values when present"`
	HP        float64    `json:"currentHp" yaml:"currentHp" jsonschema:"required,minimum=0"`
	MaxHP     int        `json:"maxHp" yaml:"maxHp"`
	Status    Status     `json:"status,omitempty" yaml:"status,omitempty" jsonschema:"enum=PAR,enum=BRN,enum=FRZ,enum=PSN,enum=TOX,enum=SLP"`
	Stages    Stages     `json:"statStages" yaml:"statStages"`
}

// Clone returns a deep copy.
func (c Combatant) Clone() Combatant {
	out := c
	out.Moves = append([]string(nil), c.Moves...)
	if c.Stats != nil {
		s := *c.Stats
		out.Stats = &s
	}
	return out
}

func (c *Combatant) Fainted() bool { return c.HP <= 0 }

// HPFraction is current HP over max HP. MaxHP falls back to the HP stat and
// the fraction is 0 when neither is known.
func (c *Combatant) HPFraction(rules dex.Rules) float64 {
	maxHP := c.MaxHP
	if maxHP <= 0 {
		maxHP = Stats(rules, c).HP
	}
	if maxHP <= 0 {
		return 0
	}
	return c.HP / float64(maxHP)
}

// DisplayName prefers the nickname over the species ID.
func (c *Combatant) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.SpeciesID
}
