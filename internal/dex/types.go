// Package dex holds the static reference data the battle engine reads:
// species, moves and the type chart. Tables are built once and never
// mutated, so a single *Table can be shared by every battle.
package dex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type is an elemental type such as "Fire" or "Water".
type Type string

// Category decides which pair of stats a move attacks with.
type Category string

const (
	Physical Category = "Physical"
	Special  Category = "Special"
	Status   Category = "Status"
)

// Stat names one of the six battle statistics.
type Stat string

const (
	HP  Stat = "hp"
	Atk Stat = "atk"
	Def Stat = "def"
	SpA Stat = "spa"
	SpD Stat = "spd"
	Spe Stat = "spe"
)

// BaseStats are the six base values of a species.
type BaseStats struct {
	HP  int `yaml:"hp" json:"hp"`
	Atk int `yaml:"atk" json:"atk"`
	Def int `yaml:"def" json:"def"`
	SpA int `yaml:"spa" json:"spa"`
	SpD int `yaml:"spd" json:"spd"`
	Spe int `yaml:"spe" json:"spe"`
}

// Get returns the base value for s, or 0 for an unknown stat.
func (b BaseStats) Get(s Stat) int {
	switch s {
	case HP:
		return b.HP
	case Atk:
		return b.Atk
	case Def:
		return b.Def
	case SpA:
		return b.SpA
	case SpD:
		return b.SpD
	case Spe:
		return b.Spe
	default:
		return 0
	}
}

// Species is one entry of the species table.
type Species struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Types     []Type    `yaml:"types" json:"types"`
	BaseStats BaseStats `yaml:"baseStats" json:"baseStats"`
	Abilities []string  `yaml:"abilities" json:"abilities"`
}

// HasType reports whether t is one of the species' types.
func (s Species) HasType(t Type) bool {
	for _, own := range s.Types {
		if own == t {
			return true
		}
	}
	return false
}

// Move is one entry of the move table.
type Move struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Type     Type     `yaml:"type" json:"type"`
	Category Category `yaml:"category" json:"category"`
	Power    int      `yaml:"power" json:"power"`
	Accuracy Accuracy `yaml:"accuracy" json:"accuracy"`
	PP       int      `yaml:"pp" json:"pp"`
	Priority int      `yaml:"priority" json:"priority"`
}

// Accuracy is a move's base hit chance in percent. Always marks moves that
// skip the accuracy check; data files spell that `accuracy: true`. The value
// `false` is rejected because a zero percentage already means "not given".
type Accuracy struct {
	Percent int
	Always  bool
}

// Chance returns the base hit chance in [0,1]. A zero percentage means the
// data source left accuracy out, which is treated as a sure hit.
func (a Accuracy) Chance() float64 {
	if a.Always || a.Percent <= 0 {
		return 1
	}
	if a.Percent >= 100 {
		return 1
	}
	return float64(a.Percent) / 100
}

// UnmarshalYAML accepts either an integer percentage or a boolean.
func (a *Accuracy) UnmarshalYAML(n *yaml.Node) error {
	switch n.Tag {
	case "!!bool":
		var always bool
		if err := n.Decode(&always); err != nil {
			return err
		}
		if !always {
			return fmt.Errorf("line %d: accuracy false is not supported; give a percentage", n.Line)
		}
		*a = Accuracy{Always: true}
		return nil
	case "!!null":
		*a = Accuracy{Always: true}
		return nil
	case "!!int", "!!float":
		var pct float64
		if err := n.Decode(&pct); err != nil {
			return err
		}
		*a = Accuracy{Percent: int(pct)}
		return nil
	default:
		return fmt.Errorf("line %d: accuracy must be a number or a boolean, got %q", n.Line, n.Value)
	}
}

// MarshalJSON writes `true` for sure-hit moves and the percentage otherwise.
func (a Accuracy) MarshalJSON() ([]byte, error) {
	if a.Always {
		return []byte("true"), nil
	}
	return []byte(fmt.Sprintf("%d", a.Percent)), nil
}

// UnmarshalJSON accepts the same forms as UnmarshalYAML.
func (a *Accuracy) UnmarshalJSON(b []byte) error {
	switch v := strings.TrimSpace(string(b)); v {
	case "true", "null":
		*a = Accuracy{Always: true}
	case "false":
		return errors.New("accuracy false is not supported; give a percentage")
	default:
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("accuracy must be a number or a boolean, got %s", v)
		}
		*a = Accuracy{Percent: int(pct)}
	}
	return nil
}
