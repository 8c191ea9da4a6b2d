package battle

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSetup is wrapped by every Setup validation error.
var ErrInvalidSetup = errors.New("invalid battle setup")

// SideSetup describes one side of a battle. Lead is the active combatant as
// reported by a live source; it is added to Team when the team does not
// already hold a member with its ID.
type SideSetup struct {
	Active string      `json:"active,omitempty" yaml:"active,omitempty" jsonschema:"description=ID of the active team member; defaults to the lead or the first member"`
	Lead   *Combatant  `json:"lead,omitempty" yaml:"lead,omitempty"`
	Team   []Combatant `json:"team" yaml:"team" jsonschema:"required,minItems=1,maxItems=6"`
}

// Setup is the document collaborators hand over to start an advisory
// session.
type Setup struct {
	Mine   SideSetup `json:"mine" yaml:"mine" jsonschema:"required"`
	Theirs SideSetup `json:"theirs" yaml:"theirs" jsonschema:"required"`
	Turn   int       `json:"turn,omitempty" yaml:"turn,omitempty" jsonschema:"minimum=0"`
}

// LoadSetup reads a YAML or JSON setup file.
func LoadSetup(path string) (Setup, error) {
	b, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return Setup{}, err
	}
	var s Setup
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Setup{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Validate checks both sides; see SideSetup.party.
func (s Setup) Validate() error {
	if _, err := s.Mine.party(); err != nil {
		return fmt.Errorf("mine: %w", err)
	}
	if _, err := s.Theirs.party(); err != nil {
		return fmt.Errorf("theirs: %w", err)
	}
	if s.Turn < 0 {
		return fmt.Errorf("%w: negative turn %d", ErrInvalidSetup, s.Turn)
	}
	return nil
}

// party merges the lead into the team and resolves the active index. The
// team must be non-empty with unique, non-empty IDs and levels in 1..100.
func (s SideSetup) party() (Party, error) {
	team := append([]Combatant(nil), s.Team...)
	active := s.Active
	if s.Lead != nil {
		if active == "" {
			active = s.Lead.ID
		}
		if indexOf(team, s.Lead.ID) < 0 {
			team = append(team, *s.Lead)
		}
	}
	if len(team) == 0 {
		return Party{}, fmt.Errorf("%w: empty team", ErrInvalidSetup)
	}

	seen := make(map[string]bool, len(team))
	for i, c := range team {
		switch {
		case c.ID == "":
			return Party{}, fmt.Errorf("%w: team member %d has no id", ErrInvalidSetup, i)
		case seen[c.ID]:
			return Party{}, fmt.Errorf("%w: duplicate id %q", ErrInvalidSetup, c.ID)
		case c.Level < 1 || c.Level > 100:
			return Party{}, fmt.Errorf("%w: %s: level %d out of range", ErrInvalidSetup, c.ID, c.Level)
		case math.IsNaN(c.HP) || math.IsInf(c.HP, 0):
			return Party{}, fmt.Errorf("%w: %s: hp must be a finite number", ErrInvalidSetup, c.ID)
		case c.HP < 0:
			return Party{}, fmt.Errorf("%w: %s: negative hp", ErrInvalidSetup, c.ID)
		case c.MaxHP > 0 && c.HP > float64(c.MaxHP):
			return Party{}, fmt.Errorf("%w: %s: hp %.0f above max hp %d", ErrInvalidSetup, c.ID, c.HP, c.MaxHP)
		}
		seen[c.ID] = true
	}

	idx := 0
	if active != "" {
		idx = indexOf(team, active)
		if idx < 0 {
			return Party{}, fmt.Errorf("%w: active %q is not on the team", ErrInvalidSetup, active)
		}
	}
	return Party{Team: team, Active: idx}, nil
}

func indexOf(team []Combatant, id string) int {
	for i := range team {
		if team[i].ID == id {
			return i
		}
	}
	return -1
}

// NewStateFromSetup validates s and builds the initial State.
func NewStateFromSetup(env Env, s Setup) (*State, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	mine, _ := s.Mine.party()
	theirs, _ := s.Theirs.party()
	st := NewState(env, mine, theirs, s.Turn)
	st.ForcedSwitch = st.needsReplacement(Mine) || st.needsReplacement(Theirs)
	return st, nil
}
