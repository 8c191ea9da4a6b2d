package battle

import (
	"encoding/json"

	"github.com/targoons/rnb-helper/internal/dex"
)

// Side names one of the two players. Mine is the side being advised.
type Side int

const (
	Mine Side = iota
	Theirs
)

func (s Side) Opponent() Side {
	if s == Mine {
		return Theirs
	}
	return Mine
}

func (s Side) String() string {
	if s == Mine {
		return "mine"
	}
	return "theirs"
}

// Party is one side's team and the index of its active member. Keeping the
// active as an index means damage to the active is damage to that team
// member.
type Party struct {
	Team   []Combatant
	Active int
}

func (p Party) clone() Party {
	team := make([]Combatant, len(p.Team))
	for i := range p.Team {
		team[i] = p.Team[i].Clone()
	}
	return Party{Team: team, Active: p.Active}
}

// Env is what a State needs from outside: reference tables and a source of
// randomness for speed ties.
type Env struct {
	Rules dex.Rules
	Rand  Rand
}

// State is one snapshot of a battle. It is never changed after
// construction; ApplyTurn returns a new State.
type State struct {
	env          Env
	sides        [2]Party
	Turn         int
	ForcedSwitch bool
}

// NewState copies both parties. A nil Rules means an empty table and a nil
// Rand a source seeded with 1. An out of range active index selects the
// first team member.
func NewState(env Env, mine, theirs Party, turn int) *State {
	if env.Rules == nil {
		env.Rules = dex.NewTable(nil, nil, nil)
	}
	if env.Rand == nil {
		env.Rand = NewRand(1)
	}
	s := &State{env: env, Turn: turn}
	for side, p := range [2]Party{mine, theirs} {
		p = p.clone()
		if p.Active < 0 || p.Active >= len(p.Team) {
			p.Active = 0
		}
		s.sides[side] = p
	}
	return s
}

func (s *State) Rules() dex.Rules { return s.env.Rules }
func (s *State) Rand() Rand       { return s.env.Rand }

// Clone returns a deep copy sharing only the Env.
func (s *State) Clone() *State {
	return &State{
		env:          s.env,
		sides:        [2]Party{s.sides[Mine].clone(), s.sides[Theirs].clone()},
		Turn:         s.Turn,
		ForcedSwitch: s.ForcedSwitch,
	}
}

// active returns the live pointer into the team, or nil for an empty team.
func (s *State) active(side Side) *Combatant {
	p := &s.sides[side]
	if len(p.Team) == 0 {
		return nil
	}
	return &p.Team[p.Active]
}

// Active returns a copy of the side's active combatant. ok is false when the
// team is empty.
func (s *State) Active(side Side) (Combatant, bool) {
	c := s.active(side)
	if c == nil {
		return Combatant{}, false
	}
	return c.Clone(), true
}

// Team returns a copy of the side's team in its original order.
func (s *State) Team(side Side) []Combatant {
	return s.sides[side].clone().Team
}

// ActiveFainted is also true for a side without any combatant.
func (s *State) ActiveFainted(side Side) bool {
	c := s.active(side)
	return c == nil || c.Fainted()
}

// Bench returns the IDs of living non-active team members.
func (s *State) Bench(side Side) []string {
	p := &s.sides[side]
	var ids []string
	for i := range p.Team {
		if i != p.Active && !p.Team[i].Fainted() {
			ids = append(ids, p.Team[i].ID)
		}
	}
	return ids
}

func (s *State) HasBench(side Side) bool { return len(s.Bench(side)) > 0 }

// Winner reports the side whose opponent has no living combatant left. When
// both teams are wiped out Mine is reported as the loser.
func (s *State) Winner() (Side, bool) {
	if !s.alive(Mine) {
		return Theirs, true
	}
	if !s.alive(Theirs) {
		return Mine, true
	}
	return Mine, false
}

func (s *State) alive(side Side) bool {
	for i := range s.sides[side].Team {
		if !s.sides[side].Team[i].Fainted() {
			return true
		}
	}
	return false
}

// PossibleActions lists a move action per known move of the active (moves
// missing from the rules are skipped) followed by a switch per living
// teammate. PP, disable and trapping are not modelled.
func (s *State) PossibleActions(side Side) []Action {
	c := s.active(side)
	if c == nil {
		return nil
	}
	var out []Action
	for _, id := range c.Moves {
		mv, ok := s.env.Rules.LookupMove(id)
		if !ok {
			continue
		}
		out = append(out, UseMove(id, mv.Priority))
	}
	for _, id := range s.Bench(side) {
		out = append(out, SwitchTo(id))
	}
	return out
}

// ApplyTurn resolves both sides' actions and returns the resulting state.
//
// During a forced switch only a side whose active has fainted acts, and
// only a switch does anything; the turn counter is left alone. Otherwise
// the turn advances, actions run in priority then speed order (random on a
// full tie) and each move subtracts its expected damage from the target.
// Invalid actions are ignored.
func (s *State) ApplyTurn(mine, theirs Action) *State {
	next := s.Clone()
	acts := [2]Action{mine, theirs}

	if s.ForcedSwitch {
		next.ForcedSwitch = false
		for _, side := range []Side{Mine, Theirs} {
			if next.ActiveFainted(side) && acts[side].Kind == KindSwitch {
				next.switchTo(side, acts[side].Target)
			}
		}
		return next
	}

	next.Turn++
	first := next.firstToAct(mine, theirs)
	next.execute(first, acts[first])
	next.execute(first.Opponent(), acts[first.Opponent()])
	next.ForcedSwitch = next.needsReplacement(Mine) || next.needsReplacement(Theirs)
	return next
}

func (s *State) firstToAct(mine, theirs Action) Side {
	if mine.Priority != theirs.Priority {
		if mine.Priority > theirs.Priority {
			return Mine
		}
		return Theirs
	}
	my, their := s.speed(Mine), s.speed(Theirs)
	switch {
	case my > their:
		return Mine
	case their > my:
		return Theirs
	case s.env.Rand.Intn(2) == 0:
		return Mine
	default:
		return Theirs
	}
}

func (s *State) speed(side Side) int {
	c := s.active(side)
	if c == nil {
		return 0
	}
	return Stats(s.env.Rules, c).Spe
}

func (s *State) execute(side Side, a Action) {
	actor := s.active(side)
	if actor == nil || actor.Fainted() {
		return
	}
	switch a.Kind {
	case KindSwitch:
		s.switchTo(side, a.Target)
	case KindMove:
		mv, ok := s.env.Rules.LookupMove(a.MoveID)
		if !ok {
			return
		}
		target := s.active(side.Opponent())
		if target == nil {
			return
		}
		dmg := ExpectedDamage(s.env.Rules, actor, target, mv)
		target.HP = max(0, target.HP-dmg)
	}
}

// switchTo installs the living, non-active team member with the given ID.
func (s *State) switchTo(side Side, id string) {
	p := &s.sides[side]
	for i := range p.Team {
		if p.Team[i].ID == id && i != p.Active && !p.Team[i].Fainted() {
			p.Active = i
			return
		}
	}
}

func (s *State) needsReplacement(side Side) bool {
	return s.ActiveFainted(side) && s.HasBench(side)
}

// Evaluate scores the state for Mine. Knocking out the opposing active
// scores above 1000 and losing our own below -1000, so a faint outranks any
// HP difference; otherwise the score is the team HP fraction difference
// times 100.
func (s *State) Evaluate() float64 {
	if s.ActiveFainted(Theirs) {
		return 1000 + s.activeFraction(Mine)*100
	}
	if s.ActiveFainted(Mine) {
		return -1000 - s.activeFraction(Theirs)*100
	}
	return (s.teamFraction(Mine) - s.teamFraction(Theirs)) * 100
}

func (s *State) activeFraction(side Side) float64 {
	c := s.active(side)
	if c == nil {
		return 0
	}
	return c.HPFraction(s.env.Rules)
}

func (s *State) teamFraction(side Side) float64 {
	total := 0.0
	for i := range s.sides[side].Team {
		total += s.sides[side].Team[i].HPFraction(s.env.Rules)
	}
	return total
}

type sideView struct {
	ActiveID string      `json:"activeId"`
	Team     []Combatant `json:"team"`
}

type stateView struct {
	Mine         sideView `json:"mine"`
	Theirs       sideView `json:"theirs"`
	Turn         int      `json:"turn"`
	ForcedSwitch bool     `json:"forcedSwitch"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	view := stateView{Turn: s.Turn, ForcedSwitch: s.ForcedSwitch}
	for side, dst := range map[Side]*sideView{Mine: &view.Mine, Theirs: &view.Theirs} {
		dst.Team = s.Team(side)
		if c := s.active(side); c != nil {
			dst.ActiveID = c.ID
		}
	}
	return json.Marshal(view)
}
