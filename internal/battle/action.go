package battle

import "fmt"

type ActionKind string

const (
	KindMove   ActionKind = "MOVE"
	KindSwitch ActionKind = "SWITCH"
	// KindPass is what a side submits when it has nothing to do, e.g. the
	// healthy side during a forced switch.
	KindPass ActionKind = "PASS"
)

// SwitchPriority puts switches ahead of every move priority bracket.
const SwitchPriority = 6

// Action is one side's choice for a turn. Actions are plain values.
type Action struct {
	Kind     ActionKind `json:"type" yaml:"type" jsonschema:"enum=MOVE,enum=SWITCH,enum=PASS"`
	MoveID   string     `json:"moveId,omitempty" yaml:"moveId,omitempty"`
	Target   string     `json:"switchTargetId,omitempty" yaml:"switchTargetId,omitempty"`
	Priority int        `json:"priority" yaml:"priority"`
}

func UseMove(moveID string, priority int) Action {
	return Action{Kind: KindMove, MoveID: moveID, Priority: priority}
}

func SwitchTo(id string) Action {
	return Action{Kind: KindSwitch, Target: id, Priority: SwitchPriority}
}

func Pass() Action {
	return Action{Kind: KindPass}
}

func (a Action) String() string {
	switch a.Kind {
	case KindMove:
		return fmt.Sprintf("move %s", a.MoveID)
	case KindSwitch:
		return fmt.Sprintf("switch %s", a.Target)
	case KindPass:
		return "pass"
	default:
		return fmt.Sprintf("unknown(%s)", a.Kind)
	}
}

// ScoredAction is an Action with its search score. Probability is 0-100 and
// only meaningful within one result set; Explanation alternates sides,
// starting with whichever side did not choose the Action.
type ScoredAction struct {
	Action
	Score       float64  `json:"score"`
	Probability float64  `json:"probability"`
	Explanation []Action `json:"explanation,omitempty"`
}
