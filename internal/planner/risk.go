package planner

import (
	"fmt"

	"github.com/targoons/rnb-helper/internal/battle"
)

type RiskLevel string

const (
	Safe      RiskLevel = "Safe"
	Risky     RiskLevel = "Risky"
	Dangerous RiskLevel = "Dangerous"
)

// Risk summarises how low my active's HP gets along a line of play.
type Risk struct {
	MinHPPercent float64   `json:"minHpPercent"`
	Level        RiskLevel `json:"level"`
	Reason       string    `json:"reason,omitempty"`
}

// AssessPath rates a root-to-node path. The root is the starting position
// and is not counted. Below 30% HP is dangerous and below 50% risky; the
// reason names the last turn that set the level.
func AssessPath(path []Node) Risk {
	r := Risk{MinHPPercent: 100, Level: Safe}
	for i, n := range path {
		if i == 0 {
			continue
		}
		active, ok := n.State.Active(battle.Mine)
		if !ok {
			continue
		}
		pct := active.HPFraction(n.State.Rules()) * 100
		r.MinHPPercent = min(r.MinHPPercent, pct)
		switch {
		case pct < 30:
			r.Level = Dangerous
			r.Reason = fmt.Sprintf("low HP on turn %d", n.Turn)
		case pct < 50 && r.Level != Dangerous:
			r.Level = Risky
			r.Reason = fmt.Sprintf("below 50%% HP on turn %d", n.Turn)
		}
	}
	return r
}

// Risk assesses the path to id.
func (t *Tree) Risk(id string) (Risk, error) {
	path, err := t.Path(id)
	if err != nil {
		return Risk{}, err
	}
	return AssessPath(path), nil
}
