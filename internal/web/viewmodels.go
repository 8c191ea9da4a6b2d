package web

import (
	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
	"github.com/targoons/rnb-helper/internal/planner"
)

// SessionView is returned by the session endpoints.
type SessionView struct {
	ID   string        `json:"id"`
	Tree *planner.Tree `json:"tree"`
}

// AnalysisView holds the search results for a session's current node.
type AnalysisView struct {
	NodeID       string                `json:"nodeId"`
	Depth        int                   `json:"depth"`
	ForcedSwitch bool                  `json:"forcedSwitch"`
	Winner       string                `json:"winner,omitempty"`
	Best         *battle.Action        `json:"best,omitempty"`
	Actions      []battle.ScoredAction `json:"actions"`
	Predictions  []battle.ScoredAction `json:"predictions"`
	Switch       *battle.Action        `json:"suggestedSwitch,omitempty"`
	Risk         planner.Risk          `json:"risk"`
}

// NodesView lists nodes added by a turn or auto-play request.
type NodesView struct {
	Current string         `json:"current"`
	Nodes   []planner.Node `json:"nodes"`
}

type TurnRequest struct {
	Action battle.Action `json:"action"`
}

type AutoPlayRequest struct {
	Turns int `json:"turns"`
}

type NavigateRequest struct {
	Node string `json:"node"`
}

// DamageRequest computes one hit outside of any session.
type DamageRequest struct {
	Attacker battle.Combatant `json:"attacker"`
	Defender battle.Combatant `json:"defender"`
	Move     string           `json:"move"`
	Crit     bool             `json:"crit"`
}

type DamageView struct {
	battle.DamageResult
	Move           dex.Move `json:"move"`
	HitChance      float64  `json:"hitChance"`
	ExpectedDamage float64  `json:"expectedDamage"`
}

// StreamMessage is one websocket frame of an auto-play stream.
type StreamMessage struct {
	Type  string        `json:"type"` // "node", "done" or "error"
	Node  *planner.Node `json:"node,omitempty"`
	Error string        `json:"error,omitempty"`
}

type errorView struct {
	Error string `json:"error"`
}
