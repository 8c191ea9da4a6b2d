// Package planner keeps a branching history of simulated turns for one
// advisory session. Each turn the player picks an action and the tree
// branches once per predicted opponent reply.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/search"
)

var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrActionRequired = errors.New("action required")
	ErrBattleOver     = errors.New("battle is over")
)

// Defaults used for zero Config fields.
const (
	DefaultBestDepth     = 3
	DefaultPredictDepth  = 2
	DefaultAutoPlayTurns = 5
)

type Config struct {
	// BestDepth is the search depth for my action during auto-play.
	BestDepth int
	// PredictDepth is the search depth for opponent predictions.
	PredictDepth int
	// Scorer picks replacements during forced switches.
	Scorer search.SwitchScorer
}

func (c Config) withDefaults() Config {
	if c.BestDepth <= 0 {
		c.BestDepth = DefaultBestDepth
	}
	if c.PredictDepth <= 0 {
		c.PredictDepth = DefaultPredictDepth
	}
	if c.Scorer == nil {
		c.Scorer = search.MatchupScorer
	}
	return c
}

// Node is one simulated point of the battle. Mine and Theirs are the
// actions that led to it and are nil on the root.
type Node struct {
	ID          string         `json:"id"`
	ParentID    string         `json:"parentId,omitempty"`
	Children    []string       `json:"children"`
	State       *battle.State  `json:"state"`
	Mine        *battle.Action `json:"myAction,omitempty"`
	Theirs      *battle.Action `json:"enemyAction,omitempty"`
	Probability float64        `json:"probability"`
	Turn        int            `json:"turn"`
}

func (n *Node) copy() Node {
	out := *n
	out.Children = append([]string(nil), n.Children...)
	return out
}

// Tree is safe for concurrent use.
type Tree struct {
	mu      sync.RWMutex
	cfg     Config
	nodes   map[string]*Node
	order   []string
	root    string
	current string
}

func New(st *battle.State, cfg Config) *Tree {
	root := &Node{ID: uuid.NewString(), State: st, Probability: 100, Turn: st.Turn}
	return &Tree{
		cfg:     cfg.withDefaults(),
		nodes:   map[string]*Node{root.ID: root},
		order:   []string{root.ID},
		root:    root.ID,
		current: root.ID,
	}
}

func (t *Tree) Root() Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[t.root].copy()
}

func (t *Tree) Current() Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[t.current].copy()
}

func (t *Tree) Node(id string) (Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n.copy(), nil
}

func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Nodes returns every node in creation order.
func (t *Tree) Nodes() []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Node, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id].copy())
	}
	return out
}

// Navigate makes id the current node.
func (t *Tree) Navigate(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	t.current = id
	return nil
}

// Path returns the nodes from the root down to id.
func (t *Tree) Path(id string) ([]Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	var rev []Node
	for ; n != nil; n = t.nodes[n.ParentID] {
		rev = append(rev, n.copy())
	}
	out := make([]Node, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out, nil
}

// Advance plays mine from the current node. In a normal turn the tree
// branches once per predicted opponent action and the most likely branch
// becomes current. In a forced switch a single child is added: mine must
// be a switch if my active has fainted and is ignored otherwise, while the
// opponent's replacement comes from the configured scorer. The new
// children are returned.
func (t *Tree) Advance(mine battle.Action) ([]Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.nodes[t.current]
	st := cur.State
	if _, over := st.Winner(); over {
		return nil, ErrBattleOver
	}

	if st.ForcedSwitch {
		if st.ActiveFainted(battle.Mine) && st.HasBench(battle.Mine) {
			if mine.Kind != battle.KindSwitch {
				return nil, fmt.Errorf("%w: replace the fainted active with a switch", ErrActionRequired)
			}
			if !slices.Contains(st.Bench(battle.Mine), mine.Target) {
				return nil, fmt.Errorf("%w: %q cannot come in", ErrActionRequired, mine.Target)
			}
		} else {
			mine = battle.Pass()
		}
		child := t.addChild(cur, mine, t.opponentReplacement(st), 100)
		t.current = child.ID
		return []Node{child.copy()}, nil
	}

	if mine.Kind == "" {
		return nil, ErrActionRequired
	}
	preds := search.PredictOpponentActions(st, t.cfg.PredictDepth)
	if len(preds) == 0 {
		preds = []battle.ScoredAction{{Action: battle.Pass(), Probability: 100}}
	}
	out := make([]Node, 0, len(preds))
	for _, p := range preds {
		out = append(out, t.addChild(cur, mine, p.Action, p.Probability).copy())
	}
	t.current = out[0].ID
	return out, nil
}

// Step plays one turn on its own: the best action against the most likely
// reply, or the best replacements during a forced switch. Only one child is
// added.
func (t *Tree) Step() (Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.nodes[t.current]
	st := cur.State
	if _, over := st.Winner(); over {
		return Node{}, ErrBattleOver
	}

	if st.ForcedSwitch {
		mine := battle.Pass()
		if st.ActiveFainted(battle.Mine) {
			if sw, ok := search.BestCounterSwitch(st, battle.Mine, t.cfg.Scorer); ok {
				mine = sw
			}
		}
		child := t.addChild(cur, mine, t.opponentReplacement(st), 100)
		t.current = child.ID
		return child.copy(), nil
	}

	if st.ActiveFainted(battle.Mine) || st.ActiveFainted(battle.Theirs) {
		// a fainted active outside a forced switch never acts again
		return Node{}, ErrBattleOver
	}
	mine, ok := search.BestAction(st, t.cfg.BestDepth)
	if !ok {
		return Node{}, fmt.Errorf("%w: no legal action", ErrBattleOver)
	}
	reply, prob := battle.Pass(), 100.0
	if preds := search.PredictOpponentActions(st, t.cfg.PredictDepth); len(preds) > 0 {
		reply, prob = preds[0].Action, preds[0].Probability
	}
	child := t.addChild(cur, mine, reply, prob)
	t.current = child.ID
	return child.copy(), nil
}

// AutoPlay steps up to turns times (DefaultAutoPlayTurns when turns <= 0),
// stopping early once the battle is decided. Forced switches count as
// steps. The nodes added are returned.
func (t *Tree) AutoPlay(turns int) ([]Node, error) {
	if turns <= 0 {
		turns = DefaultAutoPlayTurns
	}
	var out []Node
	for i := 0; i < turns; i++ {
		n, err := t.Step()
		if errors.Is(err, ErrBattleOver) {
			if len(out) == 0 {
				return nil, err
			}
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (t *Tree) opponentReplacement(st *battle.State) battle.Action {
	if !st.ActiveFainted(battle.Theirs) {
		return battle.Pass()
	}
	if sw, ok := search.BestCounterSwitch(st, battle.Theirs, t.cfg.Scorer); ok {
		return sw
	}
	return battle.Pass()
}

func (t *Tree) addChild(parent *Node, mine, theirs battle.Action, prob float64) *Node {
	next := parent.State.ApplyTurn(mine, theirs)
	n := &Node{
		ID:          uuid.NewString(),
		ParentID:    parent.ID,
		State:       next,
		Mine:        &mine,
		Theirs:      &theirs,
		Probability: prob,
		Turn:        next.Turn,
	}
	t.nodes[n.ID] = n
	t.order = append(t.order, n.ID)
	parent.Children = append(parent.Children, n.ID)
	return n
}

type treeView struct {
	Root    string `json:"root"`
	Current string `json:"current"`
	Nodes   []Node `json:"nodes"`
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	nodes := t.Nodes()
	t.mu.RLock()
	view := treeView{Root: t.root, Current: t.current, Nodes: nodes}
	t.mu.RUnlock()
	return json.Marshal(view)
}
