// Package search ranks actions by exhaustive joint-action minimax over
// battle states. Both sides choose simultaneously each ply and depth is
// counted in whole turns. There is no pruning or memoisation, so callers
// should keep depth at 2 or 3.
package search

import (
	"math"
	"sort"

	"github.com/targoons/rnb-helper/internal/battle"
)

// Scale is the temperature of both the opponent softmax and the win
// likelihood curve, tuned to the range of State.Evaluate.
const Scale = 50

// Result is a minimax value and the line of play that produces it,
// alternating my action and the opponent's reply.
type Result struct {
	Score float64         `json:"score"`
	Path  []battle.Action `json:"path"`
}

// EvaluateState is the recursive maximin. It stops at depth 0, when either
// active has fainted or when neither side has anything to do; a side with
// no legal action passes.
func EvaluateState(st *battle.State, depth int) Result {
	if depth <= 0 || st.ActiveFainted(battle.Mine) || st.ActiveFainted(battle.Theirs) {
		return Result{Score: st.Evaluate()}
	}
	if len(st.PossibleActions(battle.Mine)) == 0 && len(st.PossibleActions(battle.Theirs)) == 0 {
		return Result{Score: st.Evaluate()}
	}
	mine := options(st, battle.Mine)
	theirs := options(st, battle.Theirs)

	var best Result
	for i, a := range mine {
		worst := worstReply(st, a, theirs, depth)
		if i == 0 || worst.Score > best.Score {
			best = worst
		}
	}
	return best
}

// worstReply is the opponent's minimising answer to a. The returned path
// starts with a and the reply; the first reply is kept unless a later one
// scores strictly lower.
func worstReply(st *battle.State, a battle.Action, theirs []battle.Action, depth int) Result {
	var worst Result
	for i, r := range theirs {
		res := EvaluateState(st.ApplyTurn(a, r), depth-1)
		if i == 0 || res.Score < worst.Score {
			worst = Result{Score: res.Score, Path: append([]battle.Action{a, r}, res.Path...)}
		}
	}
	return worst
}

// bestReply is my maximising answer to the opponent's r.
func bestReply(st *battle.State, r battle.Action, mine []battle.Action, depth int) Result {
	var best Result
	for i, a := range mine {
		res := EvaluateState(st.ApplyTurn(a, r), depth-1)
		if i == 0 || res.Score > best.Score {
			best = Result{Score: res.Score, Path: append([]battle.Action{a}, res.Path...)}
		}
	}
	return best
}

// options lists a side's actions, standing in a pass when there are none.
func options(st *battle.State, side battle.Side) []battle.Action {
	if acts := st.PossibleActions(side); len(acts) > 0 {
		return acts
	}
	return []battle.Action{battle.Pass()}
}

func clampDepth(depth int) int {
	return max(depth, 1)
}

// BestAction returns my action with the highest worst-case value. The first
// action enumerated wins ties. ok is false when I have no legal action.
func BestAction(st *battle.State, depth int) (battle.Action, bool) {
	depth = clampDepth(depth)
	mine := st.PossibleActions(battle.Mine)
	if len(mine) == 0 {
		return battle.Action{}, false
	}
	theirs := options(st, battle.Theirs)

	best, bestScore := mine[0], math.Inf(-1)
	for _, a := range mine {
		if s := worstReply(st, a, theirs, depth).Score; s > bestScore {
			best, bestScore = a, s
		}
	}
	return best, true
}

// PredictOpponentActions scores each opponent action by my best answer to
// it; a lower score is better for the opponent. Probabilities are a softmax
// over -score/Scale in percent. Results are sorted most dangerous first.
func PredictOpponentActions(st *battle.State, depth int) []battle.ScoredAction {
	depth = clampDepth(depth)
	theirs := st.PossibleActions(battle.Theirs)
	if len(theirs) == 0 {
		return nil
	}
	mine := options(st, battle.Mine)

	out := make([]battle.ScoredAction, len(theirs))
	for i, r := range theirs {
		res := bestReply(st, r, mine, depth)
		out[i] = battle.ScoredAction{Action: r, Score: res.Score, Explanation: res.Path}
	}

	logits := make([]float64, len(out))
	top := math.Inf(-1)
	for i := range out {
		logits[i] = -out[i].Score / Scale
		top = math.Max(top, logits[i])
	}
	sum := 0.0
	for i := range logits {
		logits[i] = math.Exp(logits[i] - top)
		sum += logits[i]
	}
	for i := range out {
		out[i].Probability = logits[i] / sum * 100
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// AnalyzeAllActions scores each of my actions against the opponent's best
// reply and maps the score to a 0-100 win likelihood. Explanation holds the
// reply followed by the rest of the line. Best first.
func AnalyzeAllActions(st *battle.State, depth int) []battle.ScoredAction {
	depth = clampDepth(depth)
	mine := st.PossibleActions(battle.Mine)
	theirs := options(st, battle.Theirs)

	out := make([]battle.ScoredAction, 0, len(mine))
	for _, a := range mine {
		res := worstReply(st, a, theirs, depth)
		out = append(out, battle.ScoredAction{
			Action:      a,
			Score:       res.Score,
			Probability: WinLikelihood(res.Score),
			Explanation: res.Path[1:],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// WinLikelihood is the logistic map of a score onto 0-100.
func WinLikelihood(score float64) float64 {
	return 100 / (1 + math.Exp(-score/Scale))
}
