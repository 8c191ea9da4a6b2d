package search

import (
	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
)

// SwitchScorer rates a benched candidate as the replacement for side's
// active. Higher is better.
type SwitchScorer interface {
	ScoreSwitch(st *battle.State, side battle.Side, candidate battle.Combatant) float64
}

type SwitchScorerFunc func(st *battle.State, side battle.Side, candidate battle.Combatant) float64

func (f SwitchScorerFunc) ScoreSwitch(st *battle.State, side battle.Side, candidate battle.Combatant) float64 {
	return f(st, side, candidate)
}

var (
	// MatchupScorer prefers candidates whose types hit the opposing active
	// hard and resist it, then the healthier one.
	MatchupScorer SwitchScorer = SwitchScorerFunc(matchupScore)
	// RandomScorer ignores the battle entirely.
	RandomScorer SwitchScorer = SwitchScorerFunc(func(st *battle.State, _ battle.Side, _ battle.Combatant) float64 {
		return st.Rand().Float64()
	})
)

func matchupScore(st *battle.State, side battle.Side, candidate battle.Combatant) float64 {
	rules := st.Rules()
	score := candidate.HPFraction(rules)
	foe, ok := st.Active(side.Opponent())
	if !ok {
		return score
	}
	mine, ok := rules.LookupSpecies(candidate.SpeciesID)
	if !ok {
		return score
	}
	theirs, ok := rules.LookupSpecies(foe.SpeciesID)
	if !ok {
		return score
	}
	return score + typeMatchup(rules, mine, theirs)
}

// typeMatchup is 10 x (best effectiveness of a's types against b minus the
// best of b's types against a).
func typeMatchup(rules dex.Rules, a, b dex.Species) float64 {
	return 10 * (bestEffectiveness(rules, a.Types, b.Types) - bestEffectiveness(rules, b.Types, a.Types))
}

func bestEffectiveness(rules dex.Rules, attack, defend []dex.Type) float64 {
	best := 0.0
	for _, t := range attack {
		best = max(best, rules.TypeEffectiveness(t, defend))
	}
	return best
}

// BestCounterSwitch picks the replacement for side's active among its
// living bench. Candidates with equal scores are chosen between uniformly
// through the state's Rand. A nil scorer means MatchupScorer.
func BestCounterSwitch(st *battle.State, side battle.Side, scorer SwitchScorer) (battle.Action, bool) {
	bench := st.Bench(side)
	if len(bench) == 0 {
		return battle.Action{}, false
	}
	if scorer == nil {
		scorer = MatchupScorer
	}

	byID := make(map[string]battle.Combatant, len(bench))
	for _, c := range st.Team(side) {
		byID[c.ID] = c
	}

	var best []string
	var bestScore float64
	for _, id := range bench {
		s := scorer.ScoreSwitch(st, side, byID[id])
		switch {
		case len(best) == 0 || s > bestScore:
			best, bestScore = []string{id}, s
		case s == bestScore:
			best = append(best, id)
		}
	}

	pick := best[0]
	if len(best) > 1 {
		pick = best[st.Rand().Intn(len(best))]
	}
	return battle.SwitchTo(pick), true
}
