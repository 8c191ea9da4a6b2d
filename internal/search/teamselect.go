package search

import (
	"sort"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
)

// DefaultTeamSize is the number of picks SuggestTeam returns when asked
// for zero or fewer.
const DefaultTeamSize = 6

// TeamPick is a suggested team member and its matchup score.
type TeamPick struct {
	Combatant battle.Combatant `json:"combatant"`
	Score     float64          `json:"score"`
}

// SuggestTeam ranks the box against an opposing team by type matchup
// alone and keeps the best size members. Box members of unknown species
// score 0.
func SuggestTeam(rules dex.Rules, box, opponents []battle.Combatant, size int) []TeamPick {
	if size <= 0 {
		size = DefaultTeamSize
	}
	picks := make([]TeamPick, 0, len(box))
	for _, c := range box {
		picks = append(picks, TeamPick{Combatant: c.Clone(), Score: teamScore(rules, c, opponents)})
	}
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Score > picks[j].Score })
	if len(picks) > size {
		picks = picks[:size]
	}
	return picks
}

func teamScore(rules dex.Rules, c battle.Combatant, opponents []battle.Combatant) float64 {
	mine, ok := rules.LookupSpecies(c.SpeciesID)
	if !ok {
		return 0
	}
	score := 0.0
	for _, o := range opponents {
		if theirs, ok := rules.LookupSpecies(o.SpeciesID); ok {
			score += typeMatchup(rules, mine, theirs)
		}
	}
	return score
}
