package battle

import (
	"math"

	"github.com/targoons/rnb-helper/internal/dex"
)

// RollCount is the number of damage rolls (85% to 100% inclusive).
const RollCount = 16

// DamageResult is the distribution of one hit. Rolls is empty when the move
// cannot deal damage.
type DamageResult struct {
	Min        int     `json:"min"`
	Max        int     `json:"max"`
	Rolls      []int   `json:"rolls"`
	KillChance float64 `json:"killChance"`
}

// CalculateDamage returns every damage roll of move from attacker against
// defender, plus the percentage of rolls that knock the defender out from
// its current HP.
func CalculateDamage(rules dex.Rules, attacker, defender *Combatant, move dex.Move, crit bool) DamageResult {
	if rules == nil || move.Category == dex.Status || move.Power <= 0 {
		return DamageResult{}
	}
	atkSpecies, ok := rules.LookupSpecies(attacker.SpeciesID)
	if !ok {
		return DamageResult{}
	}
	defSpecies, ok := rules.LookupSpecies(defender.SpeciesID)
	if !ok {
		return DamageResult{}
	}

	atkStats, defStats := Stats(rules, attacker), Stats(rules, defender)
	a, d := atkStats.Atk, defStats.Def
	if move.Category == dex.Special {
		a, d = atkStats.SpA, defStats.SpD
	}
	if d <= 0 {
		d = 1
	}

	levelFactor := float64(2*attacker.Level)/5 + 2
	dmg := levelFactor*float64(move.Power)*(float64(a)/float64(d))/50 + 2
	if crit {
		dmg *= 1.5
	}
	if atkSpecies.HasType(move.Type) {
		dmg *= 1.5
	}
	dmg *= rules.TypeEffectiveness(move.Type, defSpecies.Types)

	rolls := make([]int, RollCount)
	kills := 0
	for i := range rolls {
		pct := 85 + i
		rolls[i] = int(math.Floor(dmg * float64(pct) / 100))
		if float64(rolls[i]) >= defender.HP {
			kills++
		}
	}
	return DamageResult{
		Min:        rolls[0],
		Max:        rolls[RollCount-1],
		Rolls:      rolls,
		KillChance: float64(kills) * 100 / RollCount,
	}
}

// HitChance folds the move's accuracy with the attacker's accuracy stage
// and the defender's evasion stage. The result is clamped to [0,1].
func HitChance(move dex.Move, attacker, defender *Combatant) float64 {
	diff := clampStage(attacker.Stages.Accuracy) - clampStage(defender.Stages.Evasion)
	mult := 1.0
	if diff >= 0 {
		mult = float64(3+diff) / 3
	} else {
		mult = 3 / float64(3-diff)
	}
	return math.Min(1, math.Max(0, move.Accuracy.Chance()*mult))
}

// ExpectedDamage is the middle roll scaled by the hit chance. Turns are
// resolved with this value instead of a sampled roll, which keeps the
// search tree finite and reproducible.
func ExpectedDamage(rules dex.Rules, attacker, defender *Combatant, move dex.Move) float64 {
	res := CalculateDamage(rules, attacker, defender, move, false)
	if len(res.Rolls) == 0 {
		return 0
	}
	return float64(res.Rolls[RollCount/2-1]) * HitChance(move, attacker, defender)
}
