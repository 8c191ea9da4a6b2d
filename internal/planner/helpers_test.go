package planner

import (
	"testing"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
)

type fixedRand int

func (f fixedRand) Intn(n int) int   { return int(f) % n }
func (f fixedRand) Float64() float64 { return 0.5 }

func testRules() *dex.Table {
	flat := dex.BaseStats{HP: 100, Atk: 100, Def: 100, SpA: 100, SpD: 100, Spe: 100}
	return dex.NewTable(
		[]dex.Species{
			{ID: "plain", Types: []dex.Type{"Normal"}, BaseStats: flat},
			{ID: "blaze", Types: []dex.Type{"Fire"}, BaseStats: flat},
			{ID: "leaf", Types: []dex.Type{"Grass"}, BaseStats: flat},
			{ID: "shell", Types: []dex.Type{"Water"}, BaseStats: flat},
		},
		[]dex.Move{
			{ID: "tackle", Type: "Normal", Category: dex.Physical, Power: 80, Accuracy: dex.Accuracy{Percent: 100}},
			{ID: "slam", Type: "Normal", Category: dex.Physical, Power: 80, Accuracy: dex.Accuracy{Percent: 100}},
			{ID: "ember", Type: "Fire", Category: dex.Special, Power: 40, Accuracy: dex.Accuracy{Percent: 100}},
			{ID: "bubble", Type: "Water", Category: dex.Special, Power: 40, Accuracy: dex.Accuracy{Percent: 100}},
			{ID: "growl", Type: "Normal", Category: dex.Status},
		},
		nil,
	)
}

func mon(id, species string, hp float64, moves ...string) battle.Combatant {
	return battle.Combatant{
		ID:        id,
		SpeciesID: species,
		Level:     50,
		Moves:     moves,
		Stats:     &battle.StatBlock{HP: 100, Atk: 100, Def: 100, SpA: 100, SpD: 100, Spe: 100},
		HP:        hp,
		MaxHP:     100,
	}
}

func fast(c battle.Combatant) battle.Combatant {
	s := *c.Stats
	s.Spe = 150
	c.Stats = &s
	return c
}

func newState(mine, theirs []battle.Combatant) *battle.State {
	env := battle.Env{Rules: testRules(), Rand: fixedRand(0)}
	return battle.NewState(env, battle.Party{Team: mine}, battle.Party{Team: theirs}, 0)
}

func fromSetup(t *testing.T, mine, theirs []battle.Combatant) *battle.State {
	t.Helper()
	st, err := battle.NewStateFromSetup(battle.Env{Rules: testRules(), Rand: fixedRand(0)}, battle.Setup{
		Mine:   battle.SideSetup{Team: mine},
		Theirs: battle.SideSetup{Team: theirs},
	})
	if err != nil {
		t.Fatalf("Unexpected setup error: %v", err)
	}
	return st
}
