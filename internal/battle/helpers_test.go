package battle

import (
	"github.com/targoons/rnb-helper/internal/dex"
)

// fixedRand always returns the same draw.
type fixedRand int

func (f fixedRand) Intn(n int) int   { return int(f) % n }
func (f fixedRand) Float64() float64 { return 0 }

func testRules() *dex.Table {
	flat := dex.BaseStats{HP: 100, Atk: 100, Def: 100, SpA: 100, SpD: 100, Spe: 100}
	return dex.NewTable(
		[]dex.Species{
			{ID: "plain", Types: []dex.Type{"Normal"}, BaseStats: flat},
			{ID: "brawler", Types: []dex.Type{"Fighting"}, BaseStats: flat},
			{ID: "blaze", Types: []dex.Type{"Fire"}, BaseStats: flat},
			{ID: "leaf", Types: []dex.Type{"Grass"}, BaseStats: flat},
			{ID: "husk", Types: []dex.Type{"Bug", "Ghost"}, BaseStats: dex.BaseStats{HP: 1, Atk: 90, Def: 45, SpA: 30, SpD: 30, Spe: 40}},
		},
		[]dex.Move{
			{ID: "tackle", Type: "Normal", Category: dex.Physical, Power: 80, Accuracy: dex.Accuracy{Percent: 100}},
			{ID: "quick-attack", Type: "Normal", Category: dex.Physical, Power: 40, Accuracy: dex.Accuracy{Percent: 100}, Priority: 1},
			{ID: "ember", Type: "Fire", Category: dex.Special, Power: 40, Accuracy: dex.Accuracy{Percent: 100}},
			{ID: "wild-swing", Type: "Normal", Category: dex.Physical, Power: 80, Accuracy: dex.Accuracy{Percent: 50}},
			{ID: "swift", Type: "Normal", Category: dex.Special, Power: 60, Accuracy: dex.Accuracy{Always: true}},
			{ID: "growl", Type: "Normal", Category: dex.Status},
		},
		nil,
	)
}

// mon builds a level 50 combatant with flat live stats of 100 so damage is
// easy to reason about.
func mon(id, species string, hp float64, moves ...string) Combatant {
	return Combatant{
		ID:        id,
		SpeciesID: species,
		Level:     50,
		Moves:     moves,
		Stats:     &StatBlock{HP: 100, Atk: 100, Def: 100, SpA: 100, SpD: 100, Spe: 100},
		HP:        hp,
		MaxHP:     100,
	}
}

func withSpeed(c Combatant, spe int) Combatant {
	s := *c.Stats
	s.Spe = spe
	c.Stats = &s
	return c
}

func newTestState(mine, theirs []Combatant) *State {
	return NewState(Env{Rules: testRules(), Rand: fixedRand(0)}, Party{Team: mine}, Party{Team: theirs}, 0)
}
