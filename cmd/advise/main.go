// advise prints move advice for one battle position as JSON.
// Usage: go run ./cmd/advise -setup battle.yaml [-data data] [-depth 2]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
	"github.com/targoons/rnb-helper/internal/planner"
	"github.com/targoons/rnb-helper/internal/report"
	"github.com/targoons/rnb-helper/internal/search"
)

type advice struct {
	Turn          int                   `json:"turn"`
	ForcedSwitch  bool                  `json:"forcedSwitch"`
	Winner        string                `json:"winner,omitempty"`
	Score         float64               `json:"score"`
	WinLikelihood float64               `json:"winLikelihood"`
	Best          *battle.Action        `json:"best,omitempty"`
	Line          []battle.Action       `json:"line,omitempty"`
	Switch        *battle.Action        `json:"suggestedSwitch,omitempty"`
	Actions       []battle.ScoredAction `json:"actions"`
	Predictions   []battle.ScoredAction `json:"predictions"`
	Team          []search.TeamPick     `json:"team,omitempty"`
}

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("advise", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataDir := fs.String("data", "data", "directory holding species, moves and types files")
	setupPath := fs.String("setup", "", "battle setup file (yaml or json)")
	depth := fs.Int("depth", 2, "search depth in turns")
	seed := fs.Int64("seed", 1, "seed for speed ties")
	out := fs.String("out", "", "write advice here instead of stdout")
	schema := fs.Bool("schema", false, "print the setup JSON schema and exit")
	boxPath := fs.String("box", "", "yaml list of candidates to rank against the opposing team")
	size := fs.Int("size", search.DefaultTeamSize, "team size for -box")
	pdfPath := fs.String("pdf", "", "auto-play from the setup and write a PDF plan here")
	turns := fs.Int("turns", planner.DefaultAutoPlayTurns, "turns to auto-play for -pdf")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *schema {
		return writeJSON(stdout, stderr, *out, battle.SetupSchema())
	}
	if *setupPath == "" {
		fmt.Fprintf(stderr, "usage: advise -setup <file> [-data dir] [-depth n]\n")
		return 2
	}

	rules, err := dex.LoadTable(*dataDir)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	setup, err := battle.LoadSetup(*setupPath)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	st, err := battle.NewStateFromSetup(battle.Env{Rules: rules, Rand: battle.NewRand(*seed)}, setup)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	adv := analyse(st, *depth)
	if *boxPath != "" {
		box, err := loadBox(*boxPath)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		adv.Team = search.SuggestTeam(rules, box, st.Team(battle.Theirs), *size)
	}

	if *pdfPath != "" {
		tree := planner.New(st, planner.Config{BestDepth: *depth, PredictDepth: *depth})
		if _, err := tree.AutoPlay(*turns); err != nil {
			fmt.Fprintf(stderr, "auto-play: %v\n", err)
		}
		b, err := report.Generate(tree, *setupPath, *depth)
		if err != nil {
			fmt.Fprintf(stderr, "report: %v\n", err)
			return 1
		}
		if err := os.WriteFile(*pdfPath, b, 0o644); err != nil { //nolint:gosec // report is not sensitive
			fmt.Fprintf(stderr, "write %s: %v\n", *pdfPath, err)
			return 1
		}
	}

	return writeJSON(stdout, stderr, *out, adv)
}

func analyse(st *battle.State, depth int) advice {
	adv := advice{
		Turn:         st.Turn,
		ForcedSwitch: st.ForcedSwitch,
		Actions:      []battle.ScoredAction{},
		Predictions:  []battle.ScoredAction{},
	}
	if winner, over := st.Winner(); over {
		adv.Winner = winner.String()
		adv.Score = st.Evaluate()
		adv.WinLikelihood = search.WinLikelihood(adv.Score)
		return adv
	}
	res := search.EvaluateState(st, depth)
	adv.Score = res.Score
	adv.WinLikelihood = search.WinLikelihood(res.Score)
	adv.Line = res.Path
	if st.ForcedSwitch && st.ActiveFainted(battle.Mine) {
		if sw, ok := search.BestCounterSwitch(st, battle.Mine, nil); ok {
			adv.Switch = &sw
		}
	}
	if best, ok := search.BestAction(st, depth); ok {
		adv.Best = &best
	}
	if acts := search.AnalyzeAllActions(st, depth); len(acts) > 0 {
		adv.Actions = acts
	}
	if preds := search.PredictOpponentActions(st, depth); len(preds) > 0 {
		adv.Predictions = preds
	}
	return adv
}

func loadBox(path string) ([]battle.Combatant, error) {
	b, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, err
	}
	var box []battle.Combatant
	if err := yaml.Unmarshal(b, &box); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return box, nil
}

func writeJSON(stdout, stderr io.Writer, path string, v any) int {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return 1
	}
	b = append(b, '\n')
	if path == "" {
		if _, err := stdout.Write(b); err != nil {
			fmt.Fprintf(stderr, "write: %v\n", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(path, b, 0o644); err != nil { //nolint:gosec // advice is not sensitive
		fmt.Fprintf(stderr, "write %s: %v\n", path, err)
		return 1
	}
	return 0
}
