package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
	"github.com/targoons/rnb-helper/internal/planner"
	"github.com/targoons/rnb-helper/internal/session"
	"github.com/targoons/rnb-helper/internal/web"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dataDir := flag.String("data", "data", "directory holding species, moves and types files")
	seed := flag.Int64("seed", 1, "seed for speed ties and random switch scoring")
	depth := flag.Int("depth", web.DefaultDepth, "default analysis depth")
	bestDepth := flag.Int("best-depth", planner.DefaultBestDepth, "search depth for my moves during auto-play")
	predictDepth := flag.Int("predict-depth", planner.DefaultPredictDepth, "search depth for opponent predictions")
	flag.Parse()

	rules, err := dex.LoadTable(*dataDir)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %d species and %d moves from %s", rules.SpeciesCount(), rules.MoveCount(), *dataDir)

	srv := &web.Server{
		Rules: rules,
		Rand:  battle.NewRand(*seed),
		Store: session.NewMemoryStore[*planner.Tree](),
		Planner: planner.Config{
			BestDepth:    *bestDepth,
			PredictDepth: *predictDepth,
		},
		Depth: *depth,
	}

	log.Printf("listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, srv.Routes()))
}
