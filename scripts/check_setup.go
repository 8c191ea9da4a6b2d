// check_setup lists the species and moves a setup file references that the
// data tables do not define. Unknown moves are silently skipped by the
// engine, so typos otherwise go unnoticed.
// Usage: go run scripts/check_setup.go <data dir> <setup.yaml>
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
)

func main() {
	code := run()
	if code != 0 {
		os.Exit(code)
	}
}

func run() int {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: go run scripts/check_setup.go <data dir> <setup.yaml>\n")
		return 1
	}
	dataDir, setupPath := filepath.Clean(os.Args[1]), filepath.Clean(os.Args[2])
	if strings.Contains(setupPath, "..") {
		fmt.Fprintf(os.Stderr, "path must not escape current directory\n")
		return 1
	}
	rules, err := dex.LoadTable(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	setup, err := battle.LoadSetup(setupPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	problems := 0
	for _, side := range []struct {
		name string
		s    battle.SideSetup
	}{{"mine", setup.Mine}, {"theirs", setup.Theirs}} {
		members := side.s.Team
		if side.s.Lead != nil {
			members = append([]battle.Combatant{*side.s.Lead}, members...)
		}
		for _, c := range members {
			if _, ok := rules.LookupSpecies(c.SpeciesID); !ok {
				fmt.Printf("%s/%s: unknown species %q\n", side.name, c.ID, c.SpeciesID)
				problems++
			}
			for _, m := range c.Moves {
				if _, ok := rules.LookupMove(m); !ok {
					fmt.Printf("%s/%s: unknown move %q\n", side.name, c.ID, m)
					problems++
				}
			}
		}
	}
	if problems > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s) in %s\n", problems, setupPath)
		return 1
	}
	fmt.Printf("%s: ok\n", setupPath)
	return 0
}
