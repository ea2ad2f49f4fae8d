//go:build !lambda

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

const usage = `Usage: matchgen [flags] <roster.json>
       matchgen -check <table.json>

Positional arguments:
  roster.json   JSON array of teams, each an array of {name, level, gender}
  table.json    JSON array of rounds, each an array of 4-name courts ("" = open)

Flags:
`

func main() {
	courts := flag.Int("courts", 1, "Number of courts per round")
	rounds := flag.Int("rounds", 1, "Number of rounds")
	confPath := flag.String("config", "", "TOML search configuration")
	seed := flag.Int64("seed", 0, "Random seed (0 = time based, overrides config)")
	strategy := flag.String("strategy", "", "Search strategy: exhaustive, sampled, parallel or phased")
	jsonOut := flag.Bool("json", false, "Output the result envelope as JSON")
	verbose := flag.Bool("verbose", false, "Print detailed search progress to stderr")
	verify := flag.Bool("verify", false, "Append a verification report")
	check := flag.Bool("check", false, "Verify an existing table instead of generating one")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *check {
		runCheck(args[0], *jsonOut)
		return
	}

	cfg := DefaultConfig()
	if *confPath != "" {
		var err error
		if cfg, err = LoadConfig(*confPath); err != nil {
			fail(*jsonOut, err)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *strategy != "" {
		cfg.Strategy = *strategy
	}
	SetVerbose(*verbose || cfg.Debug)

	teams, err := LoadRoster(args[0])
	if err != nil {
		fail(*jsonOut, err)
	}

	res, err := Generate(teams, *courts, *rounds, cfg)
	if err != nil {
		fail(*jsonOut, err)
	}

	if *jsonOut {
		fmt.Println(SuccessEnvelope(res, *verify).JSON())
		return
	}
	fmt.Print(FormatTable(res.Table, cfg.groupRule()))
	fmt.Printf("State: %s after %d swaps in %.1fs\n", res.State, res.Iterations, res.Elapsed.Seconds())
	if *verify {
		fmt.Print(FormatReport(Verify(res.Table.Names())))
	}
}

// runCheck reports on a hand-entered table.
func runCheck(path string, jsonOut bool) {
	table, err := LoadTable(path)
	if err != nil {
		fail(jsonOut, err)
	}
	rep := Verify(table)
	if jsonOut {
		fmt.Println(Envelope{Status: "success", Result: table, Report: &rep}.JSON())
		return
	}
	fmt.Print(FormatReport(rep))
	for _, g := range rep.Games {
		fmt.Printf("%s: %d games\n", g.Player, g.Games)
	}
}

func fail(jsonOut bool, err error) {
	if jsonOut {
		fmt.Println(ErrorEnvelope(err).JSON())
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	var re *RosterError
	if errors.As(err, &re) || errors.Is(err, ErrInvalidDimensions) ||
		errors.Is(err, ErrInvalidTable) || errors.Is(err, ErrLevelRange) {
		os.Exit(2)
	}
	os.Exit(1)
}
