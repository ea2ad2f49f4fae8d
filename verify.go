package main

import (
	"cmp"
	"slices"
)

// Unmet lists the players a player never shares a game with.
type Unmet struct {
	Player  string   `json:"player"`
	Missing []string `json:"missing"`
}

// RoundRepeat is a player scheduled on more than one court in the same round.
type RoundRepeat struct {
	Player string `json:"player"`
	Rounds []int  `json:"rounds"`
}

// Consecutive lists the rounds that belong to runs of back-to-back play.
type Consecutive struct {
	Player string `json:"player"`
	Rounds []int  `json:"rounds"`
}

// PlayerGames is how many game slots a player fills across the table.
type PlayerGames struct {
	Player string `json:"player"`
	Games  int    `json:"games"`
}

type Report struct {
	Unmet        []Unmet       `json:"unmet"`
	RoundRepeats []RoundRepeat `json:"roundRepeats"`
	Consecutive  []Consecutive `json:"consecutive"`
	Games        []PlayerGames `json:"games"`
}

func (r Report) Clean() bool {
	return len(r.Unmet) == 0 && len(r.RoundRepeats) == 0 && len(r.Consecutive) == 0
}

// Verify inspects a table given as rounds → courts → names. Empty names are
// ignored. Players are reported in order of first appearance, except Unmet,
// which lists the players missing the most partners first.
func Verify(table [][][]string) Report {
	var order []string
	idx := map[string]int{}
	for _, row := range table {
		for _, game := range row {
			for _, name := range game {
				if _, ok := idx[name]; !ok && name != "" {
					idx[name] = len(order)
					order = append(order, name)
				}
			}
		}
	}

	met := make([][]bool, len(order))
	for i := range met {
		met[i] = make([]bool, len(order))
	}
	perRound := make([][]int, len(table)) // games per player per round
	for r, row := range table {
		perRound[r] = make([]int, len(order))
		for _, game := range row {
			inGame := map[int]bool{}
			for _, name := range game {
				if i, ok := idx[name]; ok {
					inGame[i] = true
				}
			}
			for i := range inGame {
				perRound[r][i]++
				for j := range inGame {
					met[i][j] = true
				}
			}
		}
	}

	rep := Report{Games: GamesPerPlayer(table)}
	for i, name := range order {
		var missing []string
		for j, other := range order {
			if j != i && !met[i][j] {
				missing = append(missing, other)
			}
		}
		if len(missing) > 0 {
			rep.Unmet = append(rep.Unmet, Unmet{Player: name, Missing: missing})
		}

		var repeats, played []int
		for r := range table {
			if perRound[r][i] > 1 {
				repeats = append(repeats, r)
			}
			if perRound[r][i] > 0 {
				played = append(played, r)
			}
		}
		if len(repeats) > 0 {
			rep.RoundRepeats = append(rep.RoundRepeats, RoundRepeat{Player: name, Rounds: repeats})
		}
		if runs := consecutiveRuns(played); len(runs) > 0 {
			rep.Consecutive = append(rep.Consecutive, Consecutive{Player: name, Rounds: runs})
		}
	}
	slices.SortStableFunc(rep.Unmet, func(a, b Unmet) int {
		return cmp.Compare(len(b.Missing), len(a.Missing))
	})
	return rep
}

// GamesPerPlayer counts filled slots per name, in order of first appearance.
func GamesPerPlayer(table [][][]string) []PlayerGames {
	var out []PlayerGames
	idx := map[string]int{}
	for _, row := range table {
		for _, game := range row {
			for _, name := range game {
				if name == "" {
					continue
				}
				i, ok := idx[name]
				if !ok {
					i = len(out)
					idx[name] = i
					out = append(out, PlayerGames{Player: name})
				}
				out[i].Games++
			}
		}
	}
	return out
}

// consecutiveRuns returns the members of every run of length > 1 in the
// ascending round list.
func consecutiveRuns(rounds []int) []int {
	var out, run []int
	flush := func() {
		if len(run) > 1 {
			out = append(out, run...)
		}
	}
	for i, r := range rounds {
		if i > 0 && r != rounds[i-1]+1 {
			flush()
			run = nil
		}
		run = append(run, r)
	}
	flush()
	return out
}
