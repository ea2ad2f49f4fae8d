package main

import (
	"fmt"
	"math"
	"math/rand"
)

// MatchTable is the rows × courts grid of 4-player games, stored flat.
// Flat index = (row*courts + court)*4 + slot.
type MatchTable struct {
	rows    int
	courts  int
	players []Player
	keys    []int // interned player identity per slot, parallel to players
	numKeys int
}

// NewMatchTable builds a randomly filled table. The roster is flattened,
// shuffled and dealt in row, court, slot order; when it runs out before the
// table is full it is reshuffled and dealt again from the front.
func NewMatchTable(courts, rows int, teams []Team, rng *rand.Rand) (*MatchTable, error) {
	if courts <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: courts=%d rounds=%d", ErrInvalidDimensions, courts, rows)
	}
	roster := flatten(teams)
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	shuffle := func() {
		rng.Shuffle(len(roster), func(i, j int) { roster[i], roster[j] = roster[j], roster[i] })
	}
	shuffle()

	slots := make([]Player, rows*courts*SlotsPerGame)
	next := 0
	for i := range slots {
		slots[i] = roster[next]
		next++
		if next == len(roster) {
			shuffle()
			next = 0
		}
	}
	return newTable(rows, courts, slots)
}

// NewMatchTableFromSlots wraps an explicit arrangement. len(players) must be
// rows*courts*4.
func NewMatchTableFromSlots(rows, courts int, players []Player) (*MatchTable, error) {
	if courts <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: courts=%d rounds=%d", ErrInvalidDimensions, courts, rows)
	}
	if want := rows * courts * SlotsPerGame; len(players) != want {
		return nil, fmt.Errorf("table needs %d players, got %d", want, len(players))
	}
	slots := make([]Player, len(players))
	copy(slots, players)
	return newTable(rows, courts, slots)
}

// newTable interns names. Levels are limited to the int32 range so game sums
// cannot overflow.
func newTable(rows, courts int, slots []Player) (*MatchTable, error) {
	for _, p := range slots {
		if p.Level > math.MaxInt32 || p.Level < math.MinInt32 {
			return nil, fmt.Errorf("%w: %s has level %d", ErrLevelRange, p.Name, p.Level)
		}
	}
	t := &MatchTable{
		rows:    rows,
		courts:  courts,
		players: slots,
		keys:    make([]int, len(slots)),
	}
	ids := make(map[string]int)
	for i, p := range slots {
		id, ok := ids[p.Name]
		if !ok {
			id = len(ids)
			ids[p.Name] = id
		}
		t.keys[i] = id
	}
	t.numKeys = len(ids)
	return t, nil
}

func flatten(teams []Team) []Player {
	var out []Player
	for _, t := range teams {
		out = append(out, t...)
	}
	return out
}

func (t *MatchTable) Rows() int   { return t.rows }
func (t *MatchTable) Courts() int { return t.courts }
func (t *MatchTable) Len() int    { return len(t.players) }

func (t *MatchTable) index(row, court, slot int) int {
	return (row*t.courts+court)*SlotsPerGame + slot
}

func (t *MatchTable) At(row, court, slot int) Player {
	return t.players[t.index(row, court, slot)]
}

func (t *MatchTable) AtIndex(i int) Player {
	return t.players[i]
}

// Position maps a flat index back to (row, court, slot).
func (t *MatchTable) Position(i int) (row, court, slot int) {
	slot = i % SlotsPerGame
	i /= SlotsPerGame
	court = i % t.courts
	row = i / t.courts
	return
}

// Swap exchanges two slots in place. Equal indices are a no-op.
func (t *MatchTable) Swap(i, j int) {
	t.players[i], t.players[j] = t.players[j], t.players[i]
	t.keys[i], t.keys[j] = t.keys[j], t.keys[i]
}

func (t *MatchTable) Clone() *MatchTable {
	c := &MatchTable{
		rows:    t.rows,
		courts:  t.courts,
		players: make([]Player, len(t.players)),
		keys:    make([]int, len(t.keys)),
		numKeys: t.numKeys,
	}
	copy(c.players, t.players)
	copy(c.keys, t.keys)
	return c
}

// Names returns the table as rounds → courts → 4 player names.
func (t *MatchTable) Names() [][][]string {
	out := make([][][]string, t.rows)
	for r := range out {
		out[r] = make([][]string, t.courts)
		for c := range out[r] {
			game := make([]string, SlotsPerGame)
			for s := range game {
				game[s] = t.At(r, c, s).Name
			}
			out[r][c] = game
		}
	}
	return out
}
