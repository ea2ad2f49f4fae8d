package main

import (
	"math"
	"math/bits"
	"strconv"
)

// Cost is a non-negative 128-bit penalty; lower is better. Arithmetic
// saturates at MaxCost instead of wrapping.
type Cost struct {
	Hi, Lo uint64
}

var MaxCost = Cost{Hi: math.MaxUint64, Lo: math.MaxUint64}

// CostOf converts a small value.
func CostOf(n uint64) Cost { return Cost{Lo: n} }

const (
	balanceWeight    = 20
	duplicatePenalty = 100_000_000_000_000   // 1e14 per repeated identity
	groupPenalty     = 1_000_000_000_000_000 // 1e15 per game with split sides
	competeThreshold = 2

	mismatchBase   = 20
	partnerBase    = 5
	coPlayerBase   = 3
	partnerGapBase = 1.3
)

func (c Cost) Add(d Cost) Cost {
	lo, carry := bits.Add64(c.Lo, d.Lo, 0)
	hi, carry := bits.Add64(c.Hi, d.Hi, carry)
	if carry != 0 {
		return MaxCost
	}
	return Cost{Hi: hi, Lo: lo}
}

func (c Cost) Mul(n uint64) Cost {
	over, hi := bits.Mul64(c.Hi, n)
	if over != 0 {
		return MaxCost
	}
	carryHi, lo := bits.Mul64(c.Lo, n)
	hi, carry := bits.Add64(hi, carryHi, 0)
	if carry != 0 {
		return MaxCost
	}
	return Cost{Hi: hi, Lo: lo}
}

func (c Cost) Less(d Cost) bool {
	if c.Hi != d.Hi {
		return c.Hi < d.Hi
	}
	return c.Lo < d.Lo
}

func (c Cost) IsZero() bool { return c == Cost{} }

// costOfFloat converts a non-negative whole float, saturating above 2^128.
func costOfFloat(f float64) Cost {
	const two64 = 1 << 64
	if f >= two64*two64 {
		return MaxCost
	}
	hi := math.Floor(f / two64)
	return Cost{Hi: uint64(hi), Lo: uint64(f - hi*two64)}
}

// String formats c in decimal.
func (c Cost) String() string {
	if c.Hi == 0 {
		return strconv.FormatUint(c.Lo, 10)
	}
	const chunk = 10_000_000_000_000_000_000 // 1e19
	var parts []uint64
	for c.Hi != 0 {
		var rem uint64
		c.Hi, rem = bits.Div64(0, c.Hi, chunk)
		c.Lo, rem = bits.Div64(rem, c.Lo, chunk)
		parts = append(parts, rem)
	}
	out := strconv.FormatUint(c.Lo, 10)
	for i := len(parts) - 1; i >= 0; i-- {
		d := strconv.FormatUint(parts[i], 10)
		out += "0000000000000000000"[len(d):] + d
	}
	return out
}

// MarshalJSON writes c as a bare JSON number.
func (c Cost) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// powTable returns base^0 .. base^(n-1), saturating.
func powTable(base uint64, n int) []Cost {
	t := make([]Cost, n)
	v := CostOf(1)
	for i := range t {
		t[i] = v
		v = v.Mul(base)
	}
	return t
}

// Breakdown is the cost split by term.
type Breakdown struct {
	Balance      Cost
	Duplicate    Cost
	RowDuplicate Cost
	Group        Cost
	Fairness     Cost
}

func (b Breakdown) Total() Cost {
	return b.Balance.Add(b.Duplicate).Add(b.RowDuplicate).Add(b.Group).Add(b.Fairness)
}

// ── Swapped view ────────────────────────────────────────────────────

// swappedView reads a table as if slots a and b were exchanged. a == b is the
// identity view.
type swappedView struct {
	t    *MatchTable
	a, b int
}

func (v swappedView) idx(i int) int {
	switch i {
	case v.a:
		return v.b
	case v.b:
		return v.a
	}
	return i
}

func (v swappedView) key(i int) int         { return v.t.keys[v.idx(i)] }
func (v swappedView) player(i int) *Player { return &v.t.players[v.idx(i)] }

// ── Scorer ──────────────────────────────────────────────────────────

// scorer owns the scratch buffers for one goroutine's evaluations. After the
// first call on a table shape, evaluating a view does not allocate.
type scorer struct {
	rule GroupRule

	n       int // distinct identities
	slots   int
	pairs   []int32 // partner counts, n*n, indexed p*n+q
	shared  []int32 // same-game counts, n*n
	touched []int   // pair keys with a non-zero count
	over    []int32 // games where the player was out-levelled
	gap     []float64
	seen    []uint32
	epoch   uint32

	pow20, pow5, pow3 []Cost
}

func newScorer(rule GroupRule) *scorer {
	return &scorer{rule: rule}
}

func (s *scorer) fit(t *MatchTable) {
	if s.n == t.numKeys && s.slots == t.Len() {
		return
	}
	n, slots := t.numKeys, t.Len()
	s.n, s.slots = n, slots
	s.pairs = make([]int32, n*n)
	s.shared = make([]int32, n*n)
	s.touched = make([]int, 0, slots*SlotsPerGame)
	s.over = make([]int32, n)
	s.gap = make([]float64, n)
	s.seen = make([]uint32, n)
	s.epoch = 0
	s.pow20 = powTable(mismatchBase, slots+1)
	s.pow5 = powTable(partnerBase, slots+1)
	s.pow3 = powTable(coPlayerBase, (SlotsPerGame-1)*slots+1) // a slot can share a game with its own name
}

// cost returns the total cost of t with slots i and j exchanged.
func (s *scorer) cost(t *MatchTable, i, j int) Cost {
	return s.breakdown(t, i, j).Total()
}

func (s *scorer) breakdown(t *MatchTable, i, j int) Breakdown {
	s.fit(t)
	v := swappedView{t: t, a: i, b: j}
	var b Breakdown
	perRow := t.courts * SlotsPerGame
	for row := 0; row < t.rows; row++ {
		start := row * perRow
		b.RowDuplicate = b.RowDuplicate.Add(CostOf(duplicatePenalty).Mul(uint64(s.rowRepeats(v, start, start+perRow))))
		for court := 0; court < t.courts; court++ {
			g := start + court*SlotsPerGame
			b.Balance = b.Balance.Add(levelBalance(v, g))
			b.Duplicate = b.Duplicate.Add(CostOf(duplicatePenalty).Mul(uint64(gameRepeats(v, g))))
			if s.rule == GroupTeammates && splitSides(v, g) {
				b.Group = b.Group.Add(CostOf(groupPenalty))
			}
			s.collect(v, g)
		}
	}
	b.Fairness = s.fairness()
	return b
}

func levelBalance(v swappedView, g int) Cost {
	d := v.player(g).Level + v.player(g+1).Level - v.player(g+2).Level - v.player(g+3).Level
	if d < 0 {
		d = -d
	}
	return CostOf(uint64(d)).Mul(balanceWeight)
}

// gameRepeats counts slots whose identity already appeared earlier in the game.
func gameRepeats(v swappedView, g int) int {
	n := 0
	for i := 1; i < SlotsPerGame; i++ {
		k := v.key(g + i)
		for j := 0; j < i; j++ {
			if v.key(g+j) == k {
				n++
				break
			}
		}
	}
	return n
}

func splitSides(v swappedView, g int) bool {
	return v.player(g).GroupID != v.player(g+1).GroupID ||
		v.player(g+2).GroupID != v.player(g+3).GroupID
}

func (s *scorer) rowRepeats(v swappedView, from, to int) int {
	s.epoch++
	if s.epoch == 0 {
		clear(s.seen)
		s.epoch = 1
	}
	n := 0
	for i := from; i < to; i++ {
		k := v.key(i)
		if s.seen[k] == s.epoch {
			n++
			continue
		}
		s.seen[k] = s.epoch
	}
	return n
}

// collect adds one game's appearances to the per-player statistics.
func (s *scorer) collect(v swappedView, g int) {
	sum := 0
	for i := 0; i < SlotsPerGame; i++ {
		sum += v.player(g + i).Level
	}
	for i := 0; i < SlotsPerGame; i++ {
		p := v.player(g + i)
		k := v.key(g + i)

		// average - level > threshold, kept in integers
		if sum > SlotsPerGame*(p.Level+competeThreshold) {
			s.over[k]++
		}

		ps := g + partnerSlot(i)
		if partner := v.player(ps); p.Level > partner.Level {
			s.gap[k] += math.Pow(partnerGapBase, float64(p.Level-partner.Level))
		}
		s.bump(s.pairs, k*s.n+v.key(ps))

		for j := 0; j < SlotsPerGame; j++ {
			if j != i {
				s.bump(s.shared, k*s.n+v.key(g+j))
			}
		}
	}
}

func (s *scorer) bump(counts []int32, key int) {
	if s.pairs[key] == 0 && s.shared[key] == 0 {
		s.touched = append(s.touched, key)
	}
	counts[key]++
}

// fairness folds the collected statistics into the cross-round term and
// resets the buffers for the next evaluation.
func (s *scorer) fairness() Cost {
	var f Cost
	for _, key := range s.touched {
		if c := s.pairs[key]; c > 0 {
			f = f.Add(s.pow5[c-1])
		}
		if c := s.shared[key]; c > 0 {
			f = f.Add(s.pow3[c-1])
		}
		s.pairs[key] = 0
		s.shared[key] = 0
	}
	s.touched = s.touched[:0]

	for k := 0; k < s.n; k++ {
		f = f.Add(s.pow20[s.over[k]])
		f = f.Add(costOfFloat(math.Floor(s.gap[k])))
		s.over[k] = 0
		s.gap[k] = 0
	}
	return f
}

// ── Public entry points ─────────────────────────────────────────────

// Score returns the total cost of t.
func Score(t *MatchTable, rule GroupRule) Cost {
	return newScorer(rule).cost(t, 0, 0)
}

// ScoreSwapped returns the cost t would have with slots i and j exchanged,
// without touching t.
func ScoreSwapped(t *MatchTable, rule GroupRule, i, j int) Cost {
	return newScorer(rule).cost(t, i, j)
}

// ScoreBreakdown returns the per-term cost of t.
func ScoreBreakdown(t *MatchTable, rule GroupRule) Breakdown {
	return newScorer(rule).breakdown(t, 0, 0)
}
