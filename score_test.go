package main

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBreakdownKnownGame(t *testing.T) {
	// p0(1) & p1(2) vs p2(3) & p3(4), one group
	tbl := mustTable(t, 1, 1, roster(1, 2, 3, 4))
	bd := ScoreBreakdown(tbl, GroupTeammates)

	assert.Equal(t, CostOf(80), bd.Balance)
	assert.Equal(t, CostOf(0), bd.Duplicate)
	assert.Equal(t, CostOf(0), bd.RowDuplicate)
	assert.Equal(t, CostOf(0), bd.Group)
	// 4 × 20^0 + two partner gaps of floor(1.3) + 4 partners × 5^0 + 12 co-players × 3^0
	assert.Equal(t, CostOf(4+2+4+12), bd.Fairness)
	assert.Equal(t, CostOf(102), bd.Total())
	assert.Equal(t, bd.Total(), Score(tbl, GroupTeammates))
}

func TestScoreCountsOutLevelledPlayer(t *testing.T) {
	tbl := mustTable(t, 1, 1, roster(1, 10, 10, 10))
	bd := ScoreBreakdown(tbl, GroupTeammates)

	assert.Equal(t, CostOf(180), bd.Balance)
	// p0 is out-levelled once (20^1); p1 is 9 above its partner (floor 1.3^9 = 10)
	assert.Equal(t, CostOf(20+3+10+4+12), bd.Fairness)
}

func TestScoreRepeatedPartnersGrowExponentially(t *testing.T) {
	same := mustTable(t, 2, 1, append(roster(5, 5, 5, 5), roster(5, 5, 5, 5)...))
	bd := ScoreBreakdown(same, GroupTeammates)
	// every ordered partner pair twice: 4 × 5^1; every co-player pair twice: 12 × 3^1
	assert.Equal(t, CostOf(4+4*5+12*3), bd.Fairness)
}

func TestScoreDuplicates(t *testing.T) {
	ps := roster(5, 5, 5, 5)
	ps[3].Name = "p0"
	tbl := mustTable(t, 1, 1, ps)
	bd := ScoreBreakdown(tbl, GroupTeammates)
	assert.Equal(t, CostOf(duplicatePenalty), bd.Duplicate)
	assert.Equal(t, CostOf(duplicatePenalty), bd.RowDuplicate)

	// same player on two courts of one round is a row duplicate only
	ps = roster(5, 5, 5, 5, 5, 5, 5, 5)
	ps[4].Name = "p0"
	tbl = mustTable(t, 1, 2, ps)
	bd = ScoreBreakdown(tbl, GroupTeammates)
	assert.Equal(t, CostOf(0), bd.Duplicate)
	assert.Equal(t, CostOf(duplicatePenalty), bd.RowDuplicate)
}

func TestScoreGroupRule(t *testing.T) {
	ps := roster(5, 5, 5, 5)
	ps[0].GroupID, ps[1].GroupID = 1, 1
	tbl := mustTable(t, 1, 1, ps)
	assert.Equal(t, CostOf(0), ScoreBreakdown(tbl, GroupTeammates).Group)

	tbl.Swap(1, 2)
	assert.Equal(t, CostOf(groupPenalty), ScoreBreakdown(tbl, GroupTeammates).Group)
	assert.Equal(t, CostOf(0), ScoreBreakdown(tbl, GroupOff).Group)
}

func TestSingleViolationCostsMore(t *testing.T) {
	base := func() []Player {
		ps := roster(5, 5, 5, 5, 5, 5, 5, 5)
		for i := range ps {
			ps[i].GroupID = i / 2
		}
		return ps
	}
	clean := Score(mustTable(t, 1, 2, base()), GroupTeammates)

	unbalanced := base()
	unbalanced[3].Level = 7
	assert.True(t, clean.Less(Score(mustTable(t, 1, 2, unbalanced), GroupTeammates)))

	duplicated := base()
	duplicated[3].Name = "p0"
	assert.True(t, clean.Less(Score(mustTable(t, 1, 2, duplicated), GroupTeammates)))

	split := base()
	split[1].GroupID = 9
	assert.True(t, clean.Less(Score(mustTable(t, 1, 2, split), GroupTeammates)))
}

func TestScoreSwappedMatchesPhysicalSwap(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		rng := rand.New(rand.NewSource(seed))
		teams := []Team{
			{{Name: "a", Level: 1}, {Name: "b", Level: 4}, {Name: "c", Level: 7}},
			{{Name: "d", Level: 2, GroupID: 1}, {Name: "e", Level: 9, GroupID: 1}},
			{{Name: "f", Level: 3, GroupID: 2}, {Name: "g", Level: 3, GroupID: 2}, {Name: "h", Level: 8, GroupID: 2}, {Name: "i", Level: 5, GroupID: 2}},
		}
		tbl, err := NewMatchTable(2, 3, teams, rng)
		require.NoError(t, err)

		sc := newScorer(GroupTeammates)
		for i := 0; i < tbl.Len(); i++ {
			for j := 0; j < tbl.Len(); j++ {
				swapped := sc.cost(tbl, i, j)
				tbl.Swap(i, j)
				physical := Score(tbl, GroupTeammates)
				tbl.Swap(i, j)
				require.Equal(t, physical, swapped, "seed %d swap %d,%d", seed, i, j)
			}
		}
	}
}

func TestScoreSwappedLeavesTableUntouched(t *testing.T) {
	tbl := mustTable(t, 1, 1, roster(1, 2, 3, 4))
	before := tbl.Names()
	assert.NotEqual(t, Score(tbl, GroupTeammates), ScoreSwapped(tbl, GroupTeammates, 1, 2))
	assert.Equal(t, before, tbl.Names())
	assert.Equal(t, Score(tbl, GroupTeammates), ScoreSwapped(tbl, GroupTeammates, 3, 3))
}

func TestScorerDoesNotAllocate(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tbl, err := NewMatchTable(3, 4, []Team{roster(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14)}, rng)
	require.NoError(t, err)

	sc := newScorer(GroupTeammates)
	sc.cost(tbl, 0, 1)
	allocs := testing.AllocsPerRun(50, func() {
		sc.cost(tbl, 3, 17)
	})
	assert.Zero(t, allocs)
}

func TestCostArithmetic(t *testing.T) {
	assert.Equal(t, Cost{Hi: 1}, CostOf(math.MaxUint64).Add(CostOf(1)))
	assert.Equal(t, Cost{Hi: 1}, CostOf(1<<63).Mul(2))
	assert.Equal(t, CostOf(6), CostOf(3).Mul(2))
	assert.Equal(t, CostOf(0), CostOf(0).Mul(1<<40))
	assert.Equal(t, MaxCost, MaxCost.Add(CostOf(1)))
	assert.Equal(t, MaxCost, Cost{Hi: 1 << 63}.Mul(2))

	assert.True(t, CostOf(math.MaxUint64).Less(Cost{Hi: 1}))
	assert.False(t, Cost{Hi: 1}.Less(Cost{Hi: 1}))
	assert.True(t, Cost{Hi: 1, Lo: 1}.Less(Cost{Hi: 2}))

	assert.Equal(t, "0", CostOf(0).String())
	assert.Equal(t, "18446744073709551616", Cost{Hi: 1}.String())
	assert.Equal(t, "340282366920938463463374607431768211455", MaxCost.String())

	assert.Equal(t, CostOf(7), costOfFloat(7))
	assert.Equal(t, Cost{Hi: 3}, costOfFloat(3*(1<<64)))
	assert.Equal(t, MaxCost, costOfFloat(math.Inf(1)))

	pows := powTable(20, 40)
	assert.Equal(t, CostOf(1), pows[0])
	assert.Equal(t, CostOf(8000), pows[3])
	// 20^15 no longer fits in 64 bits but is still exact
	assert.Equal(t, CostOf(1_638_400_000_000_000_000).Mul(20), pows[15])
	assert.Equal(t, MaxCost, pows[39])
	for i := 1; i < len(pows); i++ {
		assert.False(t, pows[i].Less(pows[i-1]))
	}
}

func TestLongEventStillRemovesDuplicates(t *testing.T) {
	// the level-1 player is out-levelled in all 16 of its games, so the
	// fairness term alone passes 2^64
	teams, err := ParseRoster(`[[
		{"name":"low","level":1,"gender":0},
		{"name":"a","level":10,"gender":0},{"name":"b","level":10,"gender":1},
		{"name":"c","level":10,"gender":0},{"name":"d","level":10,"gender":1}
	]]`)
	require.NoError(t, err)

	for _, strategy := range []string{StrategyExhaustive, StrategySampled} {
		t.Run(strategy, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Strategy = strategy
			cfg.Seed = 7
			cfg.MaxIterations = 500
			cfg.GroupRule = "off"
			res, err := Generate(teams, 1, 20, cfg)
			require.NoError(t, err)

			bd := ScoreBreakdown(res.Table, GroupOff)
			assert.NotEqual(t, MaxCost, res.Cost)
			assert.NotZero(t, bd.Fairness.Hi)
			assert.Positive(t, res.Iterations)
			assert.Equal(t, CostOf(0), bd.Duplicate)
			assert.Equal(t, CostOf(0), bd.RowDuplicate)
		})
	}
}
