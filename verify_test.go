package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	table := [][][]string{
		{{"a", "b", "c", "d"}, {"e", "f", "", ""}},
		{{"a", "e", "b", "f"}, {"c", "d", "a", "x"}},
		{{"c", "e", "f", "x"}, {"", "", "", ""}},
	}
	rep := Verify(table)

	assert.Equal(t, []RoundRepeat{{Player: "a", Rounds: []int{1}}}, rep.RoundRepeats)

	unmet := map[string][]string{}
	for _, u := range rep.Unmet {
		unmet[u.Player] = u.Missing
	}
	assert.Equal(t, []string{"x"}, unmet["b"])
	assert.Equal(t, []string{"d"}, unmet["e"])
	assert.NotContains(t, unmet, "a")

	cons := map[string][]int{}
	for _, c := range rep.Consecutive {
		cons[c.Player] = c.Rounds
	}
	assert.Equal(t, []int{0, 1}, cons["a"])
	assert.Equal(t, []int{0, 1, 2}, cons["c"])
	assert.Equal(t, []int{1, 2}, cons["x"])
	assert.False(t, rep.Clean())
}

func TestVerifyCleanTable(t *testing.T) {
	rep := Verify([][][]string{{{"a", "b", "c", "d"}}})
	assert.True(t, rep.Clean())
	assert.Equal(t, "No findings.\n", FormatReport(rep))
}

func TestConsecutiveRuns(t *testing.T) {
	assert.Nil(t, consecutiveRuns(nil))
	assert.Nil(t, consecutiveRuns([]int{0, 2, 4}))
	assert.Equal(t, []int{0, 1, 3, 4, 5}, consecutiveRuns([]int{0, 1, 3, 4, 5, 7}))
}

func TestVerifyOrdersUnmetByMissingCount(t *testing.T) {
	// e only meets f; a..d meet each other and miss e and f
	rep := Verify([][][]string{
		{{"a", "b", "c", "d"}},
		{{"e", "f", "", ""}},
	})
	require.Len(t, rep.Unmet, 6)
	assert.Equal(t, "e", rep.Unmet[0].Player)
	assert.Len(t, rep.Unmet[0].Missing, 4)
	assert.Equal(t, "f", rep.Unmet[1].Player)
	assert.Equal(t, "a", rep.Unmet[2].Player)
	assert.Len(t, rep.Unmet[5].Missing, 2)
}

func TestGamesPerPlayer(t *testing.T) {
	games := GamesPerPlayer([][][]string{
		{{"a", "b", "", ""}, {"c", "d", "a", ""}},
		{{"b", "a", "", "x"}},
	})
	assert.Equal(t, []PlayerGames{
		{Player: "a", Games: 3},
		{Player: "b", Games: 2},
		{Player: "c", Games: 1},
		{Player: "d", Games: 1},
		{Player: "x", Games: 1},
	}, games)
}
