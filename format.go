package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is the wire result: either a grid of names or an error message.
type Envelope struct {
	Status  string       `json:"status"`
	Result  [][][]string `json:"result,omitempty"`
	Message string       `json:"message,omitempty"`
	Cost    *Cost        `json:"cost,omitempty"`
	State   string       `json:"state,omitempty"`
	RunID   string       `json:"runId,omitempty"`
	TimeMs  int64        `json:"timeMs,omitempty"`
	Report  *Report      `json:"report,omitempty"`
}

func SuccessEnvelope(r Result, withReport bool) Envelope {
	names := r.Table.Names()
	cost := r.Cost
	env := Envelope{
		Status: "success",
		Result: names,
		Cost:   &cost,
		State:  r.State.String(),
		RunID:  r.RunID,
		TimeMs: r.Elapsed.Milliseconds(),
	}
	if withReport {
		rep := Verify(names)
		env.Report = &rep
	}
	return env
}

func ErrorEnvelope(err error) Envelope {
	return Envelope{Status: "error", Message: err.Error()}
}

func (e Envelope) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// FormatTable renders a table with per-game level totals and the cost terms.
func FormatTable(t *MatchTable, rule GroupRule) string {
	var b strings.Builder
	for r := 0; r < t.Rows(); r++ {
		fmt.Fprintf(&b, "Round %d\n", r+1)
		for c := 0; c < t.Courts(); c++ {
			p0, p1, p2, p3 := t.At(r, c, 0), t.At(r, c, 1), t.At(r, c, 2), t.At(r, c, 3)
			fmt.Fprintf(&b, "  Court %d: %s & %s (%d) vs %s & %s (%d)\n", c+1,
				p0.Name, p1.Name, p0.Level+p1.Level,
				p2.Name, p3.Name, p2.Level+p3.Level)
		}
	}
	b.WriteString("Games\n")
	for _, g := range GamesPerPlayer(t.Names()) {
		fmt.Fprintf(&b, "  %s: %d\n", g.Player, g.Games)
	}
	bd := ScoreBreakdown(t, rule)
	fmt.Fprintf(&b, "Cost: %s (balance %s, duplicate %s, row duplicate %s, group %s, fairness %s)\n",
		bd.Total(), bd.Balance, bd.Duplicate, bd.RowDuplicate, bd.Group, bd.Fairness)
	return b.String()
}

// FormatReport renders a verification report, one finding per line.
func FormatReport(rep Report) string {
	if rep.Clean() {
		return "No findings.\n"
	}
	var b strings.Builder
	for _, u := range rep.Unmet {
		fmt.Fprintf(&b, "%s never plays with: %s\n", u.Player, strings.Join(u.Missing, ", "))
	}
	for _, r := range rep.RoundRepeats {
		fmt.Fprintf(&b, "%s is on two courts in rounds %s\n", r.Player, roundList(r.Rounds))
	}
	for _, c := range rep.Consecutive {
		fmt.Fprintf(&b, "%s plays consecutively in rounds %s\n", c.Player, roundList(c.Rounds))
	}
	return b.String()
}

func roundList(rounds []int) string {
	parts := make([]string, len(rounds))
	for i, r := range rounds {
		parts[i] = fmt.Sprint(r + 1)
	}
	return strings.Join(parts, ", ")
}
