package main

import (
	"fmt"
	"math"
	"os"

	"github.com/tidwall/gjson"
)

// RosterError locates a malformed roster entry. Team and Player are -1 when
// the error is not tied to one.
type RosterError struct {
	Team   int
	Player int
	Field  string
	Msg    string
}

func (e *RosterError) Error() string {
	switch {
	case e.Player >= 0 && e.Field != "":
		return fmt.Sprintf("team %d player %d: %s: %s", e.Team, e.Player, e.Field, e.Msg)
	case e.Player >= 0:
		return fmt.Sprintf("team %d player %d: %s", e.Team, e.Player, e.Msg)
	case e.Team >= 0:
		return fmt.Sprintf("team %d: %s", e.Team, e.Msg)
	default:
		return e.Msg
	}
}

func (e *RosterError) Unwrap() error { return ErrInvalidRoster }

// ParseRoster converts a JSON array of teams, each an array of
// {name, level, gender} objects. Every player is stamped with the index of
// its team as GroupID.
func ParseRoster(rosterJSON string) ([]Team, error) {
	if !gjson.Valid(rosterJSON) {
		return nil, &RosterError{Team: -1, Player: -1, Msg: "not valid JSON"}
	}
	return parseTeams(gjson.Parse(rosterJSON))
}

func parseTeams(v gjson.Result) ([]Team, error) {
	if !v.IsArray() {
		return nil, &RosterError{Team: -1, Player: -1, Msg: "roster is not an array"}
	}
	var (
		teams []Team
		err   error
	)
	v.ForEach(func(_, tv gjson.Result) bool {
		ti := len(teams)
		if !tv.IsArray() {
			err = &RosterError{Team: ti, Player: -1, Msg: "team is not an array"}
			return false
		}
		team := Team{}
		tv.ForEach(func(_, pv gjson.Result) bool {
			var p Player
			p, err = parsePlayer(pv, ti, len(team))
			if err != nil {
				return false
			}
			team = append(team, p)
			return true
		})
		if err != nil {
			return false
		}
		teams = append(teams, team)
		return true
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func parsePlayer(v gjson.Result, ti, pi int) (Player, error) {
	fail := func(field, msg string) (Player, error) {
		return Player{}, &RosterError{Team: ti, Player: pi, Field: field, Msg: msg}
	}
	if !v.IsObject() {
		return fail("", fmt.Sprintf("player is not an object (type was %s)", v.Type))
	}

	name := v.Get("name")
	if !name.Exists() {
		return fail("name", "missing")
	}
	if name.Type != gjson.String {
		return fail("name", "not a string")
	}

	level := v.Get("level")
	if !level.Exists() {
		return fail("level", "missing")
	}
	lv, ok := wholeNumber(level)
	if !ok {
		return fail("level", "not an integer")
	}

	gender := v.Get("gender")
	if !gender.Exists() {
		return fail("gender", "missing")
	}
	gv, ok := wholeNumber(gender)
	if !ok {
		return fail("gender", "not an integer")
	}
	if gv != int(GenderA) && gv != int(GenderB) {
		return fail("gender", fmt.Sprintf("invalid value %d", gv))
	}

	return Player{
		Name:    name.String(),
		Level:   lv,
		Gender:  Gender(gv),
		GroupID: ti,
	}, nil
}

func wholeNumber(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, false
	}
	if v.Num > math.MaxInt32 || v.Num < math.MinInt32 {
		return 0, false
	}
	return int(v.Num), true
}

// LoadRoster reads and parses a roster file.
func LoadRoster(path string) ([]Team, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	teams, err := ParseRoster(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return teams, nil
}

// ParseTable reads a hand-entered table, rounds → courts → 4 names. Empty
// strings and nulls are open slots.
func ParseTable(tableJSON string) ([][][]string, error) {
	if !gjson.Valid(tableJSON) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidTable)
	}
	root := gjson.Parse(tableJSON)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: table is not an array", ErrInvalidTable)
	}
	var (
		table [][][]string
		err   error
	)
	root.ForEach(func(_, rv gjson.Result) bool {
		r := len(table)
		if !rv.IsArray() {
			err = fmt.Errorf("%w: round %d is not an array", ErrInvalidTable, r+1)
			return false
		}
		var row [][]string
		rv.ForEach(func(_, gv gjson.Result) bool {
			c := len(row)
			slots := gv.Array()
			if !gv.IsArray() || len(slots) != SlotsPerGame {
				err = fmt.Errorf("%w: round %d court %d: want %d slots", ErrInvalidTable, r+1, c+1, SlotsPerGame)
				return false
			}
			game := make([]string, SlotsPerGame)
			for s, sv := range slots {
				switch sv.Type {
				case gjson.String:
					game[s] = sv.String()
				case gjson.Null:
				default:
					err = fmt.Errorf("%w: round %d court %d slot %d: not a name", ErrInvalidTable, r+1, c+1, s+1)
					return false
				}
			}
			row = append(row, game)
			return true
		})
		if err != nil {
			return false
		}
		table = append(table, row)
		return true
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// LoadTable reads and parses a table file.
func LoadTable(path string) ([][][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	table, err := ParseTable(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
