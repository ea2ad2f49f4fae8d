package main

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// Request is one generation request as posted to the lambda handler.
type Request struct {
	Teams  []Team
	Courts int
	Rounds int
	Seed   int64
}

// ParseRequest reads {"teams": [...], "courts": n, "rounds": n, "seed": n}.
// seed is optional.
func ParseRequest(body string) (Request, error) {
	if !gjson.Valid(body) {
		return Request{}, &RosterError{Team: -1, Player: -1, Msg: "body is not valid JSON"}
	}
	root := gjson.Parse(body)
	if !root.IsObject() {
		return Request{}, &RosterError{Team: -1, Player: -1, Msg: "body is not an object"}
	}

	var req Request
	for _, f := range []struct {
		key string
		dst *int
	}{{"courts", &req.Courts}, {"rounds", &req.Rounds}} {
		v := root.Get(f.key)
		if !v.Exists() {
			return Request{}, fmt.Errorf("missing %s", f.key)
		}
		n, ok := wholeNumber(v)
		if !ok || n <= 0 {
			return Request{}, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidDimensions, f.key)
		}
		*f.dst = n
	}
	if s := root.Get("seed"); s.Exists() {
		if s.Type != gjson.Number || s.Num != math.Trunc(s.Num) {
			return Request{}, fmt.Errorf("seed must be an integer")
		}
		req.Seed = s.Int()
	}

	teams := root.Get("teams")
	if !teams.Exists() {
		return Request{}, &RosterError{Team: -1, Player: -1, Msg: "missing teams"}
	}
	var err error
	if req.Teams, err = parseTeams(teams); err != nil {
		return Request{}, err
	}
	return req, nil
}
