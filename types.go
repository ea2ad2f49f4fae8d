package main

import "errors"

type Gender int

const (
	GenderA Gender = iota // wire value 0
	GenderB               // wire value 1
)

// Player is one roster entry. Players are copied between slots, never mutated.
type Player struct {
	Name    string
	Level   int
	Gender  Gender
	GroupID int
}

// Team is an input group of players sharing a GroupID.
type Team []Player

// Slots per game: 0,1 form one side, 2,3 the other.
const SlotsPerGame = 4

func partnerSlot(s int) int { return s ^ 1 }

type GroupRule int

const (
	// GroupTeammates penalizes a side whose two players come from different groups.
	GroupTeammates GroupRule = iota
	GroupOff
)

var groupRuleNames = map[string]GroupRule{
	"teammates": GroupTeammates,
	"off":       GroupOff,
}

// State is the terminal (or current) state of a climb.
type State int

const (
	Searching State = iota
	Converged
	BudgetExhausted
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Converged:
		return "converged"
	case BudgetExhausted:
		return "budget-exhausted"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidRoster     = errors.New("invalid roster")
	ErrEmptyRoster       = errors.New("roster has no players")
	ErrInvalidDimensions = errors.New("courts and rounds must be positive")
	ErrUnknownStrategy   = errors.New("unknown search strategy")
	ErrInvalidTable      = errors.New("invalid match table")
	ErrLevelRange        = errors.New("level out of range")
)
