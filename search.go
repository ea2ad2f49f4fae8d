package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ── Neighborhoods ───────────────────────────────────────────────────

// Candidate is a proposed swap of slots I and J and the resulting cost.
// I < 0 means no pair was evaluated.
type Candidate struct {
	I, J int
	Cost Cost
}

var noCandidate = Candidate{I: -1, J: -1, Cost: MaxCost}

// A Neighborhood proposes the cheapest swap it can find from the optimizer's
// current table. It must not mutate the table. Ties go to the candidate seen
// first in its scan order.
type Neighborhood interface {
	BestSwap(o *Optimizer) Candidate
	String() string
}

// Exhaustive scans every pair i < j.
type Exhaustive struct{}

func (Exhaustive) String() string { return StrategyExhaustive }

func (Exhaustive) BestSwap(o *Optimizer) Candidate {
	return scanRange(o.table, o.scorers[0], 0, o.table.Len())
}

// scanRange evaluates every pair with from <= i < to and i < j < Len.
func scanRange(t *MatchTable, sc *scorer, from, to int) Candidate {
	best := noCandidate
	n := t.Len()
	for i := from; i < to; i++ {
		for j := i + 1; j < n; j++ {
			if c := sc.cost(t, i, j); c.Less(best.Cost) {
				best = Candidate{I: i, J: j, Cost: c}
			}
		}
	}
	return best
}

// Sampled evaluates Samples uniformly random pairs. Draws with i == j are
// spent without evaluation.
type Sampled struct {
	Samples int
}

func (s Sampled) String() string { return fmt.Sprintf("%s(%d)", StrategySampled, s.Samples) }

func (s Sampled) BestSwap(o *Optimizer) Candidate {
	best := noCandidate
	n := o.table.Len()
	sc := o.scorers[0]
	for k := 0; k < s.Samples; k++ {
		i, j := o.rng.Intn(n), o.rng.Intn(n)
		if i == j {
			continue
		}
		if c := sc.cost(o.table, i, j); c.Less(best.Cost) {
			best = Candidate{I: i, J: j, Cost: c}
		}
	}
	return best
}

// Parallel splits the exhaustive scan into contiguous i ranges, one goroutine
// each. Workers only read the table and write their own result slot.
type Parallel struct {
	Workers int
}

func (p Parallel) String() string { return fmt.Sprintf("%s(%d)", StrategyParallel, p.Workers) }

func (p Parallel) BestSwap(o *Optimizer) Candidate {
	n := o.table.Len()
	workers := p.Workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	o.ensureScorers(workers)

	results := make([]Candidate, workers)
	size, rem := n/workers, n%workers
	var g errgroup.Group
	from := 0
	for w := 0; w < workers; w++ {
		to := from + size
		if w < rem {
			to++
		}
		lo := from
		g.Go(func() error {
			results[w] = scanRange(o.table, o.scorers[w], lo, to)
			return nil
		})
		from = to
	}
	g.Wait()

	// earlier partitions hold earlier scan positions, so a strict comparison
	// keeps the sequential tie-break
	best := noCandidate
	for _, r := range results {
		if r.Cost.Less(best.Cost) {
			best = r
		}
	}
	return best
}

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer drives a match table toward lower cost by pairwise swaps.
type Optimizer struct {
	table   *MatchTable
	cfg     Config
	rule    GroupRule
	rng     *rand.Rand
	scorers []*scorer // scorers[0] is used on the calling goroutine
	cost    Cost
	log     *logrus.Entry
}

func NewOptimizer(table *MatchTable, cfg Config, rng *rand.Rand, log *logrus.Entry) *Optimizer {
	if log == nil {
		log = logrus.NewEntry(logger)
	}
	o := &Optimizer{
		table: table,
		cfg:   cfg,
		rule:  cfg.groupRule(),
		rng:   rng,
		log:   log,
	}
	o.ensureScorers(1)
	o.cost = o.scorers[0].cost(table, 0, 0)
	return o
}

func (o *Optimizer) ensureScorers(n int) {
	for len(o.scorers) < n {
		o.scorers = append(o.scorers, newScorer(o.rule))
	}
}

func (o *Optimizer) Table() *MatchTable { return o.table }
func (o *Optimizer) Cost() Cost         { return o.cost }

// Step asks n for a swap and applies it only if it strictly lowers the cost.
func (o *Optimizer) Step(n Neighborhood) bool {
	c := n.BestSwap(o)
	if c.I < 0 || !c.Cost.Less(o.cost) {
		return false
	}
	o.log.WithFields(logrus.Fields{"i": c.I, "j": c.J, "cost": c.Cost}).Debug("swap")
	o.table.Swap(c.I, c.J)
	o.cost = c.Cost
	return true
}

// Climb repeats Step until no improvement is found or maxIter swaps were applied.
func (o *Optimizer) Climb(n Neighborhood, maxIter int) (State, int) {
	for it := 0; it < maxIter; it++ {
		if !o.Step(n) {
			return Converged, it
		}
	}
	return BudgetExhausted, maxIter
}

// Result is the outcome of one Optimize run.
type Result struct {
	RunID      string
	Table      *MatchTable
	Cost       Cost
	State      State
	Iterations int
	Elapsed    time.Duration
}

// Optimize runs the configured strategy to completion.
func (o *Optimizer) Optimize() (Result, error) {
	start := time.Now()
	initial := o.cost
	o.log.WithField("cost", initial).Info("[init]")

	var (
		state State
		iters int
	)
	if o.cfg.Strategy == StrategyPhased {
		for pi, p := range o.cfg.Phases {
			n, err := o.cfg.neighborhood(p.Strategy, p.Samples)
			if err != nil {
				return Result{}, fmt.Errorf("phase %d: %w", pi, err)
			}
			s, it := o.Climb(n, p.MaxIterations)
			state, iters = s, iters+it
			o.log.WithFields(logrus.Fields{
				"phase": pi, "neighborhood": n.String(), "iterations": it,
				"state": s.String(), "cost": o.cost,
			}).Debug("[climb]")
		}
	} else {
		n, err := o.cfg.neighborhood(o.cfg.Strategy, o.cfg.Samples)
		if err != nil {
			return Result{}, err
		}
		state, iters = o.Climb(n, o.cfg.MaxIterations)
		o.log.WithFields(logrus.Fields{
			"neighborhood": n.String(), "iterations": iters, "state": state.String(),
		}).Debug("[climb]")
	}

	elapsed := time.Since(start)
	o.log.WithFields(logrus.Fields{
		"initial": initial, "best": o.cost,
		"state": state.String(), "iterations": iters, "elapsed": elapsed,
	}).Info("[done]")
	return Result{
		Table:      o.table,
		Cost:       o.cost,
		State:      state,
		Iterations: iters,
		Elapsed:    elapsed,
	}, nil
}

// Generate builds a random table from teams and optimizes it.
func Generate(teams []Team, courts, rounds int, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	runID := uuid.NewString()
	log := logger.WithFields(logrus.Fields{
		"run":      runID,
		"courts":   courts,
		"rounds":   rounds,
		"strategy": cfg.Strategy,
	})

	table, err := NewMatchTable(courts, rounds, teams, rng)
	if err != nil {
		return Result{}, err
	}
	log.WithField("seed", seed).Debug("table initialized")

	res, err := NewOptimizer(table, cfg, rng, log).Optimize()
	if err != nil {
		return Result{}, err
	}
	res.RunID = runID
	return res, nil
}
