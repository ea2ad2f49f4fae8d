package main

import (
	"fmt"
	"runtime"

	"github.com/BurntSushi/toml"
)

const (
	StrategyExhaustive = "exhaustive"
	StrategySampled    = "sampled"
	StrategyParallel   = "parallel"
	StrategyPhased     = "phased"
)

// Phase is one climb of a phased search.
type Phase struct {
	Strategy      string `toml:"strategy"`
	Samples       int    `toml:"samples"`
	MaxIterations int    `toml:"max_iterations"`
}

// Config holds search tuning parameters. Adjust these to trade speed for
// solution quality.
type Config struct {
	// Strategy is one of exhaustive, sampled, parallel or phased.
	Strategy string `toml:"strategy"`
	// MaxIterations caps applied swaps per climb.
	MaxIterations int `toml:"max_iterations"`
	// Samples is the number of random pairs drawn per sampled step.
	Samples int `toml:"samples"`
	// Workers is the goroutine count for the parallel scan.
	Workers int `toml:"workers"`
	// Seed feeds the shuffle and sampling source. 0 picks a time-based seed.
	Seed int64 `toml:"seed"`
	// GroupRule is "teammates" or "off".
	GroupRule string `toml:"group_rule"`
	Debug     bool   `toml:"debug"`
	// Phases is used by the phased strategy, coarse to fine.
	Phases []Phase `toml:"phase"`
}

func DefaultConfig() Config {
	return Config{
		Strategy:      StrategySampled,
		MaxIterations: 60,
		Samples:       10000,
		Workers:       runtime.GOMAXPROCS(0),
		GroupRule:     "teammates",
		Phases: []Phase{
			{Strategy: StrategySampled, Samples: 1000, MaxIterations: 40},
			{Strategy: StrategySampled, Samples: 10000, MaxIterations: 40},
			{Strategy: StrategyParallel, MaxIterations: 20},
		},
	}
}

// LoadConfig decodes a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	// decoding into a non-empty slice would merge into the default phases
	phases := c.Phases
	c.Phases = nil
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, fmt.Errorf("load config %s: %w", path, err)
	}
	if !md.IsDefined("phase") {
		c.Phases = phases
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if _, ok := groupRuleNames[c.GroupRule]; !ok {
		return fmt.Errorf("group_rule %q: want teammates or off", c.GroupRule)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Strategy == StrategyPhased {
		if len(c.Phases) == 0 {
			return fmt.Errorf("phased strategy needs at least one [[phase]]")
		}
		for i, p := range c.Phases {
			if p.Strategy == StrategyPhased {
				return fmt.Errorf("phase %d: %w: phases cannot nest", i, ErrUnknownStrategy)
			}
			if _, err := c.neighborhood(p.Strategy, p.Samples); err != nil {
				return fmt.Errorf("phase %d: %w", i, err)
			}
			if p.MaxIterations <= 0 {
				return fmt.Errorf("phase %d: max_iterations must be positive", i)
			}
		}
		return nil
	}
	_, err := c.neighborhood(c.Strategy, c.Samples)
	return err
}

func (c Config) groupRule() GroupRule {
	return groupRuleNames[c.GroupRule]
}

func (c Config) neighborhood(strategy string, samples int) (Neighborhood, error) {
	switch strategy {
	case StrategyExhaustive:
		return Exhaustive{}, nil
	case StrategySampled:
		if samples <= 0 {
			return nil, fmt.Errorf("samples must be positive, got %d", samples)
		}
		return Sampled{Samples: samples}, nil
	case StrategyParallel:
		w := c.Workers
		if w <= 0 {
			w = runtime.GOMAXPROCS(0)
		}
		return Parallel{Workers: w}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}
