// Package config loads the harness configuration from an HCL file with an
// optional .env overlay. The loaded struct is passed explicitly into
// constructors; nothing here is process-global.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/acpcbench/internal/env"
	"github.com/lox/acpcbench/internal/match"
)

// Config is the complete harness configuration.
type Config struct {
	Dealer DealerSettings `hcl:"dealer,block"`
	Game   GameSettings   `hcl:"game,block"`
	Eval   EvalSettings   `hcl:"eval,block"`
}

// DealerSettings locates and wires the ACPC dealer process.
type DealerSettings struct {
	Path         string `hcl:"path,optional"`
	GameDefPath  string `hcl:"game_def,optional"`
	OutputDir    string `hcl:"output_dir,optional"`
	PortA        int    `hcl:"port_a,optional"`
	PortB        int    `hcl:"port_b,optional"`
	DebugMatches bool   `hcl:"debug_matches,optional"`
}

// GameSettings describes the limit game being dealt.
type GameSettings struct {
	SmallBet   int    `hcl:"small_bet,optional"`
	BigBet     int    `hcl:"big_bet,optional"`
	TotalHands int    `hcl:"total_hands,optional"`
	SeatNameA  string `hcl:"seat_a,optional"`
	SeatNameB  string `hcl:"seat_b,optional"`
}

// EvalSettings sizes the evaluation populations.
type EvalSettings struct {
	PointPopulation      int   `hcl:"point_population,optional"`
	ValidationPopulation int   `hcl:"validation_population,optional"`
	Seed                 int64 `hcl:"seed,optional"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Dealer: DealerSettings{
			Path:        "dealer",
			GameDefPath: "holdem.limit.2p.reverse_blinds.game",
			OutputDir:   "outputs",
			PortA:       18790,
			PortB:       18791,
		},
		Game: GameSettings{
			SmallBet:   10,
			BigBet:     20,
			TotalHands: 100,
			SeatNameA:  "sbb",
			SeatNameB:  "opponent",
		},
		Eval: EvalSettings{
			PointPopulation:      8,
			ValidationPopulation: 12,
			Seed:                 1,
		},
	}
}

// Load reads an HCL config file, back-fills defaults, applies environment
// overrides (loading a .env file first when one exists) and validates the
// result. A missing config file yields the defaults.
func Load(filename string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}
		var loaded Config
		if diags := gohcl.DecodeBody(file.Body, nil, &loaded); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
		config = &loaded
		config.applyDefaults()
	}

	// .env is a per-checkout convenience; absence is not an error.
	_ = godotenv.Load()
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Dealer.Path == "" {
		c.Dealer.Path = defaults.Dealer.Path
	}
	if c.Dealer.GameDefPath == "" {
		c.Dealer.GameDefPath = defaults.Dealer.GameDefPath
	}
	if c.Dealer.OutputDir == "" {
		c.Dealer.OutputDir = defaults.Dealer.OutputDir
	}
	if c.Dealer.PortA == 0 {
		c.Dealer.PortA = defaults.Dealer.PortA
	}
	if c.Dealer.PortB == 0 {
		c.Dealer.PortB = defaults.Dealer.PortB
	}

	if c.Game.SmallBet == 0 {
		c.Game.SmallBet = defaults.Game.SmallBet
	}
	if c.Game.BigBet == 0 {
		c.Game.BigBet = defaults.Game.BigBet
	}
	if c.Game.TotalHands == 0 {
		c.Game.TotalHands = defaults.Game.TotalHands
	}
	if c.Game.SeatNameA == "" {
		c.Game.SeatNameA = defaults.Game.SeatNameA
	}
	if c.Game.SeatNameB == "" {
		c.Game.SeatNameB = defaults.Game.SeatNameB
	}

	if c.Eval.PointPopulation == 0 {
		c.Eval.PointPopulation = defaults.Eval.PointPopulation
	}
	if c.Eval.ValidationPopulation == 0 {
		c.Eval.ValidationPopulation = defaults.Eval.ValidationPopulation
	}
	if c.Eval.Seed == 0 {
		c.Eval.Seed = defaults.Eval.Seed
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ACPC_DEALER_PATH"); v != "" {
		c.Dealer.Path = v
	}
	if v := os.Getenv("ACPC_GAME_DEF"); v != "" {
		c.Dealer.GameDefPath = v
	}
	if v := os.Getenv("ACPC_OUTPUT_DIR"); v != "" {
		c.Dealer.OutputDir = v
	}
	if v := os.Getenv("ACPC_TOTAL_HANDS"); v != "" {
		if hands, err := strconv.Atoi(v); err == nil {
			c.Game.TotalHands = hands
		}
	}
	if v := os.Getenv("ACPC_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Eval.Seed = seed
		}
	}
}

// Validate rejects configurations the harness cannot run with.
func (c *Config) Validate() error {
	if c.Dealer.Path == "" {
		return fmt.Errorf("dealer path is required")
	}
	if c.Dealer.PortA <= 0 || c.Dealer.PortB <= 0 {
		return fmt.Errorf("dealer ports must be positive, got %d and %d", c.Dealer.PortA, c.Dealer.PortB)
	}
	if c.Dealer.PortA == c.Dealer.PortB {
		return fmt.Errorf("dealer ports must differ, both are %d", c.Dealer.PortA)
	}
	if c.Game.SmallBet <= 0 || c.Game.BigBet <= 0 {
		return fmt.Errorf("bet sizes must be positive, got small=%d big=%d", c.Game.SmallBet, c.Game.BigBet)
	}
	if c.Game.SmallBet > c.Game.BigBet {
		return fmt.Errorf("small bet %d exceeds big bet %d", c.Game.SmallBet, c.Game.BigBet)
	}
	if c.Game.TotalHands <= 0 {
		return fmt.Errorf("total hands must be positive, got %d", c.Game.TotalHands)
	}
	if c.Game.SeatNameA == "" || c.Game.SeatNameB == "" {
		return fmt.Errorf("both seat names are required")
	}
	if c.Game.SeatNameA == c.Game.SeatNameB {
		return fmt.Errorf("seat names must differ, both are %q", c.Game.SeatNameA)
	}
	if c.Eval.PointPopulation < 0 || c.Eval.ValidationPopulation < 0 {
		return fmt.Errorf("population sizes must not be negative")
	}
	return nil
}

// MatchConfig maps the configuration onto the orchestrator's settings.
func (c *Config) MatchConfig() match.Config {
	return match.Config{
		DealerPath:   c.Dealer.Path,
		GameDefPath:  c.Dealer.GameDefPath,
		OutputDir:    c.Dealer.OutputDir,
		TotalHands:   c.Game.TotalHands,
		Ports:        [2]int{c.Dealer.PortA, c.Dealer.PortB},
		SeatNames:    [2]string{c.Game.SeatNameA, c.Game.SeatNameB},
		SmallBet:     c.Game.SmallBet,
		BigBet:       c.Game.BigBet,
		DebugMatches: c.Dealer.DebugMatches,
	}
}

// EnvConfig maps the configuration onto the environment's settings.
func (c *Config) EnvConfig() env.Config {
	return env.Config{
		PointPopulationSize:      c.Eval.PointPopulation,
		ValidationPopulationSize: c.Eval.ValidationPopulation,
		Seed:                     c.Eval.Seed,
	}
}
