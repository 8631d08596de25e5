package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/acpcbench/internal/config"
	"github.com/lox/acpcbench/internal/env"
	"github.com/lox/acpcbench/internal/logging"
	"github.com/lox/acpcbench/internal/match"
)

type PlayCmd struct {
	Config   string `default:"acpcbench.hcl" help:"Path to HCL config file"`
	Policy   string `default:"random" help:"Policy for the evaluated seat (random, always-fold, always-call, always-raise)"`
	Opponent string `default:"always-call" help:"Opponent policy"`
	Seed     int64  `default:"0" help:"Dealer seed (0 draws one from the current time)"`
	Debug    bool   `help:"Debug logging"`
	LogJSON  bool   `help:"Output JSON logs instead of console format"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	zlog := logging.Setup(c.Debug)
	if c.LogJSON {
		zlog = logging.SetupStructured(c.Debug)
	}
	ui := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano() % (1 << 31)
	}
	policy, err := policyByName(c.Policy, seed)
	if err != nil {
		return err
	}
	opponent, err := policyByName(c.Opponent, seed+1)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	orch := match.NewOrchestrator(cfg.MatchConfig(), quartz.NewReal(), zlog)
	res, err := orch.Play(ctx, policy, opponent, seed, false)
	if err != nil {
		return err
	}

	ui.Info("Match finished",
		"policy", c.Policy,
		"opponent", c.Opponent,
		"seed", seed,
		"score", res.RawScore,
		"avg", fmt.Sprintf("%.4f", res.RawAvg),
		"reward", fmt.Sprintf("%.4f", res.Reward),
	)
	return nil
}

func policyByName(name string, seed int64) (env.Opponent, error) {
	switch name {
	case "random":
		return env.NewRandomOpponent(seed), nil
	case "always-fold":
		return env.AlwaysFoldOpponent{}, nil
	case "always-call":
		return env.AlwaysCallOpponent{}, nil
	case "always-raise":
		return env.AlwaysRaiseOpponent{}, nil
	default:
		return nil, fmt.Errorf("unknown policy: %s (available: random, always-fold, always-call, always-raise)", name)
	}
}
