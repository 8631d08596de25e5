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
	"github.com/lox/acpcbench/internal/stats"
)

type BenchmarkCmd struct {
	Config  string `default:"acpcbench.hcl" help:"Path to HCL config file"`
	Policy  string `default:"random" help:"Policy to benchmark (random, always-fold, always-call, always-raise)"`
	Debug   bool   `help:"Debug logging"`
	LogJSON bool   `help:"Output JSON logs instead of console format"`
}

// recordingRunner wraps the orchestrator to keep every match result for
// the final report.
type recordingRunner struct {
	inner   env.MatchRunner
	rewards stats.Rewards
}

func (r *recordingRunner) Play(ctx context.Context, policy, opponent match.Policy, seed int64, isTraining bool) (match.Result, error) {
	res, err := r.inner.Play(ctx, policy, opponent, seed, isTraining)
	if err != nil {
		return res, err
	}
	name := ""
	if o, ok := opponent.(env.Opponent); ok {
		name = o.Name()
	}
	r.rewards.Add(stats.MatchResult{
		Reward:   res.Reward,
		RawScore: res.RawScore,
		Seed:     seed,
		Opponent: name,
	})
	return res, nil
}

func (c *BenchmarkCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	zlog := logging.Setup(c.Debug)
	if c.LogJSON {
		zlog = logging.SetupStructured(c.Debug)
	}
	ui := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})

	policy, err := policyByName(c.Policy, cfg.Eval.Seed)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner := &recordingRunner{
		inner: match.NewOrchestrator(cfg.MatchConfig(), quartz.NewReal(), zlog),
	}
	environment := env.New(cfg.EnvConfig(), runner, zlog)
	fmt.Println(environment.Metrics())

	start := time.Now()
	score, err := environment.EvaluateTeam(ctx, policy, env.Champion)
	if err != nil {
		return err
	}

	ui.Info("Benchmark finished",
		"policy", c.Policy,
		"mean_reward", fmt.Sprintf("%.4f", score),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	fmt.Println(runner.rewards.Summary())
	return nil
}
