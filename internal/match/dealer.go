package match

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// stopGracePeriod is how long a dealer gets after an interrupt before it
// is killed.
const stopGracePeriod = 5 * time.Second

type DealerConfig struct {
	Path string
	// Args are inserted before the dealer's positional arguments, for
	// wrapper invocations.
	Args []string
	// Env entries are appended to the inherited environment.
	Env []string

	OutputPrefix string
	GameDefPath  string
	TotalHands   int
	Seed         int64
	SeatNames    [2]string
	Ports        [2]int
}

// positional builds the dealer's fixed argument list: output prefix, game
// definition, hand count, seed, both seat names, then the port assignment
// and the log flag.
func (cfg DealerConfig) positional() []string {
	args := append([]string{}, cfg.Args...)
	return append(args,
		cfg.OutputPrefix,
		cfg.GameDefPath,
		strconv.Itoa(cfg.TotalHands),
		strconv.FormatInt(cfg.Seed, 10),
		cfg.SeatNames[0],
		cfg.SeatNames[1],
		"-p", fmt.Sprintf("%d,%d", cfg.Ports[0], cfg.Ports[1]),
		"-l",
	)
}

// DealerProcess is one running dealer. Its stdout carries the final score
// line and must not be read until Wait has returned.
type DealerProcess struct {
	ID string

	cmd     *exec.Cmd
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	done    chan struct{}
	exitErr error

	logger    zerolog.Logger
	startTime time.Time
}

// StartDealer launches the dealer and begins monitoring it. The returned
// process must be Waited or Stopped.
func StartDealer(ctx context.Context, cfg DealerConfig, logger zerolog.Logger) (*DealerProcess, error) {
	id := uuid.New().String()[:8]
	d := &DealerProcess{
		ID:     id,
		done:   make(chan struct{}),
		logger: logger.With().Str("dealer_id", id).Logger(),
	}

	args := cfg.positional()
	d.cmd = exec.CommandContext(ctx, cfg.Path, args...)
	d.cmd.Stdout = &d.stdout
	d.cmd.Stderr = &d.stderr
	if len(cfg.Env) > 0 {
		d.cmd.Env = append(os.Environ(), cfg.Env...)
	}

	if err := d.cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting dealer: %w", err)
	}
	d.startTime = time.Now()
	d.logger.Debug().
		Str("path", cfg.Path).
		Strs("args", args).
		Int("pid", d.cmd.Process.Pid).
		Msg("Dealer started")

	go d.monitor()
	return d, nil
}

func (d *DealerProcess) monitor() {
	defer close(d.done)
	d.exitErr = d.cmd.Wait()
	if d.exitErr != nil {
		d.logger.Error().
			Err(d.exitErr).
			Dur("duration", time.Since(d.startTime)).
			Msg("Dealer exited abnormally")
		return
	}
	d.logger.Debug().
		Dur("duration", time.Since(d.startTime)).
		Msg("Dealer exited")
}

// Wait blocks until the dealer exits and returns its exit error.
func (d *DealerProcess) Wait() error {
	<-d.done
	return d.exitErr
}

// Stop interrupts the dealer and kills it if it does not exit within the
// grace period.
func (d *DealerProcess) Stop() error {
	select {
	case <-d.done:
		return d.exitErr
	default:
	}

	if err := d.cmd.Process.Signal(os.Interrupt); err != nil {
		d.logger.Debug().Err(err).Msg("Interrupt failed, killing")
		_ = d.cmd.Process.Kill()
	}

	select {
	case <-d.done:
	case <-time.After(stopGracePeriod):
		d.logger.Warn().Msg("Dealer ignored interrupt, killing")
		_ = d.cmd.Process.Kill()
		<-d.done
	}
	return d.exitErr
}

// Output returns the dealer's stdout. Only valid after Wait.
func (d *DealerProcess) Output() string {
	return d.stdout.String()
}

// ErrOutput returns the dealer's stderr, which holds the per-hand match
// log. Only valid after Wait.
func (d *DealerProcess) ErrOutput() string {
	return d.stderr.String()
}
