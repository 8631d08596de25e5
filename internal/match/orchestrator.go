package match

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/acpcbench/internal/logging"
	"github.com/lox/acpcbench/internal/protocol"
)

const scoreMarker = "SCORE:"

type Config struct {
	DealerPath  string
	DealerArgs  []string
	DealerEnv   []string
	GameDefPath string

	OutputDir    string
	TotalHands   int
	Ports        [2]int
	SeatNames    [2]string
	SmallBet     int
	BigBet       int
	DebugMatches bool
}

// Result is the outcome of one match from the evaluated seat's point of
// view.
type Result struct {
	RawScore float64 // net chips over the whole match
	RawAvg   float64 // net chips per hand
	Reward   float64 // RawAvg normalized onto [0,1]
}

// Orchestrator runs complete matches: one dealer process plus a client for
// each seat, then scores the dealer's verdict.
type Orchestrator struct {
	cfg    Config
	clock  quartz.Clock
	logger zerolog.Logger
}

func NewOrchestrator(cfg Config, clock quartz.Clock, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, clock: clock, logger: logger}
}

// Play runs one match between policy (seat 0, the evaluated seat) and
// opponent (seat 1). The opponent always plays in non-training mode. The
// dealer's score is only read after the dealer and both seats have
// finished.
func (o *Orchestrator) Play(ctx context.Context, policy, opponent Policy, seed int64, isTraining bool) (Result, error) {
	matchID := uuid.New().String()[:8]
	logger := o.logger.With().Str("match_id", matchID).Logger()

	debugDir := ""
	if o.cfg.DebugMatches {
		debugDir = filepath.Join(o.cfg.OutputDir, matchID)
		if err := os.MkdirAll(debugDir, 0o755); err != nil {
			logger.Warn().Err(err).Msg("Cannot create debug dir, diagnostics disabled")
			debugDir = ""
		}
	}

	dealer, err := StartDealer(ctx, DealerConfig{
		Path:         o.cfg.DealerPath,
		Args:         o.cfg.DealerArgs,
		Env:          o.cfg.DealerEnv,
		OutputPrefix: filepath.Join(o.cfg.OutputDir, matchID),
		GameDefPath:  o.cfg.GameDefPath,
		TotalHands:   o.cfg.TotalHands,
		Seed:         seed,
		SeatNames:    o.cfg.SeatNames,
		Ports:        o.cfg.Ports,
	}, logger)
	if err != nil {
		return Result{}, err
	}

	game := protocol.GameSpec{SmallBet: o.cfg.SmallBet, BigBet: o.cfg.BigBet}
	seats := [2]Policy{policy, opponent}
	training := [2]bool{isTraining, false}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			seatLogger := logger
			if debugDir != "" {
				fileLogger, closeLog, err := logging.File(filepath.Join(debugDir, "player"+strconv.Itoa(o.cfg.Ports[i])+".log"))
				if err == nil {
					defer closeLog()
					seatLogger = fileLogger
				}
			}
			client := NewClient(ClientConfig{
				Seat:       o.cfg.SeatNames[i],
				Port:       o.cfg.Ports[i],
				MatchID:    matchID,
				IsTraining: training[i],
				Game:       game,
			}, seats[i], o.clock, seatLogger)
			return client.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		_ = dealer.Stop()
		return Result{}, err
	}
	if err := dealer.Wait(); err != nil {
		return Result{}, fmt.Errorf("dealer: %w (stderr: %s)", err, strings.TrimSpace(dealer.ErrOutput()))
	}

	if debugDir != "" {
		if err := os.WriteFile(filepath.Join(debugDir, "match.log"), []byte(dealer.ErrOutput()), 0o644); err != nil {
			logger.Warn().Err(err).Msg("Cannot write match log")
		}
	}

	score, err := parseScoreLine(dealer.Output(), o.cfg.SeatNames[0])
	if err != nil {
		return Result{}, err
	}

	rawAvg := score / float64(o.cfg.TotalHands)
	res := Result{
		RawScore: score,
		RawAvg:   rawAvg,
		Reward:   NormalizeReward(rawAvg, MaxWinning(o.cfg.SmallBet, o.cfg.BigBet)),
	}
	logger.Info().
		Float64("score", res.RawScore).
		Float64("avg", res.RawAvg).
		Float64("reward", res.Reward).
		Msg("Match finished")
	return res, nil
}

// parseScoreLine extracts the evaluated seat's total from the dealer's
// stdout. The score is the second line, shaped
// "SCORE:<a>|<b>:<nameA>|<nameB>", and the first name must match the
// evaluated seat or the totals cannot be attributed.
func parseScoreLine(stdout, evaluatedSeat string) (float64, error) {
	lines := strings.Split(stdout, "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("%w: dealer output has no score line: %q", ErrProtocolDesync, stdout)
	}
	line := strings.TrimSpace(lines[1])
	if !strings.HasPrefix(line, scoreMarker) {
		return 0, fmt.Errorf("%w: expected score line, got %q", ErrProtocolDesync, line)
	}

	parts := strings.Split(strings.TrimPrefix(line, scoreMarker), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: malformed score line %q", ErrProtocolDesync, line)
	}
	scores := strings.Split(parts[0], "|")
	names := strings.Split(parts[1], "|")
	if len(scores) != 2 || len(names) != 2 {
		return 0, fmt.Errorf("%w: malformed score line %q", ErrProtocolDesync, line)
	}
	if names[0] != evaluatedSeat {
		return 0, fmt.Errorf("%w: score line names %q first, expected %q", ErrProtocolDesync, names[0], evaluatedSeat)
	}

	score, err := strconv.ParseFloat(scores[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad score %q in %q", ErrProtocolDesync, scores[0], line)
	}
	return score, nil
}
