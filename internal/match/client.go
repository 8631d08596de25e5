package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/acpcbench/internal/model"
	"github.com/lox/acpcbench/internal/protocol"
)

const (
	protocolVersion    = "VERSION:2.0.0\r\n"
	maxConnectAttempts = 10
	connectRetryDelay  = 1 * time.Second
	readBufferSize     = 4096
)

// Policy decides an action for one decision point. Initialize is called at
// every hand boundary so stateful policies can reset per-hand registers.
// Execute returns ok=false when the policy abstains, in which case the
// client calls.
type Policy interface {
	Initialize()
	Execute(matchID string, inputs []float64, legal []protocol.Action, isTraining bool) (action protocol.Action, ok bool)
}

type ClientConfig struct {
	Seat       string
	Port       int
	MatchID    string
	IsTraining bool
	Game       protocol.GameSpec
}

// Client plays one seat of a dealer match over TCP: it connects, announces
// the protocol version, and answers every state where it has the action,
// feeding an opponent model as hands complete.
type Client struct {
	cfg    ClientConfig
	policy Policy
	parser protocol.Parser
	model  *model.OpponentModel
	clock  quartz.Clock
	logger zerolog.Logger
}

func NewClient(cfg ClientConfig, policy Policy, clock quartz.Clock, logger zerolog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		policy: policy,
		parser: protocol.Parser{Game: cfg.Game},
		model:  model.New(),
		clock:  clock,
		logger: logger.With().Str("seat", cfg.Seat).Int("port", cfg.Port).Logger(),
	}
}

// Run plays the seat until the dealer closes the stream. A clean close
// (EOF or connection reset) is the normal end of a match and returns nil.
func (c *Client) Run(ctx context.Context) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(protocolVersion)); err != nil {
		return fmt.Errorf("%s: version handshake: %w", c.cfg.Seat, err)
	}

	var (
		lastHandID = -1
		prevBatch  []string
		prevAction protocol.Action
		prevActed  bool
	)
	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, syscall.ECONNRESET) {
				c.logger.Debug().Msg("Stream closed, match over")
				return nil
			}
			return fmt.Errorf("%s: read: %w", c.cfg.Seat, err)
		}

		// A read may carry several states at once; only the newest one can
		// still be acted on.
		segments := protocol.SplitBatch(string(buf[:n]))
		if len(segments) == 0 {
			continue
		}
		state, err := c.parser.Parse(segments[len(segments)-1])
		if err != nil {
			return fmt.Errorf("%s: %w: %v", c.cfg.Seat, ErrProtocolDesync, err)
		}

		if state.HandID != lastHandID {
			if state.HandID < lastHandID {
				return fmt.Errorf("%s: %w: hand id %d after %d", c.cfg.Seat, ErrProtocolDesync, state.HandID, lastHandID)
			}
			c.policy.Initialize()
			if lastHandID != -1 {
				if err := c.settlePreviousHand(prevBatch, state.HandID, prevAction, prevActed); err != nil {
					return fmt.Errorf("%s: %w", c.cfg.Seat, err)
				}
			}
			lastHandID = state.HandID
		}
		prevBatch = segments

		if !state.IsOurTurn() || state.OpponentFolded() || state.IsShowdown() {
			prevActed = false
			continue
		}

		inputs := append(state.Inputs(), c.model.Inputs()...)
		action, ok := c.policy.Execute(c.cfg.MatchID, inputs, state.LegalActions(), c.cfg.IsTraining)
		if !ok {
			action = protocol.Call
		}
		prevAction, prevActed = action, true

		echo := protocol.Delimiter + state.Raw + ":" + string(action.Code()) + "\r\n"
		if _, err := conn.Write([]byte(echo)); err != nil {
			if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
				c.logger.Debug().Msg("Dealer hung up mid-write, match over")
				return nil
			}
			return fmt.Errorf("%s: write: %w", c.cfg.Seat, err)
		}
		c.logger.Debug().
			Int("hand", state.HandID).
			Str("action", action.String()).
			Floats64("inputs", inputs).
			Msg("Acted")
	}
}

// settlePreviousHand finds the last state of the hand that just ended in
// the previous batch and feeds its outcome to the opponent model. The hand
// is classified by how it ended: showdown, our own fold (the last action we
// sent), or the opponent's fold.
func (c *Client) settlePreviousHand(prevBatch []string, newHandID int, prevAction protocol.Action, prevActed bool) error {
	for i := len(prevBatch) - 1; i >= 0; i-- {
		final, err := c.parser.Parse(prevBatch[i])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProtocolDesync, err)
		}
		if final.HandID != newHandID-1 {
			continue
		}

		selfFolded, opponentFolded := false, false
		switch {
		case final.IsShowdown():
		case prevActed && prevAction == protocol.Fold:
			selfFolded = true
		default:
			opponentFolded = true
		}
		c.model.UpdateAggressiveness(final.SelfActions(), final.OpponentActions(), selfFolded, opponentFolded)
		return nil
	}
	// Final state of the previous hand never reached us; skip it rather
	// than guess at an outcome.
	return nil
}

// connect dials the dealer, retrying while the port is not yet listening.
// The dealer opens its ports only after both seats are configured, so a
// refused connection early on is expected.
func (c *Client) connect(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort("localhost", strconv.Itoa(c.cfg.Port))
	for attempt := 1; ; attempt++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			return conn, nil
		}
		if attempt >= maxConnectAttempts {
			return nil, &ConnectTimeoutError{Seat: c.cfg.Seat, Port: c.cfg.Port, Attempts: attempt}
		}
		if errors.Is(err, syscall.ECONNREFUSED) {
			c.logger.Debug().Int("attempt", attempt).Msg("Dealer not listening yet, retrying")
			if err := c.sleep(ctx, connectRetryDelay); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	fired := make(chan struct{})
	timer := c.clock.AfterFunc(d, func() { close(fired) })
	defer timer.Stop()
	select {
	case <-fired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
