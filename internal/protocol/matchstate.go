// Package protocol decodes the ACPC dealer's line-oriented match-state
// protocol for two-player limit hold'em and derives the numeric features
// and legal-action sets a policy consumes.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter marks the start of each state update. The dealer may flush
// several updates in one TCP segment; SplitBatch recovers them.
const Delimiter = "MATCHSTATE"

// NumInputs is the length of the feature vector produced by Inputs.
const NumInputs = 7

// betCap is the maximum number of bets per betting round in the limit game.
const betCap = 4

// GameSpec carries the limit-game bet sizing used for pot and pot-odds
// features. Rounds 0-1 use the small bet, rounds 2-3 the big bet.
type GameSpec struct {
	SmallBet int
	BigBet   int
}

func (g GameSpec) betUnit(round int) float64 {
	if round < 2 {
		return float64(g.SmallBet)
	}
	return float64(g.BigBet)
}

// maxPot is the largest pot the game structure allows: both seats putting
// in four bets on each of the four rounds.
func (g GameSpec) maxPot() float64 {
	return 2 * float64(2*(betCap*g.SmallBet)+2*(betCap*g.BigBet))
}

// SplitBatch strips line terminators and splits a raw read into individual
// state segments (without the MATCHSTATE prefix). The final segment is the
// authoritative one; earlier segments describe stale states and are kept
// only for retroactive hand classification.
func SplitBatch(raw string) []string {
	clean := strings.NewReplacer("\r", "", "\n", "").Replace(raw)
	parts := strings.Split(clean, Delimiter)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Parser decodes match-state segments for one configured game.
type Parser struct {
	Game GameSpec
}

// MatchState is an immutable snapshot of one protocol message. It is valid
// only for the exact text it was parsed from.
type MatchState struct {
	HandID   int
	Position int    // our seat index as reported by the dealer
	Raw      string // segment as received, used for the action echo

	rounds []string  // betting string per round
	holes  [2]string // hole cards per seat, "" while hidden
	board  []string  // community cards per street
	game   GameSpec
}

// Parse decodes one segment (the text after the MATCHSTATE prefix).
// Malformed input is fatal: a desynchronized parse corrupts the match.
func (p Parser) Parse(segment string) (*MatchState, error) {
	fields := strings.SplitN(segment, ":", 5)
	if len(fields) != 5 || fields[0] != "" {
		return nil, fmt.Errorf("protocol: malformed match state %q", segment)
	}

	position, err := strconv.Atoi(fields[1])
	if err != nil || position < 0 || position > 1 {
		return nil, fmt.Errorf("protocol: bad position %q in %q", fields[1], segment)
	}
	handID, err := strconv.Atoi(fields[2])
	if err != nil || handID < 0 {
		return nil, fmt.Errorf("protocol: bad hand id %q in %q", fields[2], segment)
	}

	betting := fields[3]
	for i := 0; i < len(betting); i++ {
		switch betting[i] {
		case 'f', 'c', 'r', '/':
		default:
			return nil, fmt.Errorf("protocol: bad action %q in %q", string(betting[i]), segment)
		}
	}
	rounds := strings.Split(betting, "/")
	if len(rounds) > 4 {
		return nil, fmt.Errorf("protocol: too many betting rounds in %q", segment)
	}

	cardParts := strings.Split(fields[4], "/")
	holeHalves := strings.Split(cardParts[0], "|")
	if len(holeHalves) != 2 {
		return nil, fmt.Errorf("protocol: bad hole cards %q in %q", cardParts[0], segment)
	}
	for _, h := range holeHalves {
		if err := validateCards(h); err != nil {
			return nil, fmt.Errorf("protocol: %w in %q", err, segment)
		}
	}
	board := cardParts[1:]
	for _, b := range board {
		if err := validateCards(b); err != nil {
			return nil, fmt.Errorf("protocol: %w in %q", err, segment)
		}
	}

	return &MatchState{
		HandID:   handID,
		Position: position,
		Raw:      segment,
		rounds:   rounds,
		holes:    [2]string{holeHalves[0], holeHalves[1]},
		board:    board,
		game:     p.Game,
	}, nil
}

// IsShowdown reports whether both seats' hole cards are revealed, which
// only happens once a hand completes without a fold.
func (s *MatchState) IsShowdown() bool {
	return s.holes[0] != "" && s.holes[1] != ""
}

// firstToAct gives the seat that opens a betting round. In the heads-up
// reverse-blinds game the second seat posts the small blind and acts first
// preflop; the first seat opens every later round.
func firstToAct(round int) int {
	if round == 0 {
		return 1
	}
	return 0
}

// handAnalysis is the result of one walk over the betting string.
type handAnalysis struct {
	actions  [2][]Action
	foldedBy int // seat that folded, or -1
	contrib  [2]float64
	level    float64 // outstanding bet level of the current round, in units
	raises   [2]int  // raises per seat in the current round
	pot      float64 // chips committed across all rounds, blinds included
}

func (s *MatchState) analyze() handAnalysis {
	a := handAnalysis{foldedBy: -1}
	last := len(s.rounds) - 1
	for r, acts := range s.rounds {
		var contrib [2]float64
		var raises [2]int
		level := 0.0
		if r == 0 {
			contrib[firstToAct(0)] = 0.5 // small blind
			contrib[1-firstToAct(0)] = 1
			level = 1
		}
		for i := 0; i < len(acts); i++ {
			actor := (firstToAct(r) + i) % 2
			switch acts[i] {
			case 'f':
				a.foldedBy = actor
				a.actions[actor] = append(a.actions[actor], Fold)
			case 'c':
				contrib[actor] = level
				a.actions[actor] = append(a.actions[actor], Call)
			case 'r':
				level++
				contrib[actor] = level
				raises[actor]++
				a.actions[actor] = append(a.actions[actor], Raise)
			}
		}
		a.pot += (contrib[0] + contrib[1]) * s.game.betUnit(r)
		if r == last {
			a.contrib = contrib
			a.level = level
			a.raises = raises
		}
	}
	return a
}

// roundClosed reports whether a betting round has been settled: both seats
// acted and the last action matched the outstanding bet.
func roundClosed(acts string) bool {
	return len(acts) >= 2 && acts[len(acts)-1] == 'c'
}

// ToAct returns the seat that must act next. ok is false when no action is
// pending: showdown, a fold ended the hand, or the dealer has yet to open
// the next round.
func (s *MatchState) ToAct() (seat int, ok bool) {
	if s.IsShowdown() {
		return 0, false
	}
	a := s.analyze()
	if a.foldedBy >= 0 {
		return 0, false
	}
	r := len(s.rounds) - 1
	acts := s.rounds[r]
	if roundClosed(acts) {
		return 0, false
	}
	return (firstToAct(r) + len(acts)) % 2, true
}

// IsOurTurn reports whether the parsed seat must act on this state.
func (s *MatchState) IsOurTurn() bool {
	seat, ok := s.ToAct()
	return ok && seat == s.Position
}

// OpponentFolded reports whether the other seat has folded this hand.
func (s *MatchState) OpponentFolded() bool {
	a := s.analyze()
	return a.foldedBy == 1-s.Position
}

// SelfActions returns our seat's decisions so far this hand, in order.
func (s *MatchState) SelfActions() []Action {
	return s.analyze().actions[s.Position]
}

// OpponentActions returns the other seat's decisions so far this hand.
func (s *MatchState) OpponentActions() []Action {
	return s.analyze().actions[1-s.Position]
}

// LegalActions returns the actions available to the acting seat. Fold is
// excluded when nothing is outstanding, Raise once the round is capped.
// Returns nil when no action is pending.
func (s *MatchState) LegalActions() []Action {
	seat, ok := s.ToAct()
	if !ok {
		return nil
	}
	a := s.analyze()
	legal := make([]Action, 0, NumActions)
	if a.level-a.contrib[seat] > 0 {
		legal = append(legal, Fold)
	}
	legal = append(legal, Call)
	if a.level < betCap {
		legal = append(legal, Raise)
	}
	return legal
}

// Inputs derives the fixed-size feature vector for this state: betting
// round progress, normalized pot, pot odds, betting position, a
// hand-strength proxy, and the per-seat raise counts for the current round.
func (s *MatchState) Inputs() []float64 {
	a := s.analyze()
	r := len(s.rounds) - 1

	toCall := 0.0
	if seat, ok := s.ToAct(); ok {
		toCall = (a.level - a.contrib[seat]) * s.game.betUnit(r)
	}
	potOdds := 0.0
	if toCall > 0 {
		potOdds = toCall / (a.pot + toCall)
	}

	return []float64{
		float64(r) / 3,
		a.pot / s.game.maxPot(),
		potOdds,
		float64(s.Position),
		handStrength(s.holes[s.Position], s.board),
		float64(a.raises[s.Position]) / betCap,
		float64(a.raises[1-s.Position]) / betCap,
	}
}
