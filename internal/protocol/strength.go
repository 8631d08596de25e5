package protocol

import (
	"fmt"
	"strings"

	"github.com/paulhankin/poker"
)

// rawCard is a card as it appears on the wire: rank 2-14 (ace high), suit
// one of c/d/h/s.
type rawCard struct {
	rank int
	suit byte
}

func parseRank(c byte) (int, bool) {
	switch c {
	case 'T':
		return 10, true
	case 'J':
		return 11, true
	case 'Q':
		return 12, true
	case 'K':
		return 13, true
	case 'A':
		return 14, true
	}
	if c >= '2' && c <= '9' {
		return int(c - '0'), true
	}
	return 0, false
}

func parseCards(s string) ([]rawCard, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length card string %q", s)
	}
	cards := make([]rawCard, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		rank, ok := parseRank(s[i])
		if !ok {
			return nil, fmt.Errorf("bad card rank %q", string(s[i]))
		}
		switch s[i+1] {
		case 'c', 'd', 'h', 's':
		default:
			return nil, fmt.Errorf("bad card suit %q", string(s[i+1]))
		}
		cards = append(cards, rawCard{rank: rank, suit: s[i+1]})
	}
	return cards, nil
}

func validateCards(s string) error {
	_, err := parseCards(s)
	return err
}

// toLibCard converts a wire card to the evaluator's representation, which
// uses ace = 1.
func toLibCard(c rawCard) poker.Card {
	var s poker.Suit
	switch c.suit {
	case 'c':
		s = poker.Club
	case 'd':
		s = poker.Diamond
	case 'h':
		s = poker.Heart
	default:
		s = poker.Spade
	}
	r := poker.Rank(c.rank)
	if c.rank == 14 {
		r = poker.Rank(1)
	}
	card, _ := poker.MakeCard(s, r)
	return card
}

// royalScore is the evaluator's score for a royal flush, used as the
// normalization ceiling so the feature does not depend on the library's
// internal score scale.
var royalScore = func() int16 {
	var royal [5]poker.Card
	for i, c := range []rawCard{
		{14, 's'}, {13, 's'}, {12, 's'}, {11, 's'}, {10, 's'},
	} {
		royal[i] = toLibCard(c)
	}
	return poker.Eval5(&royal)
}()

// handStrength maps the visible hole and board cards to [0,1]. Preflop uses
// a Chen-style heuristic on the two hole cards; from the flop on, the best
// five-card hand is evaluated and scaled against a royal flush.
func handStrength(hole string, board []string) float64 {
	if hole == "" {
		return 0
	}
	cards, err := parseCards(hole + strings.Join(board, ""))
	if err != nil {
		// Card fields were validated at parse time.
		return 0
	}

	var score int16
	switch len(cards) {
	case 2:
		return preflopStrength(cards[0], cards[1])
	case 5:
		var a5 [5]poker.Card
		for i, c := range cards {
			a5[i] = toLibCard(c)
		}
		score = poker.Eval5(&a5)
	case 6:
		score = bestFiveOfSix(cards)
	case 7:
		var a7 [7]poker.Card
		for i, c := range cards {
			a7[i] = toLibCard(c)
		}
		score = poker.Eval7(&a7)
	default:
		return 0
	}

	strength := float64(score) / float64(royalScore)
	if strength < 0 {
		return 0
	}
	if strength > 1 {
		return 1
	}
	return strength
}

// bestFiveOfSix scans all five-card subsets of a six-card hand and keeps
// the strongest score.
func bestFiveOfSix(cards []rawCard) int16 {
	lib := make([]poker.Card, len(cards))
	for i, c := range cards {
		lib[i] = toLibCard(c)
	}
	var best int16
	var five [5]poker.Card
	for skip := 0; skip < len(lib); skip++ {
		k := 0
		for i, c := range lib {
			if i == skip {
				continue
			}
			five[k] = c
			k++
		}
		if score := poker.Eval5(&five); skip == 0 || score > best {
			best = score
		}
	}
	return best
}

// preflopStrength is a Chen-formula style score for two hole cards,
// normalized by the score of a pair of aces.
func preflopStrength(a, b rawCard) float64 {
	hi, lo := a, b
	if lo.rank > hi.rank {
		hi, lo = lo, hi
	}

	var score float64
	switch hi.rank {
	case 14:
		score = 10
	case 13:
		score = 8
	case 12:
		score = 7
	case 11:
		score = 6
	default:
		score = float64(hi.rank) / 2
	}

	if hi.rank == lo.rank {
		score *= 2
		if score < 5 {
			score = 5
		}
	} else {
		switch gap := hi.rank - lo.rank; {
		case gap == 1:
		case gap == 2:
			score--
		case gap == 3:
			score -= 2
		case gap == 4:
			score -= 4
		default:
			score -= 5
		}
	}
	if a.suit == b.suit && hi.rank != lo.rank {
		score += 2
	}

	strength := score / 20
	if strength < 0 {
		return 0
	}
	if strength > 1 {
		return 1
	}
	return strength
}
