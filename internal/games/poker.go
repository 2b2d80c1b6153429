package games

import (
	"fmt"
	"strings"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

// Card ranks run 2-14 (ace high). Hands are dealt with replacement, so
// duplicate cards are legal and must survive evaluation.
type Card struct {
	Rank int
	Suit string
}

var pokerSuits = [4]string{"♥", "♦", "♣", "♠"}

func (c Card) String() string {
	var r string
	switch {
	case c.Rank <= 10:
		r = fmt.Sprintf("%d", c.Rank)
	case c.Rank == 11:
		r = "J"
	case c.Rank == 12:
		r = "Q"
	case c.Rank == 13:
		r = "K"
	default:
		r = "A"
	}
	return r + c.Suit
}

type PokerCategory int

const (
	PokerHighCard PokerCategory = iota
	PokerPair
	PokerTwoPair
	PokerThreeOfAKind
	PokerStraight
	PokerFlush
	PokerFullHouse
	PokerFourOfAKind
	PokerStraightFlush
	PokerRoyalFlush
)

func (c PokerCategory) String() string {
	switch c {
	case PokerRoyalFlush:
		return "royal flush"
	case PokerStraightFlush:
		return "straight flush"
	case PokerFourOfAKind:
		return "four of a kind"
	case PokerFullHouse:
		return "full house"
	case PokerFlush:
		return "flush"
	case PokerStraight:
		return "straight"
	case PokerThreeOfAKind:
		return "three of a kind"
	case PokerTwoPair:
		return "two pair"
	case PokerPair:
		return "pair"
	}
	return "high card"
}

// Multiplier is the fixed payout factor for the category.
func (c PokerCategory) Multiplier() int64 {
	switch c {
	case PokerRoyalFlush:
		return 50
	case PokerStraightFlush:
		return 25
	case PokerFourOfAKind:
		return 15
	case PokerFullHouse:
		return 10
	case PokerFlush:
		return 6
	case PokerStraight:
		return 5
	case PokerThreeOfAKind:
		return 4
	case PokerTwoPair:
		return 3
	case PokerPair:
		return 2
	}
	return 1
}

// DealPokerHand draws 5 cards with replacement.
func DealPokerHand(rng RNG) [5]Card {
	var hand [5]Card
	for i := range hand {
		hand[i] = Card{
			Rank: rng.Intn(13) + 2,
			Suit: pokerSuits[rng.Intn(len(pokerSuits))],
		}
	}
	return hand
}

// EvaluatePokerHand classifies a hand. The checks run in strict
// descending order so replacement-deck oddities fall through the same
// way every time (five equal off-suit cards end up as high card: no
// count of exactly 4, 3 or 2 ever matches).
func EvaluatePokerHand(hand [5]Card) PokerCategory {
	rankCounts := make(map[int]int)
	suitSet := make(map[string]bool)
	minRank, maxRank := hand[0].Rank, hand[0].Rank
	for _, c := range hand {
		rankCounts[c.Rank]++
		suitSet[c.Suit] = true
		if c.Rank < minRank {
			minRank = c.Rank
		}
		if c.Rank > maxRank {
			maxRank = c.Rank
		}
	}

	isFlush := len(suitSet) == 1
	isWheel := len(rankCounts) == 5 &&
		rankCounts[14] == 1 && rankCounts[2] == 1 && rankCounts[3] == 1 &&
		rankCounts[4] == 1 && rankCounts[5] == 1
	isStraight := (len(rankCounts) == 5 && maxRank-minRank == 4) || isWheel

	counts := make([]int, 0, len(rankCounts))
	for _, n := range rankCounts {
		counts = append(counts, n)
	}
	// Descending.
	for i := 0; i < len(counts); i++ {
		for j := i + 1; j < len(counts); j++ {
			if counts[j] > counts[i] {
				counts[i], counts[j] = counts[j], counts[i]
			}
		}
	}

	isRoyal := isStraight && isFlush && minRank == 10 && maxRank == 14

	switch {
	case isRoyal:
		return PokerRoyalFlush
	case isStraight && isFlush:
		return PokerStraightFlush
	case counts[0] == 4:
		return PokerFourOfAKind
	case counts[0] == 3 && len(counts) == 2:
		return PokerFullHouse
	case isFlush:
		return PokerFlush
	case isStraight:
		return PokerStraight
	case counts[0] == 3:
		return PokerThreeOfAKind
	case counts[0] == 2 && len(counts) >= 2 && counts[1] == 2:
		return PokerTwoPair
	case counts[0] == 2:
		return PokerPair
	}
	return PokerHighCard
}

// PokerWinChance derives the independent win probability from the
// category multiplier. The hand rank sizes the payout; this separate
// roll decides win or lose. Both gates must stay exactly as they are.
func PokerWinChance(multiplier int64) float64 {
	chance := 0.5 - float64(multiplier)*0.005
	if chance < 0.1 {
		return 0.1
	}
	return chance
}

// PlayPoker deals, classifies, and applies the double gate: the stake
// pays multiplier-times only when the secondary roll succeeds,
// otherwise it is lost regardless of hand rank.
func PlayPoker(stake int64, rng RNG) models.WagerResult {
	hand := DealPokerHand(rng)
	category := EvaluatePokerHand(hand)
	multiplier := category.Multiplier()

	cards := make([]string, len(hand))
	for i, c := range hand {
		cards[i] = c.String()
	}
	detail := fmt.Sprintf("%s (%s, x%d)", strings.Join(cards, " "), category, multiplier)

	res := models.WagerResult{
		Stake:      stake,
		Multiplier: float64(multiplier),
		Detail:     detail,
	}
	if rng.Float64() < PokerWinChance(multiplier) {
		res.Payout = stake * multiplier
	}
	return res
}
