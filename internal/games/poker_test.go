package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hand(cards ...Card) [5]Card {
	var h [5]Card
	copy(h[:], cards)
	return h
}

func TestEvaluatePokerHand(t *testing.T) {
	tests := []struct {
		name string
		hand [5]Card
		want PokerCategory
	}{
		{
			"royal flush",
			hand(Card{10, "♥"}, Card{11, "♥"}, Card{12, "♥"}, Card{13, "♥"}, Card{14, "♥"}),
			PokerRoyalFlush,
		},
		{
			"straight flush",
			hand(Card{5, "♠"}, Card{6, "♠"}, Card{7, "♠"}, Card{8, "♠"}, Card{9, "♠"}),
			PokerStraightFlush,
		},
		{
			"four of a kind",
			hand(Card{9, "♥"}, Card{9, "♦"}, Card{9, "♣"}, Card{9, "♠"}, Card{2, "♥"}),
			PokerFourOfAKind,
		},
		{
			"full house",
			hand(Card{9, "♥"}, Card{9, "♦"}, Card{9, "♣"}, Card{2, "♠"}, Card{2, "♥"}),
			PokerFullHouse,
		},
		{
			"flush",
			hand(Card{2, "♦"}, Card{5, "♦"}, Card{9, "♦"}, Card{11, "♦"}, Card{13, "♦"}),
			PokerFlush,
		},
		{
			"straight",
			hand(Card{4, "♥"}, Card{5, "♦"}, Card{6, "♣"}, Card{7, "♠"}, Card{8, "♥"}),
			PokerStraight,
		},
		{
			"wheel straight",
			hand(Card{14, "♥"}, Card{2, "♦"}, Card{3, "♣"}, Card{4, "♠"}, Card{5, "♥"}),
			PokerStraight,
		},
		{
			"three of a kind",
			hand(Card{9, "♥"}, Card{9, "♦"}, Card{9, "♣"}, Card{5, "♠"}, Card{2, "♥"}),
			PokerThreeOfAKind,
		},
		{
			"two pair",
			hand(Card{9, "♥"}, Card{9, "♦"}, Card{5, "♣"}, Card{5, "♠"}, Card{2, "♥"}),
			PokerTwoPair,
		},
		{
			"pair",
			hand(Card{9, "♥"}, Card{9, "♦"}, Card{5, "♣"}, Card{3, "♠"}, Card{2, "♥"}),
			PokerPair,
		},
		{
			"high card",
			hand(Card{2, "♥"}, Card{5, "♦"}, Card{7, "♣"}, Card{9, "♠"}, Card{13, "♥"}),
			PokerHighCard,
		},
		{
			// Dealt with replacement, five identical cards are legal and
			// fall through every category check.
			"five of a kind falls to high card",
			hand(Card{9, "♥"}, Card{9, "♥"}, Card{9, "♥"}, Card{9, "♥"}, Card{9, "♥"}),
			PokerHighCard,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluatePokerHand(tt.hand))
		})
	}
}

func TestPokerWinChance(t *testing.T) {
	assert.InDelta(t, 0.495, PokerWinChance(1), 1e-9)
	assert.InDelta(t, 0.49, PokerWinChance(2), 1e-9)
	assert.InDelta(t, 0.25, PokerWinChance(50), 1e-9)
	// Floor at 10%.
	assert.InDelta(t, 0.1, PokerWinChance(1000), 1e-9)
}

func TestPlayPokerDoubleGate(t *testing.T) {
	// Pair of nines: ranks 9,9,5,3,2 come from Intn(13)+2 with
	// alternating suit draws.
	ints := []int{7, 0, 7, 1, 3, 2, 1, 3, 0, 0}
	win := PlayPoker(100, &scriptRNG{ints: ints, floats: []float64{0.1}})
	assert.Equal(t, int64(200), win.Payout)
	assert.Contains(t, win.Detail, "pair")

	lose := PlayPoker(100, &scriptRNG{ints: ints, floats: []float64{0.95}})
	assert.Equal(t, int64(0), lose.Payout)
	assert.Contains(t, lose.Detail, "pair")
}
