package games

// Blackjack is the only engine with an open round: the caller keeps the
// round between Hit/Stand inputs. The round itself stays pure; all
// balance movement happens in the service layer from the returned
// settlement.

type BlackjackOutcome int

const (
	BlackjackInProgress BlackjackOutcome = iota
	BlackjackNatural
	BlackjackPush
	BlackjackPlayerBust
	BlackjackPlayerWin
	BlackjackDealerWin
)

func (o BlackjackOutcome) String() string {
	switch o {
	case BlackjackInProgress:
		return "in progress"
	case BlackjackNatural:
		return "blackjack"
	case BlackjackPush:
		return "push"
	case BlackjackPlayerBust:
		return "bust"
	case BlackjackPlayerWin:
		return "player wins"
	case BlackjackDealerWin:
		return "dealer wins"
	}
	return "unknown"
}

// BlackjackSettlement is the terminal result of a round. Payout is the
// full amount to credit (0 on a loss); Won is the part counted toward
// the global win counter, so a push credits without counting.
type BlackjackSettlement struct {
	Outcome BlackjackOutcome
	Payout  int64
	Won     int64
}

// BlackjackRound holds both hands. Aces enter as 11 and soften to 1
// via HandValue when the hand would otherwise bust.
type BlackjackRound struct {
	Stake  int64
	Player []int
	Dealer []int
	done   bool
}

// drawBlackjackCard maps a uniform 1-13 rank to its value: faces are
// 10, the ace enters as 11.
func drawBlackjackCard(rng RNG) int {
	r := rng.Intn(13) + 1
	switch {
	case r > 10:
		return 10
	case r == 1:
		return 11
	}
	return r
}

// HandValue sums a hand, reducing aces from 11 to 1 while the total
// would bust.
func HandValue(hand []int) int {
	value := 0
	aces := 0
	for _, c := range hand {
		value += c
		if c == 11 {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// NewBlackjackRound deals two cards to each side. The dealer's second
// card stays hidden until the player stands.
func NewBlackjackRound(stake int64, rng RNG) *BlackjackRound {
	return &BlackjackRound{
		Stake:  stake,
		Player: []int{drawBlackjackCard(rng), drawBlackjackCard(rng)},
		Dealer: []int{drawBlackjackCard(rng), drawBlackjackCard(rng)},
	}
}

func (r *BlackjackRound) PlayerValue() int { return HandValue(r.Player) }
func (r *BlackjackRound) DealerValue() int { return HandValue(r.Dealer) }
func (r *BlackjackRound) DealerUpcard() int {
	return r.Dealer[0]
}
func (r *BlackjackRound) Done() bool { return r.done }

// Natural settles an initial two-card 21 immediately: push if the
// dealer also holds 21, otherwise the stake returns with a 1.5x bonus.
func (r *BlackjackRound) Natural() (BlackjackSettlement, bool) {
	if r.PlayerValue() != 21 {
		return BlackjackSettlement{}, false
	}
	r.done = true
	if r.DealerValue() == 21 {
		return BlackjackSettlement{Outcome: BlackjackPush, Payout: r.Stake}, true
	}
	payout := r.Stake + int64(float64(r.Stake)*1.5)
	return BlackjackSettlement{Outcome: BlackjackNatural, Payout: payout, Won: payout}, true
}

// Hit draws one card for the player. A bust forfeits the stake
// immediately; the dealer never plays.
func (r *BlackjackRound) Hit(rng RNG) (settlement BlackjackSettlement, over bool) {
	r.Player = append(r.Player, drawBlackjackCard(rng))
	if r.PlayerValue() > 21 {
		r.done = true
		return BlackjackSettlement{Outcome: BlackjackPlayerBust}, true
	}
	return BlackjackSettlement{Outcome: BlackjackInProgress}, false
}

// Stand plays out the dealer, who draws until reaching 17, and
// compares totals. A standoff returns the stake.
func (r *BlackjackRound) Stand(rng RNG) BlackjackSettlement {
	for HandValue(r.Dealer) < 17 {
		r.Dealer = append(r.Dealer, drawBlackjackCard(rng))
	}
	r.done = true

	player := r.PlayerValue()
	dealer := r.DealerValue()
	switch {
	case dealer > 21 || player > dealer:
		payout := r.Stake * 2
		return BlackjackSettlement{Outcome: BlackjackPlayerWin, Payout: payout, Won: payout}
	case player == dealer:
		return BlackjackSettlement{Outcome: BlackjackPush, Payout: r.Stake}
	default:
		return BlackjackSettlement{Outcome: BlackjackDealerWin}
	}
}
