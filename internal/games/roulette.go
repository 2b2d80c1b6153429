package games

import (
	"fmt"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

type RouletteBetKind int

const (
	RouletteStraight RouletteBetKind = iota
	RouletteRed
	RouletteBlack
	RouletteEven
	RouletteOdd
)

func (k RouletteBetKind) String() string {
	switch k {
	case RouletteStraight:
		return "number"
	case RouletteRed:
		return "red"
	case RouletteBlack:
		return "black"
	case RouletteEven:
		return "even"
	case RouletteOdd:
		return "odd"
	}
	return "unknown"
}

// RouletteBet is a closed bet variant; Number is only meaningful for
// straight bets.
type RouletteBet struct {
	Kind   RouletteBetKind
	Number int
}

func (b RouletteBet) Validate() error {
	switch b.Kind {
	case RouletteStraight:
		if b.Number < 0 || b.Number > 36 {
			return models.Invalidf("roulette number must be within 0-36, got %d", b.Number)
		}
	case RouletteRed, RouletteBlack, RouletteEven, RouletteOdd:
	default:
		return models.Invalidf("unknown roulette bet kind")
	}
	return nil
}

// SpinRoulette resolves one roulette wager. A straight-number bet pays
// 18x on an exact match with the drawn number. Even-money bets are
// settled by an independent 50% flip: the drawn number shown to the
// player and the win/lose outcome are uncorrelated variables.
func SpinRoulette(stake int64, bet RouletteBet, rng RNG) models.WagerResult {
	drawn := rng.Intn(37)

	if bet.Kind == RouletteStraight {
		res := models.WagerResult{
			Stake:  stake,
			Detail: fmt.Sprintf("drawn %d, picked %d", drawn, bet.Number),
		}
		if drawn == bet.Number {
			res.Payout = stake * 18
			res.Multiplier = 18
		}
		return res
	}

	res := models.WagerResult{
		Stake:  stake,
		Detail: fmt.Sprintf("drawn %d (%s, %s)", drawn, rouletteColor(drawn), rouletteParity(drawn)),
	}
	if rng.Float64() < 0.5 {
		res.Payout = stake * 2
		res.Multiplier = 2
	}
	return res
}

func rouletteColor(n int) string {
	switch {
	case n == 0:
		return "green"
	case n%2 == 0:
		return "red"
	default:
		return "black"
	}
}

func rouletteParity(n int) string {
	if n%2 == 0 {
		return "even"
	}
	return "odd"
}
