package games

import (
	"fmt"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

// SportBet is a closed market variant: pick a team or bet the total.
type SportBet interface {
	sportBet()
	Label() string
}

type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// TeamBet pays 2x on a correct winner pick; a draw refunds the stake.
type TeamBet struct {
	Team Team
}

func (TeamBet) sportBet() {}

func (b TeamBet) Label() string { return fmt.Sprintf("team %s", b.Team) }

// TotalsBet is the over/under 2.5 goals market, paying 1.8x.
type TotalsBet struct {
	Over bool
}

func (TotalsBet) sportBet() {}

func (b TotalsBet) Label() string {
	if b.Over {
		return "over 2.5"
	}
	return "under 2.5"
}

// PlaySport resolves a sports wager. The team market draws from
// {A win, B win, draw} with weights 0.33/0.33/0.34; the totals market
// sums two independent uniform [0,6] goal counts.
func PlaySport(stake int64, bet SportBet, rng RNG) models.WagerResult {
	switch b := bet.(type) {
	case TeamBet:
		return playTeamMarket(stake, b, rng)
	case TotalsBet:
		return playTotalsMarket(stake, b, rng)
	}
	// Closed set; unreachable for the exported constructors.
	return models.WagerResult{Stake: stake}
}

func playTeamMarket(stake int64, bet TeamBet, rng RNG) models.WagerResult {
	f := rng.Float64()
	var outcome string
	switch {
	case f < 0.33:
		outcome = string(TeamA)
	case f < 0.66:
		outcome = string(TeamB)
	default:
		outcome = "draw"
	}

	res := models.WagerResult{Stake: stake}
	switch {
	case outcome == "draw":
		res.Payout = stake
		res.Refund = true
		res.Detail = "draw, stake returned"
	case outcome == string(bet.Team):
		res.Payout = stake * 2
		res.Multiplier = 2
		res.Detail = fmt.Sprintf("team %s won", outcome)
	default:
		res.Detail = fmt.Sprintf("team %s won", outcome)
	}
	return res
}

func playTotalsMarket(stake int64, bet TotalsBet, rng RNG) models.WagerResult {
	goalsA := rng.Intn(7)
	goalsB := rng.Intn(7)
	total := goalsA + goalsB
	over := total > 2

	res := models.WagerResult{
		Stake:  stake,
		Detail: fmt.Sprintf("%d goals (%d:%d)", total, goalsA, goalsB),
	}
	if over == bet.Over {
		res.Payout = int64(float64(stake) * 1.8)
		res.Multiplier = 1.8
	}
	return res
}
