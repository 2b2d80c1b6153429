package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

func newDuelFixture(rng *scriptRNG) (*DuelService, *Ledger) {
	log := testLogger()
	ledger := NewLedger(log)
	duels := NewDuelService(log, ledger, rng, nil)
	return duels, ledger
}

func TestDuelInviteValidation(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{})
	ledger.Balance(1)

	err := duels.Invite(1, 1, 50, models.DuelModeSlots, 0)
	var invalid *models.ValidationError
	assert.True(t, errors.As(err, &invalid))

	// Unknown opponent.
	err = duels.Invite(1, 99, 50, models.DuelModeSlots, 0)
	var notFound *models.NotFoundError
	assert.True(t, errors.As(err, &notFound))

	// Banned opponent.
	ledger.Balance(2)
	ledger.SetBanned(2, true)
	err = duels.Invite(1, 2, 50, models.DuelModeSlots, 0)
	assert.True(t, errors.As(err, &invalid))
}

func TestDuelAcceptEscrowsBothStakes(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{})
	ledger.Balance(1)
	ledger.Balance(2)

	assert.NoError(t, duels.Invite(1, 2, 100, models.DuelModeSlots, 0))
	duel, err := duels.Accept(2, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), duel.CurrentTurn)
	assert.Equal(t, models.DefaultBalance-100, ledger.Balance(1))
	assert.Equal(t, models.DefaultBalance-100, ledger.Balance(2))
	assert.Equal(t, 1, duels.ActiveCount())

	// The invite is consumed.
	_, err = duels.Accept(2, 1)
	var notFound *models.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestDuelCancelInvite(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{})
	ledger.Balance(1)
	ledger.Balance(2)

	assert.NoError(t, duels.Invite(1, 2, 100, models.DuelModeSlots, 0))
	assert.True(t, duels.CancelInvite(2)) // opponent may decline
	assert.False(t, duels.CancelInvite(2))

	_, err := duels.Accept(2, 1)
	assert.Error(t, err)
}

func TestDuelTurnOrderEnforced(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{ints: []int{0, 1, 2, 0}})
	ledger.Balance(1)
	ledger.Balance(2)
	assert.NoError(t, duels.Invite(1, 2, 100, models.DuelModeSlots, 0))
	duel, err := duels.Accept(2, 1)
	assert.NoError(t, err)

	_, err = duels.TakeTurn(2, duel.Key)
	var invalid *models.ValidationError
	assert.True(t, errors.As(err, &invalid))

	_, err = duels.TakeTurn(3, duel.Key)
	assert.Error(t, err)
}

func TestDuelPlaysOutToSettlement(t *testing.T) {
	// Slots mode. Player 1 rolls faces 0,1,2 (no match) then score die 1
	// -> score 2. Player 2 rolls a triple of face 2 -> score 10.
	rng := &scriptRNG{ints: []int{0, 1, 2, 1, 2, 2, 2}}
	duels, ledger := newDuelFixture(rng)
	ledger.Balance(1)
	ledger.Balance(2)
	assert.NoError(t, duels.Invite(1, 2, 100, models.DuelModeSlots, 0))
	duel, err := duels.Accept(2, 1)
	assert.NoError(t, err)

	out1, err := duels.TakeTurn(1, duel.Key)
	assert.NoError(t, err)
	assert.False(t, out1.Settled)
	assert.Equal(t, 2, out1.Score)

	out2, err := duels.TakeTurn(2, duel.Key)
	assert.NoError(t, err)
	assert.True(t, out2.Settled)
	assert.Equal(t, 10, out2.Score)
	assert.Equal(t, int64(2), out2.Winner)
	assert.Equal(t, int64(200), out2.WinTotal)

	// Escrow conservation: winner up 100, loser down 100.
	assert.Equal(t, models.DefaultBalance-100, ledger.Balance(1))
	assert.Equal(t, models.DefaultBalance+100, ledger.Balance(2))
	assert.Equal(t, 0, duels.ActiveCount())
	assert.Equal(t, int64(200), ledger.Stats().TotalWon)
}

func TestDuelTieRefundsBothStakes(t *testing.T) {
	// Coin mode, both players miss their call: 0-0 keeps the duel
	// running, so the loop continues until both score in one exchange.
	rng := &scriptRNG{ints: []int{1, 1, 1, 1}}
	duels, ledger := newDuelFixture(rng)
	ledger.Balance(1)
	ledger.Balance(2)
	assert.NoError(t, duels.Invite(1, 2, 100, models.DuelModeCoin, 0))
	duel, err := duels.Accept(2, 1)
	assert.NoError(t, err)

	out1, err := duels.TakeTurn(1, duel.Key)
	assert.NoError(t, err)
	assert.Equal(t, 1, out1.Score)

	out2, err := duels.TakeTurn(2, duel.Key)
	assert.NoError(t, err)
	assert.True(t, out2.Settled)
	assert.True(t, out2.Tie)

	assert.Equal(t, models.DefaultBalance, ledger.Balance(1))
	assert.Equal(t, models.DefaultBalance, ledger.Balance(2))
	assert.Equal(t, int64(0), ledger.Stats().TotalWon)
}

func TestDuelZeroScoreKeepsDuelOpen(t *testing.T) {
	// Both players miss: scores stay 0-0 and the turn keeps passing.
	rng := &scriptRNG{ints: []int{1, 0, 0, 1}}
	duels, ledger := newDuelFixture(rng)
	ledger.Balance(1)
	ledger.Balance(2)
	assert.NoError(t, duels.Invite(1, 2, 100, models.DuelModeCoin, 0))
	duel, err := duels.Accept(2, 1)
	assert.NoError(t, err)

	out1, err := duels.TakeTurn(1, duel.Key)
	assert.NoError(t, err)
	assert.Equal(t, 0, out1.Score)
	assert.False(t, out1.Settled)

	out2, err := duels.TakeTurn(2, duel.Key)
	assert.NoError(t, err)
	assert.Equal(t, 0, out2.Score)
	assert.False(t, out2.Settled)
	assert.Equal(t, 1, duels.ActiveCount())
}

func TestDuelCreationBlockedWhilePaused(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{})
	ledger.Balance(1)
	ledger.Balance(2)
	duels.SetPauseCheck(func() bool { return true })

	var invalid *models.ValidationError
	assert.True(t, errors.As(duels.Invite(1, 2, 50, models.DuelModeSlots, 0), &invalid))
	_, err := duels.JoinQueue(1, 50, 0)
	assert.True(t, errors.As(err, &invalid))
}

func TestQueueMatchesWithinTolerance(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{})
	ledger.Balance(1)
	ledger.Balance(2)
	ledger.Balance(3)

	matched, err := duels.JoinQueue(1, 100, 0)
	assert.NoError(t, err)
	assert.Nil(t, matched)
	assert.Equal(t, 1, duels.QueueLen())

	// 100 vs 150 is outside the tolerance: no match.
	matched, err = duels.JoinQueue(2, 150, 0)
	assert.NoError(t, err)
	assert.Nil(t, matched)
	assert.Equal(t, 2, duels.QueueLen())

	// 110 matches the first waiting entry within +-10; the stake is the
	// integer average of 100 and 110.
	matched, err = duels.JoinQueue(3, 110, 0)
	assert.NoError(t, err)
	assert.NotNil(t, matched)
	assert.Equal(t, int64(105), matched.Stake)
	assert.Equal(t, int64(1), matched.Player1)
	assert.Equal(t, int64(1), matched.CurrentTurn)
	assert.Equal(t, 1, duels.QueueLen()) // player 2 still waiting

	// Each side paid its own queued stake.
	assert.Equal(t, models.DefaultBalance-100, ledger.Balance(1))
	assert.Equal(t, models.DefaultBalance-110, ledger.Balance(3))
}

func TestQueueRejectsDuplicateEntry(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{})
	ledger.Balance(1)

	_, err := duels.JoinQueue(1, 100, 0)
	assert.NoError(t, err)
	_, err = duels.JoinQueue(1, 100, 0)
	var invalid *models.ValidationError
	assert.True(t, errors.As(err, &invalid))
}

func TestQueueLeave(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{})
	ledger.Balance(1)

	_, err := duels.JoinQueue(1, 100, 0)
	assert.NoError(t, err)
	assert.True(t, duels.LeaveQueue(1))
	assert.False(t, duels.LeaveQueue(1))
	assert.Equal(t, 0, duels.QueueLen())
}

func TestDuelSnapshotRoundTrip(t *testing.T) {
	duels, ledger := newDuelFixture(&scriptRNG{ints: []int{2, 2, 2}})
	ledger.Balance(1)
	ledger.Balance(2)
	ledger.Balance(3)
	ledger.Balance(4)

	assert.NoError(t, duels.Invite(1, 2, 100, models.DuelModeRoulette, 7))
	_, err := duels.Accept(2, 1)
	assert.NoError(t, err)
	assert.NoError(t, duels.Invite(3, 4, 60, models.DuelModeSlots, 0))
	_, err = duels.JoinQueue(4, 500, 0)
	assert.NoError(t, err)

	snap := models.NewSnapshot()
	duels.ExportTo(snap)

	restored, _ := newDuelFixture(&scriptRNG{})
	restored.Restore(snap)
	assert.Equal(t, 1, restored.ActiveCount())
	assert.Equal(t, 1, restored.QueueLen())

	duel, ok := restored.ActiveDuel(1)
	assert.True(t, ok)
	assert.Equal(t, models.DuelModeRoulette, duel.Mode)
	assert.Equal(t, int64(100), duel.Stake)
	assert.Equal(t, "1_2", duel.Key)
}
