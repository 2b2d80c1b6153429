package chat

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/chillbroinf-cloud/DepBot/internal/games"
	"github.com/chillbroinf-cloud/DepBot/internal/services"
)

func newDispatcherFixture(rng games.RNG) (*Dispatcher, *services.Ledger) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	if rng == nil {
		rng = games.NewRNG()
	}
	ledger := services.NewLedger(log)
	duels := services.NewDuelService(log, ledger, rng, nil)
	casino := services.NewCasino(log, ledger, duels, nil, rng, nil, nil, nil)
	return NewDispatcher(log, casino, duels, ledger), ledger
}

func TestDispatchBalance(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	reply := d.Dispatch(1, "alice", "balance", 0)
	assert.Equal(t, "balance: $10000", reply.Text)
}

func TestDispatchRecordsUsername(t *testing.T) {
	d, ledger := newDispatcherFixture(nil)
	d.Dispatch(1, "alice", "balance", 0)
	assert.Equal(t, "alice", ledger.Name(1))
}

func TestDispatchUnknownCommand(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	reply := d.Dispatch(1, "", "dance", 0)
	assert.Contains(t, reply.Text, "unknown command")
}

func TestDispatchSlotsRequiresStake(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	assert.Contains(t, d.Dispatch(1, "", "slots", 0).Text, "stake")
	assert.Contains(t, d.Dispatch(1, "", "slots lots", 0).Text, "positive number")
	assert.Contains(t, d.Dispatch(1, "", "slots -5", 0).Text, "positive number")
}

func TestDispatchInsufficientFundsIsFriendly(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	reply := d.Dispatch(1, "", "slots 999999", 0)
	assert.Contains(t, reply.Text, "not enough money")
	assert.NotContains(t, reply.Text, "insufficient balance for")
}

func TestDispatchRouletteParsing(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	assert.Contains(t, d.Dispatch(1, "", "roulette 50", 0).Text, "pick a bet")
	assert.Contains(t, d.Dispatch(1, "", "roulette 50 purple", 0).Text, "unknown roulette bet")
	assert.Contains(t, d.Dispatch(1, "", "roulette 50 40", 0).Text, "0-36")

	reply := d.Dispatch(1, "", "roulette 50 red", 0)
	assert.True(t, strings.Contains(reply.Text, "win") || strings.Contains(reply.Text, "lose"))
}

func TestDispatchBonusOncePerDay(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	assert.Contains(t, d.Dispatch(1, "", "bonus", 0).Text, "daily bonus claimed")
	assert.Contains(t, d.Dispatch(1, "", "bonus", 0).Text, "bonus available in")
}

func TestDispatchDuelFlow(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	d.Dispatch(1, "alice", "balance", 0)
	d.Dispatch(2, "bob", "balance", 0)

	reply := d.Dispatch(1, "alice", "duel 2 100", 5)
	assert.Contains(t, reply.Text, "challenge sent")

	reply = d.Dispatch(2, "bob", "accept 1", 5)
	assert.Contains(t, reply.Text, "duel on!")
	assert.Contains(t, reply.Text, "alice")

	// Challenger moves first; the opponent is told off.
	reply = d.Dispatch(2, "bob", "turn", 5)
	assert.Contains(t, reply.Text, "not your turn")

	reply = d.Dispatch(1, "alice", "turn", 5)
	assert.NotEmpty(t, reply.Text)
}

func TestDispatchDuelValidation(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	d.Dispatch(1, "alice", "balance", 0)

	assert.Contains(t, d.Dispatch(1, "", "duel", 0).Text, "usage")
	assert.Contains(t, d.Dispatch(1, "", "duel bob 100", 0).Text, "must be a number")
	assert.Contains(t, d.Dispatch(1, "", "duel 1 100", 0).Text, "yourself")
	assert.Contains(t, d.Dispatch(1, "", "duel 2 100 chess", 0).Text, "unknown duel mode")
}

func TestDispatchQueueAndLeave(t *testing.T) {
	d, _ := newDispatcherFixture(nil)

	assert.Contains(t, d.Dispatch(1, "", "queue 100", 0).Text, "queued")
	assert.Contains(t, d.Dispatch(1, "", "leave", 0).Text, "left the queue")
	assert.Contains(t, d.Dispatch(1, "", "leave", 0).Text, "not queued")

	// No stake falls back to the default.
	assert.Contains(t, d.Dispatch(1, "", "queue", 0).Text, "queued with $100")
}

func TestDispatchQueueMatch(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	d.Dispatch(1, "alice", "balance", 0)
	d.Dispatch(2, "bob", "balance", 0)

	d.Dispatch(1, "alice", "queue 100", 0)
	reply := d.Dispatch(2, "bob", "queue 105", 0)
	assert.Contains(t, reply.Text, "matched against alice")
	assert.Contains(t, reply.Text, "$102")
}

func TestDispatchTop(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	d.Dispatch(1, "alice", "balance", 0)
	reply := d.Dispatch(1, "", "top", 0)
	assert.Contains(t, reply.Text, "alice")
}

func TestDispatchFeedback(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	assert.Contains(t, d.Dispatch(1, "alice", "feedback more games", 0).Text, "thanks")
	assert.Contains(t, d.Dispatch(1, "alice", "feedback", 0).Text, "empty")
}

func TestDispatchBlackjackPromptsWhileOpen(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	reply := d.Dispatch(1, "", "blackjack 50", 0)
	if reply.Prompt != "" {
		assert.Equal(t, "hit or stand?", reply.Prompt)
		reply = d.Dispatch(1, "", "stand", 0)
		assert.Empty(t, reply.Prompt)
	} else {
		// A dealt natural settles immediately.
		assert.Contains(t, reply.Text, "payout")
	}
}

func TestDispatchSlashPrefixAccepted(t *testing.T) {
	d, _ := newDispatcherFixture(nil)
	assert.Equal(t, "balance: $10000", d.Dispatch(1, "", "/balance", 0).Text)
}
