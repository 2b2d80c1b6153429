package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chillbroinf-cloud/DepBot/internal/games"
	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

// MinStake is the smallest accepted wager on every market.
const MinStake int64 = 10

// Casino ties the ledger, the game engines and the duel service into
// one surface. It owns the pause flag, feedback inbox and the open
// blackjack rounds; those sit under their own small mutex, separate
// from the ledger's.
type Casino struct {
	mu        sync.Mutex
	log       *logrus.Logger
	ledger    *Ledger
	duels     *DuelService
	store     *Store
	rng       games.RNG
	limiter   RateLimiter
	notifier  Notifier
	adminIDs  map[int64]bool
	paused    bool
	feedback  []*models.Feedback
	blackjack map[int64]*games.BlackjackRound
}

func NewCasino(log *logrus.Logger, ledger *Ledger, duels *DuelService, store *Store, rng games.RNG, limiter RateLimiter, notifier Notifier, adminIDs []int64) *Casino {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	c := &Casino{
		log:       log,
		ledger:    ledger,
		duels:     duels,
		store:     store,
		rng:       rng,
		limiter:   limiter,
		notifier:  notifier,
		adminIDs:  admins,
		blackjack: make(map[int64]*games.BlackjackRound),
	}
	ledger.SetPersist(c.Save)
	duels.SetPersist(c.Save)
	duels.SetPauseCheck(c.Paused)
	return c
}

// preWager runs the shared gate: pause flag, stake floor, rate limit,
// then the stake debit. On success the stake is already escrowed.
func (c *Casino) preWager(id, stake int64) error {
	c.mu.Lock()
	paused := c.paused
	c.mu.Unlock()
	if paused {
		return models.Invalidf("betting is paused for maintenance")
	}
	if stake < MinStake {
		return models.Invalidf("minimum stake is %d", MinStake)
	}
	if err := c.limiter.Allow(id); err != nil {
		return err
	}
	return c.ledger.DebitStake(id, stake)
}

// settle credits the resolved wager and logs the round.
func (c *Casino) settle(id int64, game string, res models.WagerResult) models.WagerResult {
	if res.Payout > 0 {
		c.ledger.CreditPayout(id, res.Payout, res.Won())
	}
	c.log.WithFields(logrus.Fields{
		"user_id": id,
		"game":    game,
		"stake":   res.Stake,
		"payout":  res.Payout,
	}).Info("wager settled")
	return res
}

func (c *Casino) PlaySlots(id, stake int64) (models.WagerResult, error) {
	if err := c.preWager(id, stake); err != nil {
		return models.WagerResult{}, err
	}
	return c.settle(id, "slots", games.SpinSlots(stake, c.rng)), nil
}

func (c *Casino) PlayRoulette(id, stake int64, bet games.RouletteBet) (models.WagerResult, error) {
	if err := bet.Validate(); err != nil {
		return models.WagerResult{}, err
	}
	if err := c.preWager(id, stake); err != nil {
		return models.WagerResult{}, err
	}
	return c.settle(id, "roulette", games.SpinRoulette(stake, bet, c.rng)), nil
}

func (c *Casino) PlayPoker(id, stake int64) (models.WagerResult, error) {
	if err := c.preWager(id, stake); err != nil {
		return models.WagerResult{}, err
	}
	return c.settle(id, "poker", games.PlayPoker(stake, c.rng)), nil
}

func (c *Casino) PlaySport(id, stake int64, bet games.SportBet) (models.WagerResult, error) {
	if bet == nil {
		return models.WagerResult{}, models.Invalidf("pick a team or a totals side")
	}
	if err := c.preWager(id, stake); err != nil {
		return models.WagerResult{}, err
	}
	return c.settle(id, "sport", games.PlaySport(stake, bet, c.rng)), nil
}

// StartBlackjack opens a round, or settles immediately on a natural.
// One open round per account; an abandoned round blocks new ones until
// it is played out, and the stake stays escrowed.
func (c *Casino) StartBlackjack(id, stake int64) (*games.BlackjackRound, *games.BlackjackSettlement, error) {
	c.mu.Lock()
	if _, open := c.blackjack[id]; open {
		c.mu.Unlock()
		return nil, nil, models.Invalidf("finish your open blackjack round first")
	}
	c.mu.Unlock()

	if err := c.preWager(id, stake); err != nil {
		return nil, nil, err
	}

	round := games.NewBlackjackRound(stake, c.rng)
	if settlement, natural := round.Natural(); natural {
		c.settle(id, "blackjack", models.WagerResult{
			Stake:  stake,
			Payout: settlement.Payout,
			Refund: settlement.Won == 0,
			Detail: settlement.Outcome.String(),
		})
		return round, &settlement, nil
	}

	c.mu.Lock()
	if _, open := c.blackjack[id]; open {
		// Lost a race with another start; return this stake.
		c.mu.Unlock()
		c.ledger.CreditPayout(id, stake, false)
		return nil, nil, models.Invalidf("finish your open blackjack round first")
	}
	c.blackjack[id] = round
	c.mu.Unlock()
	return round, nil, nil
}

// BlackjackHit draws for the player's open round.
func (c *Casino) BlackjackHit(id int64) (*games.BlackjackRound, *games.BlackjackSettlement, error) {
	c.mu.Lock()
	round, ok := c.blackjack[id]
	c.mu.Unlock()
	if !ok {
		return nil, nil, models.NotFoundf("no open blackjack round")
	}

	settlement, over := round.Hit(c.rng)
	if !over {
		return round, nil, nil
	}

	c.mu.Lock()
	delete(c.blackjack, id)
	c.mu.Unlock()
	// Bust forfeits the escrowed stake, nothing to credit.
	c.log.WithFields(logrus.Fields{"user_id": id, "game": "blackjack"}).Info("player bust")
	return round, &settlement, nil
}

// BlackjackStand plays out the dealer and settles the open round.
func (c *Casino) BlackjackStand(id int64) (*games.BlackjackRound, *games.BlackjackSettlement, error) {
	c.mu.Lock()
	round, ok := c.blackjack[id]
	if ok {
		delete(c.blackjack, id)
	}
	c.mu.Unlock()
	if !ok {
		return nil, nil, models.NotFoundf("no open blackjack round")
	}

	settlement := round.Stand(c.rng)
	if settlement.Payout > 0 {
		c.settle(id, "blackjack", models.WagerResult{
			Stake:  round.Stake,
			Payout: settlement.Payout,
			Refund: settlement.Won == 0,
			Detail: settlement.Outcome.String(),
		})
	}
	return round, &settlement, nil
}

// ClaimBonus credits the daily bonus, once per 24 hours.
func (c *Casino) ClaimBonus(id int64) (old, newBal int64, err error) {
	return c.ledger.ClaimBonus(id, time.Now())
}

// SubmitFeedback records a player note and pings every admin.
func (c *Casino) SubmitFeedback(id int64, username, message string) (*models.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, models.Invalidf("feedback message is empty")
	}
	fb := &models.Feedback{
		ID:        uuid.New().String(),
		UserID:    id,
		Username:  username,
		Message:   message,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.feedback = append(c.feedback, fb)
	admins := make([]int64, 0, len(c.adminIDs))
	for a := range c.adminIDs {
		admins = append(admins, a)
	}
	c.mu.Unlock()
	c.Save()

	for _, a := range admins {
		c.notifier.NotifyUser(a, "new feedback from "+username+": "+message)
	}
	return fb, nil
}

func (c *Casino) Feedbacks() []*models.Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*models.Feedback, len(c.feedback))
	copy(out, c.feedback)
	return out
}

// ReplyFeedback marks the note replied and forwards the reply to its
// author.
func (c *Casino) ReplyFeedback(feedbackID, reply string) error {
	c.mu.Lock()
	var fb *models.Feedback
	for _, f := range c.feedback {
		if f.ID == feedbackID {
			fb = f
			break
		}
	}
	if fb == nil {
		c.mu.Unlock()
		return models.NotFoundf("feedback %s not found", feedbackID)
	}
	fb.Replied = true
	fb.Reply = reply
	userID := fb.UserID
	c.mu.Unlock()
	c.Save()

	c.notifier.NotifyUser(userID, "reply to your feedback: "+reply)
	return nil
}

func (c *Casino) IsAdmin(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adminIDs[id]
}

// TogglePause flips the pause flag and returns the new state.
func (c *Casino) TogglePause() bool {
	c.mu.Lock()
	c.paused = !c.paused
	paused := c.paused
	c.mu.Unlock()
	c.Save()
	c.log.WithField("paused", paused).Warn("pause flag toggled")
	return paused
}

func (c *Casino) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// AdminAdjust applies a signed balance delta outside any wager.
func (c *Casino) AdminAdjust(id, delta int64) int64 {
	bal := c.ledger.Adjust(id, delta)
	c.log.WithFields(logrus.Fields{"user_id": id, "delta": delta, "balance": bal}).Warn("admin balance adjustment")
	return bal
}

// AdminReset returns the account to the starting balance.
func (c *Casino) AdminReset(id int64) int64 {
	cur := c.ledger.Balance(id)
	return c.ledger.Adjust(id, models.DefaultBalance-cur)
}

func (c *Casino) ToggleBan(id int64) bool {
	banned := !c.ledger.IsBanned(id)
	c.ledger.SetBanned(id, banned)
	return banned
}

// ClearQueue empties the matchmaking queue. Entries are not escrowed,
// so nothing needs refunding.
func (c *Casino) ClearQueue() {
	c.duels.ClearQueue()
}

// TopBalances returns the leaderboard, largest balances first.
func (c *Casino) TopBalances(n int) []models.AccountRank {
	return c.ledger.TopBalances(n)
}

// Journal returns the recent transaction history, newest last.
func (c *Casino) Journal() []*models.Transaction {
	return c.ledger.Journal()
}

// StatusReport is the operator dashboard payload.
type StatusReport struct {
	Accounts     int                `json:"accounts"`
	RichAccounts int                `json:"rich_accounts"`
	Stats        models.GlobalStats `json:"stats"`
	RTP          float64            `json:"rtp"`
	ActiveDuels  int                `json:"active_duels"`
	QueueLen     int                `json:"queue_len"`
	Paused       bool               `json:"paused"`
	Feedback     int                `json:"feedback"`
}

func (c *Casino) Status() StatusReport {
	stats := c.ledger.Stats()
	c.mu.Lock()
	paused := c.paused
	fbCount := len(c.feedback)
	c.mu.Unlock()
	return StatusReport{
		Accounts:     c.ledger.ActiveAccounts(),
		RichAccounts: c.ledger.RichAccounts(),
		Stats:        stats,
		RTP:          stats.RTP(),
		ActiveDuels:  c.duels.ActiveCount(),
		QueueLen:     c.duels.QueueLen(),
		Paused:       paused,
		Feedback:     fbCount,
	}
}

// Snapshot assembles the full durable state.
func (c *Casino) Snapshot() *models.Snapshot {
	snap := models.NewSnapshot()
	c.ledger.ExportTo(snap)
	c.duels.ExportTo(snap)
	c.mu.Lock()
	for _, f := range c.feedback {
		cp := *f
		snap.Feedback = append(snap.Feedback, &cp)
	}
	snap.Paused = c.paused
	c.mu.Unlock()
	return snap
}

// Save writes the current state through the store. Failures are logged
// inside the store; the caller keeps running either way.
func (c *Casino) Save() {
	if c.store == nil {
		return
	}
	_ = c.store.Save(c.Snapshot())
}

// Restore loads a snapshot into every component.
func (c *Casino) Restore(snap *models.Snapshot) {
	c.ledger.Restore(snap)
	c.duels.Restore(snap)
	c.mu.Lock()
	c.feedback = make([]*models.Feedback, 0, len(snap.Feedback))
	for _, f := range snap.Feedback {
		cp := *f
		c.feedback = append(c.feedback, &cp)
	}
	c.paused = snap.Paused
	c.mu.Unlock()
}
