package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

const journalCap = 100

// Ledger owns every account, the ban set, bonus claims and the global
// counters. All mutations for a given account are serialized through
// its single mutex, so read-check-debit-credit sequences never
// interleave.
type Ledger struct {
	mu       sync.Mutex
	log      *logrus.Logger
	balances map[int64]int64
	profiles map[int64]*models.Profile
	banned   map[int64]bool
	bonus    map[int64]time.Time
	stats    models.GlobalStats
	journal  []*models.Transaction
	persist  func()
}

func NewLedger(log *logrus.Logger) *Ledger {
	return &Ledger{
		log:      log,
		balances: make(map[int64]int64),
		profiles: make(map[int64]*models.Profile),
		banned:   make(map[int64]bool),
		bonus:    make(map[int64]time.Time),
	}
}

// SetPersist installs the write-through hook, called after every
// mutation with no ledger lock held.
func (l *Ledger) SetPersist(fn func()) {
	l.persist = fn
}

func (l *Ledger) save() {
	if l.persist != nil {
		l.persist()
	}
}

// ensureAccount lazily materializes an account with the default
// balance. Caller holds the lock.
func (l *Ledger) ensureAccount(id int64) bool {
	created := false
	p, ok := l.profiles[id]
	if !ok {
		p = &models.Profile{Registered: true, Balance: models.DefaultBalance}
		l.profiles[id] = p
		created = true
	}
	if _, ok := l.balances[id]; !ok {
		l.balances[id] = p.Balance
		created = true
	}
	return created
}

// Balance reports the effective spendable balance: 0 while banned, the
// stored amount otherwise. Unseen accounts are created on the spot.
func (l *Ledger) Balance(id int64) int64 {
	l.mu.Lock()
	created := l.ensureAccount(id)
	var bal int64
	if !l.banned[id] {
		bal = l.balances[id]
	}
	l.mu.Unlock()

	if created {
		l.save()
	}
	return bal
}

// Adjust applies a signed delta, clamped at zero. Banned accounts are
// untouched. A debit larger than the balance is rejected by callers
// before ever reaching here; the clamp only guards arithmetic drift.
func (l *Ledger) Adjust(id int64, delta int64) int64 {
	l.mu.Lock()
	bal := l.adjustLocked(id, delta, models.TransactionTypeAdmin, "manual adjustment")
	l.mu.Unlock()
	l.save()
	return bal
}

func (l *Ledger) adjustLocked(id, delta int64, typ models.TransactionType, desc string) int64 {
	l.ensureAccount(id)
	if l.banned[id] {
		return l.balances[id]
	}
	before := l.balances[id]
	after := before + delta
	if after < 0 {
		after = 0
	}
	l.balances[id] = after
	l.profiles[id].Balance = after
	l.record(id, delta, before, after, typ, desc)
	l.log.WithFields(logrus.Fields{"user_id": id, "delta": delta, "balance": after}).Info("balance updated")
	return after
}

func (l *Ledger) record(id, amount, before, after int64, typ models.TransactionType, desc string) {
	l.journal = append(l.journal, &models.Transaction{
		ID:            uuid.New().String(),
		UserID:        id,
		Type:          typ,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   desc,
		CreatedAt:     time.Now(),
	})
	if len(l.journal) > journalCap {
		l.journal = l.journal[len(l.journal)-journalCap:]
	}
}

// DebitStake checks and debits a wager stake and counts it as wagered.
// The check and the debit happen under one lock acquisition.
func (l *Ledger) DebitStake(id, stake int64) error {
	l.mu.Lock()
	l.ensureAccount(id)
	have := l.balances[id]
	if l.banned[id] {
		have = 0
	}
	if have < stake {
		l.mu.Unlock()
		return &models.InsufficientFundsError{UserID: id, Have: have, Need: stake}
	}
	l.adjustLocked(id, -stake, models.TransactionTypeBet, "stake debit")
	l.stats.TotalWagered += stake
	l.mu.Unlock()
	l.save()
	return nil
}

// DebitPair escrows both duel stakes atomically: either both debits
// succeed or neither happens. It does not trigger the persist hook;
// duel flows call it under their own lock and persist once afterward.
func (l *Ledger) DebitPair(id1, stake1, id2, stake2 int64) error {
	l.mu.Lock()
	l.ensureAccount(id1)
	l.ensureAccount(id2)
	for _, p := range []struct{ id, stake int64 }{{id1, stake1}, {id2, stake2}} {
		have := l.balances[p.id]
		if l.banned[p.id] {
			have = 0
		}
		if have < p.stake {
			l.mu.Unlock()
			return &models.InsufficientFundsError{UserID: p.id, Have: have, Need: p.stake}
		}
	}
	l.adjustLocked(id1, -stake1, models.TransactionTypeBet, "duel stake escrow")
	l.adjustLocked(id2, -stake2, models.TransactionTypeBet, "duel stake escrow")
	l.stats.TotalWagered += stake1 + stake2
	l.mu.Unlock()
	return nil
}

// CreditPayout credits a settlement. Wins count toward TotalWon;
// refunds do not.
func (l *Ledger) CreditPayout(id, amount int64, won bool) int64 {
	l.mu.Lock()
	typ := models.TransactionTypeRefund
	if won {
		typ = models.TransactionTypeWin
		l.stats.TotalWon += amount
	}
	bal := l.adjustLocked(id, amount, typ, "wager settlement")
	l.mu.Unlock()
	l.save()
	return bal
}

// ClaimBonus credits the daily bonus once per 24 hours.
func (l *Ledger) ClaimBonus(id int64, now time.Time) (old, newBal int64, err error) {
	l.mu.Lock()
	l.ensureAccount(id)
	last, claimed := l.bonus[id]
	if claimed && now.Sub(last) <= 24*time.Hour {
		remaining := 24*time.Hour - now.Sub(last)
		l.mu.Unlock()
		return 0, 0, models.Invalidf("bonus available in %dh %dm",
			int(remaining.Hours()), int(remaining.Minutes())%60)
	}
	old = l.balances[id]
	newBal = l.adjustLocked(id, models.DailyBonusAmount, models.TransactionTypeBonus, "daily bonus")
	l.bonus[id] = now
	l.mu.Unlock()
	l.save()
	return old, newBal, nil
}

// SetBanned toggles the flag without touching the stored balance, so
// unbanning restores the previous amount unchanged.
func (l *Ledger) SetBanned(id int64, banned bool) {
	l.mu.Lock()
	l.ensureAccount(id)
	if banned {
		l.banned[id] = true
	} else {
		delete(l.banned, id)
	}
	l.mu.Unlock()
	l.save()
	l.log.WithFields(logrus.Fields{"user_id": id, "banned": banned}).Info("ban flag updated")
}

func (l *Ledger) IsBanned(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.banned[id]
}

// Known reports whether the account has ever been seen, without
// creating it.
func (l *Ledger) Known(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.profiles[id]
	return ok
}

// SetName records the display name once known.
func (l *Ledger) SetName(id int64, name string) {
	l.mu.Lock()
	l.ensureAccount(id)
	l.profiles[id].Name = name
	l.mu.Unlock()
	l.save()
}

func (l *Ledger) Name(id int64) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.profiles[id]; ok && p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("user %d", id)
}

func (l *Ledger) Stats() models.GlobalStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

func (l *Ledger) ActiveAccounts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.balances)
}

// RichAccounts counts accounts above the starting balance.
func (l *Ledger) RichAccounts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, b := range l.balances {
		if b > models.DefaultBalance {
			n++
		}
	}
	return n
}

// TopBalances returns the n largest accounts.
func (l *Ledger) TopBalances(n int) []models.AccountRank {
	l.mu.Lock()
	ranks := make([]models.AccountRank, 0, len(l.balances))
	for id, bal := range l.balances {
		name := ""
		if p, ok := l.profiles[id]; ok {
			name = p.Name
		}
		ranks = append(ranks, models.AccountRank{UserID: id, Name: name, Balance: bal})
	}
	l.mu.Unlock()

	sort.Slice(ranks, func(i, j int) bool { return ranks[i].Balance > ranks[j].Balance })
	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// Journal returns the most recent transactions, newest last.
func (l *Ledger) Journal() []*models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Transaction, len(l.journal))
	copy(out, l.journal)
	return out
}

// ExportTo copies ledger state into a snapshot.
func (l *Ledger) ExportTo(s *models.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, b := range l.balances {
		s.Balances[id] = b
	}
	for id, p := range l.profiles {
		cp := *p
		s.Profiles[id] = &cp
	}
	for id := range l.banned {
		s.Banned = append(s.Banned, id)
	}
	for id, t := range l.bonus {
		s.DailyBonus[id] = t
	}
	s.Stats = l.stats
}

// Restore replaces ledger state from a loaded snapshot.
func (l *Ledger) Restore(s *models.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances = make(map[int64]int64, len(s.Balances))
	for id, b := range s.Balances {
		l.balances[id] = b
	}
	l.profiles = make(map[int64]*models.Profile, len(s.Profiles))
	for id, p := range s.Profiles {
		cp := *p
		l.profiles[id] = &cp
	}
	l.banned = make(map[int64]bool, len(s.Banned))
	for _, id := range s.Banned {
		l.banned[id] = true
	}
	l.bonus = make(map[int64]time.Time, len(s.DailyBonus))
	for id, t := range s.DailyBonus {
		l.bonus[id] = t
	}
	l.stats = s.Stats
}
