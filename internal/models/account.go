package models

import "time"

// DefaultBalance is credited to every account on first contact.
const DefaultBalance int64 = 10000

// DailyBonusAmount is credited by a successful daily bonus claim.
const DailyBonusAmount int64 = 200

// Profile is the durable per-account record. Balance is mirrored here
// on every adjustment and acts as the fallback source of truth when the
// balance table is missing an entry on load.
type Profile struct {
	Name       string `json:"name"`
	Registered bool   `json:"registered"`
	Balance    int64  `json:"balance"`
}

// GlobalStats counters only ever grow. RTP is derived, never stored.
type GlobalStats struct {
	TotalWagered int64 `json:"total_wagered"`
	TotalWon     int64 `json:"total_won"`
}

// RTP returns the return-to-player percentage over all settled wagers.
func (s GlobalStats) RTP() float64 {
	if s.TotalWagered == 0 {
		return 0
	}
	return float64(s.TotalWon) / float64(s.TotalWagered) * 100
}

type TransactionType string

const (
	TransactionTypeBet    TransactionType = "bet"
	TransactionTypeWin    TransactionType = "win"
	TransactionTypeRefund TransactionType = "refund"
	TransactionTypeBonus  TransactionType = "bonus"
	TransactionTypeAdmin  TransactionType = "admin"
)

// Transaction is a journal row for reporting. The journal is bounded
// and not part of the durable snapshot.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"user_id"`
	Type          TransactionType `json:"type"`
	Amount        int64           `json:"amount"`
	BalanceBefore int64           `json:"balance_before"`
	BalanceAfter  int64           `json:"balance_after"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Feedback is a player-submitted note with an optional admin reply.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
	Replied   bool      `json:"replied"`
	Reply     string    `json:"reply"`
}

// AccountRank is a leaderboard row.
type AccountRank struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}
