package models

// WagerResult is the outcome of one resolved wager. Payout is the full
// amount to credit back (stake included); zero means the stake is lost.
// Refund marks a stake returned without a win, which must not count
// toward TotalWon.
type WagerResult struct {
	Stake      int64
	Payout     int64
	Multiplier float64
	Refund     bool
	Detail     string
}

// Won reports whether the result pays out as a win.
func (r WagerResult) Won() bool {
	return r.Payout > 0 && !r.Refund
}
