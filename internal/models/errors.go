package models

import "fmt"

// ValidationError covers malformed or out-of-range input: bad stakes,
// roulette numbers outside 0-36, self-targeted duels. No state changes.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func Invalidf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

// InsufficientFundsError means the effective balance cannot cover the
// stake. No debit happens.
type InsufficientFundsError struct {
	UserID int64
	Have   int64
	Need   int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance for %d: have %d, need %d", e.UserID, e.Have, e.Need)
}

// NotFoundError marks stale references: expired duel invites, queue
// entries or duels that no longer exist.
type NotFoundError struct {
	Err error
}

func (e *NotFoundError) Error() string {
	return e.Err.Error()
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func NotFoundf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Err: fmt.Errorf(format, args...)}
}

// PersistenceError wraps snapshot read/write failures. It is logged and
// never shown to players; in-memory state stays authoritative.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
