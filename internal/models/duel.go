package models

import "fmt"

type DuelMode string

const (
	DuelModeSlots    DuelMode = "slots"
	DuelModeRoulette DuelMode = "roulette"
	DuelModeCoin     DuelMode = "coin"
)

func ParseDuelMode(s string) (DuelMode, error) {
	switch DuelMode(s) {
	case DuelModeSlots, DuelModeRoulette, DuelModeCoin:
		return DuelMode(s), nil
	case "":
		return DuelModeSlots, nil
	default:
		return "", Invalidf("unknown duel mode: %q", s)
	}
}

// DuelKey is the canonical unordered pair key, so the same two players
// can never hold two active duels at once.
func DuelKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// Invite is a challenge whose stake is not escrowed yet. A challenger
// holds at most one outstanding invite.
type Invite struct {
	Challenger int64    `json:"challenger"`
	Opponent   int64    `json:"opponent"`
	Stake      int64    `json:"stake"`
	Mode       DuelMode `json:"mode"`
	ChannelID  int64    `json:"channel_id,omitempty"`
}

// Duel is an active pairing. Both stakes are already debited, so
// settlement only ever credits. Exactly one participant holds the turn.
type Duel struct {
	Key         string        `json:"-"`
	Player1     int64         `json:"player1"`
	Player2     int64         `json:"player2"`
	Stake       int64         `json:"bet"`
	Mode        DuelMode      `json:"mode"`
	Scores      map[int64]int `json:"scores"`
	CurrentTurn int64         `json:"current_turn"`
	ChannelID   int64         `json:"channel_id,omitempty"`
}

// Opponent returns the other participant, or 0 for a non-participant.
func (d *Duel) Opponent(id int64) int64 {
	switch id {
	case d.Player1:
		return d.Player2
	case d.Player2:
		return d.Player1
	}
	return 0
}

// QueueEntry is one waiting player in the matchmaking queue.
type QueueEntry struct {
	UserID int64 `json:"user_id"`
	Stake  int64 `json:"stake"`
}
