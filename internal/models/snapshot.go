package models

import "time"

// Snapshot is the whole durable state as one JSON document. There is no
// write-ahead log; this file is the only unit of durability.
type Snapshot struct {
	Balances   map[int64]int64     `json:"balances"`
	Profiles   map[int64]*Profile  `json:"profiles"`
	Banned     []int64             `json:"banned"`
	Duels      map[string]*Duel    `json:"duels"`
	Invites    map[int64]*Invite   `json:"invites"`
	Queue      []QueueEntry        `json:"queue"`
	DailyBonus map[int64]time.Time `json:"daily_bonus"`
	Stats      GlobalStats         `json:"stats"`
	Feedback   []*Feedback         `json:"feedback"`
	Paused     bool                `json:"paused"`
}

// NewSnapshot returns an empty snapshot with all containers allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Balances:   make(map[int64]int64),
		Profiles:   make(map[int64]*Profile),
		Banned:     []int64{},
		Duels:      make(map[string]*Duel),
		Invites:    make(map[int64]*Invite),
		Queue:      []QueueEntry{},
		DailyBonus: make(map[int64]time.Time),
		Feedback:   []*Feedback{},
	}
}
