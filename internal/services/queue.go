package services

import "github.com/chillbroinf-cloud/DepBot/internal/models"

// stakeTolerance is the maximum stake gap between two queue entries
// that still counts as a match.
const stakeTolerance int64 = 10

// matchQueue is the unordered waiting set. It is not safe for
// concurrent use; DuelService serializes access under its own lock.
type matchQueue struct {
	entries []models.QueueEntry
}

func (q *matchQueue) contains(id int64) bool {
	for _, e := range q.entries {
		if e.UserID == id {
			return true
		}
	}
	return false
}

func (q *matchQueue) push(e models.QueueEntry) {
	q.entries = append(q.entries, e)
}

// findPair scans in insertion order and returns the first pair whose
// stakes differ by at most the tolerance. Scan order wins, not stake
// closeness. O(n²) over repeated insertions, fine at this scale.
func (q *matchQueue) findPair() (first, second models.QueueEntry, ok bool) {
	for i := 0; i < len(q.entries); i++ {
		for j := i + 1; j < len(q.entries); j++ {
			d := q.entries[i].Stake - q.entries[j].Stake
			if d < 0 {
				d = -d
			}
			if d <= stakeTolerance {
				return q.entries[i], q.entries[j], true
			}
		}
	}
	return models.QueueEntry{}, models.QueueEntry{}, false
}

func (q *matchQueue) remove(ids ...int64) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		drop := false
		for _, id := range ids {
			if e.UserID == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}

func (q *matchQueue) clear() {
	q.entries = nil
}

func (q *matchQueue) snapshot() []models.QueueEntry {
	out := make([]models.QueueEntry, len(q.entries))
	copy(out, q.entries)
	return out
}
