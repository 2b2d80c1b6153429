package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

// Store persists the whole process state as one JSON snapshot file.
// Saves are atomic (write temp, rename); a failed save is logged and
// the in-memory state stays authoritative until the next attempt.
type Store struct {
	log        *logrus.Logger
	path       string
	backupPath string
}

func NewStore(log *logrus.Logger, path, backupPath string) *Store {
	return &Store{log: log, path: path, backupPath: backupPath}
}

// Save writes the snapshot. Errors are returned for callers that care,
// but they are never fatal.
func (s *Store) Save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		perr := &models.PersistenceError{Op: "marshal snapshot", Err: err}
		s.log.WithError(err).Error("failed to marshal snapshot")
		return perr
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.WithError(err).Error("failed to create data directory")
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		perr := &models.PersistenceError{Op: "write snapshot", Err: err}
		s.log.WithError(err).Error("failed to write snapshot")
		return perr
	}
	if err := os.Rename(tmp, s.path); err != nil {
		perr := &models.PersistenceError{Op: "rename snapshot", Err: err}
		s.log.WithError(err).Error("failed to move snapshot into place")
		return perr
	}

	s.log.WithFields(logrus.Fields{
		"accounts": len(snap.Balances),
		"duels":    len(snap.Duels),
	}).Debug("snapshot saved")
	return nil
}

// Load reads the snapshot. A missing file yields empty defaults. An
// unparsable file is archived to the backup path and also yields empty
// defaults: availability over durability, by explicit tradeoff.
func (s *Store) Load() *models.Snapshot {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Error("failed to read snapshot, starting empty")
		}
		return models.NewSnapshot()
	}

	snap := models.NewSnapshot()
	if err := json.Unmarshal(raw, snap); err != nil {
		s.log.WithError(err).Error("snapshot unreadable, archiving and resetting to defaults")
		if werr := os.WriteFile(s.backupPath, raw, 0o644); werr != nil {
			s.log.WithError(werr).Error("failed to archive corrupt snapshot")
		}
		return models.NewSnapshot()
	}

	s.reconcile(snap)
	s.log.WithFields(logrus.Fields{
		"accounts": len(snap.Balances),
		"duels":    len(snap.Duels),
		"queue":    len(snap.Queue),
	}).Info("snapshot loaded")
	return snap
}

// reconcile backfills the balance table from profiles: the profile's
// recorded balance is the fallback source of truth.
func (s *Store) reconcile(snap *models.Snapshot) {
	for id, p := range snap.Profiles {
		if _, ok := snap.Balances[id]; !ok {
			snap.Balances[id] = p.Balance
			s.log.WithFields(logrus.Fields{"user_id": id, "balance": p.Balance}).
				Info("backfilled balance from profile")
		}
	}
	for key, d := range snap.Duels {
		d.Key = key
		if d.Scores == nil {
			d.Scores = map[int64]int{d.Player1: 0, d.Player2: 0}
		}
	}
}

// AutoSave runs fn on the interval until the context is done. A final
// save on shutdown is the caller's job.
func (s *Store) AutoSave(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
