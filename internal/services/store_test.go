package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

func testStore(t *testing.T) (*Store, string, string) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	backup := filepath.Join(dir, "data_corrupt_backup.json")
	return NewStore(testLogger(), path, backup), path, backup
}

func TestStoreLoadMissingFileGivesDefaults(t *testing.T) {
	store, _, _ := testStore(t)

	snap := store.Load()
	assert.NotNil(t, snap)
	assert.Empty(t, snap.Balances)
	assert.False(t, snap.Paused)
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, _, _ := testStore(t)

	snap := models.NewSnapshot()
	snap.Balances[1] = 12345
	snap.Profiles[1] = &models.Profile{Name: "alice", Registered: true, Balance: 12345}
	snap.Banned = append(snap.Banned, 2)
	snap.Paused = true
	snap.Stats = models.GlobalStats{TotalWagered: 1000, TotalWon: 940}
	snap.Duels["1_3"] = &models.Duel{
		Player1: 1, Player2: 3, Stake: 50,
		Mode:        models.DuelModeSlots,
		Scores:      map[int64]int{1: 7, 3: 0},
		CurrentTurn: 3,
	}
	snap.Queue = append(snap.Queue, models.QueueEntry{UserID: 4, Stake: 100})

	assert.NoError(t, store.Save(snap))

	loaded := store.Load()
	assert.Equal(t, int64(12345), loaded.Balances[1])
	assert.Equal(t, "alice", loaded.Profiles[1].Name)
	assert.Equal(t, []int64{2}, loaded.Banned)
	assert.True(t, loaded.Paused)
	assert.Equal(t, snap.Stats, loaded.Stats)
	assert.Equal(t, snap.Queue, loaded.Queue)

	duel := loaded.Duels["1_3"]
	assert.Equal(t, "1_3", duel.Key)
	assert.Equal(t, 7, duel.Scores[1])
	assert.Equal(t, int64(3), duel.CurrentTurn)
}

func TestStoreCorruptFileArchivedAndReset(t *testing.T) {
	store, path, backup := testStore(t)

	raw := []byte("{not json at all")
	assert.NoError(t, os.WriteFile(path, raw, 0o644))

	snap := store.Load()
	assert.Empty(t, snap.Balances)

	archived, err := os.ReadFile(backup)
	assert.NoError(t, err)
	assert.Equal(t, raw, archived)
}

func TestStoreReconcileBackfillsBalanceFromProfile(t *testing.T) {
	store, path, _ := testStore(t)

	body := []byte(`{"profiles":{"7":{"name":"bob","registered":true,"balance":4200}},"balances":{}}`)
	assert.NoError(t, os.WriteFile(path, body, 0o644))

	snap := store.Load()
	assert.Equal(t, int64(4200), snap.Balances[7])
}

func TestStoreSaveIsAtomicOverwrite(t *testing.T) {
	store, path, _ := testStore(t)

	first := models.NewSnapshot()
	first.Balances[1] = 1
	assert.NoError(t, store.Save(first))

	second := models.NewSnapshot()
	second.Balances[1] = 2
	assert.NoError(t, store.Save(second))

	loaded := store.Load()
	assert.Equal(t, int64(2), loaded.Balances[1])
	// No temp file left behind.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
