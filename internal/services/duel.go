package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/chillbroinf-cloud/DepBot/internal/games"
	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

// DuelService owns invites, active duels and the matchmaking queue.
// One mutex serializes all of them; ledger calls nest inside it in one
// direction only. Outcomes are computed before any notification goes
// out, and persist/notify always run with the lock released.
type DuelService struct {
	mu       sync.Mutex
	log      *logrus.Logger
	ledger   *Ledger
	rng      games.RNG
	notifier Notifier
	invites  map[int64]*models.Invite
	duels    map[string]*models.Duel
	queue    matchQueue
	persist  func()
	pausedFn func() bool
}

func NewDuelService(log *logrus.Logger, ledger *Ledger, rng games.RNG, notifier Notifier) *DuelService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &DuelService{
		log:      log,
		ledger:   ledger,
		rng:      rng,
		notifier: notifier,
		invites:  make(map[int64]*models.Invite),
		duels:    make(map[string]*models.Duel),
	}
}

func (d *DuelService) SetPersist(fn func()) {
	d.persist = fn
}

// SetPauseCheck installs the wagering pause gate, consulted before any
// new duel or queue entry. Running duels keep playing out.
func (d *DuelService) SetPauseCheck(fn func() bool) {
	d.pausedFn = fn
}

func (d *DuelService) pauseErr() error {
	if d.pausedFn != nil && d.pausedFn() {
		return models.Invalidf("betting is paused for maintenance")
	}
	return nil
}

func (d *DuelService) save() {
	if d.persist != nil {
		d.persist()
	}
}

// Invite issues a challenge. Nothing is escrowed yet; both balances
// are checked now and re-checked at accept time.
func (d *DuelService) Invite(challenger, opponent, stake int64, mode models.DuelMode, channelID int64) error {
	if err := d.pauseErr(); err != nil {
		return err
	}
	if challenger == opponent {
		return models.Invalidf("cannot duel yourself")
	}
	if !d.ledger.Known(opponent) {
		return models.NotFoundf("opponent %d is not registered", opponent)
	}
	if d.ledger.IsBanned(opponent) {
		return models.Invalidf("opponent is banned")
	}
	if have := d.ledger.Balance(challenger); have < stake {
		return &models.InsufficientFundsError{UserID: challenger, Have: have, Need: stake}
	}
	if have := d.ledger.Balance(opponent); have < stake {
		return models.Invalidf("opponent cannot cover the stake (%d)", have)
	}

	d.mu.Lock()
	d.invites[challenger] = &models.Invite{
		Challenger: challenger,
		Opponent:   opponent,
		Stake:      stake,
		Mode:       mode,
		ChannelID:  channelID,
	}
	d.mu.Unlock()
	d.save()

	d.notifier.NotifyUser(opponent, fmt.Sprintf(
		"%s challenges you to a %s duel for $%d", d.ledger.Name(challenger), mode, stake))
	return nil
}

// CancelInvite withdraws an outstanding challenge from either side.
// Nothing was escrowed, so there is no balance effect.
func (d *DuelService) CancelInvite(id int64) bool {
	d.mu.Lock()
	removed := false
	for key, inv := range d.invites {
		if inv.Challenger == id || inv.Opponent == id {
			delete(d.invites, key)
			removed = true
		}
	}
	d.mu.Unlock()
	if removed {
		d.save()
	}
	return removed
}

// Accept escrows both stakes atomically and activates the duel with
// the challenger holding the first turn.
func (d *DuelService) Accept(opponent, challenger int64) (*models.Duel, error) {
	if err := d.pauseErr(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	inv, ok := d.invites[challenger]
	if !ok || inv.Opponent != opponent {
		d.mu.Unlock()
		return nil, models.NotFoundf("duel invite expired or not found")
	}
	key := models.DuelKey(challenger, opponent)
	if _, exists := d.duels[key]; exists {
		d.mu.Unlock()
		return nil, models.Invalidf("a duel between these players is already running")
	}
	// Both or neither: a partial debit here would be a correctness bug.
	if err := d.ledger.DebitPair(challenger, inv.Stake, opponent, inv.Stake); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	delete(d.invites, challenger)
	duel := &models.Duel{
		Key:         key,
		Player1:     challenger,
		Player2:     opponent,
		Stake:       inv.Stake,
		Mode:        inv.Mode,
		Scores:      map[int64]int{challenger: 0, opponent: 0},
		CurrentTurn: challenger,
		ChannelID:   inv.ChannelID,
	}
	d.duels[key] = duel
	d.mu.Unlock()
	d.save()

	d.announceStart(duel)
	return duel, nil
}

// JoinQueue adds a waiting player and scans for a compatible partner.
// On a match both original stakes are debited and a duel starts at the
// averaged stake with the earlier-queued player on turn.
func (d *DuelService) JoinQueue(id, stake int64, channelID int64) (*models.Duel, error) {
	if err := d.pauseErr(); err != nil {
		return nil, err
	}
	if have := d.ledger.Balance(id); have < stake {
		return nil, &models.InsufficientFundsError{UserID: id, Have: have, Need: stake}
	}

	d.mu.Lock()
	if d.queue.contains(id) {
		d.mu.Unlock()
		return nil, models.Invalidf("already queued")
	}
	d.queue.push(models.QueueEntry{UserID: id, Stake: stake})

	e1, e2, ok := d.queue.findPair()
	if !ok {
		d.mu.Unlock()
		d.save()
		return nil, nil
	}
	if err := d.ledger.DebitPair(e1.UserID, e1.Stake, e2.UserID, e2.Stake); err != nil {
		// The pair cannot fund the match; drop the broke entry so the
		// queue does not wedge on it, keep the other.
		var insufficient *models.InsufficientFundsError
		if errors.As(err, &insufficient) {
			d.queue.remove(insufficient.UserID)
		}
		d.mu.Unlock()
		d.save()
		return nil, nil
	}
	d.queue.remove(e1.UserID, e2.UserID)

	key := models.DuelKey(e1.UserID, e2.UserID)
	duel := &models.Duel{
		Key:         key,
		Player1:     e1.UserID,
		Player2:     e2.UserID,
		Stake:       (e1.Stake + e2.Stake) / 2,
		Mode:        models.DuelModeSlots,
		Scores:      map[int64]int{e1.UserID: 0, e2.UserID: 0},
		CurrentTurn: e1.UserID,
		ChannelID:   channelID,
	}
	d.duels[key] = duel
	d.mu.Unlock()
	d.save()

	d.announceStart(duel)
	return duel, nil
}

// LeaveQueue removes the player's entry, by cancellation or disconnect.
func (d *DuelService) LeaveQueue(id int64) bool {
	d.mu.Lock()
	before := len(d.queue.entries)
	d.queue.remove(id)
	removed := len(d.queue.entries) != before
	d.mu.Unlock()
	if removed {
		d.save()
	}
	return removed
}

func (d *DuelService) ClearQueue() {
	d.mu.Lock()
	d.queue.clear()
	d.mu.Unlock()
	d.save()
	d.log.Info("matchmaking queue cleared")
}

// TurnOutcome reports one turn and, when both sides have scored, the
// settlement.
type TurnOutcome struct {
	Score    int
	Detail   string
	Settled  bool
	Tie      bool
	Winner   int64
	Loser    int64
	WinTotal int64
}

// TakeTurn rolls the mover's score. The duel settles as soon as the
// opponent's recorded score is already positive; otherwise the turn
// passes. The outcome is fully computed before anything is revealed.
func (d *DuelService) TakeTurn(player int64, key string) (*TurnOutcome, error) {
	d.mu.Lock()
	duel, ok := d.duels[key]
	if !ok {
		d.mu.Unlock()
		return nil, models.NotFoundf("duel not found")
	}
	if duel.Opponent(player) == 0 {
		d.mu.Unlock()
		return nil, models.Invalidf("you are not part of this duel")
	}
	if duel.CurrentTurn != player {
		d.mu.Unlock()
		return nil, models.Invalidf("not your turn")
	}

	opponent := duel.Opponent(player)
	score, detail := games.DuelTurnScore(duel.Mode, d.rng)
	duel.Scores[player] = score

	out := &TurnOutcome{Score: score, Detail: detail}
	if duel.Scores[opponent] > 0 {
		settle(duel, out)
		delete(d.duels, key)
	} else {
		duel.CurrentTurn = opponent
	}
	settledDuel := *duel
	d.mu.Unlock()

	// Pot redistribution happens outside the duel lock; the ledger
	// persists on its own hook.
	switch {
	case out.Tie:
		d.ledger.CreditPayout(settledDuel.Player1, settledDuel.Stake, false)
		d.ledger.CreditPayout(settledDuel.Player2, settledDuel.Stake, false)
	case out.Settled:
		d.ledger.CreditPayout(out.Winner, out.WinTotal, true)
	}
	d.save()

	d.announceTurn(&settledDuel, player, out)
	return out, nil
}

// settle compares scores and names the outcome: the winner takes
// stake×2, a tie refunds both sides their own stake.
func settle(duel *models.Duel, out *TurnOutcome) {
	out.Settled = true
	s1 := duel.Scores[duel.Player1]
	s2 := duel.Scores[duel.Player2]
	switch {
	case s1 > s2:
		out.Winner, out.Loser = duel.Player1, duel.Player2
	case s2 > s1:
		out.Winner, out.Loser = duel.Player2, duel.Player1
	default:
		out.Tie = true
		return
	}
	out.WinTotal = duel.Stake * 2
}

func (d *DuelService) announceStart(duel *models.Duel) {
	text := fmt.Sprintf("duel (%s) started between %s and %s for $%d, %s moves first",
		duel.Mode, d.ledger.Name(duel.Player1), d.ledger.Name(duel.Player2),
		duel.Stake, d.ledger.Name(duel.CurrentTurn))
	if duel.ChannelID != 0 {
		d.notifier.NotifyChannel(duel.ChannelID, text)
	}
	d.notifier.NotifyUser(duel.Player1, text)
	d.notifier.NotifyUser(duel.Player2, text)
	d.log.WithFields(logrus.Fields{"duel": duel.Key, "stake": duel.Stake, "mode": duel.Mode}).Info("duel started")
}

func (d *DuelService) announceTurn(duel *models.Duel, player int64, out *TurnOutcome) {
	opponent := duel.Opponent(player)
	turnText := fmt.Sprintf("%s rolled: %s (score %d)", d.ledger.Name(player), out.Detail, out.Score)
	if duel.ChannelID != 0 {
		d.notifier.NotifyChannel(duel.ChannelID, turnText)
	}

	switch {
	case !out.Settled:
		d.notifier.NotifyUser(opponent, fmt.Sprintf("your turn in the %s duel, stake $%d", duel.Mode, duel.Stake))
		d.notifier.NotifyUser(player, turnText+" — waiting for the opponent")
	case out.Tie:
		text := fmt.Sprintf("duel (%s) is a tie, both stakes returned", duel.Mode)
		d.notifyResult(duel, text, text)
	default:
		winText := fmt.Sprintf("%s won the duel (%s) against %s, +$%d",
			d.ledger.Name(out.Winner), duel.Mode, d.ledger.Name(out.Loser), out.WinTotal)
		d.notifyResult(duel, winText, winText)
		d.log.WithFields(logrus.Fields{"duel": duel.Key, "winner": out.Winner}).Info("duel settled")
	}
}

func (d *DuelService) notifyResult(duel *models.Duel, p1Text, p2Text string) {
	if duel.ChannelID != 0 {
		d.notifier.NotifyChannel(duel.ChannelID, p1Text)
		return
	}
	d.notifier.NotifyUser(duel.Player1, p1Text)
	d.notifier.NotifyUser(duel.Player2, p2Text)
}

// ActiveDuel returns the running duel the player is part of, if any.
func (d *DuelService) ActiveDuel(id int64) (*models.Duel, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, duel := range d.duels {
		if duel.Opponent(id) != 0 {
			cp := *duel
			return &cp, true
		}
	}
	return nil, false
}

func (d *DuelService) ActiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.duels)
}

func (d *DuelService) QueueLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue.entries)
}

// ExportTo copies duel state into a snapshot.
func (d *DuelService) ExportTo(s *models.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, duel := range d.duels {
		cp := *duel
		cp.Scores = make(map[int64]int, len(duel.Scores))
		for id, sc := range duel.Scores {
			cp.Scores[id] = sc
		}
		s.Duels[key] = &cp
	}
	for id, inv := range d.invites {
		cp := *inv
		s.Invites[id] = &cp
	}
	s.Queue = d.queue.snapshot()
}

// Restore replaces duel state from a loaded snapshot.
func (d *DuelService) Restore(s *models.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.duels = make(map[string]*models.Duel, len(s.Duels))
	for key, duel := range s.Duels {
		cp := *duel
		cp.Key = key
		d.duels[key] = &cp
	}
	d.invites = make(map[int64]*models.Invite, len(s.Invites))
	for id, inv := range s.Invites {
		cp := *inv
		d.invites[id] = &cp
	}
	d.queue.entries = make([]models.QueueEntry, len(s.Queue))
	copy(d.queue.entries, s.Queue)
}
