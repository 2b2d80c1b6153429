package chat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chillbroinf-cloud/DepBot/internal/games"
	"github.com/chillbroinf-cloud/DepBot/internal/models"
	"github.com/chillbroinf-cloud/DepBot/internal/services"
)

// Reply is the dispatcher's answer to one inbound message. Prompt is
// set when the command opened or continued a session that awaits the
// player's next input.
type Reply struct {
	Text   string
	Prompt string
}

// Dispatcher maps chat commands onto casino operations. It is the
// whole inbound half of the transport boundary: any adapter that can
// hand over (user, text, channel) tuples can drive the casino.
type Dispatcher struct {
	log    *logrus.Logger
	casino *services.Casino
	duels  *services.DuelService
	ledger *services.Ledger
}

func NewDispatcher(log *logrus.Logger, casino *services.Casino, duels *services.DuelService, ledger *services.Ledger) *Dispatcher {
	return &Dispatcher{log: log, casino: casino, duels: duels, ledger: ledger}
}

// Dispatch parses one message and runs the command. Errors come back
// as player-readable reply text, never as Go error strings.
func (d *Dispatcher) Dispatch(userID int64, username, text string, channelID int64) Reply {
	if username != "" {
		d.ledger.SetName(userID, username)
	}

	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return Reply{Text: d.help()}
	}
	cmd := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	var reply Reply
	var err error
	switch cmd {
	case "balance":
		reply = Reply{Text: fmt.Sprintf("balance: $%d", d.ledger.Balance(userID))}
	case "bonus":
		reply, err = d.bonus(userID)
	case "slots":
		reply, err = d.slots(userID, args)
	case "roulette":
		reply, err = d.roulette(userID, args)
	case "blackjack":
		reply, err = d.blackjack(userID, args)
	case "hit":
		reply, err = d.blackjackHit(userID)
	case "stand":
		reply, err = d.blackjackStand(userID)
	case "poker":
		reply, err = d.poker(userID, args)
	case "sport":
		reply, err = d.sport(userID, args)
	case "duel":
		reply, err = d.duel(userID, args, channelID)
	case "accept":
		reply, err = d.accept(userID, args)
	case "cancel":
		reply = d.cancel(userID)
	case "queue":
		reply, err = d.queue(userID, args, channelID)
	case "leave":
		reply = d.leave(userID)
	case "turn":
		reply, err = d.turn(userID)
	case "top":
		reply = d.top()
	case "feedback":
		reply, err = d.feedback(userID, username, args)
	case "help":
		reply = Reply{Text: d.help()}
	default:
		reply = Reply{Text: "unknown command, try /help"}
	}

	if err != nil {
		return Reply{Text: friendly(err)}
	}
	return reply
}

// friendly converts domain errors into reply text.
func friendly(err error) string {
	var insufficient *models.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return fmt.Sprintf("not enough money: you have $%d, need $%d", insufficient.Have, insufficient.Need)
	}
	var invalid *models.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Error()
	}
	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	return "something went wrong, try again"
}

func parseStake(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, models.Invalidf("stake missing, e.g. 50")
	}
	stake, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || stake <= 0 {
		return 0, models.Invalidf("stake must be a positive number, got %q", args[0])
	}
	return stake, nil
}

func wagerReply(res models.WagerResult) Reply {
	switch {
	case res.Refund:
		return Reply{Text: fmt.Sprintf("%s — stake returned ($%d)", res.Detail, res.Payout)}
	case res.Payout > 0:
		return Reply{Text: fmt.Sprintf("%s — you win $%d!", res.Detail, res.Payout)}
	default:
		return Reply{Text: fmt.Sprintf("%s — you lose $%d", res.Detail, res.Stake)}
	}
}

func (d *Dispatcher) bonus(userID int64) (Reply, error) {
	old, newBal, err := d.casino.ClaimBonus(userID)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("daily bonus claimed: $%d -> $%d", old, newBal)}, nil
}

func (d *Dispatcher) slots(userID int64, args []string) (Reply, error) {
	stake, err := parseStake(args)
	if err != nil {
		return Reply{}, err
	}
	res, err := d.casino.PlaySlots(userID, stake)
	if err != nil {
		return Reply{}, err
	}
	return wagerReply(res), nil
}

func (d *Dispatcher) roulette(userID int64, args []string) (Reply, error) {
	stake, err := parseStake(args)
	if err != nil {
		return Reply{}, err
	}
	if len(args) < 2 {
		return Reply{}, models.Invalidf("pick a bet: red, black, even, odd or a number 0-36")
	}

	var bet games.RouletteBet
	switch strings.ToLower(args[1]) {
	case "red":
		bet.Kind = games.RouletteRed
	case "black":
		bet.Kind = games.RouletteBlack
	case "even":
		bet.Kind = games.RouletteEven
	case "odd":
		bet.Kind = games.RouletteOdd
	default:
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return Reply{}, models.Invalidf("unknown roulette bet %q", args[1])
		}
		bet = games.RouletteBet{Kind: games.RouletteStraight, Number: n}
	}

	res, err := d.casino.PlayRoulette(userID, stake, bet)
	if err != nil {
		return Reply{}, err
	}
	return wagerReply(res), nil
}

func (d *Dispatcher) blackjack(userID int64, args []string) (Reply, error) {
	stake, err := parseStake(args)
	if err != nil {
		return Reply{}, err
	}
	round, settlement, err := d.casino.StartBlackjack(userID, stake)
	if err != nil {
		return Reply{}, err
	}
	if settlement != nil {
		return Reply{Text: fmt.Sprintf("your hand: %v (%d) — %s, payout $%d",
			round.Player, round.PlayerValue(), settlement.Outcome, settlement.Payout)}, nil
	}
	return Reply{
		Text: fmt.Sprintf("your hand: %v (%d), dealer shows %d",
			round.Player, round.PlayerValue(), round.DealerUpcard()),
		Prompt: "hit or stand?",
	}, nil
}

func (d *Dispatcher) blackjackHit(userID int64) (Reply, error) {
	round, settlement, err := d.casino.BlackjackHit(userID)
	if err != nil {
		return Reply{}, err
	}
	if settlement != nil {
		return Reply{Text: fmt.Sprintf("your hand: %v (%d) — bust, stake lost",
			round.Player, round.PlayerValue())}, nil
	}
	return Reply{
		Text:   fmt.Sprintf("your hand: %v (%d)", round.Player, round.PlayerValue()),
		Prompt: "hit or stand?",
	}, nil
}

func (d *Dispatcher) blackjackStand(userID int64) (Reply, error) {
	round, settlement, err := d.casino.BlackjackStand(userID)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("you: %v (%d), dealer: %v (%d) — %s, payout $%d",
		round.Player, round.PlayerValue(), round.Dealer, round.DealerValue(),
		settlement.Outcome, settlement.Payout)}, nil
}

func (d *Dispatcher) poker(userID int64, args []string) (Reply, error) {
	stake, err := parseStake(args)
	if err != nil {
		return Reply{}, err
	}
	res, err := d.casino.PlayPoker(userID, stake)
	if err != nil {
		return Reply{}, err
	}
	return wagerReply(res), nil
}

func (d *Dispatcher) sport(userID int64, args []string) (Reply, error) {
	stake, err := parseStake(args)
	if err != nil {
		return Reply{}, err
	}
	if len(args) < 2 {
		return Reply{}, models.Invalidf("pick a market: a, b, over or under")
	}

	var bet games.SportBet
	switch strings.ToLower(args[1]) {
	case "a":
		bet = games.TeamBet{Team: games.TeamA}
	case "b":
		bet = games.TeamBet{Team: games.TeamB}
	case "over":
		bet = games.TotalsBet{Over: true}
	case "under":
		bet = games.TotalsBet{Over: false}
	default:
		return Reply{}, models.Invalidf("unknown market %q", args[1])
	}

	res, err := d.casino.PlaySport(userID, stake, bet)
	if err != nil {
		return Reply{}, err
	}
	return wagerReply(res), nil
}

func (d *Dispatcher) duel(userID int64, args []string, channelID int64) (Reply, error) {
	if len(args) < 2 {
		return Reply{}, models.Invalidf("usage: duel <opponent id> <stake> [slots|roulette|coin]")
	}
	opponent, err := strconv.ParseInt(strings.TrimPrefix(args[0], "@"), 10, 64)
	if err != nil {
		return Reply{}, models.Invalidf("opponent id must be a number")
	}
	stake, err := parseStake(args[1:])
	if err != nil {
		return Reply{}, err
	}
	modeArg := ""
	if len(args) > 2 {
		modeArg = args[2]
	}
	mode, err := models.ParseDuelMode(modeArg)
	if err != nil {
		return Reply{}, err
	}
	if err := d.duels.Invite(userID, opponent, stake, mode, channelID); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("challenge sent to %s for $%d (%s)", d.ledger.Name(opponent), stake, mode)}, nil
}

func (d *Dispatcher) accept(userID int64, args []string) (Reply, error) {
	if len(args) < 1 {
		return Reply{}, models.Invalidf("usage: accept <challenger id>")
	}
	challenger, err := strconv.ParseInt(strings.TrimPrefix(args[0], "@"), 10, 64)
	if err != nil {
		return Reply{}, models.Invalidf("challenger id must be a number")
	}
	duel, err := d.duels.Accept(userID, challenger)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("duel on! stake $%d each, %s goes first with /turn",
		duel.Stake, d.ledger.Name(duel.CurrentTurn))}, nil
}

func (d *Dispatcher) cancel(userID int64) Reply {
	if d.duels.CancelInvite(userID) {
		return Reply{Text: "challenge cancelled"}
	}
	return Reply{Text: "no outstanding challenge"}
}

// defaultQueueStake is used when the player queues without naming one.
const defaultQueueStake int64 = 100

func (d *Dispatcher) queue(userID int64, args []string, channelID int64) (Reply, error) {
	stake := defaultQueueStake
	if len(args) > 0 {
		var err error
		if stake, err = parseStake(args); err != nil {
			return Reply{}, err
		}
	}
	duel, err := d.duels.JoinQueue(userID, stake, channelID)
	if err != nil {
		return Reply{}, err
	}
	if duel == nil {
		return Reply{Text: fmt.Sprintf("queued with $%d, waiting for an opponent", stake)}, nil
	}
	return Reply{Text: fmt.Sprintf("matched against %s for $%d each, %s goes first with /turn",
		d.ledger.Name(duel.Opponent(userID)), duel.Stake, d.ledger.Name(duel.CurrentTurn))}, nil
}

func (d *Dispatcher) leave(userID int64) Reply {
	if d.duels.LeaveQueue(userID) {
		return Reply{Text: "left the queue"}
	}
	return Reply{Text: "you are not queued"}
}

func (d *Dispatcher) turn(userID int64) (Reply, error) {
	duel, ok := d.duels.ActiveDuel(userID)
	if !ok {
		return Reply{}, models.NotFoundf("you have no active duel")
	}
	out, err := d.duels.TakeTurn(userID, duel.Key)
	if err != nil {
		return Reply{}, err
	}
	switch {
	case !out.Settled:
		return Reply{Text: fmt.Sprintf("%s (score %d) — opponent's turn", out.Detail, out.Score)}, nil
	case out.Tie:
		return Reply{Text: fmt.Sprintf("%s (score %d) — tie, stakes returned", out.Detail, out.Score)}, nil
	case out.Winner == userID:
		return Reply{Text: fmt.Sprintf("%s (score %d) — you win $%d!", out.Detail, out.Score, out.WinTotal)}, nil
	default:
		return Reply{Text: fmt.Sprintf("%s (score %d) — you lose", out.Detail, out.Score)}, nil
	}
}

func (d *Dispatcher) top() Reply {
	ranks := d.casino.TopBalances(10)
	if len(ranks) == 0 {
		return Reply{Text: "no players yet"}
	}
	var b strings.Builder
	b.WriteString("top balances:\n")
	for i, r := range ranks {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("user %d", r.UserID)
		}
		fmt.Fprintf(&b, "%d. %s — $%d\n", i+1, name, r.Balance)
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}

func (d *Dispatcher) feedback(userID int64, username string, args []string) (Reply, error) {
	if _, err := d.casino.SubmitFeedback(userID, username, strings.Join(args, " ")); err != nil {
		return Reply{}, err
	}
	return Reply{Text: "thanks, your feedback was passed on"}, nil
}

func (d *Dispatcher) help() string {
	return strings.Join([]string{
		"commands:",
		"balance — show your balance",
		"bonus — claim the daily bonus",
		"slots <stake>",
		"roulette <stake> <red|black|even|odd|0-36>",
		"blackjack <stake>, then hit / stand",
		"poker <stake>",
		"sport <stake> <a|b|over|under>",
		"duel <opponent id> <stake> [slots|roulette|coin], accept <id>, cancel",
		"queue [stake] — random opponent, default stake 100; leave, turn",
		"top — leaderboard",
		"feedback <message>",
	}, "\n")
}
