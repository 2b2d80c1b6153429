package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Console is a local line-based transport for the dispatcher: one
// terminal, any number of simulated players. It doubles as the
// Notifier so duel pings and admin broadcasts land in the same
// terminal.
type Console struct {
	dispatcher *Dispatcher
	userID     int64
	channelID  int64
}

// NewConsole builds the transport. The dispatcher is injected
// afterwards because the services behind it take the console as their
// Notifier.
func NewConsole() *Console {
	return &Console{channelID: 1}
}

func (c *Console) SetDispatcher(d *Dispatcher) {
	c.dispatcher = d
}

// NotifyUser prints a directed message.
func (c *Console) NotifyUser(userID int64, text string) {
	pterm.Info.Printfln("[to %d] %s", userID, text)
}

// NotifyChannel prints a channel broadcast.
func (c *Console) NotifyChannel(channelID int64, text string) {
	pterm.Info.Printfln("[channel %d] %s", channelID, text)
}

// Run reads commands until EOF or context cancellation. The `as <id>`
// meta command switches the acting player, so duels can be played out
// from one terminal.
func (c *Console) Run(ctx context.Context) {
	pterm.DefaultHeader.Println("casino console")
	pterm.Println("type `as <id>` to switch player, `help` for commands, `quit` to exit")

	c.userID = 1
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := pterm.DefaultInteractiveTextInput.
			WithDefaultText(fmt.Sprintf("player %d", c.userID)).
			Show()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if id, ok := parseAs(line); ok {
			c.userID = id
			pterm.Success.Printfln("now acting as player %d", id)
			continue
		}

		reply := c.dispatcher.Dispatch(c.userID, fmt.Sprintf("player%d", c.userID), line, c.channelID)
		pterm.Println(reply.Text)
		if reply.Prompt != "" {
			pterm.Println(pterm.Gray(reply.Prompt))
		}
	}
}

func parseAs(line string) (int64, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "as" {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
