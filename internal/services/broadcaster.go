package services

// Notifier is the outbound half of the chat-transport boundary. The
// core never performs network I/O itself; delivery failures are the
// adapter's problem and must be counted there, not here.
type Notifier interface {
	NotifyUser(userID int64, text string)
	NotifyChannel(channelID int64, text string)
}

// NopNotifier discards everything; useful in tests and tools.
type NopNotifier struct{}

func (NopNotifier) NotifyUser(int64, string)    {}
func (NopNotifier) NotifyChannel(int64, string) {}
