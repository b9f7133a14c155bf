package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// EventKind distinguishes the two inbound transport shapes.
type EventKind int

const (
	// EventNewMessage is a fresh text message or photo upload.
	EventNewMessage EventKind = iota + 1
	// EventButtonPress is an inline-keyboard callback query.
	EventButtonPress
)

// Event is the normalized form of an inbound Telegram update. Handlers only
// ever see an Event; the raw update never crosses into handler logic.
type Event struct {
	Kind        EventKind
	ChatID      int64
	UserID      int64
	MessageID   int    // the message carrying the pressed button (edit target)
	CallbackID  string // set for button presses; used to answer the callback
	Command     string // bot command without the slash, if any
	Text        string // trimmed message text, or command arguments
	PhotoFileID string // file ID of the largest uploaded photo size, if any
	Token       string // raw callback data for button presses
}

// FromUpdate normalizes a Telegram update into an Event. The second return is
// false for update types the bot does not handle (edits, channel posts,
// inline-mode callbacks without an attached message).
func FromUpdate(update tgbotapi.Update) (Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Message == nil {
			return Event{}, false
		}
		ev := Event{
			Kind:       EventButtonPress,
			ChatID:     cq.Message.Chat.ID,
			MessageID:  cq.Message.MessageID,
			CallbackID: cq.ID,
			Token:      cq.Data,
		}
		if cq.From != nil {
			ev.UserID = cq.From.ID
		}
		return ev, true

	case update.Message != nil:
		m := update.Message
		ev := Event{
			Kind:      EventNewMessage,
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
			Text:      strings.TrimSpace(m.Text),
		}
		if m.From != nil {
			ev.UserID = m.From.ID
		}
		if m.IsCommand() {
			ev.Command = m.Command()
			ev.Text = strings.TrimSpace(m.CommandArguments())
		}
		if len(m.Photo) > 0 {
			ev.PhotoFileID = m.Photo[len(m.Photo)-1].FileID
		}
		return ev, true
	}
	return Event{}, false
}
