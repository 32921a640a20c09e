package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Event is the normalized inbound chat event the handlers work on: either a
// private text message or a callback-button tap.
type Event struct {
	SenderID     int64
	ChatID       int64
	MessageID    int
	Text         string
	IsReply      bool
	LanguageCode string

	Username  string
	FirstName string
	LastName  string

	// Callback fields; CallbackID is empty for plain messages.
	CallbackID   string
	CallbackData string
}

// eventFromUpdate flattens a Telegram update into an Event. Returns nil for
// update kinds the bot does not handle (edits, channel posts, group chatter).
func eventFromUpdate(update tgbotapi.Update) *Event {
	if update.Message != nil {
		msg := update.Message
		if !msg.Chat.IsPrivate() {
			return nil
		}
		return &Event{
			SenderID:     msg.From.ID,
			ChatID:       msg.Chat.ID,
			MessageID:    msg.MessageID,
			Text:         msg.Text,
			IsReply:      msg.ReplyToMessage != nil,
			LanguageCode: msg.From.LanguageCode,
			Username:     msg.From.UserName,
			FirstName:    msg.From.FirstName,
			LastName:     msg.From.LastName,
		}
	}

	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		ev := &Event{
			SenderID:     cb.From.ID,
			LanguageCode: cb.From.LanguageCode,
			Username:     cb.From.UserName,
			FirstName:    cb.From.FirstName,
			LastName:     cb.From.LastName,
			CallbackID:   cb.ID,
			CallbackData: cb.Data,
		}
		if cb.Message != nil {
			ev.ChatID = cb.Message.Chat.ID
			ev.MessageID = cb.Message.MessageID
		} else {
			ev.ChatID = cb.From.ID
		}
		return ev
	}

	return nil
}

// command splits a slash-command event into name and arguments. Returns an
// empty name for ordinary text.
func (e *Event) command() (string, string) {
	if len(e.Text) == 0 || e.Text[0] != '/' {
		return "", ""
	}
	cmd := e.Text[1:]
	args := ""
	for i := 0; i < len(cmd); i++ {
		if cmd[i] == ' ' {
			args = cmd[i+1:]
			cmd = cmd[:i]
			break
		}
	}
	// Strip a @botname suffix.
	for i := 0; i < len(cmd); i++ {
		if cmd[i] == '@' {
			cmd = cmd[:i]
			break
		}
	}
	return cmd, args
}
