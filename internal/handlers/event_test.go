package handlers

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFromPrivateMessage(t *testing.T) {
	update := tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 10,
			From: &tgbotapi.User{
				ID:           5,
				UserName:     "alice",
				FirstName:    "Alice",
				LanguageCode: "de",
			},
			Chat: &tgbotapi.Chat{ID: 500, Type: "private"},
			Text: "hello",
		},
	}

	ev := eventFromUpdate(update)
	require.NotNil(t, ev)
	assert.Equal(t, int64(5), ev.SenderID)
	assert.Equal(t, int64(500), ev.ChatID)
	assert.Equal(t, "hello", ev.Text)
	assert.Equal(t, "de", ev.LanguageCode)
	assert.Empty(t, ev.CallbackID)
}

func TestEventIgnoresGroupMessage(t *testing.T) {
	update := tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: 5},
			Chat: &tgbotapi.Chat{ID: -100, Type: "supergroup"},
			Text: "group chatter",
		},
	}
	assert.Nil(t, eventFromUpdate(update))
}

func TestEventFromCallback(t *testing.T) {
	update := tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			From: &tgbotapi.User{ID: 5},
			Data: "close_7",
			Message: &tgbotapi.Message{
				MessageID: 33,
				Chat:      &tgbotapi.Chat{ID: 500, Type: "private"},
			},
		},
	}

	ev := eventFromUpdate(update)
	require.NotNil(t, ev)
	assert.Equal(t, "cb1", ev.CallbackID)
	assert.Equal(t, "close_7", ev.CallbackData)
	assert.Equal(t, int64(500), ev.ChatID)
	assert.Equal(t, 33, ev.MessageID)
}

func TestEventFromEmptyUpdate(t *testing.T) {
	assert.Nil(t, eventFromUpdate(tgbotapi.Update{}))
}

func TestCommandParsing(t *testing.T) {
	tests := []struct {
		text string
		name string
		args string
	}{
		{"/start", "start", ""},
		{"/broadcast all hands meeting", "broadcast", "all hands meeting"},
		{"/admin@support_bot", "admin", ""},
		{"/help@support_bot me please", "help", "me please"},
		{"plain text", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		ev := &Event{Text: tt.text}
		name, args := ev.command()
		assert.Equal(t, tt.name, name, "text %q", tt.text)
		assert.Equal(t, tt.args, args, "text %q", tt.text)
	}
}
