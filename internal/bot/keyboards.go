package bot

import (
	"fmt"

	"support-bot/internal/locale"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data tags routed by the handlers. Parameterized tags carry the id
// after the underscore.
const (
	CallbackBanPrefix   = "ban_"
	CallbackClosePrefix = "close_"
	CallbackReplyPrefix = "reply_"
	CallbackUnbanPrefix = "unban_"
	CallbackLangPrefix  = "lang_"
	CallbackConfirm     = "confirm"
	CallbackCancel      = "cancel"
)

// Reply-keyboard button labels. The admin handlers match incoming message
// text against these, so they double as commands.
const (
	ButtonStats       = "📊 Статистика"
	ButtonOpenTickets = "📨 Все обращения"
	ButtonUsers       = "👥 Пользователи"
	ButtonCancel      = "❌ Отмена"
)

func (b *Bot) ConfirmationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", CallbackConfirm),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", CallbackCancel),
		),
	)
}

func (b *Bot) LanguageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", CallbackLangPrefix+locale.LangRU),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", CallbackLangPrefix+locale.LangEN),
			tgbotapi.NewInlineKeyboardButtonData("🇩🇪 Deutsch", CallbackLangPrefix+locale.LangDE),
		),
	)
}

// UserCardKeyboard offers unban for a banned user found via search. Banning
// goes through a ticket's keyboard so the confirmation flow stays uniform.
func (b *Bot) UserCardKeyboard(userID int64, isBanned bool) *tgbotapi.InlineKeyboardMarkup {
	if !isBanned {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔓 Разблокировать", fmt.Sprintf("%s%d", CallbackUnbanPrefix, userID)),
		),
	)
	return &markup
}

func (b *Bot) AdminMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonStats),
			tgbotapi.NewKeyboardButton(ButtonOpenTickets),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonUsers),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func (b *Bot) CancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonCancel),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
