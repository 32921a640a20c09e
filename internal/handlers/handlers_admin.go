package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"support-bot/internal/bot"
	"support-bot/internal/session"
	"support-bot/pkg/logger"

	"go.uber.org/zap"
)

const openTicketsPageSize = 10

// handleAdminMessage runs the admin-only message flows. Returns false when
// the message is not an admin interaction, so it falls through to the user
// flow (admins can open tickets too).
func (r *Router) handleAdminMessage(ctx context.Context, ev *Event) bool {
	if ev.Text == bot.ButtonCancel {
		r.sessions.Clear(ev.SenderID)
		r.sendAdmin(ctx, ev.ChatID, "Действие отменено")
		return true
	}

	if pending, ok := r.sessions.Get(ev.SenderID); ok {
		switch pending.Kind {
		case session.KindReply:
			r.sessions.Clear(ev.SenderID)
			r.handleAdminReply(ctx, ev, pending.TicketID)
			return true
		case session.KindUserSearch:
			r.sessions.Clear(ev.SenderID)
			r.handleUserSearch(ctx, ev, strings.TrimSpace(ev.Text))
			return true
		}
		// A pending ban confirmation only reacts to callback taps.
	}

	cmd, args := ev.command()
	switch cmd {
	case "admin":
		r.showAdminPanel(ctx, ev)
		return true
	case "broadcast":
		r.handleBroadcast(ctx, ev, strings.TrimSpace(args))
		return true
	}

	switch ev.Text {
	case bot.ButtonStats:
		r.showAdminPanel(ctx, ev)
		return true
	case bot.ButtonOpenTickets:
		r.showOpenTickets(ctx, ev)
		return true
	case bot.ButtonUsers:
		r.sessions.Set(ev.SenderID, session.PendingAction{Kind: session.KindUserSearch})
		if err := r.gateway.Send(ctx, ev.ChatID,
			"Введите ID пользователя или @username для поиска:", r.bot.CancelKeyboard()); err != nil {
			zap.L().Error("Failed to prompt user search", zap.Error(err))
		}
		return true
	}

	return false
}

func (r *Router) handleAdminReply(ctx context.Context, ev *Event, ticketID int64) {
	if r.tickets.Reply(ctx, ticketID, ev.SenderID, ev.Text) {
		r.sendAdmin(ctx, ev.ChatID, "✅ Ответ отправлен пользователю")
		return
	}
	r.sendAdmin(ctx, ev.ChatID, "❌ Не удалось отправить ответ")
}

func (r *Router) showAdminPanel(ctx context.Context, ev *Event) {
	stats, err := r.admin.SystemStats()
	if err != nil {
		zap.L().Error("Failed to load system stats", zap.Error(err))
		r.sendAdmin(ctx, ev.ChatID, "❌ Не удалось получить статистику")
		return
	}

	text := fmt.Sprintf(
		"📊 Статистика системы\n\n"+
			"👥 Пользователей: %d\n"+
			"⛔ Заблокировано: %d\n"+
			"📨 Обращений: %d\n"+
			"🟢 Открытых: %d",
		stats.TotalUsers, stats.BannedUsers, stats.TotalTickets, stats.OpenTickets,
	)
	r.sendAdmin(ctx, ev.ChatID, text)
}

func (r *Router) showOpenTickets(ctx context.Context, ev *Event) {
	tickets, err := r.db.ListOpenTickets()
	if err != nil {
		zap.L().Error("Failed to list open tickets", zap.Error(err))
		r.sendAdmin(ctx, ev.ChatID, "❌ Не удалось получить обращения")
		return
	}
	if len(tickets) == 0 {
		r.sendAdmin(ctx, ev.ChatID, "Нет открытых обращений")
		return
	}

	if len(tickets) > openTicketsPageSize {
		tickets = tickets[:openTicketsPageSize]
	}
	sections := []string{"📂 Открытые обращения:"}
	for _, ticket := range tickets {
		sections = append(sections, fmt.Sprintf(
			"#%d от пользователя %d\n📅 %s\n📝 %s...",
			ticket.ID, ticket.UserID,
			ticket.CreatedAt.Format("02.01.2006 15:04"),
			preview(ticket.Message),
		))
	}
	r.sendAdmin(ctx, ev.ChatID, strings.Join(sections, "\n\n"))
}

func (r *Router) handleUserSearch(ctx context.Context, ev *Event, query string) {
	if query == "" {
		r.sendAdmin(ctx, ev.ChatID, "Пользователи не найдены")
		return
	}

	if userID, err := strconv.ParseInt(query, 10, 64); err == nil {
		r.showUserCard(ctx, ev, userID)
		return
	}

	users, err := r.db.SearchUsersByUsername(strings.TrimPrefix(query, "@"), 5)
	if err != nil {
		zap.L().Error("Failed to search users", zap.Error(err))
		r.sendAdmin(ctx, ev.ChatID, "❌ Ошибка поиска")
		return
	}
	if len(users) == 0 {
		r.sendAdmin(ctx, ev.ChatID, "Пользователи не найдены")
		return
	}

	sections := []string{"🔍 Результаты поиска:"}
	for _, user := range users {
		username := user.Username
		if username == "" {
			username = "нет"
		}
		state := "🟢"
		if user.IsBanned {
			state = "⛔"
		}
		sections = append(sections, fmt.Sprintf(
			"ID: %d | @%s\n%s | %s", user.ID, username, user.FirstName, state,
		))
	}
	r.sendAdmin(ctx, ev.ChatID, strings.Join(sections, "\n\n"))
}

func (r *Router) showUserCard(ctx context.Context, ev *Event, userID int64) {
	user, err := r.db.GetUserByID(userID)
	if err != nil {
		zap.L().Error("Failed to load user card", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		r.sendAdmin(ctx, ev.ChatID, "❌ Ошибка поиска")
		return
	}
	if user == nil {
		r.sendAdmin(ctx, ev.ChatID, "Пользователи не найдены")
		return
	}

	stats, err := r.admin.UserStats(userID)
	if err != nil || stats == nil {
		zap.L().Error("Failed to load user stats", zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		r.sendAdmin(ctx, ev.ChatID, "❌ Ошибка поиска")
		return
	}

	username := user.Username
	if username == "" {
		username = "нет"
	}
	state := "Активен"
	if user.IsBanned {
		state = "Заблокирован"
	}
	text := fmt.Sprintf(
		"👤 Пользователь ID: %d\n"+
			"👁‍🗨 @%s\n"+
			"📛 %s %s\n"+
			"⛔ %s\n\n"+
			"📨 Обращений: %d\n"+
			"🟢 Открытых: %d",
		user.ID, username, user.FirstName, user.LastName, state,
		stats.TotalTickets, stats.OpenTickets,
	)

	var markup interface{}
	if keyboard := r.bot.UserCardKeyboard(user.ID, user.IsBanned); keyboard != nil {
		markup = *keyboard
	}
	if err := r.gateway.Send(ctx, ev.ChatID, text, markup); err != nil {
		zap.L().Error("Failed to send user card", zap.Error(err))
	}
}

func (r *Router) handleBroadcast(ctx context.Context, ev *Event, text string) {
	if text == "" {
		r.sendAdmin(ctx, ev.ChatID, "Использование: /broadcast <текст>")
		return
	}

	result, ok := r.admin.Broadcast(ctx, ev.SenderID, text)
	if !ok {
		r.sendAdmin(ctx, ev.ChatID, "❌ Рассылка не выполнена")
		return
	}
	r.sendAdmin(ctx, ev.ChatID, fmt.Sprintf(
		"📢 Рассылка завершена\n✅ Доставлено: %d\n❌ Ошибок: %d\n⛔ Заблокировали бота: %d",
		result.Success, result.Failed, result.Blocked,
	))
}

// handleAdminCallback routes triage button taps by callback-data prefix.
func (r *Router) handleAdminCallback(ctx context.Context, ev *Event) {
	data := ev.CallbackData
	switch {
	case strings.HasPrefix(data, bot.CallbackBanPrefix):
		r.handleBanCallback(ctx, ev, strings.TrimPrefix(data, bot.CallbackBanPrefix))
	case strings.HasPrefix(data, bot.CallbackClosePrefix):
		r.handleCloseCallback(ev, strings.TrimPrefix(data, bot.CallbackClosePrefix))
	case strings.HasPrefix(data, bot.CallbackReplyPrefix):
		r.handleReplyCallback(ctx, ev, strings.TrimPrefix(data, bot.CallbackReplyPrefix))
	case strings.HasPrefix(data, bot.CallbackUnbanPrefix):
		r.handleUnbanCallback(ctx, ev, strings.TrimPrefix(data, bot.CallbackUnbanPrefix))
	case data == bot.CallbackConfirm, data == bot.CallbackCancel:
		r.handleConfirmationCallback(ctx, ev)
	default:
		r.answerCallback(ev, "")
	}
}

// handleBanCallback starts the ban confirmation flow for a ticket's owner.
func (r *Router) handleBanCallback(ctx context.Context, ev *Event, rawTicketID string) {
	ticketID, err := strconv.ParseInt(rawTicketID, 10, 64)
	if err != nil {
		r.answerCallback(ev, "")
		return
	}

	ticket, err := r.db.GetTicket(ticketID)
	if err != nil {
		zap.L().Error("Failed to load ticket for ban",
			zap.Int64(logger.FieldTicketID, ticketID), zap.Error(err))
		r.answerCallback(ev, "Ошибка")
		return
	}
	if ticket == nil {
		r.answerCallback(ev, "Обращение не найдено")
		return
	}

	r.sessions.Set(ev.SenderID, session.PendingAction{
		Kind:     session.KindBanConfirm,
		UserID:   ticket.UserID,
		TicketID: ticketID,
	})

	text := fmt.Sprintf("⚠️ Подтвердите блокировку пользователя ID: %d", ticket.UserID)
	if err := r.gateway.Send(ctx, ev.SenderID, text, r.bot.ConfirmationKeyboard()); err != nil {
		zap.L().Error("Failed to send ban confirmation", zap.Error(err))
	}
	r.answerCallback(ev, "")
}

func (r *Router) handleCloseCallback(ev *Event, rawTicketID string) {
	ticketID, err := strconv.ParseInt(rawTicketID, 10, 64)
	if err != nil {
		r.answerCallback(ev, "")
		return
	}

	if r.admin.CloseTicket(ev.SenderID, ticketID, "") {
		if err := r.bot.RemoveInlineKeyboard(ev.ChatID, ev.MessageID); err != nil {
			zap.L().Debug("Failed to remove ticket keyboard", zap.Error(err))
		}
		r.answerCallback(ev, "Обращение закрыто")
		return
	}
	r.answerCallback(ev, "Ошибка закрытия обращения")
}

func (r *Router) handleReplyCallback(ctx context.Context, ev *Event, rawTicketID string) {
	ticketID, err := strconv.ParseInt(rawTicketID, 10, 64)
	if err != nil {
		r.answerCallback(ev, "")
		return
	}

	r.sessions.Set(ev.SenderID, session.PendingAction{
		Kind:     session.KindReply,
		TicketID: ticketID,
	})

	if err := r.gateway.Send(ctx, ev.SenderID,
		"✍️ Введите ваш ответ пользователю:", r.bot.CancelKeyboard()); err != nil {
		zap.L().Error("Failed to prompt reply", zap.Error(err))
	}
	r.answerCallback(ev, "")
}

func (r *Router) handleUnbanCallback(ctx context.Context, ev *Event, rawUserID string) {
	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		r.answerCallback(ev, "")
		return
	}

	if r.admin.UnbanUser(ctx, ev.SenderID, userID) {
		if err := r.bot.RemoveInlineKeyboard(ev.ChatID, ev.MessageID); err != nil {
			zap.L().Debug("Failed to remove user card keyboard", zap.Error(err))
		}
		r.answerCallback(ev, "Пользователь разблокирован")
		return
	}
	r.answerCallback(ev, "Ошибка разблокировки")
}

// handleConfirmationCallback resolves a pending ban confirmation. Both
// outcomes consume the pending action and remove the confirmation message.
func (r *Router) handleConfirmationCallback(ctx context.Context, ev *Event) {
	pending, ok := r.sessions.Take(ev.SenderID)

	if ev.CallbackData == bot.CallbackConfirm && ok && pending.Kind == session.KindBanConfirm {
		reason := fmt.Sprintf("По обращению #%d", pending.TicketID)
		if r.admin.BanUser(ctx, ev.SenderID, pending.UserID, reason) {
			r.sendAdmin(ctx, ev.SenderID, fmt.Sprintf("Пользователь %d заблокирован", pending.UserID))
		} else {
			r.sendAdmin(ctx, ev.SenderID, "❌ Не удалось заблокировать пользователя")
		}
	} else if ev.CallbackData == bot.CallbackCancel {
		r.sendAdmin(ctx, ev.SenderID, "Действие отменено")
	}

	r.answerCallback(ev, "")
	if err := r.bot.DeleteMessage(ev.ChatID, ev.MessageID); err != nil {
		zap.L().Debug("Failed to delete confirmation message", zap.Error(err))
	}
}

// sendAdmin sends admin-facing UI text with the admin keyboard attached.
func (r *Router) sendAdmin(ctx context.Context, chatID int64, text string) {
	if err := r.gateway.Send(ctx, chatID, text, r.bot.AdminMainKeyboard()); err != nil {
		zap.L().Error("Failed to send admin message", zap.Int64(logger.FieldChatID, chatID), zap.Error(err))
	}
}
