package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"support-bot/internal/bot"
	"support-bot/internal/config"
	"support-bot/internal/database"
	"support-bot/internal/locale"
	"support-bot/internal/messaging"
	"support-bot/internal/models"
	"support-bot/internal/service"
	"support-bot/internal/session"
	"support-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const ticketPreviewLen = 50

// Router dispatches normalized inbound events to the user and admin flows.
type Router struct {
	bot      *bot.Bot
	db       *database.DB
	gateway  *messaging.Gateway
	tickets  *service.TicketService
	admin    *service.AdminService
	sessions *session.Store
	resolver *locale.Resolver
	cfg      *config.Config
}

func NewRouter(
	b *bot.Bot,
	db *database.DB,
	gateway *messaging.Gateway,
	tickets *service.TicketService,
	admin *service.AdminService,
	sessions *session.Store,
	resolver *locale.Resolver,
	cfg *config.Config,
) *Router {
	return &Router{
		bot:      b,
		db:       db,
		gateway:  gateway,
		tickets:  tickets,
		admin:    admin,
		sessions: sessions,
		resolver: resolver,
		cfg:      cfg,
	}
}

// HandleUpdate is the single entry point for the poll loop.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ev := eventFromUpdate(update)
	if ev == nil {
		return
	}

	if ev.CallbackID != "" {
		chain(r.handleCallback, r.withRecovery, r.withLogging)(ctx, ev)
		return
	}
	chain(r.handleMessage, r.withRecovery, r.withLogging)(ctx, ev)
}

func (r *Router) handleMessage(ctx context.Context, ev *Event) {
	// Admin flows take precedence; an admin with no pending action and no
	// matching command falls through to the regular user flow.
	if r.cfg.IsAdmin(ev.SenderID) && r.handleAdminMessage(ctx, ev) {
		return
	}

	cmd, _ := ev.command()
	switch cmd {
	case "start", "help":
		r.handleStart(ctx, ev)
	case "mytickets":
		r.handleMyTickets(ctx, ev)
	case "":
		r.handleTextMessage(ctx, ev)
	default:
		r.sendLocalized(ctx, ev.ChatID, r.senderLanguage(ev), locale.KeyWelcome, nil)
	}
}

// handleStart registers unseen users (offering a language choice) and greets
// everyone else. Banned users only learn that they are banned.
func (r *Router) handleStart(ctx context.Context, ev *Event) {
	user, err := r.db.GetUserByChatID(ev.SenderID)
	if err != nil {
		zap.L().Error("Failed to load user", zap.Int64(logger.FieldChatID, ev.SenderID), zap.Error(err))
		r.sendLocalized(ctx, ev.ChatID, r.resolver.DefaultLanguage(), locale.KeyGenericError, nil)
		return
	}

	if user != nil && user.IsBanned {
		r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyBanned, nil)
		return
	}

	if user == nil {
		user, err = r.registerUser(ev)
		if err != nil {
			zap.L().Error("Failed to register user", zap.Int64(logger.FieldChatID, ev.SenderID), zap.Error(err))
			r.sendLocalized(ctx, ev.ChatID, r.resolver.DefaultLanguage(), locale.KeyGenericError, nil)
			return
		}
		zap.L().Info("New user registered",
			zap.Int64(logger.FieldUserID, user.ID),
			zap.Int64(logger.FieldChatID, user.ChatID),
		)

		prompt, rerr := r.resolver.Resolve(locale.KeyLanguageSelect, user.Language)
		if rerr != nil {
			prompt = locale.FallbackText
		}
		keyboard := r.bot.LanguageKeyboard()
		if err := r.gateway.Send(ctx, ev.ChatID, prompt, keyboard); err != nil {
			zap.L().Error("Failed to send language prompt", zap.Error(err))
		}
		return
	}

	r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyWelcome, nil)
}

func (r *Router) handleMyTickets(ctx context.Context, ev *Event) {
	user := r.requireUser(ctx, ev)
	if user == nil {
		return
	}

	tickets, err := r.tickets.ListTickets(user)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyAccessDenied, nil)
			return
		}
		zap.L().Error("Failed to list tickets", zap.Int64(logger.FieldUserID, user.ID), zap.Error(err))
		r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyGenericError, nil)
		return
	}

	if len(tickets) == 0 {
		r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyNoTickets, nil)
		return
	}

	header, err := r.resolver.Resolve(locale.KeyTicketsHeader, user.Language)
	if err != nil {
		header = locale.FallbackText
	}
	sections := []string{header}
	for _, ticket := range tickets {
		statusIcon := "✓"
		if ticket.Status != models.TicketOpen {
			statusIcon = "×"
		}
		item, err := r.resolver.Format(locale.KeyTicketItem, user.Language, locale.Args{
			"status_icon": statusIcon,
			"ticket_id":   fmt.Sprintf("%d", ticket.ID),
			"status":      string(ticket.Status),
			"date":        ticket.CreatedAt.Format("02.01.2006 15:04"),
			"preview":     preview(ticket.Message),
		})
		if err != nil {
			zap.L().Error("Failed to format ticket item", zap.Error(err))
			continue
		}
		sections = append(sections, item)
	}

	if err := r.gateway.Send(ctx, ev.ChatID, strings.Join(sections, "\n\n"), nil); err != nil {
		zap.L().Error("Failed to send ticket list", zap.Error(err))
	}
}

// handleTextMessage turns a plain private text message into a ticket.
// Replies to other messages are ignored.
func (r *Router) handleTextMessage(ctx context.Context, ev *Event) {
	if ev.IsReply || strings.TrimSpace(ev.Text) == "" {
		return
	}

	user := r.requireUser(ctx, ev)
	if user == nil {
		return
	}

	ticket, err := r.tickets.Submit(ctx, user, ev.Text)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyAccessDenied, nil)
			return
		}
		zap.L().Error("Failed to submit ticket", zap.Int64(logger.FieldUserID, user.ID), zap.Error(err))
		r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyGenericError, nil)
		return
	}

	r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyTicketCreated, locale.Args{
		"ticket_id": fmt.Sprintf("%d", ticket.ID),
	})
}

func (r *Router) handleCallback(ctx context.Context, ev *Event) {
	data := ev.CallbackData

	if strings.HasPrefix(data, bot.CallbackLangPrefix) {
		r.handleLanguageCallback(ctx, ev)
		return
	}

	// Everything below is admin triage.
	chain(r.handleAdminCallback, r.requireAdmin)(ctx, ev)
}

// handleLanguageCallback stores the chosen language and re-sends the welcome
// message in it.
func (r *Router) handleLanguageCallback(ctx context.Context, ev *Event) {
	lang := strings.TrimPrefix(ev.CallbackData, bot.CallbackLangPrefix)
	if !locale.Supported(lang) {
		lang = r.resolver.DefaultLanguage()
	}

	user, err := r.db.UpdateUser(ev.SenderID, models.UserPatch{Language: &lang})
	if err != nil || user == nil {
		zap.L().Error("Failed to update language",
			zap.Int64(logger.FieldChatID, ev.SenderID), zap.Error(err))
		r.answerCallback(ev, "Language update failed")
		return
	}

	if err := r.bot.RemoveInlineKeyboard(ev.ChatID, ev.MessageID); err != nil {
		zap.L().Debug("Failed to remove language keyboard", zap.Error(err))
	}

	r.sendLocalized(ctx, ev.ChatID, lang, locale.KeyWelcome, nil)
	r.answerCallback(ev, "")
}

// requireUser loads the sender, registering them on first contact. Banned
// users get access-denied and nil is returned.
func (r *Router) requireUser(ctx context.Context, ev *Event) *models.User {
	user, err := r.db.GetUserByChatID(ev.SenderID)
	if err != nil {
		zap.L().Error("Failed to load user", zap.Int64(logger.FieldChatID, ev.SenderID), zap.Error(err))
		r.sendLocalized(ctx, ev.ChatID, r.resolver.DefaultLanguage(), locale.KeyGenericError, nil)
		return nil
	}

	if user == nil {
		user, err = r.registerUser(ev)
		if err != nil {
			zap.L().Error("Failed to register user", zap.Int64(logger.FieldChatID, ev.SenderID), zap.Error(err))
			r.sendLocalized(ctx, ev.ChatID, r.resolver.DefaultLanguage(), locale.KeyGenericError, nil)
			return nil
		}
	}

	if user.IsBanned {
		r.sendLocalized(ctx, ev.ChatID, user.Language, locale.KeyAccessDenied, nil)
		return nil
	}
	return user
}

func (r *Router) registerUser(ev *Event) (*models.User, error) {
	lang := r.resolver.DetectLanguage(ev.LanguageCode)
	return r.db.UpsertUser(ev.SenderID, ev.Username, ev.FirstName, ev.LastName, lang)
}

// sendLocalized formats and delivers a catalog message, degrading to the
// fallback string when the catalog cannot serve the key.
func (r *Router) sendLocalized(ctx context.Context, chatID int64, lang string, key locale.Key, args locale.Args) {
	text, err := r.resolver.Format(key, lang, args)
	if err != nil {
		zap.L().Error("Translation error",
			zap.String("key", string(key)),
			zap.String("lang", lang),
			zap.Error(err),
		)
		text = locale.FallbackText
	}
	if err := r.gateway.Send(ctx, chatID, text, nil); err != nil {
		zap.L().Error("Failed to send message", zap.Int64(logger.FieldChatID, chatID), zap.Error(err))
	}
}

func (r *Router) answerCallback(ev *Event, text string) {
	if err := r.bot.AnswerCallbackQuery(ev.CallbackID, text); err != nil {
		zap.L().Debug("Failed to answer callback", zap.Error(err))
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= ticketPreviewLen {
		return text
	}
	return string(runes[:ticketPreviewLen])
}
