// Package messaging is the outbound side of the bot: single sends with
// bounded retry, admin fan-out, and throttled broadcasts. A recipient that
// has blocked or deleted the bot is treated as having opted out and is
// marked banned.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"support-bot/internal/locale"
	"support-bot/internal/models"
	"support-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrDelivery means every attempt failed for a transient reason.
	ErrDelivery = errors.New("message delivery failed")
	// ErrRecipientBlocked means the chat has blocked or deleted the bot.
	// Terminal; the owning user is marked banned as a side effect.
	ErrRecipientBlocked = errors.New("recipient blocked the bot")
)

// Sender is the slice of the Telegram API the gateway needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type userStore interface {
	UpdateUser(chatID int64, patch models.UserPatch) (*models.User, error)
}

type Options struct {
	SendRetries        int
	BroadcastBatchSize int
	BroadcastDelay     time.Duration
}

type BroadcastResult struct {
	Success int
	Failed  int
	Blocked int
}

type Gateway struct {
	sender   Sender
	users    userStore
	resolver *locale.Resolver
	adminIDs []int64
	opts     Options

	// sleep is swapped out in tests to avoid real broadcast delays.
	sleep func(time.Duration)
}

func NewGateway(sender Sender, users userStore, resolver *locale.Resolver, adminIDs []int64, opts Options) *Gateway {
	if opts.SendRetries < 1 {
		opts.SendRetries = 2
	}
	if opts.BroadcastBatchSize < 1 {
		opts.BroadcastBatchSize = 20
	}
	return &Gateway{
		sender:   sender,
		users:    users,
		resolver: resolver,
		adminIDs: adminIDs,
		opts:     opts,
		sleep:    time.Sleep,
	}
}

// Send delivers text to a chat, retrying transient transport failures up to
// the configured attempt count with no backoff. A 403 from the transport is
// terminal: the user is marked banned and ErrRecipientBlocked is returned.
func (g *Gateway) Send(ctx context.Context, chatID int64, text string, replyMarkup interface{}) error {
	backoff := retry.WithMaxRetries(uint64(g.opts.SendRetries-1), retry.NewConstant(time.Millisecond))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		msg := tgbotapi.NewMessage(chatID, text)
		if replyMarkup != nil {
			msg.ReplyMarkup = replyMarkup
		}

		_, sendErr := g.sender.Send(msg)
		if sendErr == nil {
			return nil
		}

		zap.L().Error("Failed to send message",
			zap.Int64(logger.FieldChatID, chatID),
			zap.Int("attempt", attempt),
			zap.Error(sendErr),
		)

		if isBlocked(sendErr) {
			g.markBlocked(chatID)
			return sendErr
		}
		return retry.RetryableError(sendErr)
	})
	if err == nil {
		return nil
	}

	if isBlocked(err) {
		return fmt.Errorf("chat %d: %w", chatID, ErrRecipientBlocked)
	}
	return fmt.Errorf("chat %d after %d attempts: %w: %v", chatID, attempt, ErrDelivery, err)
}

// NotifyAdmins fans text out to the admin set, skipping excluded ids.
// Returns how many admins were reached; individual failures are logged only.
func (g *Gateway) NotifyAdmins(ctx context.Context, text string, replyMarkup interface{}, excludeIDs ...int64) int {
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	success := 0
	for _, adminID := range g.adminIDs {
		if excluded[adminID] {
			continue
		}
		if err := g.Send(ctx, adminID, text, replyMarkup); err != nil {
			zap.L().Error("Failed to notify admin",
				zap.Int64(logger.FieldAdminID, adminID),
				zap.Error(err),
			)
			continue
		}
		success++
	}
	return success
}

// NotifyNewTicket tells every admin about a fresh ticket, with the triage
// keyboard attached. The notification follows the ticket owner's language.
func (g *Gateway) NotifyNewTicket(ctx context.Context, ticket *models.Ticket, user *models.User) int {
	username := user.Username
	if username == "" {
		username = "N/A"
	}

	text, err := g.resolver.Format(locale.KeyAdminNotification, user.Language, locale.Args{
		"ticket_id": fmt.Sprintf("%d", ticket.ID),
		"username":  username,
		"user_id":   fmt.Sprintf("%d", user.ID),
		"date":      ticket.CreatedAt.Format("02.01.2006 15:04"),
		"message":   ticket.Message,
	})
	if err != nil {
		zap.L().Error("Failed to format admin notification", zap.Error(err))
		text = locale.FallbackText
	}

	keyboard := g.ticketKeyboard(ticket.ID, user.Language)
	return g.NotifyAdmins(ctx, text, keyboard)
}

// Broadcast sends text to every recipient in fixed-size batches, pausing
// between batches. Blocked recipients are counted and banned; other failures
// are aggregated into the returned error.
func (g *Gateway) Broadcast(ctx context.Context, text string, recipients []int64) (BroadcastResult, error) {
	var result BroadcastResult
	var errs error

	for start := 0; start < len(recipients); start += g.opts.BroadcastBatchSize {
		end := start + g.opts.BroadcastBatchSize
		if end > len(recipients) {
			end = len(recipients)
		}

		for _, chatID := range recipients[start:end] {
			err := g.Send(ctx, chatID, text, nil)
			switch {
			case err == nil:
				result.Success++
			case errors.Is(err, ErrRecipientBlocked):
				result.Blocked++
			default:
				result.Failed++
				errs = multierr.Append(errs, err)
			}
		}

		if end < len(recipients) && g.opts.BroadcastDelay > 0 {
			g.sleep(g.opts.BroadcastDelay)
		}
	}

	zap.L().Info("Broadcast finished",
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
		zap.Int("blocked", result.Blocked),
	)
	return result, errs
}

func (g *Gateway) ticketKeyboard(ticketID int64, lang string) tgbotapi.InlineKeyboardMarkup {
	reply, _ := g.resolver.Resolve(locale.KeyButtonReply, lang)
	closeLabel, _ := g.resolver.Resolve(locale.KeyButtonClose, lang)
	ban, _ := g.resolver.Resolve(locale.KeyButtonBan, lang)

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(reply, fmt.Sprintf("reply_%d", ticketID)),
			tgbotapi.NewInlineKeyboardButtonData(closeLabel, fmt.Sprintf("close_%d", ticketID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(ban, fmt.Sprintf("ban_%d", ticketID)),
		),
	)
}

// markBlocked flags the user behind a blocked chat as banned so later
// tickets and notifications are suppressed.
func (g *Gateway) markBlocked(chatID int64) {
	banned := true
	user, err := g.users.UpdateUser(chatID, models.UserPatch{IsBanned: &banned})
	if err != nil {
		zap.L().Error("Failed to mark blocked user as banned",
			zap.Int64(logger.FieldChatID, chatID),
			zap.Error(err),
		)
		return
	}
	if user != nil {
		zap.L().Info("User blocked the bot, marked as banned",
			zap.Int64(logger.FieldChatID, chatID),
			zap.Int64(logger.FieldUserID, user.ID),
		)
	}
}

func isBlocked(err error) bool {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return tgErr.Code == 403
	}
	return false
}
