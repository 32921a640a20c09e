package handlers

import (
	"context"
	"fmt"

	"support-bot/internal/locale"
	"support-bot/pkg/logger"

	"go.uber.org/zap"
)

type handlerFunc func(ctx context.Context, ev *Event)

type middleware func(handlerFunc) handlerFunc

func chain(h handlerFunc, mws ...middleware) handlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// withRecovery is the outermost boundary: no single event may take the
// process down. The sender gets a localized apology and, if configured, the
// admin set gets an operational alert.
func (r *Router) withRecovery(next handlerFunc) handlerFunc {
	return func(ctx context.Context, ev *Event) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			zap.L().Error("Panic in handler",
				zap.Int64(logger.FieldChatID, ev.ChatID),
				zap.Int64(logger.FieldUserID, ev.SenderID),
				zap.String("text", ev.Text),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)

			lang := r.senderLanguage(ev)
			apology, err := r.resolver.Resolve(locale.KeyGenericError, lang)
			if err != nil {
				apology = locale.FallbackText
			}
			if err := r.bot.SendMessage(ev.ChatID, apology, nil); err != nil {
				zap.L().Error("Failed to send apology", zap.Error(err))
			}

			if r.cfg.ReportErrors {
				alert := fmt.Sprintf("🚨 Ошибка при обработке события от %d: %v", ev.SenderID, rec)
				r.gateway.NotifyAdmins(ctx, alert, nil)
			}
		}()

		next(ctx, ev)
	}
}

// withLogging records every inbound event before it is dispatched.
func (r *Router) withLogging(next handlerFunc) handlerFunc {
	return func(ctx context.Context, ev *Event) {
		username := ev.Username
		if username == "" {
			username = "no_username"
		}
		zap.L().Info("Incoming event",
			zap.Int64(logger.FieldUserID, ev.SenderID),
			zap.String("username", username),
			zap.String("text", ev.Text),
			zap.String("callback", ev.CallbackData),
		)
		next(ctx, ev)
	}
}

// requireAdmin drops events from anyone outside the admin set. Denial is
// silent towards the sender, only the log records the attempt.
func (r *Router) requireAdmin(next handlerFunc) handlerFunc {
	return func(ctx context.Context, ev *Event) {
		if !r.cfg.IsAdmin(ev.SenderID) {
			zap.L().Warn("Unauthorized admin access attempt",
				zap.Int64(logger.FieldUserID, ev.SenderID))
			return
		}
		next(ctx, ev)
	}
}

// senderLanguage resolves the sender's stored language, falling back to the
// default when the user is unknown or the lookup fails.
func (r *Router) senderLanguage(ev *Event) string {
	user, err := r.db.GetUserByChatID(ev.SenderID)
	if err != nil || user == nil {
		return r.resolver.DefaultLanguage()
	}
	return user.Language
}
