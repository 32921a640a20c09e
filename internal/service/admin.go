package service

import (
	"context"
	"fmt"

	"support-bot/internal/locale"
	"support-bot/internal/messaging"
	"support-bot/internal/models"
	"support-bot/pkg/logger"

	"go.uber.org/zap"
)

type AdminService struct {
	repo     Repository
	notifier Notifier
	resolver *locale.Resolver
	adminIDs []int64
}

func NewAdminService(repo Repository, notifier Notifier, resolver *locale.Resolver, adminIDs []int64) *AdminService {
	return &AdminService{repo: repo, notifier: notifier, resolver: resolver, adminIDs: adminIDs}
}

// authorize fails closed: anyone outside the admin set is denied with only a
// warning in the log, nothing leaks to the caller.
func (s *AdminService) authorize(adminID int64, action string) bool {
	for _, id := range s.adminIDs {
		if id == adminID {
			return true
		}
	}
	zap.L().Warn("Unauthorized admin action attempt",
		zap.Int64(logger.FieldAdminID, adminID),
		zap.String(logger.FieldAction, action),
	)
	return false
}

// BanUser bans the target and closes every open ticket they own, attributing
// the closes to the acting admin. Idempotent: re-banning an already banned
// user returns true with zero writes. The ban notice to the user is best
// effort.
func (s *AdminService) BanUser(ctx context.Context, adminID, userID int64, reason string) bool {
	if !s.authorize(adminID, "ban") {
		return false
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		zap.L().Error("Failed to load user for ban",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		return false
	}
	if user == nil {
		zap.L().Error("Ban target not found", zap.Int64(logger.FieldUserID, userID))
		return false
	}
	if user.IsBanned {
		zap.L().Info("User already banned", zap.Int64(logger.FieldUserID, userID))
		return true
	}

	banned := true
	if _, err := s.repo.UpdateUserByID(userID, models.UserPatch{IsBanned: &banned}); err != nil {
		zap.L().Error("Failed to ban user",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		return false
	}

	// Cascade close: every open ticket of the banned user gets closed under
	// the acting admin's id.
	open := models.TicketOpen
	tickets, err := s.repo.ListUserTickets(userID, &open)
	if err != nil {
		zap.L().Error("Failed to list open tickets for ban cascade",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}
	closed := models.TicketClosed
	for _, ticket := range tickets {
		if _, err := s.repo.UpdateTicket(ticket.ID, models.TicketPatch{
			Status:  &closed,
			AdminID: &adminID,
		}); err != nil {
			zap.L().Error("Failed to close ticket in ban cascade",
				zap.Int64(logger.FieldTicketID, ticket.ID), zap.Error(err))
		}
	}

	details := reason
	if details == "" {
		details = "No reason provided"
	}
	if _, err := s.repo.LogAdminAction(adminID, models.ActionBan, userID, details); err != nil {
		zap.L().Error("Failed to write audit log for ban",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	s.notifyBanState(ctx, user, locale.KeyBanNotification, locale.Args{"reason": details})

	zap.L().Info("User banned",
		zap.Int64(logger.FieldUserID, userID),
		zap.Int64(logger.FieldAdminID, adminID),
		zap.Int("tickets_closed", len(tickets)),
	)
	return true
}

// UnbanUser mirrors BanUser without the ticket cascade.
func (s *AdminService) UnbanUser(ctx context.Context, adminID, userID int64) bool {
	if !s.authorize(adminID, "unban") {
		return false
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		zap.L().Error("Failed to load user for unban",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		return false
	}
	if user == nil {
		zap.L().Error("Unban target not found", zap.Int64(logger.FieldUserID, userID))
		return false
	}
	if !user.IsBanned {
		zap.L().Info("User not banned", zap.Int64(logger.FieldUserID, userID))
		return true
	}

	banned := false
	if _, err := s.repo.UpdateUserByID(userID, models.UserPatch{IsBanned: &banned}); err != nil {
		zap.L().Error("Failed to unban user",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
		return false
	}

	if _, err := s.repo.LogAdminAction(adminID, models.ActionUnban, userID, "User unbanned"); err != nil {
		zap.L().Error("Failed to write audit log for unban",
			zap.Int64(logger.FieldUserID, userID), zap.Error(err))
	}

	s.notifyBanState(ctx, user, locale.KeyUnbanNotification, nil)

	zap.L().Info("User unbanned",
		zap.Int64(logger.FieldUserID, userID),
		zap.Int64(logger.FieldAdminID, adminID),
	)
	return true
}

// CloseTicket closes a ticket without a reply message to the user. Idempotent
// on already-closed tickets. The optional comment is stored as the response.
func (s *AdminService) CloseTicket(adminID, ticketID int64, comment string) bool {
	if !s.authorize(adminID, "close_ticket") {
		return false
	}

	ticket, err := s.repo.GetTicket(ticketID)
	if err != nil {
		zap.L().Error("Failed to load ticket for close",
			zap.Int64(logger.FieldTicketID, ticketID), zap.Error(err))
		return false
	}
	if ticket == nil {
		zap.L().Error("Ticket not found", zap.Int64(logger.FieldTicketID, ticketID))
		return false
	}
	if ticket.Status == models.TicketClosed {
		zap.L().Info("Ticket already closed", zap.Int64(logger.FieldTicketID, ticketID))
		return true
	}

	closed := models.TicketClosed
	patch := models.TicketPatch{Status: &closed, AdminID: &adminID}
	if comment != "" {
		patch.Response = &comment
	}
	if _, err := s.repo.UpdateTicket(ticketID, patch); err != nil {
		zap.L().Error("Failed to close ticket",
			zap.Int64(logger.FieldTicketID, ticketID), zap.Error(err))
		return false
	}

	if _, err := s.repo.LogAdminAction(adminID, models.ActionCloseTicket, ticket.UserID,
		fmt.Sprintf("Ticket #%d", ticketID)); err != nil {
		zap.L().Error("Failed to write audit log for close",
			zap.Int64(logger.FieldTicketID, ticketID), zap.Error(err))
	}

	zap.L().Info("Ticket closed",
		zap.Int64(logger.FieldTicketID, ticketID),
		zap.Int64(logger.FieldAdminID, adminID),
	)
	return true
}

// UserStats aggregates per-user ticket counts. Returns nil when the user
// does not exist.
func (s *AdminService) UserStats(userID int64) (*models.UserStats, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	all, err := s.repo.ListUserTickets(userID, nil)
	if err != nil {
		return nil, err
	}
	open := models.TicketOpen
	openTickets, err := s.repo.ListUserTickets(userID, &open)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		TotalTickets:  len(all),
		OpenTickets:   len(openTickets),
		ClosedTickets: len(all) - len(openTickets),
	}, nil
}

// SystemStats returns one consistent snapshot of the aggregate counters.
func (s *AdminService) SystemStats() (*models.SystemStats, error) {
	return s.repo.SystemStats()
}

// Broadcast sends text to every non-banned user.
func (s *AdminService) Broadcast(ctx context.Context, adminID int64, text string) (messaging.BroadcastResult, bool) {
	if !s.authorize(adminID, "broadcast") {
		return messaging.BroadcastResult{}, false
	}

	recipients, err := s.repo.ListActiveChatIDs()
	if err != nil {
		zap.L().Error("Failed to list broadcast recipients", zap.Error(err))
		return messaging.BroadcastResult{}, false
	}

	result, err := s.notifier.Broadcast(ctx, text, recipients)
	if err != nil {
		zap.L().Error("Broadcast completed with failures",
			zap.Int64(logger.FieldAdminID, adminID), zap.Error(err))
	}
	return result, true
}

func (s *AdminService) notifyBanState(ctx context.Context, user *models.User, key locale.Key, args locale.Args) {
	text, err := s.resolver.Format(key, user.Language, args)
	if err != nil {
		zap.L().Error("Failed to format ban-state notification", zap.Error(err))
		return
	}
	if err := s.notifier.Send(ctx, user.ChatID, text, nil); err != nil {
		zap.L().Error("Failed to notify user about ban state",
			zap.Int64(logger.FieldChatID, user.ChatID), zap.Error(err))
	}
}
