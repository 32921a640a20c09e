package service

import (
	"context"
	"fmt"

	"support-bot/internal/locale"
	"support-bot/internal/models"
	"support-bot/pkg/logger"

	"go.uber.org/zap"
)

type TicketService struct {
	repo     Repository
	notifier Notifier
	resolver *locale.Resolver
}

func NewTicketService(repo Repository, notifier Notifier, resolver *locale.Resolver) *TicketService {
	return &TicketService{repo: repo, notifier: notifier, resolver: resolver}
}

// Submit creates a ticket for the user's message and notifies the admin set.
// Banned users are rejected with ErrAccessDenied and nothing is written.
func (s *TicketService) Submit(ctx context.Context, user *models.User, text string) (*models.Ticket, error) {
	if user.IsBanned {
		return nil, fmt.Errorf("user %d: %w", user.ID, ErrAccessDenied)
	}

	ticket, err := s.repo.CreateTicket(user.ID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to submit ticket: %w", err)
	}

	notified := s.notifier.NotifyNewTicket(ctx, ticket, user)
	zap.L().Info("Ticket created",
		zap.Int64(logger.FieldTicketID, ticket.ID),
		zap.Int64(logger.FieldUserID, user.ID),
		zap.Int("admins_notified", notified),
	)

	return ticket, nil
}

// ListTickets returns the user's tickets newest-first. An empty slice means
// the user has no tickets; a banned user gets ErrAccessDenied instead.
func (s *TicketService) ListTickets(user *models.User) ([]models.Ticket, error) {
	if user.IsBanned {
		return nil, fmt.Errorf("user %d: %w", user.ID, ErrAccessDenied)
	}
	return s.repo.ListUserTickets(user.ID, nil)
}

// Reply closes the ticket with the admin's response and sends it to the
// owner. The close is committed before delivery is attempted: a delivery
// failure is logged but does not reopen the ticket. Returns false when the
// ticket is missing or its owner is missing or banned; no audit entry is
// written in that case.
func (s *TicketService) Reply(ctx context.Context, ticketID, adminID int64, text string) bool {
	ticket, err := s.repo.GetTicket(ticketID)
	if err != nil {
		zap.L().Error("Failed to load ticket for reply",
			zap.Int64(logger.FieldTicketID, ticketID), zap.Error(err))
		return false
	}
	if ticket == nil {
		zap.L().Warn("Reply to nonexistent ticket", zap.Int64(logger.FieldTicketID, ticketID))
		return false
	}

	user, err := s.repo.GetUserByID(ticket.UserID)
	if err != nil {
		zap.L().Error("Failed to load ticket owner",
			zap.Int64(logger.FieldTicketID, ticketID), zap.Error(err))
		return false
	}
	if user == nil || user.IsBanned {
		zap.L().Warn("Ticket owner missing or banned",
			zap.Int64(logger.FieldTicketID, ticketID),
			zap.Int64(logger.FieldUserID, ticket.UserID),
		)
		return false
	}

	closed := models.TicketClosed
	if _, err := s.repo.UpdateTicket(ticketID, models.TicketPatch{
		Status:   &closed,
		AdminID:  &adminID,
		Response: &text,
	}); err != nil {
		zap.L().Error("Failed to close ticket with reply",
			zap.Int64(logger.FieldTicketID, ticketID), zap.Error(err))
		return false
	}

	if _, err := s.repo.LogAdminAction(adminID, models.ActionReply, user.ID,
		fmt.Sprintf("Ticket #%d", ticketID)); err != nil {
		zap.L().Error("Failed to write audit log for reply",
			zap.Int64(logger.FieldTicketID, ticketID), zap.Error(err))
	}

	response, err := s.resolver.Format(locale.KeyUserReply, user.Language, locale.Args{
		"ticket_id":  fmt.Sprintf("%d", ticketID),
		"reply_text": text,
	})
	if err != nil {
		zap.L().Error("Failed to format reply", zap.Error(err))
		response = text
	}

	// Resolution is authoritative over delivery: the ticket stays closed
	// even if the user cannot be reached.
	if err := s.notifier.Send(ctx, user.ChatID, response, nil); err != nil {
		zap.L().Error("Failed to deliver reply",
			zap.Int64(logger.FieldTicketID, ticketID),
			zap.Int64(logger.FieldChatID, user.ChatID),
			zap.Error(err),
		)
	}

	zap.L().Info("Ticket closed with reply",
		zap.Int64(logger.FieldTicketID, ticketID),
		zap.Int64(logger.FieldAdminID, adminID),
	)
	return true
}
