// Package service holds the business rules of the support bot: ticket
// lifecycle on one side, privileged admin operations on the other. Both sit
// between the handlers and the repository and own every invariant about who
// may act on what.
package service

import (
	"context"
	"errors"

	"support-bot/internal/messaging"
	"support-bot/internal/models"
)

// ErrAccessDenied is returned when a banned user tries to interact with the
// bot. Distinct from an empty result: callers must not show empty lists to
// banned users.
var ErrAccessDenied = errors.New("access denied")

// Repository is the persistence surface the services depend on, implemented
// by *database.DB.
type Repository interface {
	GetUserByID(id int64) (*models.User, error)
	GetUserByChatID(chatID int64) (*models.User, error)
	UpdateUserByID(id int64, patch models.UserPatch) (*models.User, error)
	ListActiveChatIDs() ([]int64, error)

	CreateTicket(userID int64, message string) (*models.Ticket, error)
	GetTicket(id int64) (*models.Ticket, error)
	ListUserTickets(userID int64, status *models.TicketStatus) ([]models.Ticket, error)
	ListOpenTickets() ([]models.Ticket, error)
	UpdateTicket(id int64, patch models.TicketPatch) (*models.Ticket, error)

	LogAdminAction(adminID int64, action models.AdminAction, targetUserID int64, details string) (*models.AdminLog, error)
	SystemStats() (*models.SystemStats, error)
}

// Notifier is the outbound surface, implemented by *messaging.Gateway.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string, replyMarkup interface{}) error
	NotifyNewTicket(ctx context.Context, ticket *models.Ticket, user *models.User) int
	Broadcast(ctx context.Context, text string, recipients []int64) (messaging.BroadcastResult, error)
}
