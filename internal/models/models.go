package models

import "time"

type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
	// TicketPending is reserved in the schema; no transition produces it.
	TicketPending TicketStatus = "pending"
)

type AdminAction string

const (
	ActionBan         AdminAction = "ban"
	ActionUnban       AdminAction = "unban"
	ActionReply       AdminAction = "reply"
	ActionCloseTicket AdminAction = "close_ticket"
)

type User struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	IsBanned  bool      `db:"is_banned"`
	Language  string    `db:"language"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Ticket references its owner by user id only. The schema carries no foreign
// key; users are never deleted, so the reference cannot dangle.
type Ticket struct {
	ID        int64        `db:"id"`
	UserID    int64        `db:"user_id"`
	Message   string       `db:"message"`
	Status    TicketStatus `db:"status"`
	AdminID   *int64       `db:"admin_id"`
	Response  *string      `db:"response"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// AdminLog is an append-only audit record. Rows are never updated or deleted.
type AdminLog struct {
	ID           int64       `db:"id"`
	AdminID      int64       `db:"admin_id"`
	Action       AdminAction `db:"action"`
	TargetUserID int64       `db:"target_user_id"`
	Details      string      `db:"details"`
	CreatedAt    time.Time   `db:"created_at"`
}

// UserPatch carries a partial update; nil fields are left untouched.
type UserPatch struct {
	Username  *string
	FirstName *string
	LastName  *string
	IsBanned  *bool
	Language  *string
}

// TicketPatch carries a partial update; nil fields are left untouched.
type TicketPatch struct {
	Status   *TicketStatus
	AdminID  *int64
	Response *string
}

type UserStats struct {
	TotalTickets  int
	OpenTickets   int
	ClosedTickets int
}

type SystemStats struct {
	TotalUsers   int
	BannedUsers  int
	TotalTickets int
	OpenTickets  int
}
