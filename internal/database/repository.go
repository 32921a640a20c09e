package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"support-bot/internal/models"

	"github.com/lib/pq"
)

const userColumns = "id, chat_id, username, first_name, last_name, is_banned, language, created_at, updated_at"
const ticketColumns = "id, user_id, message, status, admin_id, response, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.ChatID, &user.Username, &user.FirstName,
		&user.LastName, &user.IsBanned, &user.Language,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	var ticket models.Ticket
	err := row.Scan(
		&ticket.ID, &ticket.UserID, &ticket.Message, &ticket.Status,
		&ticket.AdminID, &ticket.Response, &ticket.CreatedAt, &ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// User operations

// UpsertUser registers a user on first contact and refreshes display fields on
// subsequent contacts. Ban flag and language are never touched here.
func (db *DB) UpsertUser(chatID int64, username, firstName, lastName, language string) (*models.User, error) {
	user, err := scanUser(db.QueryRow(`
		INSERT INTO users (chat_id, username, first_name, last_name, language)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chat_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING `+userColumns,
		chatID, username, firstName, lastName, language,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user and fails with ErrConflict when the chat_id
// is already registered.
func (db *DB) CreateUser(chatID int64, username, firstName, lastName, language string) (*models.User, error) {
	user, err := scanUser(db.QueryRow(`
		INSERT INTO users (chat_id, username, first_name, last_name, language)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		chatID, username, firstName, lastName, language,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("user %d: %w", chatID, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (db *DB) GetUserByChatID(chatID int64) (*models.User, error) {
	user, err := scanUser(db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE chat_id = $1
	`, chatID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by chat id: %w", err)
	}
	return user, nil
}

func (db *DB) GetUserByID(id int64) (*models.User, error) {
	user, err := scanUser(db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// UpdateUser applies a partial update keyed by chat_id. Returns nil when the
// user does not exist.
func (db *DB) UpdateUser(chatID int64, patch models.UserPatch) (*models.User, error) {
	return db.updateUser("chat_id", chatID, patch)
}

// UpdateUserByID applies a partial update keyed by internal user id.
func (db *DB) UpdateUserByID(id int64, patch models.UserPatch) (*models.User, error) {
	return db.updateUser("id", id, patch)
}

func (db *DB) updateUser(keyColumn string, key int64, patch models.UserPatch) (*models.User, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{key}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.IsBanned != nil {
		add("is_banned", *patch.IsBanned)
	}
	if patch.Language != nil {
		add("language", *patch.Language)
	}

	user, err := scanUser(db.QueryRow(
		`UPDATE users SET `+strings.Join(sets, ", ")+
			` WHERE `+keyColumn+` = $1 RETURNING `+userColumns,
		args...,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SearchUsersByUsername finds users whose username contains the query,
// case-insensitively.
func (db *DB) SearchUsersByUsername(query string, limit int) ([]models.User, error) {
	rows, err := db.Query(`
		SELECT `+userColumns+` FROM users
		WHERE username ILIKE '%' || $1 || '%'
		ORDER BY id
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// ListActiveChatIDs returns the chat ids of every non-banned user, for
// broadcast fan-out.
func (db *DB) ListActiveChatIDs() ([]int64, error) {
	rows, err := db.Query(`SELECT chat_id FROM users WHERE NOT is_banned ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active chat ids: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan chat id: %w", err)
		}
		chatIDs = append(chatIDs, chatID)
	}
	return chatIDs, rows.Err()
}

// Ticket operations

func (db *DB) CreateTicket(userID int64, message string) (*models.Ticket, error) {
	ticket, err := scanTicket(db.QueryRow(`
		INSERT INTO tickets (user_id, message, status)
		VALUES ($1, $2, $3)
		RETURNING `+ticketColumns,
		userID, message, models.TicketOpen,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return ticket, nil
}

func (db *DB) GetTicket(id int64) (*models.Ticket, error) {
	ticket, err := scanTicket(db.QueryRow(`
		SELECT `+ticketColumns+` FROM tickets WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// ListUserTickets returns a user's tickets newest-first, optionally filtered
// by status.
func (db *DB) ListUserTickets(userID int64, status *models.TicketStatus) ([]models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tickets: %w", err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

// ListOpenTickets returns open tickets oldest-first for FIFO triage.
func (db *DB) ListOpenTickets() ([]models.Ticket, error) {
	rows, err := db.Query(`
		SELECT `+ticketColumns+` FROM tickets
		WHERE status = $1
		ORDER BY created_at, id
	`, models.TicketOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list open tickets: %w", err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

func collectTickets(rows *sql.Rows) ([]models.Ticket, error) {
	var tickets []models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

// UpdateTicket applies a partial update. Returns nil when the ticket does not
// exist.
func (db *DB) UpdateTicket(id int64, patch models.TicketPatch) (*models.Ticket, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.AdminID != nil {
		add("admin_id", *patch.AdminID)
	}
	if patch.Response != nil {
		add("response", *patch.Response)
	}

	ticket, err := scanTicket(db.QueryRow(
		`UPDATE tickets SET `+strings.Join(sets, ", ")+
			` WHERE id = $1 RETURNING `+ticketColumns,
		args...,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return ticket, nil
}

// Admin log operations

func (db *DB) LogAdminAction(adminID int64, action models.AdminAction, targetUserID int64, details string) (*models.AdminLog, error) {
	var entry models.AdminLog
	err := db.QueryRow(`
		INSERT INTO admin_logs (admin_id, action, target_user_id, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, admin_id, action, target_user_id, details, created_at
	`, adminID, action, targetUserID, details).Scan(
		&entry.ID, &entry.AdminID, &entry.Action,
		&entry.TargetUserID, &entry.Details, &entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to log admin action: %w", err)
	}
	return &entry, nil
}

// GetAdminLogs returns audit entries newest-first, optionally filtered by
// acting admin.
func (db *DB) GetAdminLogs(adminID *int64, limit int) ([]models.AdminLog, error) {
	query := `SELECT id, admin_id, action, target_user_id, details, created_at FROM admin_logs`
	args := []any{}
	if adminID != nil {
		query += ` WHERE admin_id = $1`
		args = append(args, *adminID)
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AdminLog
	for rows.Next() {
		var entry models.AdminLog
		err := rows.Scan(
			&entry.ID, &entry.AdminID, &entry.Action,
			&entry.TargetUserID, &entry.Details, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin log: %w", err)
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// Stats

// SystemStats reads all four counters inside one transaction so the numbers
// form a consistent snapshot.
func (db *DB) SystemStats() (*models.SystemStats, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer tx.Rollback()

	var stats models.SystemStats
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM users WHERE is_banned`, &stats.BannedUsers},
		{`SELECT COUNT(*) FROM tickets`, &stats.TotalTickets},
		{`SELECT COUNT(*) FROM tickets WHERE status = 'open'`, &stats.OpenTickets},
	}
	for _, c := range counts {
		if err := tx.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stats transaction: %w", err)
	}
	return &stats, nil
}
