package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"support-bot/internal/messaging"
	"support-bot/internal/models"
)

var errStorage = errors.New("storage failure")

type fakeRepo struct {
	users   map[int64]*models.User
	tickets map[int64]*models.Ticket
	logs    []models.AdminLog

	nextTicketID int64
	nextLogID    int64

	userWrites   int
	ticketWrites int

	failGetTicket    bool
	failUpdateTicket bool

	activeChatIDs []int64
	stats         models.SystemStats
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:   make(map[int64]*models.User),
		tickets: make(map[int64]*models.Ticket),
	}
}

func (f *fakeRepo) addUser(id, chatID int64, banned bool) *models.User {
	user := &models.User{
		ID:        id,
		ChatID:    chatID,
		FirstName: "user",
		IsBanned:  banned,
		Language:  "ru",
		CreatedAt: time.Now(),
	}
	f.users[id] = user
	return user
}

func (f *fakeRepo) addTicket(userID int64, status models.TicketStatus) *models.Ticket {
	f.nextTicketID++
	ticket := &models.Ticket{
		ID:        f.nextTicketID,
		UserID:    userID,
		Message:   "message",
		Status:    status,
		CreatedAt: time.Now(),
	}
	f.tickets[ticket.ID] = ticket
	return ticket
}

func (f *fakeRepo) GetUserByID(id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeRepo) GetUserByChatID(chatID int64) (*models.User, error) {
	for _, user := range f.users {
		if user.ChatID == chatID {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateUserByID(id int64, patch models.UserPatch) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	f.userWrites++
	if patch.IsBanned != nil {
		user.IsBanned = *patch.IsBanned
	}
	if patch.Language != nil {
		user.Language = *patch.Language
	}
	return user, nil
}

func (f *fakeRepo) ListActiveChatIDs() ([]int64, error) {
	return f.activeChatIDs, nil
}

func (f *fakeRepo) CreateTicket(userID int64, message string) (*models.Ticket, error) {
	ticket := f.addTicket(userID, models.TicketOpen)
	ticket.Message = message
	f.ticketWrites++
	return ticket, nil
}

func (f *fakeRepo) GetTicket(id int64) (*models.Ticket, error) {
	if f.failGetTicket {
		return nil, errStorage
	}
	return f.tickets[id], nil
}

func (f *fakeRepo) ListUserTickets(userID int64, status *models.TicketStatus) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, ticket := range f.tickets {
		if ticket.UserID != userID {
			continue
		}
		if status != nil && ticket.Status != *status {
			continue
		}
		out = append(out, *ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListOpenTickets() ([]models.Ticket, error) {
	var out []models.Ticket
	for _, ticket := range f.tickets {
		if ticket.Status == models.TicketOpen {
			out = append(out, *ticket)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) UpdateTicket(id int64, patch models.TicketPatch) (*models.Ticket, error) {
	if f.failUpdateTicket {
		return nil, errStorage
	}
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	f.ticketWrites++
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.AdminID != nil {
		ticket.AdminID = patch.AdminID
	}
	if patch.Response != nil {
		ticket.Response = patch.Response
	}
	return ticket, nil
}

func (f *fakeRepo) LogAdminAction(adminID int64, action models.AdminAction, targetUserID int64, details string) (*models.AdminLog, error) {
	f.nextLogID++
	entry := models.AdminLog{
		ID:           f.nextLogID,
		AdminID:      adminID,
		Action:       action,
		TargetUserID: targetUserID,
		Details:      details,
		CreatedAt:    time.Now(),
	}
	f.logs = append(f.logs, entry)
	return &entry, nil
}

func (f *fakeRepo) SystemStats() (*models.SystemStats, error) {
	stats := f.stats
	return &stats, nil
}

func (f *fakeRepo) logsWithAction(action models.AdminAction) []models.AdminLog {
	var out []models.AdminLog
	for _, entry := range f.logs {
		if entry.Action == action {
			out = append(out, entry)
		}
	}
	return out
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	sent       []sentMessage
	newTickets []int64

	sendErr         error
	broadcastResult messaging.BroadcastResult
	broadcastTo     []int64
	broadcastText   string
}

func (f *fakeNotifier) Send(_ context.Context, chatID int64, text string, _ interface{}) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeNotifier) NotifyNewTicket(_ context.Context, ticket *models.Ticket, _ *models.User) int {
	f.newTickets = append(f.newTickets, ticket.ID)
	return 1
}

func (f *fakeNotifier) Broadcast(_ context.Context, text string, recipients []int64) (messaging.BroadcastResult, error) {
	f.broadcastText = text
	f.broadcastTo = recipients
	return f.broadcastResult, nil
}
