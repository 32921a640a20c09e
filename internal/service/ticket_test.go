package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-bot/internal/locale"
	"support-bot/internal/models"
)

func newTicketService(t *testing.T, repo *fakeRepo, notifier *fakeNotifier) *TicketService {
	t.Helper()
	resolver, err := locale.NewResolver(locale.LangRU)
	require.NoError(t, err)
	return NewTicketService(repo, notifier, resolver)
}

func TestSubmitCreatesTicketAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(1, 100, false)
	notifier := &fakeNotifier{}
	svc := newTicketService(t, repo, notifier)

	ticket, err := svc.Submit(context.Background(), user, "my printer is on fire")
	require.NoError(t, err)
	require.NotNil(t, ticket)

	assert.Equal(t, models.TicketOpen, ticket.Status)
	assert.Equal(t, user.ID, ticket.UserID)
	assert.Equal(t, "my printer is on fire", ticket.Message)
	assert.Equal(t, []int64{ticket.ID}, notifier.newTickets)
}

func TestSubmitRejectsBannedUser(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(1, 100, true)
	notifier := &fakeNotifier{}
	svc := newTicketService(t, repo, notifier)

	ticket, err := svc.Submit(context.Background(), user, "let me in")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, ticket)
	assert.Zero(t, repo.ticketWrites)
	assert.Empty(t, notifier.newTickets)
}

func TestListTicketsNewestFirst(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(1, 100, false)
	first := repo.addTicket(user.ID, models.TicketClosed)
	second := repo.addTicket(user.ID, models.TicketOpen)
	repo.addTicket(2, models.TicketOpen) // someone else's
	svc := newTicketService(t, repo, &fakeNotifier{})

	tickets, err := svc.ListTickets(user)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, second.ID, tickets[0].ID)
	assert.Equal(t, first.ID, tickets[1].ID)
}

func TestListTicketsBannedUserDenied(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(1, 100, true)
	repo.addTicket(user.ID, models.TicketOpen)
	svc := newTicketService(t, repo, &fakeNotifier{})

	tickets, err := svc.ListTickets(user)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, tickets)
}

func TestReplyClosesTicketAndDelivers(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(1, 100, false)
	ticket := repo.addTicket(user.ID, models.TicketOpen)
	notifier := &fakeNotifier{}
	svc := newTicketService(t, repo, notifier)

	ok := svc.Reply(context.Background(), ticket.ID, 42, "restart it")
	require.True(t, ok)

	stored := repo.tickets[ticket.ID]
	assert.Equal(t, models.TicketClosed, stored.Status)
	require.NotNil(t, stored.AdminID)
	assert.Equal(t, int64(42), *stored.AdminID)
	require.NotNil(t, stored.Response)
	assert.Equal(t, "restart it", *stored.Response)

	replies := repo.logsWithAction(models.ActionReply)
	require.Len(t, replies, 1)
	assert.Equal(t, int64(42), replies[0].AdminID)
	assert.Equal(t, user.ID, replies[0].TargetUserID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, user.ChatID, notifier.sent[0].chatID)
	assert.Contains(t, notifier.sent[0].text, "restart it")
}

func TestReplyToNonexistentTicket(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTicketService(t, repo, notifier)

	ok := svc.Reply(context.Background(), 999, 42, "hello?")
	assert.False(t, ok)
	assert.Empty(t, repo.logs)
	assert.Empty(t, notifier.sent)
}

func TestReplyToBannedOwnerRefused(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(1, 100, true)
	ticket := repo.addTicket(user.ID, models.TicketOpen)
	svc := newTicketService(t, repo, &fakeNotifier{})

	ok := svc.Reply(context.Background(), ticket.ID, 42, "text")
	assert.False(t, ok)
	assert.Equal(t, models.TicketOpen, repo.tickets[ticket.ID].Status)
	assert.Empty(t, repo.logs)
}

func TestReplySurvivesDeliveryFailure(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(1, 100, false)
	ticket := repo.addTicket(user.ID, models.TicketOpen)
	notifier := &fakeNotifier{sendErr: errors.New("chat unreachable")}
	svc := newTicketService(t, repo, notifier)

	ok := svc.Reply(context.Background(), ticket.ID, 42, "text")
	assert.True(t, ok)
	assert.Equal(t, models.TicketClosed, repo.tickets[ticket.ID].Status)
	assert.Len(t, repo.logsWithAction(models.ActionReply), 1)
}

func TestReplyStorageFailureKeepsTicketOpen(t *testing.T) {
	repo := newFakeRepo()
	user := repo.addUser(1, 100, false)
	ticket := repo.addTicket(user.ID, models.TicketOpen)
	repo.failUpdateTicket = true
	svc := newTicketService(t, repo, &fakeNotifier{})

	ok := svc.Reply(context.Background(), ticket.ID, 42, "text")
	assert.False(t, ok)
	assert.Equal(t, models.TicketOpen, repo.tickets[ticket.ID].Status)
	assert.Empty(t, repo.logs)
}
