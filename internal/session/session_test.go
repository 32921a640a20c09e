package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetClear(t *testing.T) {
	store := NewStore()

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Set(1, PendingAction{Kind: KindReply, TicketID: 42})

	action, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, KindReply, action.Kind)
	assert.Equal(t, int64(42), action.TicketID)

	store.Clear(1)
	_, ok = store.Get(1)
	assert.False(t, ok)
}

func TestLastWriterWins(t *testing.T) {
	store := NewStore()

	store.Set(1, PendingAction{Kind: KindReply, TicketID: 1})
	store.Set(1, PendingAction{Kind: KindBanConfirm, UserID: 9, TicketID: 2})

	action, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, KindBanConfirm, action.Kind)
	assert.Equal(t, int64(2), action.TicketID)
}

func TestTakeConsumes(t *testing.T) {
	store := NewStore()
	store.Set(7, PendingAction{Kind: KindUserSearch})

	action, ok := store.Take(7)
	require.True(t, ok)
	assert.Equal(t, KindUserSearch, action.Kind)

	_, ok = store.Take(7)
	assert.False(t, ok)
}

func TestAdminsAreIndependent(t *testing.T) {
	store := NewStore()
	store.Set(1, PendingAction{Kind: KindReply, TicketID: 1})
	store.Set(2, PendingAction{Kind: KindUserSearch})

	store.Clear(1)

	_, ok := store.Get(1)
	assert.False(t, ok)
	action, ok := store.Get(2)
	require.True(t, ok)
	assert.Equal(t, KindUserSearch, action.Kind)
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		adminID := int64(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Set(adminID, PendingAction{Kind: KindReply, TicketID: int64(j)})
				store.Get(adminID)
				store.Take(adminID)
			}
		}()
	}
	wg.Wait()

	for i := int64(0); i < 64; i++ {
		_, ok := store.Get(i)
		assert.False(t, ok)
	}
}
