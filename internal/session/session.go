// Package session tracks per-admin pending actions: an in-flight operation
// waiting for one more input (a confirmation tap or a free-text message).
// State lives only in process memory and is lost on restart, which is fine --
// a stale pending action costs at most one misrouted message.
package session

import "sync"

type Kind string

const (
	// KindBanConfirm waits for a confirm/cancel tap before banning a user.
	KindBanConfirm Kind = "ban_confirm"
	// KindReply waits for the admin's next text message as the reply body.
	KindReply Kind = "reply"
	// KindUserSearch waits for the admin's next text message as a search query.
	KindUserSearch Kind = "user_search"
)

type PendingAction struct {
	Kind     Kind
	UserID   int64
	TicketID int64
}

const shardCount = 16

type shard struct {
	mu      sync.Mutex
	actions map[int64]PendingAction
}

// Store maps admin id to at most one pending action. Keys are spread over
// fixed shards so concurrent updates for different admins do not contend on
// a single lock. Within one admin, last writer wins.
type Store struct {
	shards [shardCount]shard
}

func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i].actions = make(map[int64]PendingAction)
	}
	return s
}

func (s *Store) shardFor(adminID int64) *shard {
	return &s.shards[uint64(adminID)%shardCount]
}

func (s *Store) Set(adminID int64, action PendingAction) {
	sh := s.shardFor(adminID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.actions[adminID] = action
}

func (s *Store) Get(adminID int64) (PendingAction, bool) {
	sh := s.shardFor(adminID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	action, ok := sh.actions[adminID]
	return action, ok
}

// Take returns the pending action and removes it in one step, so the action
// is consumed exactly once.
func (s *Store) Take(adminID int64) (PendingAction, bool) {
	sh := s.shardFor(adminID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	action, ok := sh.actions[adminID]
	if ok {
		delete(sh.actions, adminID)
	}
	return action, ok
}

func (s *Store) Clear(adminID int64) {
	sh := s.shardFor(adminID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.actions, adminID)
}
