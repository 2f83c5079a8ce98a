package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session  Session
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.Mutex
	idle     time.Duration
	sessions map[string]*memoryEntry
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates a store and starts a janitor that drops idle sessions
func NewMemoryStore(idle, cleanupEvery time.Duration) *MemoryStore {
	s := &MemoryStore{
		idle:     idle,
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go s.janitor(cleanupEvery)
	}
	return s
}

func (s *MemoryStore) Create(ctx context.Context, userID string) (*Session, error) {
	sess := newSession(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = &memoryEntry{session: *sess, lastSeen: s.now()}
	return sess, nil
}

func (s *MemoryStore) Touch(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	now := s.now()
	if now.Sub(entry.lastSeen) > s.idle {
		delete(s.sessions, id)
		return nil, ErrNoSession
	}
	entry.lastSeen = now

	sess := entry.session
	return &sess, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close stops the janitor
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) > s.idle {
			delete(s.sessions, id)
		}
	}
}
