package repository

import (
	"sync"
	"time"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/memory"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// SessionRepository holds live conversations keyed by session id
type SessionRepository interface {
	GetOrCreate(id string) *Session
	Get(id string) (*Session, error)
	History(id string) []entity.Turn
	Clear(id string)
	Count() int
}

var _ SessionRepository = &SessionCache{}

// SessionCache implements SessionRepository in memory. Sessions idle for
// longer than the configured TTL are evicted.
type SessionCache struct {
	mu        sync.Mutex
	items     *cache.Cache
	ttl       time.Duration
	creating  singleflight.Group
	client    GenerationClient
	maxTokens int
	now       func() time.Time
}

func NewSessionCache(ttl, cleanupInterval time.Duration, client GenerationClient, maxTokens int) *SessionCache {
	return &SessionCache{
		items:     newCache(ttl, cleanupInterval),
		ttl:       ttl,
		client:    client,
		maxTokens: maxTokens,
		now:       time.Now,
	}
}

// GetOrCreate returns the session for id, constructing it on first use.
// Concurrent first calls for the same id share a single construction.
func (r *SessionCache) GetOrCreate(id string) *Session {
	if s, ok := r.lookup(id); ok {
		return s
	}

	v, _, _ := r.creating.Do(id, func() (any, error) {
		if s, ok := r.lookup(id); ok {
			return s, nil
		}

		s := &Session{
			ID:        id,
			Memory:    memory.New(r.maxTokens),
			Client:    r.client,
			CreatedAt: r.now(),
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.items.Add(id, s, cache.DefaultExpiration); err != nil {
			if existing, found := r.items.Get(id); found {
				return existing.(*Session), nil
			}
			r.items.Set(id, s, cache.DefaultExpiration)
		}
		return s, nil
	})

	return v.(*Session)
}

func (r *SessionCache) Get(id string) (*Session, error) {
	s, ok := r.lookup(id)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return s, nil
}

// History returns a copy of the session's turns; empty for unknown ids
func (r *SessionCache) History(id string) []entity.Turn {
	s, ok := r.lookup(id)
	if !ok {
		return []entity.Turn{}
	}
	return s.Memory.Turns()
}

// Clear discards the session; unknown ids are ignored
func (r *SessionCache) Clear(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items.Delete(id)
}

func (r *SessionCache) Count() int {
	return len(r.items.Items())
}

func (r *SessionCache) lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, found := r.items.Get(id)
	if !found {
		return nil, false
	}
	if r.ttl > 0 {
		_ = r.items.Replace(id, v, cache.DefaultExpiration)
	}
	return v.(*Session), true
}
