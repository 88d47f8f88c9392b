package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chirchiq/estate-bot/internal/flow"
)

const DefaultTTL = 7 * 24 * time.Hour

// RedisStore keeps dialogue states as JSON under "<prefix>:<userID>".
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (s *RedisStore) key(userID int64) string {
	return s.prefix + ":" + strconv.FormatInt(userID, 10)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*flow.DialogueState, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return decode(raw)
}

func (s *RedisStore) Set(ctx context.Context, userID int64, st flow.DialogueState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is the in-process fallback. States are stored encoded so a
// caller never shares drafts with the stored copy.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	nextGC  time.Time
	now     func() time.Time
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[int64]memoryEntry),
		ttl:     ttl,
		nextGC:  time.Now().Add(ttl),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*flow.DialogueState, error) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	s.mu.Unlock()

	if !ok || !e.expires.After(s.now()) {
		return nil, nil
	}
	return decode(e.raw)
}

func (s *MemoryStore) Set(_ context.Context, userID int64, st flow.DialogueState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = memoryEntry{raw: raw, expires: now.Add(s.ttl)}
	if now.After(s.nextGC) {
		for id, e := range s.entries {
			if e.expires.Before(now) {
				delete(s.entries, id)
			}
		}
		s.nextGC = now.Add(s.ttl)
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func decode(raw []byte) (*flow.DialogueState, error) {
	var st flow.DialogueState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &st, nil
}

// Store is a flow.SessionStore that owns a connection.
type Store interface {
	flow.SessionStore
	Close() error
}

// NewStore builds a Redis session store and falls back to memory when addr is
// empty or Redis is unreachable. The fallback is returned together with the
// connection error so the caller can log it.
func NewStore(addr, pass string, db int, ttl time.Duration) (Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if addr == "" {
		return NewMemoryStore(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return NewMemoryStore(ttl), err
	}

	return &RedisStore{
		client: client,
		prefix: "estate:session",
		ttl:    ttl,
	}, nil
}
