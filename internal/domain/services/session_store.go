package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
)

// ErrSessionNotFound is returned by a store for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind a sign-in token
type Session struct {
	ID        string      `json:"id"`
	UserID    uint        `json:"user_id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	IssuedAt  time.Time   `json:"issued_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// InterfaceSessionStore keeps sessions until they expire or are revoked
type InterfaceSessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID uint) error
}

const sessionKeyPrefix = "session:"

func sessionKey(id string) string { return sessionKeyPrefix + id }

func userSessionsKey(userID uint) string {
	return "user_sessions:" + itoa(userID)
}

// RedisSessionStore stores sessions as JSON values with a TTL
type RedisSessionStore struct {
	Client *redis.Client
}

// NewRedisSessionStore connects to the Redis server named in cfg
func NewRedisSessionStore(cfg *config.Config) *RedisSessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &RedisSessionStore{Client: client}
}

// 1 Save writes the session with a TTL matching its expiry
func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionNotFound
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// 2 Get loads a session by id
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.Client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// 3 Delete revokes one session
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, sessionKey(id)).Err()
}

// 4 DeleteByUser revokes every session of a user
func (s *RedisSessionStore) DeleteByUser(ctx context.Context, userID uint) error {
	ids, err := s.Client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(userID))
	return s.Client.Del(ctx, keys...).Err()
}

// Ping checks the connection
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// MemorySessionStore keeps sessions in process; used when no Redis host is
// configured and in tests
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemorySessionStore returns an empty store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session), now: time.Now}
}

func (s *MemorySessionStore) Save(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) DeleteByUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// NewSessionStore picks Redis when a host is configured, memory otherwise
func NewSessionStore(cfg *config.Config) InterfaceSessionStore {
	if cfg.RedisHost == "" {
		return NewMemorySessionStore()
	}
	return NewRedisSessionStore(cfg)
}
