package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

const stateTTL = 10 * time.Minute

// StateStore remembers OAuth state values between the redirect and the callback.
// A state can be consumed once.
type StateStore interface {
	Save(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}

type RedisStateStore struct {
	rdb *redis.Client
}

func NewRedisStateStore(rdb *redis.Client) *RedisStateStore {
	return &RedisStateStore{rdb: rdb}
}

func (s *RedisStateStore) Save(ctx context.Context, state string) error {
	ok, err := s.rdb.SetNX(ctx, "oauth_state:"+state, "1", stateTTL).Result()
	if err != nil {
		return errors.Wrap(err, "save oauth state")
	}
	if !ok {
		return errors.New("oauth state already exists")
	}
	return nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	_, err := s.rdb.GetDel(ctx, "oauth_state:"+state).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "consume oauth state")
	}
	return true, nil
}

// MemoryStateStore is used when no Redis is configured. States do not survive
// a restart and are not shared between instances.
type MemoryStateStore struct {
	mu     sync.Mutex
	clock  utils.Clock
	states map[string]time.Time
}

func NewMemoryStateStore(clock utils.Clock) *MemoryStateStore {
	return &MemoryStateStore{clock: clock, states: make(map[string]time.Time)}
}

func (s *MemoryStateStore) Save(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.NowUtc()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(stateTTL)
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	return !s.clock.NowUtc().After(exp), nil
}
