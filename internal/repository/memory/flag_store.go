package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const flagTTL = 24 * time.Hour

// RedisFlagStore is the shared compare-and-set store for monotonic
// session flags. SETNX makes the first writer win, so two replicas can
// never both believe they delivered the resume.
type RedisFlagStore struct {
	client *redis.Client
}

func NewRedisFlagStore(client *redis.Client) *RedisFlagStore {
	return &RedisFlagStore{client: client}
}

func (s *RedisFlagStore) TrySetFlag(ctx context.Context, sessionID, flag string) (bool, error) {
	key := fmt.Sprintf("concierge:flag:%s:%s", sessionID, flag)
	ok, err := s.client.SetNX(ctx, key, "1", flagTTL).Result()
	if err != nil {
		return false, fmt.Errorf("flag store: %w", err)
	}
	return ok, nil
}

// LocalFlagStore is the single-process fallback used when redis is not
// configured. Same first-writer-wins contract, guarded by a mutex.
type LocalFlagStore struct {
	mu    sync.Mutex
	flags map[string]struct{}
}

func NewLocalFlagStore() *LocalFlagStore {
	return &LocalFlagStore{flags: make(map[string]struct{})}
}

func (s *LocalFlagStore) TrySetFlag(ctx context.Context, sessionID, flag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionID + ":" + flag
	if _, exists := s.flags[key]; exists {
		return false, nil
	}
	s.flags[key] = struct{}{}
	return true, nil
}
