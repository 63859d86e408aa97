package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultStateTTL = 10 * time.Minute
	stateKeyPrefix  = "liftbook-oauth-state||"
)

// OAuthState is remembered between /authorize and the provider callback.
type OAuthState struct {
	RedirectURI string `json:"redirectUri"`
	Platform    string `json:"platform"`
}

type StateStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewStateStore(redisClient *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (s *StateStore) Save(ctx context.Context, state string, oauthState OAuthState) error {
	stateBytes, err := json.Marshal(oauthState)
	if err != nil {
		return fmt.Errorf("marshal oauth state: %w", err)
	}
	if err := s.redisClient.Set(ctx, stateKeyPrefix+state, stateBytes, s.ttl).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume returns the stored state and removes it in one GETDEL, so a state
// can be used once even by concurrent callbacks.
func (s *StateStore) Consume(ctx context.Context, state string) (*OAuthState, error) {
	stateJSON, err := s.redisClient.GetDel(ctx, stateKeyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("consume oauth state: %w", err)
	}

	oauthState := &OAuthState{}
	if err := json.Unmarshal([]byte(stateJSON), oauthState); err != nil {
		return nil, fmt.Errorf("unmarshal oauth state: %w", err)
	}
	return oauthState, nil
}
