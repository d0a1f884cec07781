package recstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/wenhua/meal-advisor/internal/domain/recommend"
)

// ValkeyStore keeps per-session recommendation sets in a Valkey-compatible
// database so sessions survive process restarts.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "rec"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Save implements recommend.SessionStore.
func (s *ValkeyStore) Save(ctx context.Context, set recommend.RecommendationSet, ttl time.Duration) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.sessionKey(set.SessionID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// Get implements recommend.SessionStore.
func (s *ValkeyStore) Get(ctx context.Context, sessionID string) (recommend.RecommendationSet, bool, error) {
	cmd := s.client.B().Get().Key(s.sessionKey(sessionID)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return recommend.RecommendationSet{}, false, nil
		}
		return recommend.RecommendationSet{}, false, err
	}
	var set recommend.RecommendationSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return recommend.RecommendationSet{}, false, err
	}
	return set, true, nil
}

func (s *ValkeyStore) sessionKey(sessionID string) string {
	return s.prefix + ":session:" + sessionID
}

var _ recommend.SessionStore = (*ValkeyStore)(nil)
