package recommend

import (
	"context"
	"time"
)

// SessionStore holds the last computed recommendation set per interaction
// session, replacing implicit process-wide state. Implementations live in
// internal/infra/recstore.
type SessionStore interface {
	Save(ctx context.Context, set RecommendationSet, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (RecommendationSet, bool, error)
}
