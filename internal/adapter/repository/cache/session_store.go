package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "session:revoked:"

// SessionStore records server-side sign-outs. A token issued before the
// second of a viewer's revocation is no longer accepted. JWT iat carries whole
// seconds, so tokens issued within the revocation second stay valid; that is
// what lets a viewer sign straight back in.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewSessionStore keeps revocation marks for sessionTTL, after which every
// token issued before the mark has expired anyway.
func NewSessionStore(client *redis.Client, sessionTTL time.Duration, log *logger.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    sessionTTL,
		logger: log.Named("session_store"),
		now:    time.Now,
	}
}

func (s *SessionStore) Revoke(ctx context.Context, viewer domain.Viewer) error {
	if viewer.IsAnonymous() {
		return nil
	}
	at := s.now().UnixMilli()
	if err := s.client.Set(ctx, revokedKeyPrefix+viewer.ID, at, s.ttl).Err(); err != nil {
		return fmt.Errorf("SessionStore.Revoke: %w", err)
	}
	s.logger.Info("session revoked", zap.String("user_id", viewer.ID), zap.Int64("revoked_at_ms", at))
	return nil
}

// IsRevoked reports whether a token issued at issuedAt predates the viewer's
// last sign-out. A zero issuedAt is never revoked.
func (s *SessionStore) IsRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	if issuedAt.IsZero() {
		return false, nil
	}
	raw, err := s.client.Get(ctx, revokedKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("SessionStore.IsRevoked: %w", err)
	}
	revokedAtMs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("SessionStore.IsRevoked: bad mark %q: %w", raw, err)
	}
	return issuedBefore(issuedAt, revokedAtMs), nil
}

func issuedBefore(issuedAt time.Time, revokedAtMs int64) bool {
	revokedAt := time.UnixMilli(revokedAtMs).Truncate(time.Second)
	return issuedAt.Before(revokedAt)
}
