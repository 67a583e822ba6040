package services

import (
	"context"
	"database/sql"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/server/config"
	"github.com/tenauth/tenauth/internal/server/models"
	"github.com/tenauth/tenauth/internal/server/repositories/repomanager"
)

// lockoutStripes bounds the number of key mutexes; two distinct keys may
// share a stripe, which only costs contention, never correctness.
const lockoutStripes = 64

// LockoutService tracks consecutive failed verifications per
// (tenant, user) key and enforces a timed lock window.
//
// State transitions per key: Unlocked(failureCount) -> Locked(until) when
// the count reaches the configured threshold; Locked expires lazily on the
// next check, there is no background sweeping. Updates for the same key are
// serialized through striped mutexes so interleaved attempts cannot
// under-count failures.
type LockoutService struct {
	db          *sql.DB
	repos       repomanager.RepositoryManager
	maxAttempts int
	duration    time.Duration
	now         func() time.Time

	stripes [lockoutStripes]sync.Mutex
}

func NewLockoutService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *LockoutService {
	return &LockoutService{
		db:          db,
		repos:       m,
		maxAttempts: cfg.MaxLoginAttempts,
		duration:    cfg.LockoutDuration,
		now:         time.Now,
	}
}

func (s *LockoutService) stripe(tenantKey, userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(tenantKey))
	h.Write([]byte{0})
	h.Write([]byte(userID))
	return &s.stripes[h.Sum32()%lockoutStripes]
}

// CheckAllowed reports whether a verification attempt for the key may
// proceed. While a lock window is active it returns false with the
// remaining duration. A lock whose window has passed is cleared here, so
// the following attempt is evaluated on its own merits.
func (s *LockoutService) CheckAllowed(ctx context.Context, tenantKey, userID string) (bool, time.Duration, error) {
	mu := s.stripe(tenantKey, userID)
	mu.Lock()
	defer mu.Unlock()

	repo := s.repos.LoginAttempts(s.db)
	attempt, err := repo.Get(ctx, tenantKey, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return true, 0, nil
		}
		return false, 0, err
	}

	if attempt.LockedUntil == nil {
		return true, 0, nil
	}

	now := s.now()
	if now.Before(*attempt.LockedUntil) {
		return false, attempt.LockedUntil.Sub(now), nil
	}

	// Lazy expiry: the window has passed, reset before the next evaluation.
	if err := repo.Delete(ctx, tenantKey, userID); err != nil {
		return false, 0, err
	}
	return true, 0, nil
}

// RecordFailure advances the failure count for the key. While a lock window
// is active the call is a no-op. Reaching the threshold transitions the key
// to Locked(now + lockout duration), measured from the failure that crossed
// the threshold.
func (s *LockoutService) RecordFailure(ctx context.Context, tenantKey, userID string) error {
	mu := s.stripe(tenantKey, userID)
	mu.Lock()
	defer mu.Unlock()

	repo := s.repos.LoginAttempts(s.db)

	count := 0
	attempt, err := repo.Get(ctx, tenantKey, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	now := s.now()
	if attempt != nil {
		if attempt.LockedUntil != nil {
			if now.Before(*attempt.LockedUntil) {
				return nil
			}
			// expired lock: the count restarts
		} else {
			count = attempt.FailureCount
		}
	}

	count++

	next := &models.LoginAttempt{TenantKey: tenantKey, UserID: userID, FailureCount: count}
	if count >= s.maxAttempts {
		until := now.Add(s.duration)
		next.LockedUntil = &until
	}

	return repo.Upsert(ctx, next)
}

// RecordSuccess clears all failure state for the key. A successful
// verification always resets prior failures, even partial ones below the
// threshold.
func (s *LockoutService) RecordSuccess(ctx context.Context, tenantKey, userID string) error {
	mu := s.stripe(tenantKey, userID)
	mu.Lock()
	defer mu.Unlock()

	return s.repos.LoginAttempts(s.db).Delete(ctx, tenantKey, userID)
}
