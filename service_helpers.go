package accesskit

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"
)

// ============================================================================
// RETRY HELPERS
// ============================================================================

// AttachRoleWithRetry attaches a role to a user with automatic retry for
// transient errors (connection loss, deadlocks). Validation and duplicate
// errors are returned immediately.
func (s *Service) AttachRoleWithRetry(ctx context.Context, userID string, role any) error {
	return s.withRetry(ctx, 3, func() error {
		return s.AttachRole(ctx, userID, role)
	})
}

// AttachRolesWithRetry replaces a user's role set with automatic retry for
// transient errors.
func (s *Service) AttachRolesWithRetry(ctx context.Context, userID string, roles []any) error {
	return s.withRetry(ctx, 3, func() error {
		return s.AttachRoles(ctx, userID, roles)
	})
}

// withRetry runs op up to maxAttempts times with exponential backoff and
// jitter, stopping early on non-transient errors.
func (s *Service) withRetry(ctx context.Context, maxAttempts int, op func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isTransientError(err) {
			return err
		}
		if attempt == maxAttempts-1 {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		jitter := time.Duration(float64(backoff) * 0.1 * (0.5 + rand.Float64()))
		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

// IsTransactionHealthy checks if transaction performance is within acceptable
// thresholds.
func (s *Service) IsTransactionHealthy() bool {
	metrics := s.txMonitor.getMetrics()

	// Too few samples to judge
	if metrics.TotalTransactions < 10 {
		return true
	}

	failureRate := float64(metrics.FailedTransactions) / float64(metrics.TotalTransactions)
	if failureRate > 0.05 {
		return false
	}

	if metrics.AverageDuration > time.Second {
		return false
	}

	return true
}

// isTransientError checks if an error is transient and can be retried.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	transientErrors := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"timeout",
		"deadlock",
		"temporary failure",
		"try again",
		"resource temporarily unavailable",
	}
	for _, fragment := range transientErrors {
		if strings.Contains(errStr, fragment) {
			return true
		}
	}

	return false
}
