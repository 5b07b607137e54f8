// Package retry chạy lại operation idempotent với exponential backoff.
// Chỉ dùng cho reads; writes không bao giờ được auto-retry.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy cấu hình số lần thử và backoff
type Policy struct {
	MaxAttempts int           // Tổng số lần thử (kể cả lần đầu)
	BaseDelay   time.Duration // Delay trước lần retry đầu tiên
	MaxDelay    time.Duration // Trần cho mỗi delay
}

// DefaultReadPolicy dùng cho list/get của landing page
var DefaultReadPolicy = Policy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

// permanentError đánh dấu lỗi không nên retry
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent bọc err để Do dừng ngay (VD: NotFound, Validation)
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Delay trả về backoff trước lần thử thứ attempt+1.
// Formula: base * 2^(attempt-1), giới hạn bởi MaxDelay
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do gọi fn tối đa MaxAttempts lần. Dừng khi fn thành công, trả về Permanent error
// hoặc ctx bị cancel.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, errors.Join(ctx.Err(), lastErr))
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

// DoValue giống Do nhưng trả về kết quả của fn
func DoValue[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
