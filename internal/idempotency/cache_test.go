package idempotency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

func newTestCache(t *testing.T) *Cache[string] {
	t.Helper()
	c, err := New[string](64)
	require.NoError(t, err)
	return c
}

func TestExecute_RunsOperationOnce(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		return "response", nil
	}

	first, err := c.Execute(ctx, "key-1", "fp", op)
	require.NoError(t, err)
	assert.Equal(t, "response", first)

	second, err := c.Execute(ctx, "key-1", "fp", op)
	require.NoError(t, err)
	assert.Equal(t, "response", second)
	assert.Equal(t, 1, calls, "repeat call must not re-execute")
}

func TestExecute_ConflictOnFingerprintMismatch(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		return "response", nil
	}

	_, err := c.Execute(ctx, "key-1", "fp-a", op)
	require.NoError(t, err)

	_, err = c.Execute(ctx, "key-1", "fp-b", op)
	assert.ErrorIs(t, err, domain.ErrIdempotencyConflict)
	assert.Equal(t, 1, calls, "conflicting call must not execute")
}

func TestExecute_FailedOperationIsRetryable(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	failing := errors.New("storage down")
	op := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", failing
		}
		return "recovered", nil
	}

	_, err := c.Execute(ctx, "key-1", "fp", op)
	assert.ErrorIs(t, err, failing)

	got, err := c.Execute(ctx, "key-1", "fp", op)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, 2, calls)
}

func TestExecute_ConcurrentIdenticalRequestsExecuteOnce(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var calls int64
	op := func(ctx context.Context) (string, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return "response", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Execute(ctx, "key-1", "fp", op)
			assert.NoError(t, err)
			assert.Equal(t, "response", got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestFingerprint_SensitiveToFieldsAndOrder(t *testing.T) {
	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
	assert.NotEqual(t, Fingerprint("a", "b"), Fingerprint("b", "a"))
	assert.NotEqual(t, Fingerprint("ab"), Fingerprint("a", "b"))
}
