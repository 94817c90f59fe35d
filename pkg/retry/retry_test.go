package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/artconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDoReturnsOnFirstSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnTerminalError(t *testing.T) {
	terminal := []error{
		models.ErrNotFound,
		models.ErrUnauthorized,
		models.ErrSelfFollow,
		models.ErrEmptyComment,
		models.ErrStatusConflict,
		fmt.Errorf("%w: post id must be hex", models.ErrInvalidID),
		&models.InvalidTransitionError{
			From:  models.StatusPending,
			To:    models.StatusShipped,
			Actor: models.ActorSeller,
		},
	}
	for _, want := range terminal {
		calls := 0
		err := Do(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return want
		})
		assert.Equal(t, want, err)
		assert.Equal(t, 1, calls, "terminal error %v was retried", want)
	}
}

func TestDoExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	last := errors.New("still down")
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("down")
		}
		return last
	})
	assert.Equal(t, last, err)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, 3, time.Minute, func() error {
		calls++
		return errors.New("down")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancelled context must stop further attempts")
}
