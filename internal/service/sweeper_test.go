package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Holiuk2005/lotex/internal/domain"
)

type fakeFinalizer struct {
	expired   []domain.Lottery
	listErr   error
	failIDs   map[string]error
	finalized []string
}

func (f *fakeFinalizer) FindExpired(_ context.Context, _ time.Time, limit int) ([]domain.Lottery, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.expired) > limit {
		return f.expired[:limit], nil
	}

	return f.expired, nil
}

func (f *fakeFinalizer) FinalizeExpired(_ context.Context, lotteryID string) error {
	if err, ok := f.failIDs[lotteryID]; ok {
		return err
	}
	f.finalized = append(f.finalized, lotteryID)

	return nil
}

func TestSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("finalizes every expired lottery in the batch", func(t *testing.T) {
		finalizer := &fakeFinalizer{
			expired: []domain.Lottery{{ID: "l1"}, {ID: "l2"}, {ID: "l3"}},
		}
		sweeper := NewSweeper(finalizer, time.Minute, 10)

		sweeper.SweepOnce(ctx)

		require.Equal(t, []string{"l1", "l2", "l3"}, finalizer.finalized)
	})

	t.Run("one failing lottery does not stop the batch", func(t *testing.T) {
		finalizer := &fakeFinalizer{
			expired: []domain.Lottery{{ID: "l1"}, {ID: "l2"}, {ID: "l3"}},
			failIDs: map[string]error{"l2": errors.New("boom")},
		}
		sweeper := NewSweeper(finalizer, time.Minute, 10)

		sweeper.SweepOnce(ctx)

		require.Equal(t, []string{"l1", "l3"}, finalizer.finalized)
	})

	t.Run("respects the batch size", func(t *testing.T) {
		finalizer := &fakeFinalizer{
			expired: []domain.Lottery{{ID: "l1"}, {ID: "l2"}, {ID: "l3"}},
		}
		sweeper := NewSweeper(finalizer, time.Minute, 2)

		sweeper.SweepOnce(ctx)

		require.Equal(t, []string{"l1", "l2"}, finalizer.finalized)
	})

	t.Run("listing failure skips the tick", func(t *testing.T) {
		finalizer := &fakeFinalizer{listErr: errors.New("db down")}
		sweeper := NewSweeper(finalizer, time.Minute, 10)

		sweeper.SweepOnce(ctx)

		require.Empty(t, finalizer.finalized)
	})

	t.Run("repeated sweeps are idempotent against a resolved set", func(t *testing.T) {
		finalizer := &fakeFinalizer{
			expired: []domain.Lottery{{ID: "l1"}},
		}
		sweeper := NewSweeper(finalizer, time.Minute, 10)

		sweeper.SweepOnce(ctx)
		finalizer.expired = nil // l1 now resolved, no longer listed
		sweeper.SweepOnce(ctx)

		require.Equal(t, []string{"l1"}, finalizer.finalized)
	})
}

func TestNewSweeper_Defaults(t *testing.T) {
	sweeper := NewSweeper(&fakeFinalizer{}, 0, 0)

	require.Equal(t, time.Minute, sweeper.interval)
	require.Equal(t, 10, sweeper.batchSize)
}
