package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Holiuk2005/lotex/internal/domain"
)

// LotteryFinalizer resolves one expired lottery. Implemented by
// LotteryService.
type LotteryFinalizer interface {
	FindExpired(ctx context.Context, now time.Time, limit int) ([]domain.Lottery, error)
	FinalizeExpired(ctx context.Context, lotteryID string) error
}

// Sweeper periodically finalizes active lotteries whose end time has
// passed, without any user action.
type Sweeper struct {
	lotteries LotteryFinalizer
	interval  time.Duration
	batchSize int

	now func() time.Time
}

func NewSweeper(lotteries LotteryFinalizer, interval time.Duration, batchSize int) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 10
	}

	return &Sweeper{
		lotteries: lotteries,
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	zap.L().Info("sweeper: started",
		zap.Duration("interval", s.interval),
		zap.Int("batch_size", s.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("sweeper: stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce finalizes one batch of expired lotteries. Each lottery is
// resolved in its own transaction; a failure on one never aborts the rest
// of the batch.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	expired, err := s.lotteries.FindExpired(ctx, s.now(), s.batchSize)
	if err != nil {
		zap.L().Error("sweeper: failed to list expired lotteries", zap.Error(err))
		return
	}

	for _, lottery := range expired {
		if err := s.lotteries.FinalizeExpired(ctx, lottery.ID); err != nil {
			zap.L().Error("sweeper: failed to finalize lottery",
				zap.String("lottery_id", lottery.ID),
				zap.Error(err),
			)
			continue
		}

		zap.L().Info("sweeper: lottery finalized", zap.String("lottery_id", lottery.ID))
	}
}
