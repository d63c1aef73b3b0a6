package worker

import (
	"context"
	"log/slog"
	"time"

	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/metrics"
	"coupon-engine/internal/usecase/shared"
)

// Sweeper hard-deletes expired coupon instances on a fixed interval.
// Deletion is idempotent, so overlapping runs across replicas are harmless;
// the unique pair constraint means a customer may re-claim a coupon once
// their expired copy is gone.
type Sweeper struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(uow shared.UnitOfWork, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		uow:      uow,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Start sweeps once immediately, then on every tick until Stop.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// SweepOnce runs a single pass and reports how many instances were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		deleted, err = tx.IssuedCoupons().DeleteExpired(ctx, s.clock.Now())
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.CleanupDeletedTotal.Add(float64(deleted))
	return deleted, nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	deleted, err := s.SweepOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("cleanup sweep failed", "error", err.Error())
		return
	}
	if deleted > 0 {
		s.logger.Info("cleanup sweep removed expired coupon instances", "deleted", deleted)
	}
}
