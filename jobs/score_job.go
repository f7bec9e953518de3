package jobs

import (
	"context"
	"time"

	"comprasmart/pkg/logger"
)

const scoreRecalcInterval = 24 * time.Hour

type ScoreRecalculator interface {
	RecalculateAll(ctx context.Context) (processed, failed int, err error)
}

// RunScoreRecalculation refreshes every consultant score once per day until
// the context is canceled. Started from main in its own goroutine.
func RunScoreRecalculation(ctx context.Context, recalculator ScoreRecalculator) {
	ticker := time.NewTicker(scoreRecalcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("score recalculation job stopped")
			return
		case <-ticker.C:
			processed, failed, err := recalculator.RecalculateAll(ctx)
			if err != nil {
				logger.Error("scheduled score recalculation aborted", err)
				continue
			}
			logger.Info("scheduled score recalculation finished", "processed", processed, "failed", failed)
		}
	}
}
