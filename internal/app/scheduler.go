package app

import (
	"context"
	"time"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
)

// startFeedPoller reruns the feed pipeline on a fixed interval. Already
// processed articles are skipped by the batch existence check, so each
// tick only pays for genuinely new items.
func startFeedPoller(ctx context.Context, pipelineService interfaces.PipelineService, feedURL string, interval time.Duration, logger *common.Logger) {
	logger.Info().Str("feed", feedURL).Dur("interval", interval).Msg("Feed poller: started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Feed poller: stopped")
			return
		case <-ticker.C:
			pollFeed(ctx, pipelineService, feedURL, logger)
		}
	}
}

func pollFeed(ctx context.Context, pipelineService interfaces.PipelineService, feedURL string, logger *common.Logger) {
	start := time.Now()

	summary, err := pipelineService.ProcessFeed(ctx, feedURL)
	if err != nil {
		logger.Warn().Err(err).Msg("Feed poller: run failed")
		return
	}

	logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("Feed poller: run complete")
}
