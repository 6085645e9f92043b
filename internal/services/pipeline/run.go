package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bobmcallan/foresight/internal/models"
)

// runRegistry tracks detached pipeline runs by id.
type runRegistry struct {
	mu   sync.Mutex
	runs map[string]*models.RunHandle
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]*models.RunHandle)}
}

func (r *runRegistry) add(handle *models.RunHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[handle.ID] = handle
}

func (r *runRegistry) get(id string) (*models.RunHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle, ok := r.runs[id]
	return handle, ok
}

// StartRun submits a detached background run over the feed and returns
// its handle immediately. The triggering caller does not block; there
// is no cancellation primitive for an in-flight run.
func (s *Service) StartRun(feedURL string) *models.RunHandle {
	handle := models.NewRunHandle(uuid.NewString(), feedURL)
	s.runs.add(handle)

	s.logger.Info().Str("run_id", handle.ID).Str("feed", feedURL).Msg("Starting background run")

	go func() {
		summary, err := s.ProcessFeed(context.Background(), feedURL)
		handle.Finish(summary, err)
		if err != nil {
			s.logger.Error().Err(err).Str("run_id", handle.ID).Msg("Background run failed")
		} else {
			s.logger.Info().Str("run_id", handle.ID).Msg("Background run completed")
		}
	}()

	return handle
}

// GetRun looks up a previously started run by id.
func (s *Service) GetRun(id string) (*models.RunHandle, bool) {
	return s.runs.get(id)
}
