package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"vidtube/internal/queue"
)

type TaskQueue interface {
	Enqueue(ctx context.Context, task queue.Task) error
}

type Scheduler struct {
	cron          *cron.Cron
	queue         TaskQueue
	sweepSchedule string
	log           zerolog.Logger
}

func NewScheduler(tasks TaskQueue, sweepSchedule string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:          c,
		queue:         tasks,
		sweepSchedule: sweepSchedule,
		log:           log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.sweepSchedule, s.enqueueStagingSweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) enqueueStagingSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.queue.Enqueue(ctx, queue.Task{Type: queue.TaskStagingSweep}); err != nil {
		s.log.Error().Err(err).Msg("enqueue staging sweep failed")
	}
}
