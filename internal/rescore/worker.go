package rescore

import (
	"context"
	"fmt"

	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes rescore tasks from the shared Redis queue.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper *Sweeper
	scorer  Scorer
	log     *logger.Logger
}

// WorkerConfig is the queue configuration slice the worker needs.
type WorkerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

func NewWorker(cfg WorkerConfig, sweeper *Sweeper, scorer Scorer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		sweeper: sweeper,
		scorer:  scorer,
		log:     log,
	}

	mux.HandleFunc(TaskSweep, w.handleSweep)
	mux.HandleFunc(TaskLeadScore, w.handleLeadScore)

	return w, nil
}

func (w *Worker) handleSweep(ctx context.Context, task *asynq.Task) error {
	if _, err := ParseSweepPayload(task); err != nil {
		return err
	}

	_, err := w.sweeper.Sweep(ctx)
	return err
}

func (w *Worker) handleLeadScore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadScorePayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	_, err = w.scorer.ScoreLead(ctx, payload.BrandID, leadID)
	return err
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("rescore worker stopped", "error", err)
	}
}
