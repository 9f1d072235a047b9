package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reportTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bizeyes_report_tasks_total",
	Help: "Report tasks handled by the Redis worker, by result.",
}, []string{"result"})

var errNoProcessor = errors.New("no report processor set")

// Worker processes report tasks from Redis.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	running   bool
	mu        sync.Mutex
	processor TaskProcessor
	procMu    sync.RWMutex
}

// NewWorker returns nil when Redis is disabled.
func NewWorker(cfg *config.RedisConfig) *Worker {
	if !cfg.Enabled {
		return nil
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				reportQueueName(): 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Error().Err(err).Str("type", task.Type()).
					Int("retry", retried).Int("maxRetry", maxRetry).Msg("[Worker] task failed")
			}),
		},
	)

	w := &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
	}
	w.mux.HandleFunc(TaskTypeReportGenerate, w.handleReportTask)
	return w
}

func (w *Worker) SetProcessor(processor TaskProcessor) {
	w.procMu.Lock()
	w.processor = processor
	w.procMu.Unlock()
}

func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start report worker: %w", err)
	}
	w.running = true
	logger.Infof("[Worker] Started")
	return nil
}

func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	logger.Infof("[Worker] Shutting down...")
	w.server.Shutdown()
	w.running = false
	logger.Infof("[Worker] Shutdown complete")
}

// handleReportTask decodes and runs one report task. A payload that cannot
// be decoded is never retried.
func (w *Worker) handleReportTask(ctx context.Context, t *asynq.Task) error {
	var task ReportTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		reportTasksTotal.WithLabelValues("malformed").Inc()
		return fmt.Errorf("decode report task: %v: %w", err, asynq.SkipRetry)
	}

	w.procMu.RLock()
	processor := w.processor
	w.procMu.RUnlock()
	if processor == nil {
		reportTasksTotal.WithLabelValues("unprocessed").Inc()
		return errNoProcessor
	}

	logger.Info().Int64("reportId", task.ReportID).Str("requestId", task.RequestID).Msg("[Worker] processing report task")
	if err := processor(ctx, &task); err != nil {
		reportTasksTotal.WithLabelValues("failed").Inc()
		return err
	}
	reportTasksTotal.WithLabelValues("completed").Inc()
	return nil
}
