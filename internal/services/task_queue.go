package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeReportGenerate = "report:generate"
)

// instanceID names this gateway process for scheduler locks and its
// report queue.
var instanceID = sync.OnceValue(func() string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%s:%d", host, os.Getpid())
})

// reportQueueName is the asynq queue this process enqueues to and drains.
// Reports live in the enqueuing process's store, so no other process can
// render them.
func reportQueueName() string {
	return "reports@" + instanceID()
}

// ReportTask asks the worker to render a pending report.
type ReportTask struct {
	ReportID       int64  `json:"reportId"`
	ReportConfigID *int64 `json:"reportConfigId,omitempty"`
	RequestID      string `json:"requestId"`
}

// TaskProcessor handles one report task.
type TaskProcessor func(context.Context, *ReportTask) error

// TaskQueue defines the interface for report task processing
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *ReportTask) error
	// IsAsync returns true if queue processes tasks asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

// QueueMode names the queue implementation for health output.
func QueueMode(q TaskQueue) string {
	if q != nil && q.IsAsync() {
		return "redis"
	}
	return "in-process"
}

// NewTaskQueue picks the Redis-backed queue when enabled and reachable and
// falls back to in-process processing otherwise.
func NewTaskQueue(cfg *config.Config) TaskQueue {
	if !cfg.Redis.Enabled {
		logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
		return NewSyncQueue()
	}
	queue, err := NewAsyncQueue(&cfg.Redis)
	if err != nil {
		logger.Infof("[TaskQueue] Redis unavailable, falling back to sync mode: %v", err)
		return NewSyncQueue()
	}
	logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
	return queue
}

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// AsyncQueue implements TaskQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	opt := redisOpt(cfg)
	client := asynq.NewClient(opt)

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func (q *AsyncQueue) Enqueue(task *ReportTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	opts := []asynq.Option{asynq.Queue(reportQueueName()), asynq.MaxRetry(2)}
	if task.RequestID != "" {
		opts = append(opts, asynq.TaskID(task.RequestID))
	}
	info, err := q.client.Enqueue(asynq.NewTask(TaskTypeReportGenerate, payload), opts...)
	if err != nil {
		return err
	}

	logger.Infof("[AsyncQueue] Task enqueued: id=%s, queue=%s, report=%d", info.ID, info.Queue, task.ReportID)
	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue runs tasks on a goroutine inside the gateway process.
type SyncQueue struct {
	mu        sync.RWMutex
	processor TaskProcessor
	wg        sync.WaitGroup
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

func (q *SyncQueue) SetProcessor(processor TaskProcessor) {
	q.mu.Lock()
	q.processor = processor
	q.mu.Unlock()
}

// Enqueue hands the task to a goroutine so the request returns right away.
func (q *SyncQueue) Enqueue(task *ReportTask) error {
	q.mu.RLock()
	processor := q.processor
	q.mu.RUnlock()

	if processor == nil {
		logger.Infof("[SyncQueue] Warning: no processor set, task will be dropped")
		return nil
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := processor(context.Background(), task); err != nil {
			logger.Infof("[SyncQueue] Task processing failed: %v", err)
		}
	}()
	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

// Close waits for in-flight tasks.
func (q *SyncQueue) Close() error {
	q.wg.Wait()
	return nil
}
