// Package executor binds named task queues to named pools and drains
// each queue in a dedicated consumer, enforcing a per-queue dispatch-rate
// ceiling.
package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/internal/metrics"
	"github.com/mqttflow/mqttflow/internal/pool"
	"github.com/mqttflow/mqttflow/internal/ratelimit"
	"github.com/mqttflow/mqttflow/pkg/log"
	"github.com/mqttflow/mqttflow/pkg/task"
)

const defaultQueueSize = 100

// Queue is one named task queue bound to a pool and a rate ceiling.
type Queue struct {
	name        string
	ch          chan task.Task
	pool        pool.Pool
	limiter     *rate.Limiter
	distLimiter *ratelimit.Manager
	log         log.Logger
	metrics     *metrics.Metrics
	dropped     int64
}

func newQueue(cfg config.TaskQueueConfig, p pool.Pool, logger log.Logger, m *metrics.Metrics) *Queue {
	size := cfg.Size
	if size <= 0 {
		size = defaultQueueSize
	}
	rateLimit := cfg.ExecutionRateLimitPerSecond
	if rateLimit <= 0 {
		rateLimit = config.DefaultTaskQueueRateLimit
	}
	q := &Queue{
		name:    cfg.Name,
		ch:      make(chan task.Task, size),
		pool:    p,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		log:     logger,
		metrics: m,
	}

	if drc := cfg.DistributedRateLimit; drc != nil {
		mgr := ratelimit.NewManager(nil)
		burst := int(rateLimit)
		if burst < 1 {
			burst = 1
		}
		_, err := mgr.CreateLimiter(cfg.Name, &ratelimit.Config{
			Strategy:      ratelimit.StrategyTokenBucket,
			Rate:          rateLimit,
			BurstSize:     burst,
			Storage:       drc.Storage,
			RedisAddress:  drc.RedisAddress,
			RedisPassword: drc.RedisPassword,
			RedisDB:       drc.RedisDB,
		})
		if err != nil {
			if logger != nil {
				logger.Warn("executor: distributed rate limiter unavailable, dispatch stays process-local",
					log.String("queue", cfg.Name), log.Error(err))
			}
		} else {
			q.distLimiter = mgr
		}
	}

	return q
}

// enqueue blocks until there is room in the queue or ctx is cancelled,
// per the concurrency model's "put blocking when capacity-bounded".
func (q *Queue) enqueue(ctx context.Context, t task.Task) error {
	select {
	case q.ch <- t:
		q.metrics.SetQueueDepth(q.name, len(q.ch))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns the number of tasks dropped so far due to pool
// saturation.
func (q *Queue) Dropped() int64 {
	return atomic.LoadInt64(&q.dropped)
}

// waitDistributed blocks until q's shared, cross-instance quota admits one
// more dispatch, or ctx is cancelled. This is on top of limiter, the
// in-process ceiling, and only applies when a queue is configured with a
// distributed_rate_limit backing store.
func (q *Queue) waitDistributed(ctx context.Context) bool {
	for {
		res := q.distLimiter.CheckQueue(q.name)
		if res.Allowed {
			return true
		}
		wait := res.RetryAfter
		if wait <= 0 {
			wait = 10 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
}

func (q *Queue) run(ctx context.Context) {
	if q.distLimiter != nil {
		defer q.distLimiter.RemoveLimiter(q.name)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-q.ch:
			q.metrics.SetQueueDepth(q.name, len(q.ch))
			if !q.pool.ResourceAvailable() {
				atomic.AddInt64(&q.dropped, 1)
				q.metrics.TaskDropped(q.name)
				if q.log != nil {
					q.log.Warn("executor: dropping task, pool saturated", log.String("queue", q.name))
				}
				continue
			}

			if err := q.limiter.Wait(ctx); err != nil {
				return
			}

			if q.distLimiter != nil && !q.waitDistributed(ctx) {
				return
			}

			q.metrics.TaskDispatched(q.name)
			instance := t
			if err := q.pool.Submit(func() {
				if err := instance.Process(ctx); err != nil && q.log != nil {
					q.log.Warn("executor: task failed", log.String("queue", q.name), log.Error(err))
				}
			}); err != nil && q.log != nil {
				q.log.Warn("executor: submit failed", log.String("queue", q.name), log.Error(err))
			}
		}
	}
}

// Executor drains every configured task queue concurrently, one consumer
// goroutine each.
type Executor struct {
	queues map[string]*Queue
	log    log.Logger
	wg     sync.WaitGroup
}

// New builds an Executor from the task-queue configuration, resolving
// each queue's pool by name from pools. m may be nil, in which case
// metrics reporting is a no-op.
func New(cfgs []config.TaskQueueConfig, pools map[string]pool.Pool, logger log.Logger, m *metrics.Metrics) (*Executor, error) {
	queues := make(map[string]*Queue, len(cfgs))
	for _, c := range cfgs {
		p, ok := pools[c.Pool]
		if !ok {
			return nil, fmt.Errorf("executor: task queue %q references unknown pool %q", c.Name, c.Pool)
		}
		queues[c.Name] = newQueue(c, p, logger, m)
	}
	return &Executor{queues: queues, log: logger}, nil
}

// Start spawns one consumer goroutine per task queue. Consumers exit when
// ctx is cancelled.
func (e *Executor) Start(ctx context.Context) {
	for _, q := range e.queues {
		e.wg.Add(1)
		go func(q *Queue) {
			defer e.wg.Done()
			q.run(ctx)
		}(q)
	}
}

// Stop waits for every consumer goroutine to exit. The caller must cancel
// the context passed to Start first.
func (e *Executor) Stop() {
	e.wg.Wait()
}

// Enqueue dispatches t onto the named task queue, blocking until there is
// room or ctx is cancelled.
func (e *Executor) Enqueue(ctx context.Context, queueName string, t task.Task) error {
	q, ok := e.queues[queueName]
	if !ok {
		return fmt.Errorf("executor: unknown task queue %q", queueName)
	}
	return q.enqueue(ctx, t)
}

// Queue returns the named queue for inspection (e.g. in tests or metrics),
// or nil if unknown.
func (e *Executor) Queue(name string) *Queue {
	return e.queues[name]
}
