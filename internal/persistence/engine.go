// Package persistence implements the store-and-forward subsystem backing
// outgoing publishes made while a client is disconnected: data points are
// batched, staged to a durable FIFO queue, and drained by re-uploading
// through an injected Uploader whenever it reports itself connected.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/internal/durablequeue"
	"github.com/mqttflow/mqttflow/internal/store/driver/memory"
	"github.com/mqttflow/mqttflow/internal/store/driver/redis"
	"github.com/mqttflow/mqttflow/pkg/log"
	"github.com/mqttflow/mqttflow/pkg/store"
)

// Uploader re-delivers a batch once the owning client believes it is
// connected again.
type Uploader interface {
	IsConnected() bool
	UploadPersistedBatch(batch []DataPoint) bool
}

// Persistence is the store-and-forward contract a client wrapper holds.
type Persistence interface {
	// Append stages one data point, batching internally.
	Append(dp DataPoint) error
	// Start runs the flush and drain loops until ctx is cancelled.
	Start(ctx context.Context)
	// Stop flushes any pending batch and closes the durable queue.
	Stop() error
}

// NoOp drops every data point. The client wrapper substitutes this when
// the durable queue could not be opened at all, per the "persistence
// unavailable" fallback.
type NoOp struct{}

func (NoOp) Append(DataPoint) error  { return nil }
func (NoOp) Start(ctx context.Context) {}
func (NoOp) Stop() error             { return nil }

// Engine is the regular (non rule-aware) persistence implementation.
type Engine struct {
	queue    *durablequeue.Queue
	uploader Uploader
	log      log.Logger

	batchSize      int
	flushInterval  time.Duration
	uploadInterval time.Duration

	mu      sync.Mutex
	staging []DataPoint

	wg sync.WaitGroup
}

// New builds a persistence instance per cfg. If cfg.Rules is non-empty a
// rule-aware variant is returned. Opening the durable queue can fail after
// retry; the caller (internal/mqttclient) is expected to substitute NoOp.
// If global.DedupEnabled, the result is wrapped with WithDedup backed by
// the store global.DedupStore selects.
func New(cfg config.PersistenceConfig, global config.PersistenceGlobalConfig, uploader Uploader, logger log.Logger) (Persistence, error) {
	eng, err := newEngine(cfg, uploader, logger)
	if err != nil {
		return nil, err
	}

	var p Persistence = eng
	if len(cfg.Rules) > 0 {
		rules, err := compilePersistenceRules(cfg.Rules)
		if err != nil {
			eng.queue.Close()
			return nil, err
		}
		p = &RuleAware{Engine: eng, rules: rules}
	}

	if global.DedupEnabled {
		st, err := newDedupStore(global)
		if err != nil {
			if logger != nil {
				logger.Warn("persistence: dedup store unavailable, staging without dedup", log.Error(err))
			}
			return p, nil
		}
		ttl := global.DedupTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		p = WithDedup(p, st, ttl, logger)
	}

	return p, nil
}

// newDedupStore builds the AtomicStore backing the dedup cache, following
// the same memory/redis selection internal/ratelimit uses for its
// distributed limiter's store.
func newDedupStore(global config.PersistenceGlobalConfig) (store.AtomicStore, error) {
	storeType := global.DedupStore
	if storeType == "" {
		storeType = "memory"
	}
	cfg := &store.Config{
		Type:      storeType,
		Address:   global.RedisAddress,
		Timeout:   5 * time.Second,
		KeyPrefix: "persistence:dedup",
	}
	switch storeType {
	case "redis":
		return redis.New(cfg)
	case "memory":
		return memory.New(cfg)
	default:
		return nil, fmt.Errorf("persistence: unsupported dedup_store %q", storeType)
	}
}

func newEngine(cfg config.PersistenceConfig, uploader Uploader, logger log.Logger) (*Engine, error) {
	q, err := durablequeue.Open(cfg.MainPath, cfg.BackupPath, durablequeue.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}
	flushInterval := cfg.BatchUploadMinDelay
	if flushInterval <= 0 {
		flushInterval = 60 * time.Second
	}
	uploadInterval := cfg.UploadInterval
	if uploadInterval <= 0 {
		uploadInterval = 30 * time.Second
	}

	return &Engine{
		queue:          q,
		uploader:       uploader,
		log:            logger,
		batchSize:      batchSize,
		flushInterval:  flushInterval,
		uploadInterval: uploadInterval,
	}, nil
}

// Append stages dp, flushing a full batch immediately.
func (e *Engine) Append(dp DataPoint) error {
	e.mu.Lock()
	e.staging = append(e.staging, dp)
	full := len(e.staging) >= e.batchSize
	e.mu.Unlock()

	if full {
		return e.flush()
	}
	return nil
}

func (e *Engine) flush() error {
	e.mu.Lock()
	if len(e.staging) == 0 {
		e.mu.Unlock()
		return nil
	}
	batch := e.staging
	e.staging = nil
	e.mu.Unlock()

	data, err := json.Marshal(batch)
	if err != nil {
		if e.log != nil {
			e.log.Error("persistence: marshal batch failed", log.Error(err))
		}
		return err
	}
	return e.queue.PutNoWait(data)
}

// Start runs the periodic flush loop and the drain loop until ctx is done.
func (e *Engine) Start(ctx context.Context) {
	e.wg.Add(2)
	go e.flushLoop(ctx)
	go e.drainLoop(ctx)
}

func (e *Engine) flushLoop(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.flush(); err != nil && e.log != nil {
				e.log.Warn("persistence: periodic flush failed", log.Error(err))
			}
		}
	}
}

func (e *Engine) drainLoop(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.uploadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.drainOne(ctx) {
				return
			}
		}
	}
}

// drainOne dequeues and uploads a single staged batch, if the uploader is
// connected and one is pending. A failed upload is retried purely on its
// own 1s->8s backoff schedule, never waiting for the next upload_interval
// tick, so a reconnect is followed within seconds rather than up to a full
// uploadInterval. Returns false if ctx was cancelled mid-retry.
func (e *Engine) drainOne(ctx context.Context) bool {
	if !e.uploader.IsConnected() {
		return true
	}

	entry, err := e.queue.GetNoWait()
	if errors.Is(err, durablequeue.ErrEmpty) {
		if e.log != nil {
			e.log.Debug("persistence: drain found nothing staged")
		}
		return true
	}
	if err != nil {
		if e.log != nil {
			e.log.Warn("persistence: drain read failed", log.Error(err))
		}
		return true
	}

	var batch []DataPoint
	if err := json.Unmarshal(entry.Data, &batch); err != nil {
		if e.log != nil {
			e.log.Error("persistence: drop unreadable batch", log.Error(err))
		}
		e.queue.TaskDone(entry.ID)
		return true
	}

	backoff := time.Second
	const maxBackoff = 8 * time.Second
	for !e.uploader.UploadPersistedBatch(batch) {
		if e.log != nil {
			e.log.Warn("persistence: upload failed, retrying with backoff", log.Duration("backoff", backoff))
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	e.queue.TaskDone(entry.ID)
	return true
}

// Stop flushes any pending batch, waits for the loops to exit, and closes
// the durable queue. Callers must have cancelled the context passed to
// Start before calling Stop.
func (e *Engine) Stop() error {
	e.wg.Wait()
	if err := e.flush(); err != nil && e.log != nil {
		e.log.Warn("persistence: final flush failed", log.Error(err))
	}
	return e.queue.Close()
}
