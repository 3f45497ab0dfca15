package persistence

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttflow/mqttflow/internal/config"
)

type fakeUploader struct {
	mu        sync.Mutex
	connected bool
	uploaded  [][]DataPoint
	succeed   bool
}

func (f *fakeUploader) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeUploader) UploadPersistedBatch(batch []DataPoint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.succeed {
		return false
	}
	f.uploaded = append(f.uploaded, batch)
	return true
}

func newTestConfig(t *testing.T) config.PersistenceConfig {
	t.Helper()
	return config.PersistenceConfig{
		MainPath:            filepath.Join(t.TempDir(), "p.db"),
		BatchSize:           2,
		BatchUploadMinDelay: 20 * time.Millisecond,
		UploadInterval:      20 * time.Millisecond,
	}
}

func TestEngine_AppendFlushesAtBatchSize(t *testing.T) {
	uploader := &fakeUploader{}
	eng, err := New(newTestConfig(t), config.PersistenceGlobalConfig{}, uploader, nil)
	require.NoError(t, err)
	defer eng.Stop()

	require.NoError(t, eng.Append(DataPoint{Topic: "a", Payload: "1"}))
	require.NoError(t, eng.Append(DataPoint{Topic: "a", Payload: "2"}))

	concrete := eng.(*Engine)
	n, err := concrete.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "batch of 2 should have flushed to one staged entry")
}

func TestEngine_DrainUploadsWhenConnected(t *testing.T) {
	uploader := &fakeUploader{connected: true, succeed: true}
	eng, err := New(newTestConfig(t), config.PersistenceGlobalConfig{}, uploader, nil)
	require.NoError(t, err)

	require.NoError(t, eng.Append(DataPoint{Topic: "a", Payload: "1"}))
	require.NoError(t, eng.Append(DataPoint{Topic: "a", Payload: "2"}))

	ctx, cancel := context.WithCancel(context.Background())
	eng.Start(ctx)

	require.Eventually(t, func() bool {
		uploader.mu.Lock()
		defer uploader.mu.Unlock()
		return len(uploader.uploaded) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, eng.Stop())
}

func TestEngine_DrainSkipsWhenDisconnected(t *testing.T) {
	uploader := &fakeUploader{connected: false, succeed: true}
	eng, err := New(newTestConfig(t), config.PersistenceGlobalConfig{}, uploader, nil)
	require.NoError(t, err)

	require.NoError(t, eng.Append(DataPoint{Topic: "a", Payload: "1"}))
	require.NoError(t, eng.Append(DataPoint{Topic: "a", Payload: "2"}))

	ctx, cancel := context.WithCancel(context.Background())
	eng.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, eng.Stop())

	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	assert.Empty(t, uploader.uploaded)
}

func TestRuleAware_DropsUnmatchedTopic(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Rules = []config.PersistenceRuleConfig{
		{Topic: "sens/a", ReuploadTopicFormatters: []config.TopicFormatter{{Prefix: "re"}}},
	}
	uploader := &fakeUploader{}
	p, err := New(cfg, config.PersistenceGlobalConfig{}, uploader, nil)
	require.NoError(t, err)
	defer p.Stop()

	ra := p.(*RuleAware)
	require.NoError(t, ra.Append(DataPoint{Topic: "sens/a", Payload: "1"}))
	require.NoError(t, ra.Append(DataPoint{Topic: "unmatched", Payload: "2"}))

	assert.Len(t, ra.staging, 1)
	assert.Equal(t, "re/sens/a", ra.staging[0].Topic)
}

func TestNew_DedupEnabledSuppressesRepeat(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.BatchSize = 1
	global := config.PersistenceGlobalConfig{DedupEnabled: true, DedupTTL: time.Minute, DedupStore: "memory"}
	uploader := &fakeUploader{}
	p, err := New(cfg, global, uploader, nil)
	require.NoError(t, err)
	defer p.Stop()

	dd, ok := p.(*dedupped)
	require.True(t, ok, "dedup_enabled should wrap the engine in the dedup decorator")

	dp := DataPoint{Topic: "a", Payload: "1"}
	require.NoError(t, dd.Append(dp))
	require.NoError(t, dd.Append(dp))

	eng := dd.Persistence.(*Engine)
	n, err := eng.queue.Len()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "repeat append should be suppressed before reaching the durable queue")
}

func TestNoOp_DropsEverything(t *testing.T) {
	var p Persistence = NoOp{}
	assert.NoError(t, p.Append(DataPoint{Topic: "x"}))
	assert.NoError(t, p.Stop())
}
