package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/pkg/task"
)

const (
	assertEventuallyTimeout = time.Second
	assertEventuallyTick    = 5 * time.Millisecond
)

type countingTask struct {
	rc *task.Context
	n  *int64
	mu *sync.Mutex
	got []string
}

func (t *countingTask) Process(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	*t.n++
	t.got = append(t.got, t.rc.Topic)
	return nil
}

func newCountingRegistry(n *int64, mu *sync.Mutex) *task.Registry {
	r := task.NewRegistry()
	r.Register("counter", func(rc *task.Context) task.Task {
		return &countingTask{rc: rc, n: n, mu: mu}
	})
	return r
}

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Pools = []config.PoolConfig{{Name: "p1", Type: config.PoolSequential}}
	cfg.TaskQueues = []config.TaskQueueConfig{{Name: "q1", Pool: "p1", Size: 10}}
	cfg.Tasks = map[string]config.TaskConfig{
		"count": {Path: "counter"},
	}
	cfg.Rules = []config.RuleConfig{
		{
			RuleName:         "r1",
			SourceClientName: "sensors",
			Topic:            "sensors/a",
			Task:             config.TaskTarget{Name: "count", QueueName: "q1"},
		},
	}
	return cfg
}

func TestNew_BuildsRuleIndexAndTaskQueueBinding(t *testing.T) {
	var n int64
	var mu sync.Mutex
	f, err := New(baseConfig(), newCountingRegistry(&n, &mu), nil, nil)
	require.NoError(t, err)

	rules, ok := f.rulesByClient["sensors"]
	require.True(t, ok)
	require.Len(t, rules, 1)
	assert.Equal(t, "q1", f.taskQueueByName["count"])
}

func TestNew_UnknownPoolInTaskQueueErrors(t *testing.T) {
	cfg := baseConfig()
	cfg.TaskQueues[0].Pool = "does-not-exist"
	_, err := New(cfg, task.NewRegistry(), nil, nil)
	require.Error(t, err)
}

func TestDispatch_MatchingRuleEnqueuesTask(t *testing.T) {
	var n int64
	var mu sync.Mutex
	f, err := New(baseConfig(), newCountingRegistry(&n, &mu), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.exec.Start(ctx)
	defer f.exec.Stop()

	f.dispatch(ctx, "sensors", "sensors/a", "payload")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n == 1
	}, assertEventuallyTimeout, assertEventuallyTick)
}

func TestDispatch_NonMatchingTopicDoesNotEnqueue(t *testing.T) {
	var n int64
	var mu sync.Mutex
	f, err := New(baseConfig(), newCountingRegistry(&n, &mu), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.exec.Start(ctx)
	defer f.exec.Stop()

	f.dispatch(ctx, "sensors", "sensors/b", "payload")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, int64(0), n)
}

func TestSubmit_UnknownTaskNameErrors(t *testing.T) {
	f, err := New(baseConfig(), task.NewRegistry(), nil, nil)
	require.NoError(t, err)
	require.Error(t, f.submit("not-bound-anywhere", "t", "p", "sensors"))
}

func TestSubmit_BoundTaskEnqueues(t *testing.T) {
	var n int64
	var mu sync.Mutex
	f, err := New(baseConfig(), newCountingRegistry(&n, &mu), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.exec.Start(ctx)
	defer f.exec.Stop()

	require.NoError(t, f.submit("count", "chained/topic", "p", "sensors"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n == 1
	}, assertEventuallyTimeout, assertEventuallyTick)
}

func TestTaskConfigMap_MergesOptionsOverCommonFields(t *testing.T) {
	f, err := New(baseConfig(), task.NewRegistry(), nil, nil)
	require.NoError(t, err)

	f.cfg.Tasks["relay1"] = config.TaskConfig{
		Path:            "relay",
		ClientToPublish: "upstream",
		Persist:         true,
		Options:         map[string]any{"extra": "value"},
	}

	m := f.taskConfigMap("relay1")
	assert.Equal(t, "upstream", m["client_to_publish"])
	assert.Equal(t, true, m["persist"])
	assert.Equal(t, "value", m["extra"])
}

func TestGetClient_UnknownReturnsFalse(t *testing.T) {
	f, err := New(baseConfig(), task.NewRegistry(), nil, nil)
	require.NoError(t, err)
	_, ok := f.GetClient("nope")
	assert.False(t, ok)
}
