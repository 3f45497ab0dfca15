// Package flow wires every other package into one running engine
// instance: it builds the pool set, the task executor, the per-client
// rule index, and the MQTT clients from a config.Config, then pumps
// inbound messages through rule matching into the executor and drains
// outbound queues back onto their clients.
package flow

import (
	"context"
	"fmt"
	"sync"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/internal/executor"
	"github.com/mqttflow/mqttflow/internal/metrics"
	"github.com/mqttflow/mqttflow/internal/mqttclient"
	"github.com/mqttflow/mqttflow/internal/pool"
	"github.com/mqttflow/mqttflow/internal/rule"
	"github.com/mqttflow/mqttflow/internal/topicfmt"
	"github.com/mqttflow/mqttflow/pkg/log"
	"github.com/mqttflow/mqttflow/pkg/task"
)

// TaskArgs is the argument bundle for a direct, rule-less task submission
// (spec.md's task-to-task submit_task carried into pkg/task.Context.Submit).
type TaskArgs struct {
	ClientName string
	Topic      string
	Payload    any
}

// Flow is one running engine instance built from a config.Config.
type Flow struct {
	cfg      *config.Config
	registry *task.Registry
	log      log.Logger

	pools   map[string]pool.Pool
	exec    *executor.Executor
	clients map[string]*mqttclient.Client

	// rulesByClient indexes compiled rules by the client they apply to,
	// preserving config order; every matching rule dispatches its own task.
	rulesByClient map[string][]*rule.Rule

	// taskQueueByName resolves a bare task name (pkg/task.Submitter's only
	// argument besides topic/payload) to the queue a rule has already
	// bound it to; first rule referencing a task name wins.
	taskQueueByName map[string]string

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New builds every component in dependency order: pools, executor, rule
// index, clients. m may be nil, in which case metrics reporting is a
// no-op. Nothing is started yet; call Start.
func New(cfg *config.Config, registry *task.Registry, logger log.Logger, m *metrics.Metrics) (*Flow, error) {
	f := &Flow{
		cfg:             cfg,
		registry:        registry,
		log:             logger,
		pools:           make(map[string]pool.Pool, len(cfg.Pools)),
		clients:         make(map[string]*mqttclient.Client, len(cfg.MQTTClients)),
		rulesByClient:   make(map[string][]*rule.Rule),
		taskQueueByName: make(map[string]string),
	}

	for _, pc := range cfg.Pools {
		p, err := pool.New(pc, logger)
		if err != nil {
			return nil, fmt.Errorf("flow: pool %q: %w", pc.Name, err)
		}
		f.pools[pc.Name] = p
	}

	exec, err := executor.New(cfg.TaskQueues, f.pools, logger, m)
	if err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	f.exec = exec

	for _, rc := range cfg.Rules {
		r, err := rule.Compile(rc, logger)
		if err != nil {
			return nil, fmt.Errorf("flow: rule %q: %w", rc.RuleName, err)
		}
		f.rulesByClient[rc.SourceClientName] = append(f.rulesByClient[rc.SourceClientName], r)
		if _, ok := f.taskQueueByName[r.Target.TaskName]; !ok {
			f.taskQueueByName[r.Target.TaskName] = r.Target.QueueName
		}
	}

	for _, cc := range cfg.MQTTClients {
		c, err := mqttclient.New(cc, cfg.Persistence, logger)
		if err != nil {
			return nil, fmt.Errorf("flow: client %q: %w", cc.ClientName, err)
		}
		f.clients[cc.ClientName] = c
	}

	return f, nil
}

// GetClient returns the named MQTT client, if configured.
func (f *Flow) GetClient(name string) (*mqttclient.Client, bool) {
	c, ok := f.clients[name]
	return c, ok
}

// SubmitTask enqueues taskName directly onto the task queue a rule has
// already bound it to, bypassing rule matching. Used by tasks wanting to
// chain into another task (spec.md §9's "task-to-task submission").
func (f *Flow) SubmitTask(name string, args TaskArgs) error {
	return f.submit(name, args.Topic, args.Payload, args.ClientName)
}

// Start brings up the executor and every client, then spawns one
// inbound-matching and one outbound-draining consumer per client. Every
// consumer selects on ctx.Done() alongside its channel receive so Stop is
// deterministic.
func (f *Flow) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	f.exec.Start(runCtx)

	for name, c := range f.clients {
		if err := c.Start(runCtx); err != nil {
			cancel()
			return fmt.Errorf("flow: client %q: %w", name, err)
		}

		f.wg.Add(2)
		go f.consumeInbound(runCtx, name, c)
		go f.consumeOutbound(runCtx, c)
	}

	return nil
}

// Stop cancels every consumer, waits for them to exit, then stops the
// executor and every client.
func (f *Flow) Stop() error {
	if f.cancel != nil {
		f.cancel()
	}
	f.wg.Wait()
	f.exec.Stop()

	var firstErr error
	for name, c := range f.clients {
		if err := c.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flow: client %q: %w", name, err)
		}
	}
	return firstErr
}

func (f *Flow) consumeInbound(ctx context.Context, clientName string, c *mqttclient.Client) {
	defer f.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.Incoming():
			f.dispatch(ctx, clientName, msg.Topic, msg.Payload)
		}
	}
}

func (f *Flow) consumeOutbound(ctx context.Context, c *mqttclient.Client) {
	defer f.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.Outgoing():
			if err := c.Publish(msg.Topic, msg.Payload, msg.Persist, msg.QoS); err != nil && f.log != nil {
				f.log.Warn("flow: outbound publish failed", log.String("client", c.Name()), log.Error(err))
			}
		}
	}
}

func (f *Flow) dispatch(ctx context.Context, clientName, topic string, payload any) {
	for _, r := range f.rulesByClient[clientName] {
		if !r.Matches(topic, payload) {
			continue
		}
		if err := f.enqueueTask(ctx, r.Target.TaskName, r.Target.QueueName, clientName, topic, payload); err != nil && f.log != nil {
			f.log.Warn("flow: rule dispatch failed",
				log.String("rule", r.Name), log.String("task", r.Target.TaskName), log.Error(err))
		}
	}
}

func (f *Flow) submit(taskName, topic string, payload any, clientName string) error {
	queueName, ok := f.taskQueueByName[taskName]
	if !ok {
		return fmt.Errorf("flow: task %q has no queue binding (no rule references it)", taskName)
	}
	return f.enqueueTask(context.Background(), taskName, queueName, clientName, topic, payload)
}

func (f *Flow) enqueueTask(ctx context.Context, taskName, queueName, clientName, topic string, payload any) error {
	tc, ok := f.cfg.Tasks[taskName]
	if !ok {
		return fmt.Errorf("flow: no task configured named %q", taskName)
	}

	ctor, err := f.registry.Resolve(tc.Path)
	if err != nil {
		return fmt.Errorf("flow: task %q: %w", taskName, err)
	}

	rc := &task.Context{
		ClientName: clientName,
		Topic:      topic,
		Payload:    payload,
		Config:     f.taskConfigMap(taskName),
		Publish: func(target, t string, p any, persist bool, qos byte) error {
			return f.publish(target, t, p, persist, qos)
		},
		Submit: func(name, t string, p any) error {
			return f.submit(name, t, p, clientName)
		},
	}

	return f.exec.Enqueue(ctx, queueName, ctor(rc))
}

// publish stages a task-originated publish onto the target client's
// outbound queue rather than calling Client.Publish directly, so every
// task publish for a given client is serialized through that client's
// single outbound consumer (consumeOutbound) in submission order.
func (f *Flow) publish(clientName, topic string, payload any, persist bool, qos byte) error {
	c, ok := f.clients[clientName]
	if !ok {
		return fmt.Errorf("flow: publish: unknown client %q", clientName)
	}
	return c.Enqueue(mqttclient.Message{Topic: topic, Payload: payload, Persist: persist, QoS: qos})
}

func (f *Flow) taskConfigMap(taskName string) map[string]any {
	tc, ok := f.cfg.Tasks[taskName]
	if !ok {
		return map[string]any{}
	}

	m := map[string]any{
		"client_to_publish": tc.ClientToPublish,
		"topic_to_publish":  tc.TopicToPublish,
		"topic_formatters":  topicfmt.FromConfig(tc.TopicFormatters),
		"persist":           tc.Persist,
		"qos":               tc.QoS,
	}
	for k, v := range tc.Options {
		m[k] = v
	}
	return m
}
