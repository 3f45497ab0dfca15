// Package mqttclient wraps one MQTT broker session: connect/reconnect
// with backoff, will messages, subscribe, and three publish variants
// (immediate, queued, batched), integrated with a persistence instance for
// store-and-forward while disconnected. There is no one-shot high-priority
// publish over a separate connection.
package mqttclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/internal/persistence"
	"github.com/mqttflow/mqttflow/pkg/log"
)

// osExit is a var so exit_on_reconnect is testable without killing the
// test process.
var osExit = os.Exit

// connectRetry uses the same 1s->8s,x2 backoff schedule as the durable
// queue's open retry, with 5 tries where the queue makes 3.
var connectRetry = struct {
	tries    int
	delay    time.Duration
	maxDelay time.Duration
	backoff  float64
}{tries: 5, delay: time.Second, maxDelay: 8 * time.Second, backoff: 2}

// Client owns one broker session and the per-client inbound/outbound
// queue plane.
type Client struct {
	name string
	cfg  config.ClientConfig
	log  log.Logger

	sess session

	incoming chan Message
	outgoing chan Message

	persist persistence.Persistence

	batchMu sync.Mutex
	batches map[string][]any

	qpubMu sync.Mutex
	qpub   []Message

	connectCount atomic.Int32
	started      atomic.Bool

	wg sync.WaitGroup
}

// New builds a Client from cfg. The broker session is constructed but not
// connected; call Start to bring it up. global carries the fabric-wide
// persistence defaults (the dedup cache) applied to this client's
// persistence instance.
func New(cfg config.ClientConfig, global config.PersistenceGlobalConfig, logger log.Logger) (*Client, error) {
	c := &Client{
		name:     cfg.ClientName,
		cfg:      cfg,
		log:      logger,
		incoming: make(chan Message, queueSizeOrDefault(cfg.QueueSize)),
		outgoing: make(chan Message, queueSizeOrDefault(cfg.QueueSize)),
		batches:  make(map[string][]any),
	}

	opts, err := buildClientOptions(cfg, c.onConnect, c.onConnectionLost)
	if err != nil {
		return nil, err
	}
	opts.SetDefaultPublishHandler(c.onMessage)
	c.sess = mqtt.NewClient(opts)

	p, err := newPersistence(cfg, global, c, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("mqttclient: persistence unavailable, falling back to no-op",
				log.String("client", c.name), log.Error(err))
		}
		p = persistence.NoOp{}
	}
	c.persist = p

	return c, nil
}

func newPersistence(cfg config.ClientConfig, global config.PersistenceGlobalConfig, uploader persistence.Uploader, logger log.Logger) (persistence.Persistence, error) {
	if cfg.Persistence == nil {
		return persistence.NoOp{}, nil
	}
	return persistence.New(*cfg.Persistence, global, uploader, logger)
}

func queueSizeOrDefault(n int) int {
	if n <= 0 {
		return 5
	}
	return n
}

// Name returns the configured client name.
func (c *Client) Name() string { return c.name }

// Incoming is the queue on-message pushes onto.
func (c *Client) Incoming() <-chan Message { return c.incoming }

// Outgoing is the queue an orchestrator's outbound consumer drains,
// calling Publish for each entry.
func (c *Client) Outgoing() chan Message { return c.outgoing }

// Enqueue stages msg onto the outbound queue for the orchestrator's single
// outbound consumer to publish, preserving per-client publish ordering
// (spec's "outbound ordering per client is preserved through the outbound
// queue"). Drops and logs on a full queue rather than blocking the caller.
func (c *Client) Enqueue(msg Message) error {
	select {
	case c.outgoing <- msg:
		return nil
	default:
		if c.log != nil {
			c.log.Warn("mqttclient: outbound queue full, dropping message",
				log.String("client", c.name), log.String("topic", msg.Topic))
		}
		return nil
	}
}

// Start brings up the broker session (idempotent) and the persistence
// and batch-interval loops.
func (c *Client) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return nil
	}

	if err := connectWithRetry(c.sess); err != nil {
		c.started.Store(false)
		return fmt.Errorf("mqttclient %s: connect: %w", c.name, err)
	}

	c.persist.Start(ctx)

	c.wg.Add(1)
	go c.intervalPublishLoop(ctx)

	return nil
}

func connectWithRetry(sess session) error {
	delay := connectRetry.delay
	var lastErr error
	for attempt := 0; attempt < connectRetry.tries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * connectRetry.backoff)
			if delay > connectRetry.maxDelay {
				delay = connectRetry.maxDelay
			}
		}
		token := sess.Connect()
		token.Wait()
		err := token.Error()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// Stop flushes the pending batches and queue, stops persistence, and
// disconnects.
func (c *Client) Stop() error {
	if !c.started.CompareAndSwap(true, false) {
		return nil
	}
	c.wg.Wait()
	c.flushQPub()
	c.flushAllBatches()
	if err := c.persist.Stop(); err != nil && c.log != nil {
		c.log.Warn("mqttclient: persistence stop failed", log.String("client", c.name), log.Error(err))
	}
	c.sess.Disconnect(250)
	return nil
}

// IsConnected reports the live session's connection state.
func (c *Client) IsConnected() bool {
	return c.sess.IsConnected()
}

// UploadPersistedBatch re-delivers a drained batch, satisfying
// persistence.Uploader. It returns false on the first entry that fails to
// publish while connected.
func (c *Client) UploadPersistedBatch(batch []persistence.DataPoint) bool {
	for _, dp := range batch {
		if !c.sess.IsConnected() {
			return false
		}
		token := c.sess.Publish(dp.Topic, 0, false, marshalPayload(dp.Payload))
		token.Wait()
		if err := token.Error(); err != nil {
			if c.log != nil {
				c.log.Warn("mqttclient: re-upload failed", log.String("client", c.name), log.Error(err))
			}
			return false
		}
	}
	return true
}

func (c *Client) onConnect(mqtt.Client) {
	n := c.connectCount.Add(1)

	for _, sub := range c.cfg.SubTopics {
		token := c.sess.Subscribe(sub.Filter, sub.QoS, c.onMessage)
		token.Wait()
		if err := token.Error(); err != nil && c.log != nil {
			c.log.Error("mqttclient: subscribe failed",
				log.String("client", c.name), log.String("topic", sub.Filter), log.Error(err))
		}
	}

	if c.log != nil {
		c.log.Info("mqttclient: connected", log.String("client", c.name))
	}

	if c.cfg.ExitOnReconnect && n == 2 {
		osExit(0)
	}
}

func (c *Client) onConnectionLost(_ mqtt.Client, err error) {
	if c.log != nil {
		c.log.Warn("mqttclient: connection lost", log.String("client", c.name), log.Error(err))
	}
}

func (c *Client) onMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := decodePayload(msg.Payload())
	select {
	case c.incoming <- Message{Topic: msg.Topic(), Payload: payload}:
	default:
		if c.log != nil {
			c.log.Warn("mqttclient: inbound queue full, dropping message",
				log.String("client", c.name), log.String("topic", msg.Topic()))
		}
	}
}

// Publish attempts an immediate publish while connected; while
// disconnected it stages into persistence when persist is set, otherwise
// it drops the message. Either way the call does not block on network
// retry.
func (c *Client) Publish(topic string, payload any, persist bool, qos byte) error {
	if c.sess.IsConnected() {
		token := c.sess.Publish(topic, qos, false, marshalPayload(payload))
		go func() {
			token.Wait()
			if err := token.Error(); err != nil && c.log != nil {
				c.log.Warn("mqttclient: publish failed", log.String("client", c.name), log.String("topic", topic), log.Error(err))
			}
		}()
		return nil
	}

	if persist {
		return c.persist.Append(persistence.DataPoint{Topic: topic, Payload: payload})
	}

	if c.log != nil {
		c.log.Warn("mqttclient: dropping publish, disconnected and not persisted",
			log.String("client", c.name), log.String("topic", topic))
	}
	return nil
}

// QPublish appends to a bounded internal queue; once the queue reaches
// QueueSize capacity it flushes by calling Publish for every entry.
func (c *Client) QPublish(topic string, payload any) error {
	c.qpubMu.Lock()
	c.qpub = append(c.qpub, Message{Topic: topic, Payload: payload})
	full := len(c.qpub) >= queueSizeOrDefault(c.cfg.QueueSize)
	var flush []Message
	if full {
		flush = c.qpub
		c.qpub = nil
	}
	c.qpubMu.Unlock()

	for _, m := range flush {
		if err := c.Publish(m.Topic, m.Payload, false, 0); err != nil && c.log != nil {
			c.log.Warn("mqttclient: qpublish flush failed", log.String("client", c.name), log.Error(err))
		}
	}
	return nil
}

// BatchPublish appends payload to topic's batch; at BatchSize it publishes
// the batch as a JSON array and resets.
func (c *Client) BatchPublish(topic string, payload any) error {
	c.batchMu.Lock()
	c.batches[topic] = append(c.batches[topic], payload)
	batchSize := c.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}
	var flush []any
	if len(c.batches[topic]) >= batchSize {
		flush = c.batches[topic]
		delete(c.batches, topic)
	}
	c.batchMu.Unlock()

	if flush == nil {
		return nil
	}
	return c.Publish(topic, flush, false, 0)
}

// flushQPub publishes and clears whatever QPublish has queued below its
// capacity threshold, matching the original's stop()/interval-publish
// behavior of draining the queue unconditionally, not just at capacity.
func (c *Client) flushQPub() {
	c.qpubMu.Lock()
	pending := c.qpub
	c.qpub = nil
	c.qpubMu.Unlock()

	for _, m := range pending {
		if err := c.Publish(m.Topic, m.Payload, false, 0); err != nil && c.log != nil {
			c.log.Warn("mqttclient: queue flush failed", log.String("client", c.name), log.Error(err))
		}
	}
}

func (c *Client) flushAllBatches() {
	c.batchMu.Lock()
	pending := c.batches
	c.batches = make(map[string][]any)
	c.batchMu.Unlock()

	for topic, values := range pending {
		if len(values) == 0 {
			continue
		}
		if err := c.Publish(topic, values, false, 0); err != nil && c.log != nil {
			c.log.Warn("mqttclient: batch flush failed", log.String("client", c.name), log.String("topic", topic), log.Error(err))
		}
	}
}

func (c *Client) intervalPublishLoop(ctx context.Context) {
	defer c.wg.Done()
	interval := c.cfg.PublishInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.flushQPub()
			c.flushAllBatches()
		}
	}
}

func marshalPayload(payload any) []byte {
	if b, ok := payload.([]byte); ok {
		return b
	}
	if s, ok := payload.(string); ok {
		return []byte(s)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return []byte(fmt.Sprint(payload))
	}
	return b
}
