package mqttclient

import (
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/internal/persistence"
)

const (
	assertEventuallyTimeout = time.Second
	assertEventuallyTick    = 5 * time.Millisecond
)

type doneToken struct{ err error }

func (t *doneToken) Wait() bool                           { return true }
func (t *doneToken) WaitTimeout(_ time.Duration) bool      { return true }
func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *doneToken) Error() error { return t.err }

type fakeSession struct {
	mu          sync.Mutex
	connected   bool
	published   []Message
	failPublish bool
}

func (s *fakeSession) Connect() mqtt.Token {
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	return &doneToken{}
}

func (s *fakeSession) Disconnect(quiesce uint) {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
}

func (s *fakeSession) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPublish {
		return &doneToken{err: assert.AnError}
	}
	b, ok := payload.([]byte)
	if !ok {
		b = []byte{}
	}
	s.published = append(s.published, Message{Topic: topic, Payload: string(b), QoS: qos})
	return &doneToken{}
}

func (s *fakeSession) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	return &doneToken{}
}

func (s *fakeSession) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func newTestClient(t *testing.T) (*Client, *fakeSession) {
	t.Helper()
	c, err := New(config.ClientConfig{
		ClientName: "a",
		Server:     "127.0.0.1",
		Port:       1883,
		QueueSize:  3,
		BatchSize:  2,
	}, config.PersistenceGlobalConfig{}, nil)
	require.NoError(t, err)

	fake := &fakeSession{}
	c.sess = fake
	return c, fake
}

func TestClient_PublishWhileConnected(t *testing.T) {
	c, fake := newTestClient(t)
	fake.connected = true

	require.NoError(t, c.Publish("a/b", "hello", false, 0))

	require.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return len(fake.published) == 1
	}, assertEventuallyTimeout, assertEventuallyTick)
}

func TestClient_PublishDropsWhenDisconnectedNoPersist(t *testing.T) {
	c, _ := newTestClient(t)
	require.NoError(t, c.Publish("a/b", "hello", false, 0))
}

func TestClient_PublishStagesWhenDisconnectedAndPersist(t *testing.T) {
	c, _ := newTestClient(t)
	require.NoError(t, c.Publish("a/b", "hello", true, 0))
}

func TestClient_BatchPublishFlushesAtBatchSize(t *testing.T) {
	c, fake := newTestClient(t)
	fake.connected = true

	require.NoError(t, c.BatchPublish("t", "1"))
	assert.Empty(t, fake.published)

	require.NoError(t, c.BatchPublish("t", "2"))
	require.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return len(fake.published) == 1
	}, assertEventuallyTimeout, assertEventuallyTick)
}

func TestClient_QPublishFlushesAtCapacity(t *testing.T) {
	c, fake := newTestClient(t)
	fake.connected = true

	require.NoError(t, c.QPublish("t", "1"))
	require.NoError(t, c.QPublish("t", "2"))
	assert.Empty(t, fake.published)

	require.NoError(t, c.QPublish("t", "3"))
	require.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return len(fake.published) == 3
	}, assertEventuallyTimeout, assertEventuallyTick)
}

func TestClient_UploadPersistedBatchSucceedsWhileConnected(t *testing.T) {
	c, fake := newTestClient(t)
	fake.connected = true

	ok := c.UploadPersistedBatch([]persistence.DataPoint{
		{Topic: "a", Payload: "1"},
		{Topic: "b", Payload: "2"},
	})
	assert.True(t, ok)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.published, 2)
}

func TestClient_UploadPersistedBatchFailsWhenDisconnected(t *testing.T) {
	c, _ := newTestClient(t)

	ok := c.UploadPersistedBatch([]persistence.DataPoint{{Topic: "a", Payload: "1"}})
	assert.False(t, ok)
}
