package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttflow/mqttflow/internal/topicfmt"
	"github.com/mqttflow/mqttflow/pkg/task"
)

type publishCall struct {
	client  string
	topic   string
	payload any
	persist bool
	qos     byte
}

func TestRelay_LiteralTopic(t *testing.T) {
	var got publishCall
	rc := &task.Context{
		ClientName: "a",
		Topic:      "sens/temp",
		Payload:    "21",
		Config: map[string]any{
			"client_to_publish": "b",
			"topic_to_publish":  "out/fixed",
			"persist":           true,
		},
		Publish: func(client, topic string, payload any, persist bool, qos byte) error {
			got = publishCall{client, topic, payload, persist, qos}
			return nil
		},
	}

	instance := newRelay(rc)
	require.NoError(t, instance.Process(context.Background()))

	assert.Equal(t, "b", got.client)
	assert.Equal(t, "out/fixed", got.topic)
	assert.Equal(t, "21", got.payload)
	assert.True(t, got.persist)
}

func TestRelay_TopicFormatters(t *testing.T) {
	var got publishCall
	rc := &task.Context{
		ClientName: "a",
		Topic:      "sens/temp",
		Payload:    "21",
		Config: map[string]any{
			"client_to_publish": "b",
			"topic_formatters": []topicfmt.Formatter{
				{RemovePrefix: "sens"},
				{Prefix: "out"},
			},
		},
		Publish: func(client, topic string, payload any, persist bool, qos byte) error {
			got = publishCall{client: client, topic: topic}
			return nil
		},
	}

	instance := newRelay(rc)
	require.NoError(t, instance.Process(context.Background()))

	assert.Equal(t, "out/temp", got.topic)
}

func TestRelay_MissingTargetClientErrors(t *testing.T) {
	rc := &task.Context{
		Topic:   "sens/temp",
		Payload: "21",
		Config:  map[string]any{},
		Publish: func(client, topic string, payload any, persist bool, qos byte) error {
			return nil
		},
	}

	instance := newRelay(rc)
	assert.Error(t, instance.Process(context.Background()))
}
