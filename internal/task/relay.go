// Package tasks carries the built-in task implementations: relay and log.
package tasks

import (
	"context"
	"fmt"

	"github.com/mqttflow/mqttflow/internal/topicfmt"
	"github.com/mqttflow/mqttflow/pkg/task"
)

// relayTask is the built-in "relay" task: it rewrites the matched topic
// (via a topic formatter pipeline, or a literal target topic) and
// republishes the payload onto another client's outgoing queue.
type relayTask struct {
	rc *task.Context

	clientToPublish string
	topicToPublish  string
	formatters      []topicfmt.Formatter
	persist         bool
	qos             byte
}

func newRelay(rc *task.Context) task.Task {
	r := &relayTask{rc: rc}

	if v, ok := rc.Config["client_to_publish"].(string); ok {
		r.clientToPublish = v
	}
	if v, ok := rc.Config["topic_to_publish"].(string); ok {
		r.topicToPublish = v
	}
	if v, ok := rc.Config["topic_formatters"].([]topicfmt.Formatter); ok {
		r.formatters = v
	}
	if v, ok := rc.Config["persist"].(bool); ok {
		r.persist = v
	}
	if v, ok := rc.Config["qos"].(byte); ok {
		r.qos = v
	}

	return r
}

func (r *relayTask) Process(ctx context.Context) error {
	if r.clientToPublish == "" {
		return fmt.Errorf("relay: client_to_publish is required")
	}

	topic := r.rc.Topic
	switch {
	case len(r.formatters) > 0:
		topic = topicfmt.Apply(topic, r.formatters)
	case r.topicToPublish != "":
		topic = r.topicToPublish
	}

	return r.rc.Publish(r.clientToPublish, topic, r.rc.Payload, r.persist, r.qos)
}
