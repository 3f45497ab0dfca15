package tasks

import (
	"context"

	"github.com/mqttflow/mqttflow/pkg/log"
	"github.com/mqttflow/mqttflow/pkg/task"
)

// logTask just logs the matched message. It is the minimal example a new
// task author copies, and is used as a harmless target in tests.
type logTask struct {
	rc     *task.Context
	logger log.Logger
}

func newLog(logger log.Logger) task.Constructor {
	return func(rc *task.Context) task.Task {
		return &logTask{rc: rc, logger: logger}
	}
}

func (t *logTask) Process(ctx context.Context) error {
	if t.logger != nil {
		t.logger.Info("task: log",
			log.String("client", t.rc.ClientName),
			log.String("topic", t.rc.Topic))
	}
	return nil
}
