package tasks

import (
	"github.com/mqttflow/mqttflow/pkg/log"
	"github.com/mqttflow/mqttflow/pkg/task"
)

// Register binds the built-in task identifiers ("relay", "log") into r.
func Register(r *task.Registry, logger log.Logger) {
	r.Register("relay", newRelay)
	r.Register("log", newLog(logger))
}
