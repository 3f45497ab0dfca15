// Package task defines the task contract and the explicit runtime context
// handed to every task instance, replacing the cyclic userdata
// back-references of the original design with plain read-only handles.
package task

import (
	"context"
	"fmt"
	"sync"
)

// Task is the unit of work dispatched by the executor. Process is called
// exactly once per instance; a non-nil error is logged by the caller and
// does not retry.
type Task interface {
	Process(ctx context.Context) error
}

// Constructor builds a Task instance bound to a runtime Context and the
// task's static configuration (decoded from config.TaskConfig.Options by
// the constructor itself, if it needs more than the common fields).
type Constructor func(rc *Context) Task

// Publisher enqueues a message onto a named client's outgoing queue.
// persist requests store-and-forward if the client is disconnected.
type Publisher func(clientName, topic string, payload any, persist bool, qos byte) error

// Submitter enqueues another named task onto its configured task queue.
type Submitter func(taskName string, topic string, payload any) error

// Context is constructed once per matched message and passed to the task
// constructor. It holds handles, not ownership: ClientName/Topic/Payload
// describe the message that matched, Publish/Submit reach back into the
// orchestrator's queues without the task package importing them.
type Context struct {
	ClientName string
	Topic      string
	Payload    any
	Config     map[string]any

	Publish Publisher
	Submit  Submitter
}

// Registry resolves a task's configured Path to its Constructor.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register binds name to ctor. Registering the same name twice overwrites
// the previous binding.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[name] = ctor
}

// Resolve looks up the constructor bound to name.
func (r *Registry) Resolve(name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("task: no constructor registered for %q", name)
	}
	return ctor, nil
}
