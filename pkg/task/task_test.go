package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTask struct{}

func (noopTask) Process(ctx context.Context) error { return nil }

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	r.Register("noop", func(rc *Context) Task { return noopTask{} })

	ctor, err := r.Resolve("noop")
	require.NoError(t, err)
	assert.NotNil(t, ctor)

	instance := ctor(&Context{})
	assert.NoError(t, instance.Process(context.Background()))
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("missing")
	assert.Error(t, err)
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("x", func(rc *Context) Task { return noopTask{} })
	called := false
	r.Register("x", func(rc *Context) Task {
		called = true
		return noopTask{}
	})

	ctor, err := r.Resolve("x")
	require.NoError(t, err)
	ctor(&Context{})
	assert.True(t, called)
}
