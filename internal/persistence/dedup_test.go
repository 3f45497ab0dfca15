package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttflow/mqttflow/internal/store/driver/memory"
	"github.com/mqttflow/mqttflow/pkg/store"
)

type recordingPersistence struct {
	appended []DataPoint
}

func (r *recordingPersistence) Append(dp DataPoint) error {
	r.appended = append(r.appended, dp)
	return nil
}
func (r *recordingPersistence) Start(ctx context.Context) {}
func (r *recordingPersistence) Stop() error                { return nil }

func TestDedup_SuppressesRepeat(t *testing.T) {
	st, err := memory.New(store.DefaultConfig())
	require.NoError(t, err)
	defer st.Close()

	inner := &recordingPersistence{}
	deduped := WithDedup(inner, st, time.Minute, nil)

	dp := DataPoint{Topic: "a", Payload: "1"}
	require.NoError(t, deduped.Append(dp))
	require.NoError(t, deduped.Append(dp))

	assert.Len(t, inner.appended, 1, "second identical append should be suppressed")
}

func TestDedup_DistinctPayloadsBothStage(t *testing.T) {
	st, err := memory.New(store.DefaultConfig())
	require.NoError(t, err)
	defer st.Close()

	inner := &recordingPersistence{}
	deduped := WithDedup(inner, st, time.Minute, nil)

	require.NoError(t, deduped.Append(DataPoint{Topic: "a", Payload: "1"}))
	require.NoError(t, deduped.Append(DataPoint{Topic: "a", Payload: "2"}))

	assert.Len(t, inner.appended, 2)
}
