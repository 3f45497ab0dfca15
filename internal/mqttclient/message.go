package mqttclient

import "encoding/json"

// Message is one entry on a client's inbound or outbound queue.
type Message struct {
	Topic   string
	Payload any
	Persist bool
	QoS     byte
}

// decodePayload attempts to parse raw as JSON; on failure the raw string
// form is kept, matching the "best-effort structured decode, fall back to
// string" rule.
func decodePayload(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
