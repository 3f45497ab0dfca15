// Package topicfmt implements the topic-rewriting pipeline used by the
// relay task and rule-aware persistence: an ordered sequence of
// prefix/suffix/strip edits applied to a topic string.
package topicfmt

import (
	"strings"

	"github.com/mqttflow/mqttflow/internal/config"
)

// Formatter is one edit step. Exactly one field fires per record, checked
// in this order: Prefix, Suffix, RemovePrefix, RemoveSuffix.
type Formatter struct {
	Prefix       string
	Suffix       string
	RemovePrefix string
	RemoveSuffix string
}

// Apply runs topic through each formatter in order and returns the result.
func Apply(topic string, formatters []Formatter) string {
	for _, f := range formatters {
		topic = applyOne(topic, f)
	}
	return topic
}

// FromConfig converts the YAML-facing formatter records into Formatter
// values.
func FromConfig(in []config.TopicFormatter) []Formatter {
	out := make([]Formatter, len(in))
	for i, f := range in {
		out[i] = Formatter{
			Prefix:       f.Prefix,
			Suffix:       f.Suffix,
			RemovePrefix: f.RemovePrefix,
			RemoveSuffix: f.RemoveSuffix,
		}
	}
	return out
}

func applyOne(topic string, f Formatter) string {
	switch {
	case f.Prefix != "":
		return f.Prefix + "/" + topic
	case f.Suffix != "":
		return topic + "/" + f.Suffix
	case f.RemovePrefix != "" && strings.HasPrefix(topic, f.RemovePrefix):
		return strings.TrimPrefix(strings.TrimPrefix(topic, f.RemovePrefix), "/")
	case f.RemoveSuffix != "" && strings.HasSuffix(topic, f.RemoveSuffix):
		return strings.TrimSuffix(strings.TrimSuffix(topic, f.RemoveSuffix), "/")
	default:
		return topic
	}
}
