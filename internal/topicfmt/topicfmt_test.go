package topicfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	cases := []struct {
		name       string
		topic      string
		formatters []Formatter
		want       string
	}{
		{"prefix", "sensors/a", []Formatter{{Prefix: "site1"}}, "site1/sensors/a"},
		{"suffix", "sensors/a", []Formatter{{Suffix: "raw"}}, "sensors/a/raw"},
		{"remove_prefix match", "site1/sensors/a", []Formatter{{RemovePrefix: "site1"}}, "sensors/a"},
		{"remove_prefix no match", "sensors/a", []Formatter{{RemovePrefix: "site1"}}, "sensors/a"},
		{"remove_suffix match", "sensors/a/raw", []Formatter{{RemoveSuffix: "raw"}}, "sensors/a"},
		{"chain", "a", []Formatter{{Prefix: "x"}, {Suffix: "y"}}, "x/a/y"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Apply(tc.topic, tc.formatters))
		})
	}
}
