package persistence

import (
	"regexp"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/internal/topicfmt"
)

type persistenceRule struct {
	regex      *regexp.Regexp
	topic      string
	formatters []topicfmt.Formatter
}

func (r persistenceRule) matches(topic string) bool {
	if r.regex == nil && r.topic == "" {
		return true
	}
	if r.regex != nil && !r.regex.MatchString(topic) {
		return false
	}
	if r.topic != "" && r.topic != topic {
		return false
	}
	return true
}

func compilePersistenceRules(cfgs []config.PersistenceRuleConfig) ([]persistenceRule, error) {
	rules := make([]persistenceRule, 0, len(cfgs))
	for _, c := range cfgs {
		rule := persistenceRule{
			topic:      c.Topic,
			formatters: topicfmt.FromConfig(c.ReuploadTopicFormatters),
		}
		if c.Regex != "" {
			re, err := regexp.Compile("^" + c.Regex)
			if err != nil {
				return nil, err
			}
			rule.regex = re
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// RuleAware rewrites a data point's topic before staging, per the first
// matching rule; data points matching no rule are dropped.
type RuleAware struct {
	*Engine
	rules []persistenceRule
}

func (r *RuleAware) Append(dp DataPoint) error {
	for _, rule := range r.rules {
		if rule.matches(dp.Topic) {
			rewritten := DataPoint{
				Topic:   topicfmt.Apply(dp.Topic, rule.formatters),
				Payload: dp.Payload,
			}
			return r.Engine.Append(rewritten)
		}
	}
	return nil
}
