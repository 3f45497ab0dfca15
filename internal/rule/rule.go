// Package rule implements the rule engine: matching an inbound MQTT
// message's topic (and, optionally, a sandboxed condition over topic and
// payload) to a task dispatch target.
package rule

import (
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/pkg/log"
)

// ruleEnv is the only evaluation scope a condition expression ever sees.
// expr.Compile(condition, expr.Env(ruleEnv{})) rejects, at compile time,
// any condition referencing an identifier that isn't a field here.
type ruleEnv struct {
	Topic   string `expr:"topic"`
	Payload any    `expr:"payload"`
}

// Target names the task a matched rule dispatches to.
type Target struct {
	TaskName  string
	QueueName string
}

// Rule is one compiled routing rule.
type Rule struct {
	Name             string
	SourceClientName string
	Target           Target

	topic   string
	regex   *regexp.Regexp
	program *vm.Program
	log     log.Logger
}

// Compile builds a Rule from its configuration record, compiling the
// regex and condition expression once so match-time evaluation never
// parses anything.
func Compile(cfg config.RuleConfig, logger log.Logger) (*Rule, error) {
	r := &Rule{
		Name:             cfg.RuleName,
		SourceClientName: cfg.SourceClientName,
		Target: Target{
			TaskName:  cfg.Task.Name,
			QueueName: cfg.Task.QueueName,
		},
		topic: cfg.Topic,
		log:   logger,
	}

	if cfg.Regex != "" {
		re, err := regexp.Compile("^" + cfg.Regex)
		if err != nil {
			return nil, fmt.Errorf("rule %s: compile regex: %w", cfg.RuleName, err)
		}
		r.regex = re
	}

	if cfg.Condition != "" {
		program, err := expr.Compile(cfg.Condition, expr.Env(ruleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("rule %s: compile condition: %w", cfg.RuleName, err)
		}
		r.program = program
	}

	return r, nil
}

// Matches reports whether topic/payload satisfy this rule's topic filter
// and condition.
func (r *Rule) Matches(topic string, payload any) bool {
	if !r.matchesTopic(topic) {
		return false
	}
	return r.matchesCondition(topic, payload)
}

func (r *Rule) matchesTopic(topic string) bool {
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

func (r *Rule) matchesCondition(topic string, payload any) bool {
	if r.program == nil {
		return true
	}

	out, err := expr.Run(r.program, ruleEnv{Topic: topic, Payload: payload})
	if err != nil {
		if r.log != nil {
			r.log.Debug("rule condition evaluation error, treating as non-match",
				log.String("rule", r.Name), log.Error(err))
		}
		return false
	}

	matched, ok := out.(bool)
	return ok && matched
}
