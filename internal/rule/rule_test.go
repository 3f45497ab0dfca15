package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttflow/mqttflow/internal/config"
)

func TestCompile_TopicOnly(t *testing.T) {
	r, err := Compile(config.RuleConfig{
		RuleName: "exact",
		Topic:    "sensors/a",
		Task:     config.TaskTarget{Name: "log"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, r.Matches("sensors/a", nil))
	assert.False(t, r.Matches("sensors/b", nil))
}

func TestCompile_RegexOnly(t *testing.T) {
	r, err := Compile(config.RuleConfig{
		RuleName: "regex",
		Regex:    "sensors/",
		Task:     config.TaskTarget{Name: "log"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, r.Matches("sensors/a", nil))
	assert.False(t, r.Matches("actuators/a", nil))
}

func TestCompile_RegexAndTopicBothRequired(t *testing.T) {
	r, err := Compile(config.RuleConfig{
		RuleName: "both",
		Regex:    "sensors/",
		Topic:    "sensors/a",
		Task:     config.TaskTarget{Name: "log"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, r.Matches("sensors/a", nil))
	assert.False(t, r.Matches("sensors/b", nil), "regex matches but topic does not")
}

func TestCompile_NoFilterIsTriviallyTrue(t *testing.T) {
	r, err := Compile(config.RuleConfig{
		RuleName: "any",
		Task:     config.TaskTarget{Name: "log"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, r.Matches("anything/goes", nil))
}

func TestCompile_Condition(t *testing.T) {
	r, err := Compile(config.RuleConfig{
		RuleName:  "cond",
		Condition: `payload.temp > 30`,
		Task:      config.TaskTarget{Name: "alert"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, r.Matches("sensors/a", map[string]any{"temp": 35.0}))
	assert.False(t, r.Matches("sensors/a", map[string]any{"temp": 10.0}))
}

func TestCompile_ConditionEvaluationErrorIsNonMatch(t *testing.T) {
	r, err := Compile(config.RuleConfig{
		RuleName:  "cond-err",
		Condition: `payload.missing.deeper > 1`,
		Task:      config.TaskTarget{Name: "alert"},
	}, nil)
	require.NoError(t, err)

	assert.False(t, r.Matches("sensors/a", map[string]any{"temp": 35.0}))
}

func TestCompile_ConditionScopeIsClosed(t *testing.T) {
	_, err := Compile(config.RuleConfig{
		RuleName:  "leak",
		Condition: `os.Getenv("HOME") != ""`,
	}, nil)
	assert.Error(t, err, "condition referencing anything outside topic/payload must fail to compile")
}

func TestCompile_InvalidRegex(t *testing.T) {
	_, err := Compile(config.RuleConfig{
		RuleName: "bad",
		Regex:    "(unterminated",
	}, nil)
	assert.Error(t, err)
}
