package config

import "time"

// Config is the top-level configuration record for a mqtt-flow engine
// instance: a set of MQTT clients, a routing table of rules, a catalog of
// tasks, and the queue/pool topology the task executor runs them under.
type Config struct {
	MQTTClients []ClientConfig          `yaml:"mqtt_clients"`
	Rules       []RuleConfig            `yaml:"rules"`
	Tasks       map[string]TaskConfig   `yaml:"tasks"`
	TaskQueues  []TaskQueueConfig       `yaml:"tasks_queues"`
	Pools       []PoolConfig            `yaml:"pools"`
	Logging     LoggingConfig           `yaml:"logging"`
	Metrics     MetricsConfig           `yaml:"metrics"`
	Persistence PersistenceGlobalConfig `yaml:"persistence"`
}

// ClientConfig describes a single MQTT client/session.
type ClientConfig struct {
	ClientName        string             `yaml:"client_name"`
	ClientID          string             `yaml:"client_id"`
	ClientIDUnique    *bool              `yaml:"client_id_unique"`
	Server            string             `yaml:"server"`
	Port              int                `yaml:"port"`
	KeepAlive         time.Duration      `yaml:"keep_alive"`
	MaxReconnectDelay time.Duration      `yaml:"max_reconnect_delay"`
	CleanSession      bool               `yaml:"clean_session"`
	WillSetTopic      string             `yaml:"will_set_topic"`
	WillSetPayload    string             `yaml:"will_set_payload"`
	QueueSize         int                `yaml:"queue_size"`
	BatchSize         int                `yaml:"batch_size"`
	PublishInterval   time.Duration      `yaml:"publish_interval"`
	SSL               *SSLConfig         `yaml:"ssl_config"`
	SubTopics         []SubTopicConfig   `yaml:"sub_topics"`
	Userdata          map[string]any     `yaml:"userdata"`
	Persistence       *PersistenceConfig `yaml:"persistence_config"`
	DebugLog          bool               `yaml:"debug_log"`
	ExitOnReconnect   bool               `yaml:"exit_on_reconnect"`
}

// SubTopicConfig is a subscription filter, optionally with a QoS override.
type SubTopicConfig struct {
	Filter string `yaml:"filter"`
	QoS    byte   `yaml:"qos"`
}

// UnmarshalYAML accepts either a bare scalar topic filter or a
// {filter, qos} mapping, matching the on-connect subscription list shape.
func (s *SubTopicConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var plain string
	if err := unmarshal(&plain); err == nil {
		s.Filter = plain
		s.QoS = 0
		return nil
	}

	type rawSubTopic SubTopicConfig
	var raw rawSubTopic
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*s = SubTopicConfig(raw)
	return nil
}

// SSLConfig carries TLS client-cert material passed straight through to the
// broker connection; no authorization semantics are implied or enforced.
type SSLConfig struct {
	ALPNProtocol string `yaml:"alpn_protocol"`
	CA           string `yaml:"ca"`
	Cert         string `yaml:"cert"`
	Key          string `yaml:"key"`
}

// RuleConfig matches inbound messages on one source client to a task.
type RuleConfig struct {
	RuleName         string     `yaml:"rule_name"`
	SourceClientName string     `yaml:"source_client_name"`
	Regex            string     `yaml:"regex"`
	Topic            string     `yaml:"topic"`
	Condition        string     `yaml:"condition"`
	Task             TaskTarget `yaml:"task"`
}

// TaskTarget names the task to run and the queue it is dispatched onto.
type TaskTarget struct {
	Name      string `yaml:"name"`
	QueueName string `yaml:"queue_name"`
}

// TaskConfig is the operator-supplied configuration for one named task.
// Path resolves the task in the registry (internal/task); the remaining
// fields are task-specific and handed to the constructor verbatim.
type TaskConfig struct {
	Path            string           `yaml:"path"`
	ClientToPublish string           `yaml:"client_to_publish"`
	TopicToPublish  string           `yaml:"topic_to_publish"`
	TopicFormatters []TopicFormatter `yaml:"topic_formatters"`
	Persist         bool             `yaml:"persist"`
	QoS             byte             `yaml:"qos"`
	Options         map[string]any   `yaml:"options"`
}

// TopicFormatter is one edit step of the topic formatter pipeline: exactly
// one of the four fields fires per record, in this precedence order:
// prefix, suffix, remove_prefix, remove_suffix.
type TopicFormatter struct {
	Prefix       string `yaml:"prefix"`
	Suffix       string `yaml:"suffix"`
	RemovePrefix string `yaml:"remove_prefix"`
	RemoveSuffix string `yaml:"remove_suffix"`
}

// TaskQueueConfig binds a named task queue to a pool and a dispatch rate.
type TaskQueueConfig struct {
	Name                        string  `yaml:"name"`
	Size                        int     `yaml:"size"`
	Pool                        string  `yaml:"pool"`
	ExecutionRateLimitPerSecond float64 `yaml:"execution_rate_limit_per_second"`

	// DistributedRateLimit, when set, gates this queue's dispatch with a
	// shared quota held outside this process, on top of the in-process
	// per-second ceiling above. Used when multiple engine instances drain
	// the same logical task queue and must not collectively exceed a
	// single rate.
	DistributedRateLimit *DistributedRateLimitConfig `yaml:"distributed_rate_limit"`
}

// DistributedRateLimitConfig selects the shared store backing a task
// queue's distributed dispatch quota.
type DistributedRateLimitConfig struct {
	Storage       string `yaml:"storage"` // "memory" or "redis"
	RedisAddress  string `yaml:"redis_address"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPassword string `yaml:"redis_password"`
}

// PoolType is the worker-pool discipline tag.
type PoolType string

const (
	PoolSequential   PoolType = "sequential"
	PoolSimpleThread PoolType = "simple_thread"
	PoolThread       PoolType = "thread"
)

// PoolConfig declares one named worker pool.
type PoolConfig struct {
	Name       string   `yaml:"name"`
	Type       PoolType `yaml:"type"`
	MaxWorkers int      `yaml:"max_workers"`
}

// LoggingConfig configures the pkg/log stdout driver.
type LoggingConfig struct {
	DefaultLevel string            `yaml:"default_level"`
	Loggers      map[string]string `yaml:"loggers"`
}

// MetricsConfig toggles the prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// PersistenceGlobalConfig carries fabric-wide persistence defaults,
// including the optional dedup cache, off by default.
type PersistenceGlobalConfig struct {
	DedupEnabled bool          `yaml:"dedup_enabled"`
	DedupTTL     time.Duration `yaml:"dedup_ttl"`
	DedupStore   string        `yaml:"dedup_store"` // "memory" or "redis"
	RedisAddress string        `yaml:"redis_address"`
}

// PersistenceConfig configures one client's durable store-and-forward.
// Rules, when present, make this a rule-aware persistence instance that
// rewrites topics before staging.
type PersistenceConfig struct {
	Name                string                  `yaml:"name"`
	MainPath            string                  `yaml:"main_path"`
	BackupPath          string                  `yaml:"backup_path"`
	BatchSize           int                     `yaml:"batch_size"`
	BatchUploadMinDelay time.Duration           `yaml:"batch_upload_min_delay"`
	UploadInterval      time.Duration           `yaml:"upload_interval"`
	Rules               []PersistenceRuleConfig `yaml:"rules"`
}

// PersistenceRuleConfig is one topic-rewrite rule for rule-aware
// persistence: a data point is staged only if its topic matches.
type PersistenceRuleConfig struct {
	Regex                   string           `yaml:"regex"`
	Topic                   string           `yaml:"topic"`
	ReuploadTopicFormatters []TopicFormatter `yaml:"reupload_topic_formatters"`
}

// DefaultConfig returns a Config pre-populated with the fabric's defaults.
func DefaultConfig() *Config {
	return &Config{
		Tasks:      make(map[string]TaskConfig),
		TaskQueues: []TaskQueueConfig{},
		Pools:      []PoolConfig{},
		Logging: LoggingConfig{
			DefaultLevel: "info",
			Loggers:      map[string]string{},
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9091",
		},
		Persistence: PersistenceGlobalConfig{
			DedupEnabled: false,
			DedupTTL:     time.Minute,
			DedupStore:   "memory",
		},
	}
}

// clientDefaults mirrors the MQTT client's original constructor defaults.
func clientDefaults() ClientConfig {
	return ClientConfig{
		Server:            "127.0.0.1",
		Port:              1883,
		KeepAlive:         60 * time.Second,
		MaxReconnectDelay: 8 * time.Second,
		CleanSession:      true,
		QueueSize:         5,
		BatchSize:         5,
		PublishInterval:   60 * time.Second,
	}
}

// DefaultTaskQueueRateLimit is the execution-rate ceiling (dispatches per
// second) applied to a task queue that doesn't configure one.
const DefaultTaskQueueRateLimit = 1000
