package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML flow definition from path, resolves its !VAR and !ENV
// tags against vars and the process environment, applies defaults, stamps
// unique client IDs where requested, and validates the result.
func Load(path string, vars map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	if err := resolveTags(&root, vars); err != nil {
		return nil, fmt.Errorf("resolve config variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := root.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyClientDefaults(cfg)
	makeClientIDsUnique(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveTags walks the parsed document in place, rewriting any node
// tagged !VAR or !ENV into a plain scalar carrying its resolved value.
// !VAR <name> looks the name up in vars; !ENV <NAME> [default] looks the
// name up in the process environment, falling back to default if given.
func resolveTags(node *yaml.Node, vars map[string]string) error {
	switch node.Tag {
	case "!VAR":
		name := strings.TrimSpace(node.Value)
		val, ok := vars[name]
		if !ok {
			return fmt.Errorf("!VAR %s: no value supplied", name)
		}
		node.Tag = "!!str"
		node.Value = val
	case "!ENV":
		fields := strings.Fields(node.Value)
		if len(fields) == 0 {
			return fmt.Errorf("!ENV: missing variable name")
		}
		name := fields[0]
		val, ok := os.LookupEnv(name)
		if !ok {
			if len(fields) > 1 {
				val = strings.Join(fields[1:], " ")
			} else {
				return fmt.Errorf("!ENV %s: not set and no default given", name)
			}
		}
		node.Tag = "!!str"
		node.Value = val
	}

	for _, child := range node.Content {
		if err := resolveTags(child, vars); err != nil {
			return err
		}
	}
	return nil
}

// applyClientDefaults fills in the per-client zero-value fields (server,
// port, keep-alive, and so on) that the YAML left unset.
func applyClientDefaults(cfg *Config) {
	defaults := clientDefaults()
	for i := range cfg.MQTTClients {
		c := &cfg.MQTTClients[i]
		if c.Server == "" {
			c.Server = defaults.Server
		}
		if c.Port == 0 {
			c.Port = defaults.Port
		}
		if c.KeepAlive == 0 {
			c.KeepAlive = defaults.KeepAlive
		}
		if c.MaxReconnectDelay == 0 {
			c.MaxReconnectDelay = defaults.MaxReconnectDelay
		}
		if c.QueueSize == 0 {
			c.QueueSize = defaults.QueueSize
		}
		if c.BatchSize == 0 {
			c.BatchSize = defaults.BatchSize
		}
		if c.PublishInterval == 0 {
			c.PublishInterval = defaults.PublishInterval
		}
	}
	for i := range cfg.TaskQueues {
		if cfg.TaskQueues[i].ExecutionRateLimitPerSecond == 0 {
			cfg.TaskQueues[i].ExecutionRateLimitPerSecond = DefaultTaskQueueRateLimit
		}
	}
}

// makeClientIDsUnique appends a short random suffix to each client's
// ClientID unless ClientIDUnique is explicitly set to false, so that two
// engine instances sharing a config never collide on the broker.
func makeClientIDsUnique(cfg *Config) {
	for i := range cfg.MQTTClients {
		c := &cfg.MQTTClients[i]
		if c.ClientIDUnique != nil && !*c.ClientIDUnique {
			continue
		}
		if c.ClientID == "" {
			c.ClientID = c.ClientName
		}
		c.ClientID = fmt.Sprintf("%s-%s", c.ClientID, uuid.NewString()[:8])
	}
}
