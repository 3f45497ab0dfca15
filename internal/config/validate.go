package config

// Validate checks the cross-references between clients, rules, task
// queues, pools, and tasks, returning a *ConfigError that aggregates every
// violation found rather than stopping at the first one.
func Validate(cfg *Config) error {
	errs := &ConfigError{}

	clientNames := validateClients(cfg, errs)
	poolNames := validatePools(cfg, errs)
	queueNames := validateTaskQueues(cfg, errs, poolNames)
	validateRules(cfg, errs, clientNames, queueNames)

	return errs.asError()
}

func validateClients(cfg *Config, errs *ConfigError) map[string]bool {
	names := make(map[string]bool, len(cfg.MQTTClients))
	for _, c := range cfg.MQTTClients {
		if c.ClientName == "" {
			errs.add("mqtt_clients: entry with empty client_name")
			continue
		}
		if names[c.ClientName] {
			errs.add("mqtt_clients: duplicate client_name %q", c.ClientName)
			continue
		}
		names[c.ClientName] = true
	}
	return names
}

func validatePools(cfg *Config, errs *ConfigError) map[string]bool {
	names := make(map[string]bool, len(cfg.Pools))
	for _, p := range cfg.Pools {
		if p.Name == "" {
			errs.add("pools: entry with empty name")
			continue
		}
		if names[p.Name] {
			errs.add("pools: duplicate pool name %q", p.Name)
			continue
		}
		switch p.Type {
		case PoolSequential, PoolSimpleThread, PoolThread:
		default:
			errs.add("pools[%s]: unknown type %q", p.Name, p.Type)
		}
		if p.Type == PoolThread && p.MaxWorkers <= 0 {
			errs.add("pools[%s]: max_workers must be > 0 for type thread", p.Name)
		}
		names[p.Name] = true
	}
	return names
}

func validateTaskQueues(cfg *Config, errs *ConfigError, poolNames map[string]bool) map[string]bool {
	names := make(map[string]bool, len(cfg.TaskQueues))
	for _, q := range cfg.TaskQueues {
		if q.Name == "" {
			errs.add("tasks_queues: entry with empty name")
			continue
		}
		if names[q.Name] {
			errs.add("tasks_queues: duplicate queue name %q", q.Name)
			continue
		}
		if q.Pool != "" && !poolNames[q.Pool] {
			errs.add("tasks_queues[%s]: pool %q not found in pools", q.Name, q.Pool)
		}
		names[q.Name] = true
	}
	return names
}

func validateRules(cfg *Config, errs *ConfigError, clientNames, queueNames map[string]bool) {
	seen := make(map[string]bool, len(cfg.Rules))
	for _, r := range cfg.Rules {
		if r.RuleName == "" {
			errs.add("rules: entry with empty rule_name")
			continue
		}
		if seen[r.RuleName] {
			errs.add("rules: duplicate rule_name %q", r.RuleName)
		}
		seen[r.RuleName] = true

		if r.SourceClientName == "" {
			errs.add("rules[%s]: source_client_name is required", r.RuleName)
		} else if !clientNames[r.SourceClientName] {
			errs.add("rules[%s]: source_client_name %q not found in mqtt_clients", r.RuleName, r.SourceClientName)
		}

		if r.Regex == "" && r.Topic == "" {
			errs.add("rules[%s]: one of regex or topic is required", r.RuleName)
		}

		if r.Task.Name == "" {
			errs.add("rules[%s]: task.name is required", r.RuleName)
		} else if _, ok := cfg.Tasks[r.Task.Name]; !ok {
			errs.add("rules[%s]: task.name %q not found in tasks", r.RuleName, r.Task.Name)
		}

		if r.Task.QueueName != "" && !queueNames[r.Task.QueueName] {
			errs.add("rules[%s]: task.queue_name %q not found in tasks_queues", r.RuleName, r.Task.QueueName)
		}
	}
}
