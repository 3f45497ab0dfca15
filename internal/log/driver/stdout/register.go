package stdout

import "github.com/mqttflow/mqttflow/pkg/log"

func init() {
	log.RegisterDriver("stdout", newFromFactoryConfig)
}

// newFromFactoryConfig adapts pkg/log's generic FactoryConfig into this
// driver's own Config, so pkg/log.InitializeLogging never has to import
// this package directly (it would import-cycle back into pkg/log).
func newFromFactoryConfig(name string, fc *log.FactoryConfig) (log.Logger, error) {
	cfg := DefaultConfig()
	if fc != nil {
		cfg.Level = fc.Level
		cfg.Development = fc.Development
		cfg.EnableCaller = fc.EnableCaller
		cfg.EnableStacktrace = fc.EnableStacktrace
		if fc.TimeFormat != "" {
			cfg.TimeFormat = fc.TimeFormat
		}
	}

	logger, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return logger.With(log.String("logger", name)), nil
}
