// Command mqtt-flow runs the declarative MQTT message-processing fabric
// described by a YAML flow definition: clients connect, inbound messages
// are matched against rules, and matched rules dispatch tasks onto
// worker-pool-backed queues.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mqttflow/mqttflow/internal/config"
	"github.com/mqttflow/mqttflow/internal/flow"
	"github.com/mqttflow/mqttflow/internal/metrics"
	prometheusdriver "github.com/mqttflow/mqttflow/internal/metrics/driver/prometheus"
	tasks "github.com/mqttflow/mqttflow/internal/task"
	"github.com/mqttflow/mqttflow/pkg/log"
	"github.com/mqttflow/mqttflow/pkg/task"

	_ "github.com/mqttflow/mqttflow/internal/log/driver/stdout"
)

const shutdownTimeout = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:   "mqtt-flow",
	Short: "Declarative MQTT message-processing fabric",
}

func init() {
	rootCmd.PersistentFlags().String("config", "flow.yaml", "Path to the flow definition YAML file")
	rootCmd.PersistentFlags().StringToString("var", nil, "!VAR substitution (key=value), repeatable")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the flow definition and run the engine until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		vars, _ := cmd.Flags().GetStringToString("var")

		cfg, err := config.Load(configPath, vars)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if err := log.InitializeLogging(cfg); err != nil {
			return fmt.Errorf("initialize logging: %w", err)
		}
		logger := log.GetApplicationLogger()

		var m *metrics.Metrics
		if cfg.Metrics.Enabled {
			provider, err := prometheusdriver.NewProvider(prometheusdriver.Options{})
			if err != nil {
				return fmt.Errorf("build metrics provider: %w", err)
			}
			m, err = metrics.New(provider)
			if err != nil {
				return fmt.Errorf("build metrics: %w", err)
			}

			metricsServer := &http.Server{Addr: cfg.Metrics.Address, Handler: m.Handler()}
			go func() {
				if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Warn("mqtt-flow: metrics server stopped", log.Error(err))
				}
			}()
			defer metricsServer.Close()
			logger.Info("mqtt-flow: metrics endpoint listening", log.String("address", cfg.Metrics.Address))
		}

		registry := task.NewRegistry()
		tasks.Register(registry, logger)

		f, err := flow.New(cfg, registry, logger, m)
		if err != nil {
			return fmt.Errorf("build flow: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := f.Start(ctx); err != nil {
			return fmt.Errorf("start flow: %w", err)
		}
		logger.Info("mqtt-flow: engine started", log.String("config", configPath))

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		logger.Info("mqtt-flow: shutting down")
		done := make(chan error, 1)
		go func() { done <- f.Stop() }()

		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("stop flow: %w", err)
			}
		case <-time.After(shutdownTimeout):
			return fmt.Errorf("stop flow: timed out after %s", shutdownTimeout)
		}

		logger.Info("mqtt-flow: shutdown complete")
		return nil
	},
}

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Load and validate a flow definition without starting the engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		vars, _ := cmd.Flags().GetStringToString("var")

		if _, err := config.Load(configPath, vars); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		fmt.Printf("%s: valid\n", configPath)
		return nil
	},
}
