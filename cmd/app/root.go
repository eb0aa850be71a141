package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/config"
	"github.com/wichananm65/smoothie-order-form/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "smoothie",
	Short:        "Smoothie order form",
	Long:         `Serves the smoothie order form: pick up to five fruits, check their nutrition facts and place an order.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: "+config.DefaultFile+" when present)")
	rootCmd.AddCommand(serveCmd, catalogCmd)
}

// bootstrap loads the configuration and builds the logger every command
// shares.
func bootstrap() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}
