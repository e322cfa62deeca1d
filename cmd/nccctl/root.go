package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/nccerp/pkg/app"
	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "nccctl",
	Short:        "NCC ERP administration",
	Long:         `nccctl manages the NCC ERP schema, bootstrap accounts, the Google Sheets directory and the notification worker.`,
	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		if err := os.Setenv("CONFIG_FILE", configFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// withContainer builds the full container for commands that need services
func withContainer(ctx context.Context, fn func(c *app.Container) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Cleanup()
	return fn(c)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
