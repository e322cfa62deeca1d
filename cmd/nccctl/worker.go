package main

import (
	"github.com/Abraxas-365/nccerp/pkg/app"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the notification job worker until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		return withContainer(ctx, func(c *app.Container) error {
			logx.Infof("👷 Worker consuming queues %v", c.Config.Jobx.Queues)
			return c.StartBackgroundServices(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
