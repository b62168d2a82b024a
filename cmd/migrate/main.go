package main

import (
	"os"

	"donorlink/config"
	"donorlink/helper"
	"donorlink/shared/logger"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back the postgres schema",
		SilenceUsage: true,
	}

	for action, short := range map[string]string{
		helper.ActionUp:     "Apply every pending migration",
		helper.ActionDown:   "Roll back the latest migration",
		helper.ActionStepUp: "Apply the next pending migration",
		helper.ActionDrop:   "Roll back every migration",
	} {
		rootCmd.AddCommand(&cobra.Command{
			Use:   action,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				cfg := config.Get()

				logger.InitLogger()
				logger.Configure(cfg)

				return helper.Runner(cfg, action)
			},
		})
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
