package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sddhantjaiii/Calling-agent-sub001/pkg/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "webhookctl",
	Short: "Offline tools for call-completion webhooks",
	Long: `webhookctl runs the webhook normalizer over captured payloads.

Use it to replay provider deliveries, inspect what would be stored and
check the output against the published contract.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := logger.New("dev")
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Flush(zap.L())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
}
