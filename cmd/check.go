package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.infratographer.com/x/viperx"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
	"go.infratographer.com/loadbalancer-upgrade-azure/internal/config"
)

// checkCmd checks that the resource provider is reachable with the
// configured credential
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "checks the connection to the Azure resource provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(cmd.Context(), viper.GetViper())
	},
}

const (
	defaultRetryLimit    = 3
	defaultRetryInterval = 1 * time.Second
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.PersistentFlags().Int("retries", defaultRetryLimit, "Number of attempts to verify the connection")
	viperx.MustBindFlag(viper.GetViper(), "retries", checkCmd.PersistentFlags().Lookup("retries"))

	checkCmd.PersistentFlags().Duration("retry-interval", defaultRetryInterval, "Interval between checks")
	viperx.MustBindFlag(viper.GetViper(), "retry-interval", checkCmd.PersistentFlags().Lookup("retry-interval"))

	azureViperFlags(checkCmd)
}

func check(ctx context.Context, viper *viper.Viper) error {
	cred, err := azureCredential()
	if err != nil {
		logger.Fatalw("failed to create azure credential", "error", err)
	}

	client, err := azure.NewClient(config.AppConfig.Azure.SubscriptionID, cred, azure.WithLogger(logger))
	if err != nil {
		logger.Fatalw("failed to create provider client", "error", err)
	}

	if err := client.WaitForReady(
		ctx,
		viper.GetInt("retries"),
		viper.GetDuration("retry-interval"),
	); err != nil {
		logger.Fatalw("resource provider is not reachable", "error", err)
	}

	return nil
}
