package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.infratographer.com/x/viperx"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
	"go.infratographer.com/loadbalancer-upgrade-azure/internal/config"
	"go.infratographer.com/loadbalancer-upgrade-azure/internal/migrator"
)

// migrateCmd runs the load balancer migration
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "migrates a Basic SKU load balancer to a new Standard SKU one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate(cmd.Context(), viper.GetViper())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.PersistentFlags().String("resource-group", "", "resource group of the source load balancer")
	viperx.MustBindFlag(viper.GetViper(), "resource-group", migrateCmd.PersistentFlags().Lookup("resource-group"))

	migrateCmd.PersistentFlags().String("source-name", "", "name of the Basic SKU load balancer to migrate")
	viperx.MustBindFlag(viper.GetViper(), "source-name", migrateCmd.PersistentFlags().Lookup("source-name"))

	migrateCmd.PersistentFlags().String("target-name", "", "name of the Standard SKU load balancer to create")
	viperx.MustBindFlag(viper.GetViper(), "target-name", migrateCmd.PersistentFlags().Lookup("target-name"))

	migrateCmd.PersistentFlags().Bool("cleanup", true, "delete the default public IP and backend pool created with the new load balancer")
	viperx.MustBindFlag(viper.GetViper(), "cleanup", migrateCmd.PersistentFlags().Lookup("cleanup"))

	azureViperFlags(migrateCmd)
}

// azureViperFlags registers the ARM credential flags on a command
func azureViperFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("azure-subscription-id", "", "Azure subscription id")
	viperx.MustBindFlag(viper.GetViper(), "azure.subscription-id", cmd.PersistentFlags().Lookup("azure-subscription-id"))

	cmd.PersistentFlags().String("azure-tenant-id", "", "Azure tenant id for client secret auth")
	viperx.MustBindFlag(viper.GetViper(), "azure.tenant-id", cmd.PersistentFlags().Lookup("azure-tenant-id"))

	cmd.PersistentFlags().String("azure-client-id", "", "Azure client id for client secret auth")
	viperx.MustBindFlag(viper.GetViper(), "azure.client-id", cmd.PersistentFlags().Lookup("azure-client-id"))

	cmd.PersistentFlags().String("azure-client-secret", "", "Azure client secret, leave empty to use the default credential chain")
	viperx.MustBindFlag(viper.GetViper(), "azure.client-secret", cmd.PersistentFlags().Lookup("azure-client-secret"))
}

func migrate(cmdCtx context.Context, v *viper.Viper) error {
	if err := validateMandatoryFlags(); err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	ctx, cancel := context.WithCancel(cmdCtx)

	go func() {
		<-c
		cancel()
	}()

	cred, err := azureCredential()
	if err != nil {
		logger.Fatalw("failed to create azure credential", "error", err)
	}

	client, err := azure.NewClient(config.AppConfig.Azure.SubscriptionID, cred, azure.WithLogger(logger))
	if err != nil {
		logger.Fatalw("failed to create provider client", "error", err)
	}

	mig := &migrator.Migrator{
		Logger:   logger,
		Provider: client,
	}

	req := migrator.Request{
		ResourceGroup: viper.GetString("resource-group"),
		SourceName:    viper.GetString("source-name"),
		TargetName:    viper.GetString("target-name"),
		Cleanup:       viper.GetBool("cleanup"),
	}

	if err := mig.Run(ctx, req); err != nil {
		logger.Errorw("migration failed", "error", err)
		return err
	}

	logger.Infow("load balancer migrated",
		"source", req.SourceName,
		"target", req.TargetName,
	)

	return nil
}

// azureCredential picks client secret auth when configured and falls back
// to the default credential chain.
func azureCredential() (azcore.TokenCredential, error) {
	cfg := config.AppConfig.Azure

	if cfg.ClientSecret != "" {
		return azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
	}

	return azidentity.NewDefaultAzureCredential(nil)
}

// validateMandatoryFlags collects the mandatory flag validation
func validateMandatoryFlags() error {
	errs := []error{}

	if viper.GetString("resource-group") == "" {
		errs = append(errs, ErrResourceGroupRequired)
	}

	if viper.GetString("source-name") == "" {
		errs = append(errs, ErrSourceNameRequired)
	}

	if viper.GetString("target-name") == "" {
		errs = append(errs, ErrTargetNameRequired)
	}

	if viper.GetString("azure.subscription-id") == "" {
		errs = append(errs, ErrSubscriptionIDRequired)
	}

	if len(errs) == 0 {
		return nil
	}

	return errors.Join(errs...) //nolint:goerr113
}
