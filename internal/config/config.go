// Package config provides a struct to store the application's configuration
package config

import (
	"go.infratographer.com/x/loggingx"
)

// AzureConfig stores the credential and subscription configuration for ARM
type AzureConfig struct {
	SubscriptionID string `mapstructure:"subscription-id"`
	TenantID       string `mapstructure:"tenant-id"`
	ClientID       string `mapstructure:"client-id"`
	ClientSecret   string `mapstructure:"client-secret"`
}

var AppConfig struct {
	Logging loggingx.Config
	Azure   AzureConfig
}
