package cmd

import "errors"

var (
	// ErrResourceGroupRequired is returned when the resource group is missing
	ErrResourceGroupRequired = errors.New("resource group is required and cannot be empty")
	// ErrSourceNameRequired is returned when the source load balancer name is missing
	ErrSourceNameRequired = errors.New("source load balancer name is required and cannot be empty")
	// ErrTargetNameRequired is returned when the target load balancer name is missing
	ErrTargetNameRequired = errors.New("target load balancer name is required and cannot be empty")
	// ErrSubscriptionIDRequired is returned when the Azure subscription id is missing
	ErrSubscriptionIDRequired = errors.New("azure subscription id is required and cannot be empty")
)
