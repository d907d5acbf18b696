// Package mock provides a hand-rolled provider client mock
package mock

import (
	"context"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
)

// ProviderClient mock client
type ProviderClient struct {
	DoGetLoadBalancer     func(ctx context.Context, resourceGroup, name string) (*azure.LoadBalancer, error)
	DoGetPublicIP         func(ctx context.Context, resourceGroup, name string) (*azure.PublicIP, error)
	DoCreateLoadBalancer  func(ctx context.Context, resourceGroup, name string, tier azure.SKUTier, region string) (*azure.LoadBalancer, error)
	DoUpdatePublicIPTier  func(ctx context.Context, resourceGroup, name string, tier azure.SKUTier) (*azure.PublicIP, error)
	DoCreatePublicIP      func(ctx context.Context, resourceGroup, name string, tier azure.SKUTier, alloc azure.AllocationMethod, region string) (*azure.PublicIP, error)
	DoSetFrontendPublicIP func(ctx context.Context, resourceGroup, lbName, frontendName string, ip *azure.PublicIP) error
	DoCreateNATRule       func(ctx context.Context, resourceGroup, lbName string, rule azure.NATRule) error
	DoCreateProbe         func(ctx context.Context, resourceGroup, lbName string, probe azure.Probe) error
	DoCreateBackendPool   func(ctx context.Context, resourceGroup, lbName, name string) (*azure.BackendPool, error)
	DoRemoveNICFromPool   func(ctx context.Context, resourceGroup, poolID, nicName, ipConfigName string) error
	DoAddNICToPool        func(ctx context.Context, resourceGroup, poolID, nicName, ipConfigName string) error
	DoCreateRule          func(ctx context.Context, resourceGroup, lbName string, rule azure.Rule) error
	DoDeletePublicIP      func(ctx context.Context, resourceGroup, name string) error
	DoDeleteBackendPool   func(ctx context.Context, resourceGroup, lbName, name string) error
}

func (c *ProviderClient) GetLoadBalancer(ctx context.Context, resourceGroup, name string) (*azure.LoadBalancer, error) {
	return c.DoGetLoadBalancer(ctx, resourceGroup, name)
}

func (c *ProviderClient) GetPublicIP(ctx context.Context, resourceGroup, name string) (*azure.PublicIP, error) {
	return c.DoGetPublicIP(ctx, resourceGroup, name)
}

func (c *ProviderClient) CreateLoadBalancer(ctx context.Context, resourceGroup, name string, tier azure.SKUTier, region string) (*azure.LoadBalancer, error) {
	return c.DoCreateLoadBalancer(ctx, resourceGroup, name, tier, region)
}

func (c *ProviderClient) UpdatePublicIPTier(ctx context.Context, resourceGroup, name string, tier azure.SKUTier) (*azure.PublicIP, error) {
	return c.DoUpdatePublicIPTier(ctx, resourceGroup, name, tier)
}

func (c *ProviderClient) CreatePublicIP(ctx context.Context, resourceGroup, name string, tier azure.SKUTier, alloc azure.AllocationMethod, region string) (*azure.PublicIP, error) {
	return c.DoCreatePublicIP(ctx, resourceGroup, name, tier, alloc, region)
}

func (c *ProviderClient) SetFrontendPublicIP(ctx context.Context, resourceGroup, lbName, frontendName string, ip *azure.PublicIP) error {
	return c.DoSetFrontendPublicIP(ctx, resourceGroup, lbName, frontendName, ip)
}

func (c *ProviderClient) CreateNATRule(ctx context.Context, resourceGroup, lbName string, rule azure.NATRule) error {
	return c.DoCreateNATRule(ctx, resourceGroup, lbName, rule)
}

func (c *ProviderClient) CreateProbe(ctx context.Context, resourceGroup, lbName string, probe azure.Probe) error {
	return c.DoCreateProbe(ctx, resourceGroup, lbName, probe)
}

func (c *ProviderClient) CreateBackendPool(ctx context.Context, resourceGroup, lbName, name string) (*azure.BackendPool, error) {
	return c.DoCreateBackendPool(ctx, resourceGroup, lbName, name)
}

func (c *ProviderClient) RemoveNICFromPool(ctx context.Context, resourceGroup, poolID, nicName, ipConfigName string) error {
	return c.DoRemoveNICFromPool(ctx, resourceGroup, poolID, nicName, ipConfigName)
}

func (c *ProviderClient) AddNICToPool(ctx context.Context, resourceGroup, poolID, nicName, ipConfigName string) error {
	return c.DoAddNICToPool(ctx, resourceGroup, poolID, nicName, ipConfigName)
}

func (c *ProviderClient) CreateRule(ctx context.Context, resourceGroup, lbName string, rule azure.Rule) error {
	return c.DoCreateRule(ctx, resourceGroup, lbName, rule)
}

func (c *ProviderClient) DeletePublicIP(ctx context.Context, resourceGroup, name string) error {
	return c.DoDeletePublicIP(ctx, resourceGroup, name)
}

func (c *ProviderClient) DeleteBackendPool(ctx context.Context, resourceGroup, lbName, name string) error {
	return c.DoDeleteBackendPool(ctx, resourceGroup, lbName, name)
}
