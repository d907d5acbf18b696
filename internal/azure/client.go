// Package azure implements the provider client for the migration on top of
// the ARM network SDK.
package azure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"go.uber.org/zap"
)

// Client wraps the ARM network clients behind the operation surface the
// migrator consumes.
type Client struct {
	subscriptionID string
	loadBalancers  *armnetwork.LoadBalancersClient
	publicIPs      *armnetwork.PublicIPAddressesClient
	interfaces     *armnetwork.InterfacesClient
	backendPools   *armnetwork.LoadBalancerBackendAddressPoolsClient
	natRules       *armnetwork.InboundNatRulesClient
	logger         *zap.SugaredLogger
	armOptions     *arm.ClientOptions
}

// Option configures a client option.
type Option func(c *Client)

// WithLogger sets the logger for the client
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClientOptions sets the ARM client options, primarily so tests can
// inject a transport.
func WithClientOptions(opts *arm.ClientOptions) Option {
	return func(c *Client) {
		c.armOptions = opts
	}
}

// NewClient returns a provider client for the given subscription
func NewClient(subscriptionID string, credential azcore.TokenCredential, options ...Option) (*Client, error) {
	c := &Client{
		subscriptionID: subscriptionID,
		logger:         zap.NewNop().Sugar(),
	}

	for _, opt := range options {
		opt(c)
	}

	var err error

	if c.loadBalancers, err = armnetwork.NewLoadBalancersClient(subscriptionID, credential, c.armOptions); err != nil {
		return nil, err
	}

	if c.publicIPs, err = armnetwork.NewPublicIPAddressesClient(subscriptionID, credential, c.armOptions); err != nil {
		return nil, err
	}

	if c.interfaces, err = armnetwork.NewInterfacesClient(subscriptionID, credential, c.armOptions); err != nil {
		return nil, err
	}

	if c.backendPools, err = armnetwork.NewLoadBalancerBackendAddressPoolsClient(subscriptionID, credential, c.armOptions); err != nil {
		return nil, err
	}

	if c.natRules, err = armnetwork.NewInboundNatRulesClient(subscriptionID, credential, c.armOptions); err != nil {
		return nil, err
	}

	return c, nil
}

// GetLoadBalancer reads a load balancer and parses it into the snapshot
// model. Pure read.
func (c *Client) GetLoadBalancer(ctx context.Context, resourceGroup, name string) (*LoadBalancer, error) {
	resp, err := c.loadBalancers.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, translateError(err)
	}

	return snapshotLoadBalancer(resourceGroup, &resp.LoadBalancer)
}

// GetPublicIP reads a public IP address
func (c *Client) GetPublicIP(ctx context.Context, resourceGroup, name string) (*PublicIP, error) {
	resp, err := c.publicIPs.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, translateError(err)
	}

	return snapshotPublicIP(resourceGroup, &resp.PublicIPAddress), nil
}

// CreateLoadBalancer creates an empty load balancer with the given SKU tier
func (c *Client) CreateLoadBalancer(ctx context.Context, resourceGroup, name string, tier SKUTier, region string) (*LoadBalancer, error) {
	lb := armnetwork.LoadBalancer{
		Location: to.Ptr(region),
		SKU: &armnetwork.LoadBalancerSKU{
			Name: to.Ptr(armnetwork.LoadBalancerSKUName(tier)),
		},
		Properties: &armnetwork.LoadBalancerPropertiesFormat{},
	}

	poller, err := c.loadBalancers.BeginCreateOrUpdate(ctx, resourceGroup, name, lb, nil)
	if err != nil {
		return nil, translateError(err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, translateError(err)
	}

	return snapshotLoadBalancer(resourceGroup, &resp.LoadBalancer)
}

// UpdatePublicIPTier changes a public IP's SKU tier in place, preserving its
// identity and address.
func (c *Client) UpdatePublicIPTier(ctx context.Context, resourceGroup, name string, tier SKUTier) (*PublicIP, error) {
	resp, err := c.publicIPs.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, translateError(err)
	}

	ip := resp.PublicIPAddress
	ip.SKU = &armnetwork.PublicIPAddressSKU{
		Name: to.Ptr(armnetwork.PublicIPAddressSKUName(tier)),
	}

	poller, err := c.publicIPs.BeginCreateOrUpdate(ctx, resourceGroup, name, ip, nil)
	if err != nil {
		return nil, translateError(err)
	}

	updated, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, translateError(err)
	}

	return snapshotPublicIP(resourceGroup, &updated.PublicIPAddress), nil
}

// CreatePublicIP creates a public IP address
func (c *Client) CreatePublicIP(ctx context.Context, resourceGroup, name string, tier SKUTier, alloc AllocationMethod, region string) (*PublicIP, error) {
	ip := armnetwork.PublicIPAddress{
		Location: to.Ptr(region),
		SKU: &armnetwork.PublicIPAddressSKU{
			Name: to.Ptr(armnetwork.PublicIPAddressSKUName(tier)),
		},
		Properties: &armnetwork.PublicIPAddressPropertiesFormat{
			PublicIPAllocationMethod: to.Ptr(armnetwork.IPAllocationMethod(alloc)),
		},
	}

	poller, err := c.publicIPs.BeginCreateOrUpdate(ctx, resourceGroup, name, ip, nil)
	if err != nil {
		return nil, translateError(err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, translateError(err)
	}

	return snapshotPublicIP(resourceGroup, &resp.PublicIPAddress), nil
}

// SetFrontendPublicIP points a load balancer frontend at the given public
// IP, creating the frontend when it does not exist yet. ARM has no
// per-frontend endpoint, so this is a get-modify-put on the load balancer.
func (c *Client) SetFrontendPublicIP(ctx context.Context, resourceGroup, lbName, frontendName string, ip *PublicIP) error {
	resp, err := c.loadBalancers.Get(ctx, resourceGroup, lbName, nil)
	if err != nil {
		return translateError(err)
	}

	lb := resp.LoadBalancer
	if lb.Properties == nil {
		lb.Properties = &armnetwork.LoadBalancerPropertiesFormat{}
	}

	ipRef := &armnetwork.PublicIPAddress{ID: to.Ptr(ip.ID)}

	var frontend *armnetwork.FrontendIPConfiguration

	for _, fe := range lb.Properties.FrontendIPConfigurations {
		if strings.EqualFold(toValue(fe.Name), frontendName) {
			frontend = fe
			break
		}
	}

	if frontend == nil {
		frontend = &armnetwork.FrontendIPConfiguration{Name: to.Ptr(frontendName)}
		lb.Properties.FrontendIPConfigurations = append(lb.Properties.FrontendIPConfigurations, frontend)
	}

	if frontend.Properties == nil {
		frontend.Properties = &armnetwork.FrontendIPConfigurationPropertiesFormat{}
	}

	frontend.Properties.PublicIPAddress = ipRef

	return c.putLoadBalancer(ctx, resourceGroup, lbName, lb)
}

// CreateNATRule creates an inbound NAT rule on a load balancer
func (c *Client) CreateNATRule(ctx context.Context, resourceGroup, lbName string, rule NATRule) error {
	natRule := armnetwork.InboundNatRule{
		Name: to.Ptr(rule.Name),
		Properties: &armnetwork.InboundNatRulePropertiesFormat{
			FrontendIPConfiguration: &armnetwork.SubResource{
				ID: to.Ptr(c.subresourceID(resourceGroup, lbName, "frontendIPConfigurations", rule.FrontendName)),
			},
			Protocol:             to.Ptr(armnetwork.TransportProtocol(rule.Protocol)),
			FrontendPort:         to.Ptr(rule.FrontendPort),
			BackendPort:          to.Ptr(rule.BackendPort),
			IdleTimeoutInMinutes: to.Ptr(rule.IdleTimeoutMinutes),
			EnableFloatingIP:     to.Ptr(rule.FloatingIP),
			EnableTCPReset:       to.Ptr(rule.TCPReset),
		},
	}

	poller, err := c.natRules.BeginCreateOrUpdate(ctx, resourceGroup, lbName, rule.Name, natRule, nil)
	if err != nil {
		return translateError(err)
	}

	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return translateError(err)
	}

	return nil
}

// CreateProbe creates a health probe on a load balancer. ARM has no
// per-probe endpoint, so this is a get-modify-put on the load balancer.
func (c *Client) CreateProbe(ctx context.Context, resourceGroup, lbName string, probe Probe) error {
	resp, err := c.loadBalancers.Get(ctx, resourceGroup, lbName, nil)
	if err != nil {
		return translateError(err)
	}

	props := &armnetwork.ProbePropertiesFormat{
		Protocol:          to.Ptr(armnetwork.ProbeProtocol(probe.Protocol)),
		Port:              to.Ptr(probe.Port),
		IntervalInSeconds: to.Ptr(probe.IntervalSeconds),
		NumberOfProbes:    to.Ptr(probe.FailureThreshold),
	}

	// ARM rejects a request path on anything but an Http probe
	if armnetwork.ProbeProtocol(probe.Protocol) == armnetwork.ProbeProtocolHTTP {
		props.RequestPath = to.Ptr(probe.RequestPath)
	}

	lb := resp.LoadBalancer
	if lb.Properties == nil {
		lb.Properties = &armnetwork.LoadBalancerPropertiesFormat{}
	}

	lb.Properties.Probes = append(lb.Properties.Probes, &armnetwork.Probe{
		Name:       to.Ptr(probe.Name),
		Properties: props,
	})

	return c.putLoadBalancer(ctx, resourceGroup, lbName, lb)
}

// CreateBackendPool creates a backend address pool and returns it with the
// ARM-assigned pool ID.
func (c *Client) CreateBackendPool(ctx context.Context, resourceGroup, lbName, name string) (*BackendPool, error) {
	pool := armnetwork.BackendAddressPool{Name: to.Ptr(name)}

	poller, err := c.backendPools.BeginCreateOrUpdate(ctx, resourceGroup, lbName, name, pool, nil)
	if err != nil {
		return nil, translateError(err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, translateError(err)
	}

	created, err := snapshotBackendPool(&resp.BackendAddressPool)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// RemoveNICFromPool drops a NIC IP configuration's membership in the given
// backend pool.
func (c *Client) RemoveNICFromPool(ctx context.Context, resourceGroup, poolID, nicName, ipConfigName string) error {
	return c.updateNICPools(ctx, resourceGroup, nicName, ipConfigName, func(pools []*armnetwork.BackendAddressPool) []*armnetwork.BackendAddressPool {
		kept := make([]*armnetwork.BackendAddressPool, 0, len(pools))

		for _, pool := range pools {
			if strings.EqualFold(toValue(pool.ID), poolID) {
				continue
			}

			kept = append(kept, pool)
		}

		return kept
	})
}

// AddNICToPool adds a NIC IP configuration to the given backend pool
func (c *Client) AddNICToPool(ctx context.Context, resourceGroup, poolID, nicName, ipConfigName string) error {
	return c.updateNICPools(ctx, resourceGroup, nicName, ipConfigName, func(pools []*armnetwork.BackendAddressPool) []*armnetwork.BackendAddressPool {
		for _, pool := range pools {
			if strings.EqualFold(toValue(pool.ID), poolID) {
				return pools
			}
		}

		return append(pools, &armnetwork.BackendAddressPool{ID: to.Ptr(poolID)})
	})
}

func (c *Client) updateNICPools(ctx context.Context, resourceGroup, nicName, ipConfigName string, update func([]*armnetwork.BackendAddressPool) []*armnetwork.BackendAddressPool) error {
	resp, err := c.interfaces.Get(ctx, resourceGroup, nicName, nil)
	if err != nil {
		return translateError(err)
	}

	nic := resp.Interface
	if nic.Properties == nil {
		return fmt.Errorf("%w: NIC %q has no properties", ErrMalformedResponse, nicName)
	}

	var ipConfig *armnetwork.InterfaceIPConfiguration

	for _, cfg := range nic.Properties.IPConfigurations {
		if strings.EqualFold(toValue(cfg.Name), ipConfigName) {
			ipConfig = cfg
			break
		}
	}

	if ipConfig == nil {
		return fmt.Errorf("%w: NIC %q has no ip configuration %q", ErrNotFound, nicName, ipConfigName)
	}

	if ipConfig.Properties == nil {
		ipConfig.Properties = &armnetwork.InterfaceIPConfigurationPropertiesFormat{}
	}

	ipConfig.Properties.LoadBalancerBackendAddressPools = update(ipConfig.Properties.LoadBalancerBackendAddressPools)

	poller, err := c.interfaces.BeginCreateOrUpdate(ctx, resourceGroup, nicName, nic, nil)
	if err != nil {
		return translateError(err)
	}

	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return translateError(err)
	}

	return nil
}

// CreateRule creates a load balancing rule, resolving its frontend, pool and
// probe references by name against the same load balancer.
func (c *Client) CreateRule(ctx context.Context, resourceGroup, lbName string, rule Rule) error {
	resp, err := c.loadBalancers.Get(ctx, resourceGroup, lbName, nil)
	if err != nil {
		return translateError(err)
	}

	props := &armnetwork.LoadBalancingRulePropertiesFormat{
		FrontendIPConfiguration: &armnetwork.SubResource{
			ID: to.Ptr(c.subresourceID(resourceGroup, lbName, "frontendIPConfigurations", rule.FrontendName)),
		},
		BackendAddressPool: &armnetwork.SubResource{
			ID: to.Ptr(c.subresourceID(resourceGroup, lbName, "backendAddressPools", rule.PoolName)),
		},
		Probe: &armnetwork.SubResource{
			ID: to.Ptr(c.subresourceID(resourceGroup, lbName, "probes", rule.ProbeName)),
		},
		Protocol:             to.Ptr(armnetwork.TransportProtocol(rule.Protocol)),
		LoadDistribution:     to.Ptr(armnetwork.LoadDistribution(rule.LoadDistribution)),
		FrontendPort:         to.Ptr(rule.FrontendPort),
		BackendPort:          to.Ptr(rule.BackendPort),
		IdleTimeoutInMinutes: to.Ptr(rule.IdleTimeoutMinutes),
		EnableFloatingIP:     to.Ptr(rule.FloatingIP),
		EnableTCPReset:       to.Ptr(rule.TCPReset),
	}

	lb := resp.LoadBalancer
	if lb.Properties == nil {
		lb.Properties = &armnetwork.LoadBalancerPropertiesFormat{}
	}

	lb.Properties.LoadBalancingRules = append(lb.Properties.LoadBalancingRules, &armnetwork.LoadBalancingRule{
		Name:       to.Ptr(rule.Name),
		Properties: props,
	})

	return c.putLoadBalancer(ctx, resourceGroup, lbName, lb)
}

// DeletePublicIP deletes a public IP address
func (c *Client) DeletePublicIP(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.publicIPs.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return translateError(err)
	}

	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return translateError(err)
	}

	return nil
}

// DeleteBackendPool deletes a backend address pool from a load balancer
func (c *Client) DeleteBackendPool(ctx context.Context, resourceGroup, lbName, name string) error {
	poller, err := c.backendPools.BeginDelete(ctx, resourceGroup, lbName, name, nil)
	if err != nil {
		return translateError(err)
	}

	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return translateError(err)
	}

	return nil
}

// Ping issues a cheap list call to prove the credential and subscription
// wiring works.
func (c *Client) Ping(ctx context.Context) error {
	pager := c.loadBalancers.NewListAllPager(nil)

	if pager.More() {
		if _, err := pager.NextPage(ctx); err != nil {
			return translateError(err)
		}
	}

	return nil
}

// WaitForReady polls Ping until it succeeds or the retries are exhausted
func (c *Client) WaitForReady(ctx context.Context, retries int, sleep time.Duration) error {
	var err error

	for i := 0; i < retries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err = c.Ping(ctx); err == nil {
				c.logger.Info("resource provider is reachable")
				return nil
			}

			c.logger.Infow("waiting for resource provider", "error", err)
			time.Sleep(sleep)
		}
	}

	return fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
}

func (c *Client) putLoadBalancer(ctx context.Context, resourceGroup, lbName string, lb armnetwork.LoadBalancer) error {
	poller, err := c.loadBalancers.BeginCreateOrUpdate(ctx, resourceGroup, lbName, lb, nil)
	if err != nil {
		return translateError(err)
	}

	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return translateError(err)
	}

	return nil
}

func (c *Client) subresourceID(resourceGroup, lbName, kind, name string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Network/loadBalancers/%s/%s/%s",
		c.subscriptionID, resourceGroup, lbName, kind, name)
}
