package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
)

// toValue dereferences the pointer-heavy ARM models, substituting the zero
// value for nil.
func toValue[T any](v *T) T {
	if v == nil {
		var result T
		return result
	}

	return *v
}

// snapshotLoadBalancer parses an ARM load balancer into the snapshot model,
// resolving every cross-resource reference to a name. Unresolvable or
// missing references fail the whole parse.
func snapshotLoadBalancer(resourceGroup string, lb *armnetwork.LoadBalancer) (*LoadBalancer, error) {
	out := &LoadBalancer{
		Name:          toValue(lb.Name),
		ResourceGroup: resourceGroup,
		Region:        toValue(lb.Location),
	}

	if lb.SKU != nil {
		out.Tier = SKUTier(toValue(lb.SKU.Name))
	}

	if lb.Properties == nil {
		return out, nil
	}

	for _, fe := range lb.Properties.FrontendIPConfigurations {
		frontend, err := snapshotFrontend(fe)
		if err != nil {
			return nil, err
		}

		out.Frontends = append(out.Frontends, frontend)
	}

	for _, nat := range lb.Properties.InboundNatRules {
		rule, err := snapshotNATRule(nat)
		if err != nil {
			return nil, err
		}

		out.NATRules = append(out.NATRules, rule)
	}

	for _, probe := range lb.Properties.Probes {
		out.Probes = append(out.Probes, snapshotProbe(probe))
	}

	for _, pool := range lb.Properties.BackendAddressPools {
		snapPool, err := snapshotBackendPool(pool)
		if err != nil {
			return nil, err
		}

		out.BackendPools = append(out.BackendPools, snapPool)
	}

	for _, rule := range lb.Properties.LoadBalancingRules {
		snapRule, err := snapshotRule(rule)
		if err != nil {
			return nil, err
		}

		out.Rules = append(out.Rules, snapRule)
	}

	return out, nil
}

func snapshotFrontend(fe *armnetwork.FrontendIPConfiguration) (Frontend, error) {
	name := toValue(fe.Name)

	if fe.Properties == nil || fe.Properties.PublicIPAddress == nil || fe.Properties.PublicIPAddress.ID == nil {
		return Frontend{}, fmt.Errorf("%w: frontend %q has no public IP reference", ErrMalformedResponse, name)
	}

	ipRG, ipName, err := parsePublicIPID(*fe.Properties.PublicIPAddress.ID)
	if err != nil {
		return Frontend{}, err
	}

	return Frontend{
		Name: name,
		PublicIP: PublicIP{
			ID:            *fe.Properties.PublicIPAddress.ID,
			Name:          ipName,
			ResourceGroup: ipRG,
		},
	}, nil
}

func snapshotNATRule(nat *armnetwork.InboundNatRule) (NATRule, error) {
	name := toValue(nat.Name)

	if nat.Properties == nil || nat.Properties.FrontendIPConfiguration == nil || nat.Properties.FrontendIPConfiguration.ID == nil {
		return NATRule{}, fmt.Errorf("%w: NAT rule %q has no frontend reference", ErrMalformedResponse, name)
	}

	frontendName, err := resourceName(*nat.Properties.FrontendIPConfiguration.ID)
	if err != nil {
		return NATRule{}, err
	}

	return NATRule{
		Name:               name,
		Protocol:           string(toValue(nat.Properties.Protocol)),
		FrontendName:       frontendName,
		FrontendPort:       toValue(nat.Properties.FrontendPort),
		BackendPort:        toValue(nat.Properties.BackendPort),
		IdleTimeoutMinutes: toValue(nat.Properties.IdleTimeoutInMinutes),
		FloatingIP:         toValue(nat.Properties.EnableFloatingIP),
		TCPReset:           toValue(nat.Properties.EnableTCPReset),
	}, nil
}

func snapshotProbe(probe *armnetwork.Probe) Probe {
	out := Probe{Name: toValue(probe.Name)}

	if probe.Properties == nil {
		return out
	}

	out.Protocol = string(toValue(probe.Properties.Protocol))
	out.Port = toValue(probe.Properties.Port)
	out.IntervalSeconds = toValue(probe.Properties.IntervalInSeconds)
	out.FailureThreshold = toValue(probe.Properties.NumberOfProbes)

	// the request path only exists on Http probes
	if toValue(probe.Properties.Protocol) == armnetwork.ProbeProtocolHTTP {
		out.RequestPath = toValue(probe.Properties.RequestPath)
	}

	return out
}

func snapshotBackendPool(pool *armnetwork.BackendAddressPool) (BackendPool, error) {
	out := BackendPool{
		ID:   toValue(pool.ID),
		Name: toValue(pool.Name),
	}

	if pool.Properties == nil {
		return out, nil
	}

	for _, ipConfig := range pool.Properties.BackendIPConfigurations {
		if ipConfig.ID == nil {
			return BackendPool{}, fmt.Errorf("%w: pool %q member has no id", ErrMalformedResponse, out.Name)
		}

		member, err := parseIPConfigurationID(*ipConfig.ID)
		if err != nil {
			return BackendPool{}, err
		}

		out.Members = append(out.Members, member)
	}

	return out, nil
}

func snapshotRule(rule *armnetwork.LoadBalancingRule) (Rule, error) {
	name := toValue(rule.Name)

	if rule.Properties == nil {
		return Rule{}, fmt.Errorf("%w: rule %q has no properties", ErrMalformedResponse, name)
	}

	out := Rule{
		Name:               name,
		Protocol:           string(toValue(rule.Properties.Protocol)),
		FrontendPort:       toValue(rule.Properties.FrontendPort),
		BackendPort:        toValue(rule.Properties.BackendPort),
		LoadDistribution:   string(toValue(rule.Properties.LoadDistribution)),
		IdleTimeoutMinutes: toValue(rule.Properties.IdleTimeoutInMinutes),
		FloatingIP:         toValue(rule.Properties.EnableFloatingIP),
		TCPReset:           toValue(rule.Properties.EnableTCPReset),
	}

	var err error

	if rule.Properties.FrontendIPConfiguration != nil && rule.Properties.FrontendIPConfiguration.ID != nil {
		if out.FrontendName, err = resourceName(*rule.Properties.FrontendIPConfiguration.ID); err != nil {
			return Rule{}, err
		}
	}

	if rule.Properties.BackendAddressPool != nil && rule.Properties.BackendAddressPool.ID != nil {
		if out.PoolName, err = resourceName(*rule.Properties.BackendAddressPool.ID); err != nil {
			return Rule{}, err
		}
	}

	if rule.Properties.Probe != nil && rule.Properties.Probe.ID != nil {
		if out.ProbeName, err = resourceName(*rule.Properties.Probe.ID); err != nil {
			return Rule{}, err
		}
	}

	return out, nil
}

func snapshotPublicIP(resourceGroup string, ip *armnetwork.PublicIPAddress) *PublicIP {
	out := &PublicIP{
		ID:            toValue(ip.ID),
		Name:          toValue(ip.Name),
		ResourceGroup: resourceGroup,
		Region:        toValue(ip.Location),
	}

	if ip.SKU != nil {
		out.Tier = SKUTier(toValue(ip.SKU.Name))
	}

	if ip.Properties != nil {
		out.Allocation = AllocationMethod(toValue(ip.Properties.PublicIPAllocationMethod))
		out.Address = toValue(ip.Properties.IPAddress)
	}

	return out
}
