package migrator

import (
	"context"
	"fmt"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
)

// copyProbes recreates every health probe on the destination. The request
// path travels only with Http probes; the snapshot model already strips it
// from everything else.
func (m *Migrator) copyProbes(ctx context.Context, req Request, snap *azure.LoadBalancer) error {
	for _, probe := range snap.Probes {
		if err := m.Provider.CreateProbe(ctx, req.ResourceGroup, req.TargetName, probe); err != nil {
			return m.fail(fmt.Sprintf("create probe %q", probe.Name), err)
		}

		m.journal.record("create", "probe", probe.Name)
	}

	return nil
}

// copyNATRules recreates every inbound NAT rule on the destination,
// carrying its protocol, ports, flags and idle timeout verbatim. Frontends
// must already exist on the destination.
func (m *Migrator) copyNATRules(ctx context.Context, req Request, snap *azure.LoadBalancer) error {
	for _, rule := range snap.NATRules {
		if err := m.Provider.CreateNATRule(ctx, req.ResourceGroup, req.TargetName, rule); err != nil {
			return m.fail(fmt.Sprintf("create NAT rule %q", rule.Name), err)
		}

		m.journal.record("create", "natRule", rule.Name)
	}

	return nil
}

// copyRules recreates every load balancing rule on the destination. Runs
// last since rules reference frontends, pools and probes by name.
func (m *Migrator) copyRules(ctx context.Context, req Request, snap *azure.LoadBalancer) error {
	for _, rule := range snap.Rules {
		if err := m.Provider.CreateRule(ctx, req.ResourceGroup, req.TargetName, rule); err != nil {
			return m.fail(fmt.Sprintf("create rule %q", rule.Name), err)
		}

		m.journal.record("create", "rule", rule.Name)
	}

	return nil
}
