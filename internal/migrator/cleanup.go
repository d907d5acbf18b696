package migrator

import "context"

// Names ARM gives the incidental resources created alongside a new load
// balancer.
const (
	defaultPublicIPPrefix = "PublicIP"
	defaultPoolSuffix     = "bepool"
)

// cleanup deletes the placeholder public IP and default backend pool ARM
// creates next to the destination load balancer. The migration's functional
// goal is already met by the time this runs, so failures are surfaced as
// warnings and never change the outcome.
func (m *Migrator) cleanup(ctx context.Context, req Request) {
	ipName := defaultPublicIPPrefix + req.TargetName

	if err := m.Provider.DeletePublicIP(ctx, req.ResourceGroup, ipName); err != nil {
		m.Logger.Warnw("failed to delete default public IP", "name", ipName, "error", err)
	} else {
		m.journal.record("delete", "publicIP", ipName)
	}

	poolName := req.TargetName + defaultPoolSuffix

	if err := m.Provider.DeleteBackendPool(ctx, req.ResourceGroup, req.TargetName, poolName); err != nil {
		m.Logger.Warnw("failed to delete default backend pool", "name", poolName, "error", err)
	} else {
		m.journal.record("delete", "backendPool", poolName)
	}
}
