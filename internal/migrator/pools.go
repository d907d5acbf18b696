package migrator

import (
	"context"
	"fmt"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
)

// movePools recreates each backend pool on the destination and moves the
// NIC IP configurations over. All removals from the source pool are issued
// before any addition to the destination pool so no NIC is ever claimed by
// both pools at once; in between, a NIC briefly belongs to no pool, which
// is a bounded routing gap rather than an outage.
func (m *Migrator) movePools(ctx context.Context, req Request, snap *azure.LoadBalancer) error {
	for _, pool := range snap.BackendPools {
		// the destination pool ID is only known after creation
		created, err := m.Provider.CreateBackendPool(ctx, req.ResourceGroup, req.TargetName, pool.Name)
		if err != nil {
			return m.fail(fmt.Sprintf("create backend pool %q", pool.Name), err)
		}

		m.journal.record("create", "backendPool", pool.Name)

		for _, member := range pool.Members {
			if err := m.Provider.RemoveNICFromPool(ctx, member.ResourceGroup, pool.ID, member.NICName, member.IPConfigName); err != nil {
				return m.fail(fmt.Sprintf("remove NIC %q/%q from pool %q", member.NICName, member.IPConfigName, pool.Name), err)
			}

			m.journal.record("remove", "poolMember", member.NICName+"/"+member.IPConfigName)
		}

		for _, member := range pool.Members {
			if err := m.Provider.AddNICToPool(ctx, member.ResourceGroup, created.ID, member.NICName, member.IPConfigName); err != nil {
				return m.fail(fmt.Sprintf("add NIC %q/%q to pool %q", member.NICName, member.IPConfigName, pool.Name), err)
			}

			m.journal.record("add", "poolMember", member.NICName+"/"+member.IPConfigName)
		}

		m.Logger.Infow("backend pool moved",
			"pool", pool.Name,
			"members", len(pool.Members),
		)
	}

	return nil
}
