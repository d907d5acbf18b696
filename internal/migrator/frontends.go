package migrator

import (
	"context"
	"fmt"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
)

// placeholderSuffix names the throwaway Basic IP that keeps a source
// frontend serviceable after its original address moves to the destination.
const placeholderSuffix = "-basic"

// migrateFrontends moves each frontend's static public IP to the
// destination without ever deallocating it: the IP is upgraded to Standard
// in place, a placeholder Basic IP takes its slot on the source frontend
// (detaching a static IP does not release the address), and the original IP
// is attached to the same-named frontend on the destination. Not
// transactional; a failure partway leaves both load balancers serving
// traffic on their current addresses.
func (m *Migrator) migrateFrontends(ctx context.Context, req Request, snap *azure.LoadBalancer) error {
	for _, fe := range snap.Frontends {
		ip := fe.PublicIP

		upgraded, err := m.Provider.UpdatePublicIPTier(ctx, ip.ResourceGroup, ip.Name, azure.TierStandard)
		if err != nil {
			return m.fail(fmt.Sprintf("upgrade public IP %q to %s", ip.Name, azure.TierStandard), err)
		}

		m.journal.record("update", "publicIP", ip.Name)

		placeholderName := ip.Name + placeholderSuffix

		placeholder, err := m.Provider.CreatePublicIP(ctx, ip.ResourceGroup, placeholderName, azure.TierBasic, azure.AllocationStatic, snap.Region)
		if err != nil {
			return m.fail(fmt.Sprintf("create placeholder public IP %q", placeholderName), err)
		}

		m.journal.record("create", "publicIP", placeholderName)

		if err := m.Provider.SetFrontendPublicIP(ctx, req.ResourceGroup, req.SourceName, fe.Name, placeholder); err != nil {
			return m.fail(fmt.Sprintf("move source frontend %q to placeholder IP", fe.Name), err)
		}

		m.journal.record("reassign", "frontend", req.SourceName+"/"+fe.Name)

		if err := m.Provider.SetFrontendPublicIP(ctx, req.ResourceGroup, req.TargetName, fe.Name, upgraded); err != nil {
			return m.fail(fmt.Sprintf("attach public IP %q to destination frontend %q", ip.Name, fe.Name), err)
		}

		m.journal.record("reassign", "frontend", req.TargetName+"/"+fe.Name)

		m.Logger.Infow("frontend migrated",
			"frontend", fe.Name,
			"public-ip", ip.Name,
			"address", upgraded.Address,
			"placeholder", placeholderName,
		)
	}

	return nil
}
