package migrator

import (
	"context"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
)

// snapshot reads the source load balancer and fills in the allocation mode,
// tier and address of every frontend public IP. The result is treated as an
// immutable blueprint; nothing is reread from the provider once the build
// phases start.
func (m *Migrator) snapshot(ctx context.Context, req Request) (*azure.LoadBalancer, error) {
	lb, err := m.Provider.GetLoadBalancer(ctx, req.ResourceGroup, req.SourceName)
	if err != nil {
		return nil, err
	}

	for i := range lb.Frontends {
		ref := lb.Frontends[i].PublicIP

		ip, err := m.Provider.GetPublicIP(ctx, ref.ResourceGroup, ref.Name)
		if err != nil {
			return nil, err
		}

		lb.Frontends[i].PublicIP = *ip
	}

	return lb, nil
}
