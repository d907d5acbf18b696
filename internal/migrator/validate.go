package migrator

import "go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"

// validateFrontends fails on the first frontend whose public IP is not
// statically allocated. A dynamic IP has no stable address to carry over,
// so this is a hard precondition, checked before anything is created.
func validateFrontends(lb *azure.LoadBalancer) error {
	for _, fe := range lb.Frontends {
		if fe.PublicIP.Allocation != azure.AllocationStatic {
			return newPreconditionError(fe.PublicIP.Name)
		}
	}

	return nil
}
