package migrator

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestIncomplete is returned when the request is missing the resource group or a load balancer name
	ErrRequestIncomplete = errors.New("resource group, source name and target name are required")

	// ErrPreconditionFailed is returned when a frontend public IP is not statically allocated
	ErrPreconditionFailed = errors.New("frontend public IP allocation method is not static")

	// ErrTargetExists is returned when a load balancer already exists under the target name
	ErrTargetExists = errors.New("a load balancer already exists with the target name")

	// ErrPartialMigration is returned when a provider operation fails after at
	// least one mutation succeeded, leaving both load balancers for manual
	// remediation.
	ErrPartialMigration = errors.New("migration incomplete, manual remediation required")
)

func newPreconditionError(ipName string) error {
	return fmt.Errorf("%w: %q", ErrPreconditionFailed, ipName)
}

func newTargetExistsError(name string) error {
	return fmt.Errorf("%w: %q", ErrTargetExists, name)
}

func newPartialError(step string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", ErrPartialMigration, step, err)
}
