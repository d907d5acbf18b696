// Package migrator sequences the Basic to Standard load balancer migration:
// snapshot, precondition checks, destination build-out, NIC reassignment and
// optional cleanup of provider-generated defaults.
package migrator

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
)

type provider interface {
	GetLoadBalancer(ctx context.Context, resourceGroup, name string) (*azure.LoadBalancer, error)
	GetPublicIP(ctx context.Context, resourceGroup, name string) (*azure.PublicIP, error)
	CreateLoadBalancer(ctx context.Context, resourceGroup, name string, tier azure.SKUTier, region string) (*azure.LoadBalancer, error)
	UpdatePublicIPTier(ctx context.Context, resourceGroup, name string, tier azure.SKUTier) (*azure.PublicIP, error)
	CreatePublicIP(ctx context.Context, resourceGroup, name string, tier azure.SKUTier, alloc azure.AllocationMethod, region string) (*azure.PublicIP, error)
	SetFrontendPublicIP(ctx context.Context, resourceGroup, lbName, frontendName string, ip *azure.PublicIP) error
	CreateNATRule(ctx context.Context, resourceGroup, lbName string, rule azure.NATRule) error
	CreateProbe(ctx context.Context, resourceGroup, lbName string, probe azure.Probe) error
	CreateBackendPool(ctx context.Context, resourceGroup, lbName, name string) (*azure.BackendPool, error)
	RemoveNICFromPool(ctx context.Context, resourceGroup, poolID, nicName, ipConfigName string) error
	AddNICToPool(ctx context.Context, resourceGroup, poolID, nicName, ipConfigName string) error
	CreateRule(ctx context.Context, resourceGroup, lbName string, rule azure.Rule) error
	DeletePublicIP(ctx context.Context, resourceGroup, name string) error
	DeleteBackendPool(ctx context.Context, resourceGroup, lbName, name string) error
}

// Request identifies the source and destination of one migration
type Request struct {
	ResourceGroup string
	SourceName    string
	TargetName    string
	Cleanup       bool
}

// Migrator runs the migration against a provider client
type Migrator struct {
	Logger   *zap.SugaredLogger
	Provider provider

	journal *journal
}

// Run migrates the source load balancer onto a newly created Standard one.
// The process is strictly forward-moving: once the first mutation lands
// there is no automatic rollback, and any later provider failure is
// surfaced as a partial migration with the journal of completed steps
// logged for manual remediation.
func (m *Migrator) Run(ctx context.Context, req Request) error {
	if req.ResourceGroup == "" || req.SourceName == "" || req.TargetName == "" {
		return ErrRequestIncomplete
	}

	m.journal = newJournal(m.Logger)

	m.Logger.Infow("reading source configuration",
		"resource-group", req.ResourceGroup,
		"source", req.SourceName,
		"target", req.TargetName,
	)

	snap, err := m.snapshot(ctx, req)
	if err != nil {
		return err
	}

	if err := validateFrontends(snap); err != nil {
		return err
	}

	if err := m.ensureTargetAbsent(ctx, req); err != nil {
		return err
	}

	target, err := m.Provider.CreateLoadBalancer(ctx, req.ResourceGroup, req.TargetName, azure.TierStandard, snap.Region)
	if err != nil {
		return m.fail("create destination load balancer", err)
	}

	m.journal.record("create", "loadBalancer", target.Name)

	if err := m.migrateFrontends(ctx, req, snap); err != nil {
		return err
	}

	if err := m.copyProbes(ctx, req, snap); err != nil {
		return err
	}

	if err := m.movePools(ctx, req, snap); err != nil {
		return err
	}

	if err := m.copyNATRules(ctx, req, snap); err != nil {
		return err
	}

	if err := m.copyRules(ctx, req, snap); err != nil {
		return err
	}

	if req.Cleanup {
		m.cleanup(ctx, req)
	}

	m.Logger.Infow("migration complete",
		"target", req.TargetName,
		"steps", m.journal.len(),
	)

	return nil
}

// ensureTargetAbsent refuses to replay onto an existing destination, so a
// re-run against a partially migrated pair fails clearly instead of
// duplicating resources.
func (m *Migrator) ensureTargetAbsent(ctx context.Context, req Request) error {
	_, err := m.Provider.GetLoadBalancer(ctx, req.ResourceGroup, req.TargetName)
	if err == nil {
		return newTargetExistsError(req.TargetName)
	}

	if errors.Is(err, azure.ErrNotFound) {
		return nil
	}

	return err
}

// fail wraps a provider failure. Before the first mutation the error passes
// through untouched; afterwards it becomes a partial migration and the
// completed steps are logged.
func (m *Migrator) fail(step string, err error) error {
	if m.journal.len() == 0 {
		return err
	}

	m.journal.report(step)

	return newPartialError(step, err)
}
