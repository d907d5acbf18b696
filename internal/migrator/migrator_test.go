package migrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.infratographer.com/loadbalancer-upgrade-azure/internal/azure"
	"go.infratographer.com/loadbalancer-upgrade-azure/internal/migrator/mock"
)

const sourcePoolID = "/subscriptions/sub1/resourceGroups/rg1/providers/Microsoft.Network/loadBalancers/lb1/backendAddressPools/pool1"

func testLogger(t *testing.T) *zap.SugaredLogger {
	l, err := zap.NewDevelopmentConfig().Build()
	require.Nil(t, err)

	return l.Sugar()
}

// testSnapshot is the lb1 scenario: one frontend fe1 on static IP pip1, one
// backend pool pool1 with nic1/ipcfg1, a tcp probe hp1 and rule1 80->8080.
func testSnapshot() *azure.LoadBalancer {
	return &azure.LoadBalancer{
		Name:          "lb1",
		ResourceGroup: "rg1",
		Region:        "eastus",
		Tier:          azure.TierBasic,
		Frontends: []azure.Frontend{
			{
				Name: "fe1",
				PublicIP: azure.PublicIP{
					Name:          "pip1",
					ResourceGroup: "rg1",
				},
			},
		},
		NATRules: []azure.NATRule{
			{
				Name:         "nat1",
				Protocol:     "Tcp",
				FrontendName: "fe1",
				FrontendPort: 2222,
				BackendPort:  22,
			},
		},
		Probes: []azure.Probe{
			{
				Name:             "hp1",
				Protocol:         "Tcp",
				Port:             80,
				IntervalSeconds:  15,
				FailureThreshold: 2,
			},
		},
		BackendPools: []azure.BackendPool{
			{
				ID:   sourcePoolID,
				Name: "pool1",
				Members: []azure.PoolMember{
					{ResourceGroup: "rg1", NICName: "nic1", IPConfigName: "ipcfg1"},
				},
			},
		},
		Rules: []azure.Rule{
			{
				Name:             "rule1",
				Protocol:         "Tcp",
				FrontendName:     "fe1",
				PoolName:         "pool1",
				ProbeName:        "hp1",
				FrontendPort:     80,
				BackendPort:      8080,
				LoadDistribution: "Default",
			},
		},
	}
}

func notFoundErr(name string) error {
	return fmt.Errorf("%w: %s", azure.ErrNotFound, name)
}

// fakeProvider wires a stateful in-memory provider into the mock client
type fakeProvider struct {
	*mock.ProviderClient

	ipTiers      map[string]azure.SKUTier
	createdIPs   map[string]azure.AllocationMethod
	frontends    map[string]string // "<lb>/<frontend>" -> public IP name
	pools        []string
	removals     []string // "<poolID>|<nic>/<ipcfg>"
	additions    []string
	probes       []azure.Probe
	natRules     []azure.NATRule
	rules        []azure.Rule
	deletedIPs   []string
	deletedPools []string
}

func newFakeProvider(snap *azure.LoadBalancer) *fakeProvider {
	f := &fakeProvider{
		ProviderClient: &mock.ProviderClient{},
		ipTiers:        map[string]azure.SKUTier{"pip1": azure.TierBasic},
		createdIPs:     map[string]azure.AllocationMethod{},
		frontends:      map[string]string{"lb1/fe1": "pip1"},
	}

	f.DoGetLoadBalancer = func(_ context.Context, _, name string) (*azure.LoadBalancer, error) {
		if name == snap.Name {
			return snap, nil
		}

		return nil, notFoundErr(name)
	}

	f.DoGetPublicIP = func(_ context.Context, rg, name string) (*azure.PublicIP, error) {
		return &azure.PublicIP{
			ID:            "/subscriptions/sub1/resourceGroups/" + rg + "/providers/Microsoft.Network/publicIPAddresses/" + name,
			Name:          name,
			ResourceGroup: rg,
			Region:        "eastus",
			Tier:          f.ipTiers[name],
			Allocation:    azure.AllocationStatic,
			Address:       "52.1.2.3",
		}, nil
	}

	f.DoCreateLoadBalancer = func(_ context.Context, rg, name string, tier azure.SKUTier, region string) (*azure.LoadBalancer, error) {
		return &azure.LoadBalancer{Name: name, ResourceGroup: rg, Region: region, Tier: tier}, nil
	}

	f.DoUpdatePublicIPTier = func(ctx context.Context, rg, name string, tier azure.SKUTier) (*azure.PublicIP, error) {
		f.ipTiers[name] = tier
		return f.DoGetPublicIP(ctx, rg, name)
	}

	f.DoCreatePublicIP = func(_ context.Context, rg, name string, tier azure.SKUTier, alloc azure.AllocationMethod, region string) (*azure.PublicIP, error) {
		f.ipTiers[name] = tier
		f.createdIPs[name] = alloc

		return &azure.PublicIP{Name: name, ResourceGroup: rg, Region: region, Tier: tier, Allocation: alloc, Address: "10.9.9.9"}, nil
	}

	f.DoSetFrontendPublicIP = func(_ context.Context, _, lbName, frontendName string, ip *azure.PublicIP) error {
		f.frontends[lbName+"/"+frontendName] = ip.Name
		return nil
	}

	f.DoCreateNATRule = func(_ context.Context, _, _ string, rule azure.NATRule) error {
		f.natRules = append(f.natRules, rule)
		return nil
	}

	f.DoCreateProbe = func(_ context.Context, _, _ string, probe azure.Probe) error {
		f.probes = append(f.probes, probe)
		return nil
	}

	f.DoCreateBackendPool = func(_ context.Context, rg, lbName, name string) (*azure.BackendPool, error) {
		id := "/subscriptions/sub1/resourceGroups/" + rg + "/providers/Microsoft.Network/loadBalancers/" + lbName + "/backendAddressPools/" + name
		f.pools = append(f.pools, id)

		return &azure.BackendPool{ID: id, Name: name}, nil
	}

	f.DoRemoveNICFromPool = func(_ context.Context, _, poolID, nicName, ipConfigName string) error {
		f.removals = append(f.removals, poolID+"|"+nicName+"/"+ipConfigName)
		return nil
	}

	f.DoAddNICToPool = func(_ context.Context, _, poolID, nicName, ipConfigName string) error {
		f.additions = append(f.additions, poolID+"|"+nicName+"/"+ipConfigName)
		return nil
	}

	f.DoCreateRule = func(_ context.Context, _, _ string, rule azure.Rule) error {
		f.rules = append(f.rules, rule)
		return nil
	}

	f.DoDeletePublicIP = func(_ context.Context, _, name string) error {
		f.deletedIPs = append(f.deletedIPs, name)
		return nil
	}

	f.DoDeleteBackendPool = func(_ context.Context, _, _, name string) error {
		f.deletedPools = append(f.deletedPools, name)
		return nil
	}

	return f
}

func testRequest(cleanup bool) Request {
	return Request{
		ResourceGroup: "rg1",
		SourceName:    "lb1",
		TargetName:    "lb2",
		Cleanup:       cleanup,
	}
}

func TestValidateFrontends(t *testing.T) {
	validateTests := []struct {
		name       string
		allocation azure.AllocationMethod
		wantErr    error
	}{
		{"static ip passes", azure.AllocationStatic, nil},
		{"dynamic ip fails", azure.AllocationDynamic, ErrPreconditionFailed},
		{"unknown allocation fails", azure.AllocationMethod(""), ErrPreconditionFailed},
	}

	for _, tt := range validateTests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lb := &azure.LoadBalancer{
				Frontends: []azure.Frontend{
					{Name: "fe1", PublicIP: azure.PublicIP{Name: "pip1", Allocation: tt.allocation}},
				},
			}

			err := validateFrontends(lb)
			if tt.wantErr == nil {
				assert.Nil(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, "pip1")
		})
	}
}

func TestRunRequestIncomplete(t *testing.T) {
	mig := &Migrator{Logger: testLogger(t), Provider: &mock.ProviderClient{}}

	err := mig.Run(context.Background(), Request{SourceName: "lb1"})
	assert.ErrorIs(t, err, ErrRequestIncomplete)
}

func TestRunPreconditionHasNoSideEffects(t *testing.T) {
	snap := testSnapshot()
	fake := newFakeProvider(snap)

	mutations := 0
	fake.DoCreateLoadBalancer = func(_ context.Context, rg, name string, tier azure.SKUTier, region string) (*azure.LoadBalancer, error) {
		mutations++
		return &azure.LoadBalancer{Name: name}, nil
	}
	fake.DoGetPublicIP = func(_ context.Context, rg, name string) (*azure.PublicIP, error) {
		return &azure.PublicIP{Name: name, ResourceGroup: rg, Allocation: azure.AllocationDynamic}, nil
	}

	mig := &Migrator{Logger: testLogger(t), Provider: fake}

	err := mig.Run(context.Background(), testRequest(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.ErrorContains(t, err, "pip1")
	assert.Zero(t, mutations)
}

func TestRunTargetExists(t *testing.T) {
	snap := testSnapshot()
	fake := newFakeProvider(snap)

	fake.DoGetLoadBalancer = func(_ context.Context, _, name string) (*azure.LoadBalancer, error) {
		// both source and target resolve
		if name == "lb1" {
			return snap, nil
		}

		return &azure.LoadBalancer{Name: name}, nil
	}

	mig := &Migrator{Logger: testLogger(t), Provider: fake}

	err := mig.Run(context.Background(), testRequest(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetExists)
	assert.ErrorContains(t, err, "lb2")
}

func TestRunMigratesScenario(t *testing.T) {
	snap := testSnapshot()
	fake := newFakeProvider(snap)

	mig := &Migrator{Logger: testLogger(t), Provider: fake}

	err := mig.Run(context.Background(), testRequest(true))
	require.NoError(t, err)

	// the original IP is Standard tier now and owned by the destination frontend
	assert.Equal(t, azure.TierStandard, fake.ipTiers["pip1"])
	assert.Equal(t, "pip1", fake.frontends["lb2/fe1"])

	// the source frontend holds a static Basic placeholder
	assert.Equal(t, "pip1-basic", fake.frontends["lb1/fe1"])
	assert.Equal(t, azure.AllocationStatic, fake.createdIPs["pip1-basic"])
	assert.Equal(t, azure.TierBasic, fake.ipTiers["pip1-basic"])

	// pool membership moved: removal from the source pool id, addition to the
	// freshly assigned destination pool id
	newPoolID := "/subscriptions/sub1/resourceGroups/rg1/providers/Microsoft.Network/loadBalancers/lb2/backendAddressPools/pool1"
	require.Equal(t, []string{newPoolID}, fake.pools)
	assert.Equal(t, []string{sourcePoolID + "|nic1/ipcfg1"}, fake.removals)
	assert.Equal(t, []string{newPoolID + "|nic1/ipcfg1"}, fake.additions)

	// probes, NAT rules and rules replayed verbatim
	require.Len(t, fake.probes, 1)
	assert.Equal(t, snap.Probes[0], fake.probes[0])
	assert.Empty(t, fake.probes[0].RequestPath)

	require.Len(t, fake.natRules, 1)
	assert.Equal(t, snap.NATRules[0], fake.natRules[0])

	require.Len(t, fake.rules, 1)
	assert.Equal(t, snap.Rules[0], fake.rules[0])

	// the provider-generated defaults are gone
	assert.Equal(t, []string{"PublicIPlb2"}, fake.deletedIPs)
	assert.Equal(t, []string{"lb2bepool"}, fake.deletedPools)
}

func TestRunHTTPProbeKeepsPath(t *testing.T) {
	snap := testSnapshot()
	snap.Probes = append(snap.Probes, azure.Probe{
		Name:             "hp2",
		Protocol:         "Http",
		Port:             8080,
		IntervalSeconds:  5,
		FailureThreshold: 3,
		RequestPath:      "/healthz",
	})

	fake := newFakeProvider(snap)
	mig := &Migrator{Logger: testLogger(t), Provider: fake}

	err := mig.Run(context.Background(), testRequest(false))
	require.NoError(t, err)

	require.Len(t, fake.probes, 2)
	assert.Empty(t, fake.probes[0].RequestPath)
	assert.Equal(t, "/healthz", fake.probes[1].RequestPath)
}

func TestRunCleanupDisabled(t *testing.T) {
	snap := testSnapshot()
	fake := newFakeProvider(snap)

	mig := &Migrator{Logger: testLogger(t), Provider: fake}

	err := mig.Run(context.Background(), testRequest(false))
	require.NoError(t, err)

	assert.Empty(t, fake.deletedIPs)
	assert.Empty(t, fake.deletedPools)
}

func TestRunCleanupFailureIsNonFatal(t *testing.T) {
	snap := testSnapshot()
	fake := newFakeProvider(snap)

	fake.DoDeletePublicIP = func(_ context.Context, _, name string) error {
		return errors.New("delete rejected") //nolint:goerr113
	}

	mig := &Migrator{Logger: testLogger(t), Provider: fake}

	err := mig.Run(context.Background(), testRequest(true))
	require.NoError(t, err)

	// the pool delete still ran
	assert.Equal(t, []string{"lb2bepool"}, fake.deletedPools)
}

func TestRunPartialFailure(t *testing.T) {
	snap := testSnapshot()
	fake := newFakeProvider(snap)

	fake.DoCreateProbe = func(_ context.Context, _, _ string, probe azure.Probe) error {
		return errors.New("quota exceeded") //nolint:goerr113
	}

	mig := &Migrator{Logger: testLogger(t), Provider: fake}

	err := mig.Run(context.Background(), testRequest(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialMigration)
	assert.ErrorContains(t, err, "hp1")

	// the frontend swap completed before the failure and is left in place
	assert.Equal(t, "pip1", fake.frontends["lb2/fe1"])
	assert.Equal(t, "pip1-basic", fake.frontends["lb1/fe1"])
}

func TestRunFirstMutationFailureIsNotPartial(t *testing.T) {
	snap := testSnapshot()
	fake := newFakeProvider(snap)

	fake.DoCreateLoadBalancer = func(_ context.Context, _, _ string, _ azure.SKUTier, _ string) (*azure.LoadBalancer, error) {
		return nil, errors.New("provider rejected create") //nolint:goerr113
	}

	mig := &Migrator{Logger: testLogger(t), Provider: fake}

	err := mig.Run(context.Background(), testRequest(true))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPartialMigration)
}
