package azure

// SKUTier is the service class of a load balancer or public IP.
type SKUTier string

// Known SKU tiers
const (
	TierBasic    SKUTier = "Basic"
	TierStandard SKUTier = "Standard"
)

// AllocationMethod is a public IP address allocation mode.
type AllocationMethod string

// Known allocation methods
const (
	AllocationStatic  AllocationMethod = "Static"
	AllocationDynamic AllocationMethod = "Dynamic"
)

// LoadBalancer is an immutable snapshot of a load balancer's configuration.
// All cross-resource references are resolved to names at read time.
type LoadBalancer struct {
	Name          string
	ResourceGroup string
	Region        string
	Tier          SKUTier
	Frontends     []Frontend
	NATRules      []NATRule
	Probes        []Probe
	BackendPools  []BackendPool
	Rules         []Rule
}

// Frontend pairs a frontend IP configuration name with the public IP it
// references.
type Frontend struct {
	Name     string
	PublicIP PublicIP
}

// PublicIP is a public IP address resource. The resource is owned by its
// resource group, not by the load balancer referencing it.
type PublicIP struct {
	ID            string
	Name          string
	ResourceGroup string
	Region        string
	Tier          SKUTier
	Allocation    AllocationMethod
	Address       string
}

// NATRule is an inbound NAT rule. FrontendName is resolved from the rule's
// frontend IP configuration reference.
type NATRule struct {
	Name               string
	Protocol           string
	FrontendName       string
	FrontendPort       int32
	BackendPort        int32
	IdleTimeoutMinutes int32
	FloatingIP         bool
	TCPReset           bool
}

// Probe is a health probe. RequestPath is only meaningful for Http probes
// and is left empty for every other protocol.
type Probe struct {
	Name             string
	Protocol         string
	Port             int32
	IntervalSeconds  int32
	FailureThreshold int32
	RequestPath      string
}

// BackendPool is a backend address pool and the NIC IP configurations that
// are members of it.
type BackendPool struct {
	ID      string
	Name    string
	Members []PoolMember
}

// PoolMember identifies one NIC IP configuration belonging to a backend pool.
type PoolMember struct {
	ResourceGroup string
	NICName       string
	IPConfigName  string
}

// Rule is a load balancing rule. Pool and probe references are resolved to
// names at read time.
type Rule struct {
	Name               string
	Protocol           string
	FrontendName       string
	PoolName           string
	ProbeName          string
	FrontendPort       int32
	BackendPort        int32
	LoadDistribution   string
	IdleTimeoutMinutes int32
	FloatingIP         bool
	TCPReset           bool
}
