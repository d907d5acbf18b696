package azure

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

const (
	ipConfigurationType = "Microsoft.Network/networkInterfaces/ipConfigurations"
	publicIPAddressType = "Microsoft.Network/publicIPAddresses"
)

// resourceName returns the trailing name component of an ARM resource ID.
func resourceName(id string) (string, error) {
	res, err := arm.ParseResourceID(id)
	if err != nil {
		return "", newMalformedError(fmt.Sprintf("resource id %q", id), err)
	}

	return res.Name, nil
}

// parsePublicIPID resolves a public IP address reference into its resource
// group and name.
func parsePublicIPID(id string) (resourceGroup, name string, err error) {
	res, err := arm.ParseResourceID(id)
	if err != nil {
		return "", "", newMalformedError(fmt.Sprintf("public IP id %q", id), err)
	}

	if !strings.EqualFold(res.ResourceType.String(), publicIPAddressType) {
		return "", "", fmt.Errorf("%w: %q is not a public IP address id", ErrMalformedResponse, id)
	}

	return res.ResourceGroupName, res.Name, nil
}

// parseIPConfigurationID resolves a NIC IP configuration reference into the
// (resource group, NIC, IP configuration) triple used for backend pool
// membership changes.
func parseIPConfigurationID(id string) (PoolMember, error) {
	res, err := arm.ParseResourceID(id)
	if err != nil {
		return PoolMember{}, newMalformedError(fmt.Sprintf("ip configuration id %q", id), err)
	}

	if !strings.EqualFold(res.ResourceType.String(), ipConfigurationType) || res.Parent == nil {
		return PoolMember{}, fmt.Errorf("%w: %q is not a NIC ip configuration id", ErrMalformedResponse, id)
	}

	return PoolMember{
		ResourceGroup: res.ResourceGroupName,
		NICName:       res.Parent.Name,
		IPConfigName:  res.Name,
	}, nil
}
