package dto

import (
	"github.com/bnema/stevedore/internal/domain"
)

// NetworkInfo is a top-level compose network.
type NetworkInfo struct {
	Name     string         `json:"name"`
	Driver   string         `json:"driver"`
	External bool           `json:"external"`
	Config   map[string]any `json:"config"`
}

// NetworksResponse lists the networks of a project.
type NetworksResponse struct {
	Networks []NetworkInfo `json:"networks"`
	Count    int           `json:"count"`
}

// NetworkRequest adds or replaces a network.
type NetworkRequest struct {
	Name     string         `json:"name"`
	Driver   string         `json:"driver"`
	External bool           `json:"external"`
	Config   map[string]any `json:"config"`
}

// NetworkMutationResponse confirms a network change.
type NetworkMutationResponse struct {
	Message string `json:"message"`
	Project string `json:"project"`
	Network string `json:"network"`
}

// ToDomain converts the request into a network spec.
func (r NetworkRequest) ToDomain() domain.NetworkSpec {
	return domain.NetworkSpec{
		Name:     r.Name,
		Driver:   r.Driver,
		External: r.External,
		Config:   r.Config,
	}
}

// NewNetworkInfo converts a network spec.
func NewNetworkInfo(n domain.NetworkSpec) NetworkInfo {
	config := n.Config
	if config == nil {
		config = map[string]any{}
	}
	return NetworkInfo{Name: n.Name, Driver: n.Driver, External: n.External, Config: config}
}

// NewNetworksResponse converts a network listing.
func NewNetworksResponse(networks []domain.NetworkSpec) NetworksResponse {
	out := make([]NetworkInfo, 0, len(networks))
	for _, n := range networks {
		out = append(out, NewNetworkInfo(n))
	}
	return NetworksResponse{Networks: out, Count: len(out)}
}
