package dto

import (
	"time"

	"github.com/bnema/stevedore/internal/domain"
)

// PortInfo is one container port. Public is 0 when the port is not published.
type PortInfo struct {
	Private uint16 `json:"private"`
	Public  uint16 `json:"public"`
	Type    string `json:"type"`
}

// ContainerInfo is the list view of a container.
type ContainerInfo struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Image  string            `json:"image"`
	State  string            `json:"state"`
	Status string            `json:"status"`
	Ports  []PortInfo        `json:"ports"`
	Labels map[string]string `json:"labels"`
}

// ContainersResponse lists containers.
type ContainersResponse struct {
	Containers []ContainerInfo `json:"containers"`
	Count      int             `json:"count"`
}

// ContainerState is the inspect state of a container.
type ContainerState struct {
	Status     string `json:"status"`
	Running    bool   `json:"running"`
	Paused     bool   `json:"paused"`
	Restarting bool   `json:"restarting"`
	OOMKilled  bool   `json:"oom_killed"`
	Dead       bool   `json:"dead"`
	Pid        int    `json:"pid"`
	ExitCode   int    `json:"exit_code"`
	Error      string `json:"error"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

// MountInfo is a container mount.
type MountInfo struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
	RW          bool   `json:"rw"`
}

// EndpointInfo is a container's attachment to one network.
type EndpointInfo struct {
	NetworkID           string `json:"network_id"`
	EndpointID          string `json:"endpoint_id"`
	Gateway             string `json:"gateway"`
	IPAddress           string `json:"ip_address"`
	IPPrefixLen         int    `json:"ip_prefix_len"`
	IPv6Gateway         string `json:"ipv6_gateway"`
	GlobalIPv6Address   string `json:"global_ipv6_address"`
	GlobalIPv6PrefixLen int    `json:"global_ipv6_prefix_len"`
	MacAddress          string `json:"mac_address"`
}

// PortBindingInfo is a host binding of a container port.
type PortBindingInfo struct {
	HostIP   string `json:"host_ip"`
	HostPort string `json:"host_port"`
}

// HostConfigInfo is the exposed subset of a container's host configuration.
type HostConfigInfo struct {
	CPUShares         int64                        `json:"cpu_shares"`
	Memory            int64                        `json:"memory"`
	MemoryReservation int64                        `json:"memory_reservation"`
	MemorySwap        int64                        `json:"memory_swap"`
	NanoCPUs          int64                        `json:"nano_cpus"`
	AutoRemove        bool                         `json:"auto_remove"`
	NetworkMode       string                       `json:"network_mode"`
	PortBindings      map[string][]PortBindingInfo `json:"port_bindings"`
}

// DetailedContainerResponse is the inspect view of a container.
type DetailedContainerResponse struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Image         string                  `json:"image"`
	State         ContainerState          `json:"state"`
	Created       string                  `json:"created"`
	Ports         []PortInfo              `json:"ports"`
	Labels        map[string]string       `json:"labels"`
	Mounts        []MountInfo             `json:"mounts"`
	Networks      map[string]EndpointInfo `json:"networks"`
	Env           []string                `json:"env"`
	RestartPolicy string                  `json:"restart_policy"`
	RestartCount  int                     `json:"restart_count"`
	Platform      string                  `json:"platform"`
	HostConfig    HostConfigInfo          `json:"host_config"`
}

// ContainerActionResponse confirms a container command.
type ContainerActionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func newPorts(ports []domain.PortMapping) []PortInfo {
	out := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		out = append(out, PortInfo{Private: p.Private, Public: p.Public, Type: p.Type})
	}
	return out
}

func labelsOrEmpty(labels map[string]string) map[string]string {
	if labels == nil {
		return map[string]string{}
	}
	return labels
}

// NewContainerInfo converts a container record.
func NewContainerInfo(c domain.ContainerRecord) ContainerInfo {
	return ContainerInfo{
		ID:     c.ID,
		Name:   c.Name,
		Image:  c.Image,
		State:  string(c.State),
		Status: c.Status,
		Ports:  newPorts(c.Ports),
		Labels: labelsOrEmpty(c.Labels),
	}
}

// NewContainersResponse converts a container listing.
func NewContainersResponse(containers []domain.ContainerRecord) ContainersResponse {
	out := make([]ContainerInfo, 0, len(containers))
	for _, c := range containers {
		out = append(out, NewContainerInfo(c))
	}
	return ContainersResponse{Containers: out, Count: len(out)}
}

// NewDetailedContainerResponse converts an inspected container.
func NewDetailedContainerResponse(c *domain.DetailedContainer) DetailedContainerResponse {
	mounts := make([]MountInfo, 0, len(c.Mounts))
	for _, m := range c.Mounts {
		mounts = append(mounts, MountInfo{
			Type:        m.Type,
			Source:      m.Source,
			Destination: m.Destination,
			Mode:        m.Mode,
			RW:          m.RW,
		})
	}

	networks := make(map[string]EndpointInfo, len(c.Networks))
	for name, ep := range c.Networks {
		networks[name] = EndpointInfo{
			NetworkID:           ep.NetworkID,
			EndpointID:          ep.EndpointID,
			Gateway:             ep.Gateway,
			IPAddress:           ep.IPAddress,
			IPPrefixLen:         ep.IPPrefixLen,
			IPv6Gateway:         ep.IPv6Gateway,
			GlobalIPv6Address:   ep.GlobalIPv6Address,
			GlobalIPv6PrefixLen: ep.GlobalIPv6PrefixLen,
			MacAddress:          ep.MacAddress,
		}
	}

	bindings := make(map[string][]PortBindingInfo, len(c.HostConfig.PortBindings))
	for port, list := range c.HostConfig.PortBindings {
		infos := make([]PortBindingInfo, 0, len(list))
		for _, b := range list {
			infos = append(infos, PortBindingInfo{HostIP: b.HostIP, HostPort: b.HostPort})
		}
		bindings[port] = infos
	}

	env := c.Env
	if env == nil {
		env = []string{}
	}

	created := ""
	if !c.Created.IsZero() {
		created = c.Created.UTC().Format(time.RFC3339Nano)
	}

	return DetailedContainerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Image: c.Image,
		State: ContainerState{
			Status:     string(c.StateDetail.Status),
			Running:    c.StateDetail.Running,
			Paused:     c.StateDetail.Paused,
			Restarting: c.StateDetail.Restarting,
			OOMKilled:  c.StateDetail.OOMKilled,
			Dead:       c.StateDetail.Dead,
			Pid:        c.StateDetail.Pid,
			ExitCode:   c.StateDetail.ExitCode,
			Error:      c.StateDetail.Error,
			StartedAt:  c.StateDetail.StartedAt,
			FinishedAt: c.StateDetail.FinishedAt,
		},
		Created:       created,
		Ports:         newPorts(c.Ports),
		Labels:        labelsOrEmpty(c.Labels),
		Mounts:        mounts,
		Networks:      networks,
		Env:           env,
		RestartPolicy: c.RestartPolicy,
		RestartCount:  c.RestartCount,
		Platform:      c.Platform,
		HostConfig: HostConfigInfo{
			CPUShares:         c.HostConfig.CPUShares,
			Memory:            c.HostConfig.Memory,
			MemoryReservation: c.HostConfig.MemoryReservation,
			MemorySwap:        c.HostConfig.MemorySwap,
			NanoCPUs:          c.HostConfig.NanoCPUs,
			AutoRemove:        c.HostConfig.AutoRemove,
			NetworkMode:       c.HostConfig.NetworkMode,
			PortBindings:      bindings,
		},
	}
}

// NewContainerActionResponse converts a container action.
func NewContainerActionResponse(a *domain.ContainerAction) ContainerActionResponse {
	return ContainerActionResponse{Message: a.Message, ID: a.ID}
}
