package domain

import "time"

// ContainerState is the engine-reported state of a container.
type ContainerState string

const (
	ContainerRunning    ContainerState = "running"
	ContainerExited     ContainerState = "exited"
	ContainerPaused     ContainerState = "paused"
	ContainerRestarting ContainerState = "restarting"
	ContainerCreated    ContainerState = "created"
	ContainerDead       ContainerState = "dead"
	ContainerRemoving   ContainerState = "removing"
)

// IsRunning reports whether the container counts as running.
// Paused and restarting containers still hold their process.
func (s ContainerState) IsRunning() bool {
	switch s {
	case ContainerRunning, ContainerPaused, ContainerRestarting:
		return true
	}
	return false
}

// PortMapping is one published or exposed container port.
type PortMapping struct {
	Private uint16
	Public  uint16
	Type    string
}

// ContainerRecord is the list view of an engine container.
type ContainerRecord struct {
	ID     string
	Name   string
	Image  string
	State  ContainerState
	Status string
	Ports  []PortMapping
	Labels map[string]string
}

// Project returns the compose project label of the container.
func (c ContainerRecord) Project() string { return ProjectOf(c.Labels) }

// Service returns the compose service label of the container.
func (c ContainerRecord) Service() string { return ServiceOf(c.Labels) }

// ContainerFilter narrows ListContainers. Zero value lists everything.
type ContainerFilter struct {
	Project string
	Service string
	Running bool // only running containers
}

// ContainerStateDetail is the inspect-level state of a container.
type ContainerStateDetail struct {
	Status     ContainerState
	Running    bool
	Paused     bool
	Restarting bool
	OOMKilled  bool
	Dead       bool
	Pid        int
	ExitCode   int
	Error      string
	StartedAt  string
	FinishedAt string
}

// Mount is a volume or bind mount attached to a container.
type Mount struct {
	Type        string
	Source      string
	Destination string
	Mode        string
	RW          bool
}

// EndpointInfo describes a container's attachment to one network.
type EndpointInfo struct {
	NetworkID           string
	EndpointID          string
	Gateway             string
	IPAddress           string
	IPPrefixLen         int
	IPv6Gateway         string
	GlobalIPv6Address   string
	GlobalIPv6PrefixLen int
	MacAddress          string
}

// PortBinding is one host binding of a container port.
type PortBinding struct {
	HostIP   string
	HostPort string
}

// HostConfigInfo is the subset of host configuration exposed by the API.
type HostConfigInfo struct {
	CPUShares         int64
	Memory            int64
	MemoryReservation int64
	MemorySwap        int64
	NanoCPUs          int64
	AutoRemove        bool
	NetworkMode       string
	PortBindings      map[string][]PortBinding
}

// DetailedContainer is the inspect view of a container.
type DetailedContainer struct {
	ContainerRecord
	Created       time.Time
	StateDetail   ContainerStateDetail
	Mounts        []Mount
	Networks      map[string]EndpointInfo
	Env           []string
	RestartPolicy string
	RestartCount  int
	Platform      string
	HostConfig    HostConfigInfo
}

// ContainerAction is the result of a start or stop command.
type ContainerAction struct {
	ID      string
	Message string
}

// CountContainers splits containers into running and stopped totals.
func CountContainers(containers []ContainerRecord) (running, stopped int) {
	for _, c := range containers {
		if c.State.IsRunning() {
			running++
		} else {
			stopped++
		}
	}
	return running, stopped
}
