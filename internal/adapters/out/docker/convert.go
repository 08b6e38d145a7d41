package docker

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"

	"github.com/bnema/stevedore/internal/domain"
)

func recordFromSummary(c container.Summary) domain.ContainerRecord {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	ports := make([]domain.PortMapping, 0, len(c.Ports))
	for _, p := range c.Ports {
		ports = append(ports, domain.PortMapping{
			Private: p.PrivatePort,
			Public:  p.PublicPort,
			Type:    p.Type,
		})
	}

	labels := c.Labels
	if labels == nil {
		labels = map[string]string{}
	}

	return domain.ContainerRecord{
		ID:     c.ID,
		Name:   name,
		Image:  c.Image,
		State:  domain.ContainerState(c.State),
		Status: c.Status,
		Ports:  ports,
		Labels: labels,
	}
}

func detailFromInspect(resp container.InspectResponse) domain.DetailedContainer {
	d := domain.DetailedContainer{
		ContainerRecord: domain.ContainerRecord{
			ID:     resp.ID,
			Name:   strings.TrimPrefix(resp.Name, "/"),
			Image:  resp.Image,
			Ports:  []domain.PortMapping{},
			Labels: map[string]string{},
		},
		Mounts:       make([]domain.Mount, 0, len(resp.Mounts)),
		Networks:     map[string]domain.EndpointInfo{},
		Env:          []string{},
		RestartCount: resp.RestartCount,
		Platform:     resp.Platform,
		HostConfig:   domain.HostConfigInfo{PortBindings: map[string][]domain.PortBinding{}},
	}

	if created, err := time.Parse(time.RFC3339Nano, resp.Created); err == nil {
		d.Created = created
	}

	if resp.Config != nil {
		if resp.Config.Image != "" {
			d.Image = resp.Config.Image
		}
		if resp.Config.Labels != nil {
			d.Labels = resp.Config.Labels
		}
		if resp.Config.Env != nil {
			d.Env = resp.Config.Env
		}
	}

	if s := resp.State; s != nil {
		d.State = domain.ContainerState(s.Status)
		d.Status = string(s.Status)
		d.StateDetail = domain.ContainerStateDetail{
			Status:     domain.ContainerState(s.Status),
			Running:    s.Running,
			Paused:     s.Paused,
			Restarting: s.Restarting,
			OOMKilled:  s.OOMKilled,
			Dead:       s.Dead,
			Pid:        s.Pid,
			ExitCode:   s.ExitCode,
			Error:      s.Error,
			StartedAt:  s.StartedAt,
			FinishedAt: s.FinishedAt,
		}
	}

	for _, m := range resp.Mounts {
		d.Mounts = append(d.Mounts, domain.Mount{
			Type:        string(m.Type),
			Source:      m.Source,
			Destination: m.Destination,
			Mode:        m.Mode,
			RW:          m.RW,
		})
	}

	if ns := resp.NetworkSettings; ns != nil {
		for name, ep := range ns.Networks {
			if ep == nil {
				continue
			}
			d.Networks[name] = domain.EndpointInfo{
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
		d.Ports = portsFromMap(ns.Ports)
	}

	if hc := resp.HostConfig; hc != nil {
		d.RestartPolicy = string(hc.RestartPolicy.Name)
		d.HostConfig = domain.HostConfigInfo{
			CPUShares:         hc.CPUShares,
			Memory:            hc.Memory,
			MemoryReservation: hc.MemoryReservation,
			MemorySwap:        hc.MemorySwap,
			NanoCPUs:          hc.NanoCPUs,
			AutoRemove:        hc.AutoRemove,
			NetworkMode:       string(hc.NetworkMode),
			PortBindings:      bindingsFromMap(hc.PortBindings),
		}
	}

	return d
}

// portsFromMap flattens exposed ports and their host bindings, ordered by port.
func portsFromMap(pm nat.PortMap) []domain.PortMapping {
	ports := make([]domain.PortMapping, 0, len(pm))
	keys := make([]nat.Port, 0, len(pm))
	for p := range pm {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Int() != keys[j].Int() {
			return keys[i].Int() < keys[j].Int()
		}
		return keys[i].Proto() < keys[j].Proto()
	})

	for _, p := range keys {
		private := uint16(p.Int())
		bindings := pm[p]
		if len(bindings) == 0 {
			ports = append(ports, domain.PortMapping{Private: private, Type: p.Proto()})
			continue
		}
		for _, b := range bindings {
			public, _ := strconv.ParseUint(b.HostPort, 10, 16)
			ports = append(ports, domain.PortMapping{Private: private, Public: uint16(public), Type: p.Proto()})
		}
	}
	return ports
}

func bindingsFromMap(pm nat.PortMap) map[string][]domain.PortBinding {
	out := make(map[string][]domain.PortBinding, len(pm))
	for p, bindings := range pm {
		list := make([]domain.PortBinding, 0, len(bindings))
		for _, b := range bindings {
			list = append(list, domain.PortBinding{HostIP: b.HostIP, HostPort: b.HostPort})
		}
		out[string(p)] = list
	}
	return out
}
