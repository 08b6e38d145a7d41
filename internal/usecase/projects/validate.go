package projects

import (
	"strings"

	"github.com/docker/go-connections/nat"

	"github.com/bnema/stevedore/internal/domain"
)

var volumeModes = map[string]bool{
	"ro": true, "rw": true, "z": true, "Z": true,
	"cached": true, "delegated": true, "consistent": true, "nocopy": true,
	"shared": true, "slave": true, "private": true,
	"rshared": true, "rslave": true, "rprivate": true,
}

// validateServiceSpec checks the syntax of every field. Reference checks
// (depends_on targets, declared networks) belong to the compose store.
func validateServiceSpec(spec domain.ServiceSpec) error {
	if err := domain.ValidateResourceName("name", spec.Name); err != nil {
		return err
	}
	if strings.TrimSpace(spec.Image) == "" && strings.TrimSpace(spec.Build) == "" {
		return domain.ErrServiceImageNeeded
	}
	for _, p := range spec.Ports {
		if err := validatePort(p); err != nil {
			return err
		}
	}
	for _, v := range spec.Volumes {
		if err := validateVolume(v); err != nil {
			return err
		}
	}
	for _, l := range spec.Labels {
		key, _, ok := strings.Cut(l, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return domain.NewValidationError("labels", "invalid label %q: expected KEY=VALUE", l)
		}
	}
	for key := range spec.Environment {
		if err := domain.ValidateEnvKey(key); err != nil {
			return err
		}
	}
	for _, dep := range spec.DependsOn {
		if err := domain.ValidateResourceName("depends_on", dep); err != nil {
			return err
		}
	}
	for _, n := range spec.Networks {
		if err := domain.ValidateResourceName("networks", n); err != nil {
			return err
		}
	}
	if !spec.Restart.Valid() {
		return domain.NewValidationError("restart", "invalid restart policy %q", spec.Restart)
	}
	return nil
}

// validatePort accepts the compose short syntax, e.g. "80", "8080:80",
// "127.0.0.1:8080:80/tcp" or "9000-9001:9000-9001".
func validatePort(p string) error {
	if strings.TrimSpace(p) == "" {
		return domain.NewValidationError("ports", "port mapping must not be empty")
	}
	if _, err := nat.ParsePortSpec(p); err != nil {
		return domain.NewValidationError("ports", "invalid port mapping %q: %v", p, err)
	}
	return nil
}

// validateVolume accepts "target", "source:target" and "source:target:mode".
func validateVolume(v string) error {
	parts := strings.Split(v, ":")
	if len(parts) > 3 {
		return domain.NewValidationError("volumes", "invalid volume %q: too many ':' separators", v)
	}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return domain.NewValidationError("volumes", "invalid volume %q: empty segment", v)
		}
	}
	if len(parts) == 1 && !strings.HasPrefix(parts[0], "/") {
		return domain.NewValidationError("volumes", "invalid volume %q: container path must be absolute", v)
	}
	if len(parts) >= 2 && !strings.HasPrefix(parts[1], "/") {
		return domain.NewValidationError("volumes", "invalid volume %q: container path must be absolute", v)
	}
	if len(parts) == 3 {
		for _, mode := range strings.Split(parts[2], ",") {
			if !volumeModes[mode] {
				return domain.NewValidationError("volumes", "invalid volume %q: unknown mode %q", v, mode)
			}
		}
	}
	return nil
}

func validateNetworkSpec(spec domain.NetworkSpec) error {
	if err := domain.ValidateResourceName("name", spec.Name); err != nil {
		return err
	}
	if strings.ContainsAny(spec.Driver, " \t\n") {
		return domain.NewValidationError("driver", "invalid driver %q", spec.Driver)
	}
	return nil
}
