// Package filesystem implements the compose document store on top of afero.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
	"github.com/bnema/stevedore/pkg/validation"
)

// composeFileNames are probed in order when locating a project's compose file.
var composeFileNames = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}

// Ensure ComposeStore implements out.ComposeStore.
var _ out.ComposeStore = (*ComposeStore)(nil)

// ComposeStore keeps one compose document per directory under root.
type ComposeStore struct {
	fs       afero.Fs
	root     string
	fileName string
	locks    *keyedMutex
}

// NewComposeStore creates the projects root if needed.
// fileName is used for new projects; existing ones may use any known name.
func NewComposeStore(fsys afero.Fs, root, fileName string, log zerolog.Logger) (*ComposeStore, error) {
	if fileName == "" {
		fileName = composeFileNames[0]
	}
	if err := fsys.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("failed to create projects directory: %w", err)
	}

	log.Info().
		Str(logging.FieldLayer, "adapter").
		Str(logging.FieldAdapter, "filesystem").
		Str("root_dir", root).
		Str("compose_file", fileName).
		Msg("compose store initialized")

	return &ComposeStore{
		fs:       fsys,
		root:     filepath.Clean(root),
		fileName: fileName,
		locks:    newKeyedMutex(),
	}, nil
}

func (s *ComposeStore) ctx(ctx context.Context, action, project string) context.Context {
	return logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:   "adapter",
		logging.FieldAdapter: "filesystem",
		logging.FieldAction:  action,
		logging.FieldProject: project,
	})
}

// ListProjects returns every directory under root holding a compose file.
func (s *ComposeStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	ctx = s.ctx(ctx, "ListProjects", "")
	log := logging.FromCtx(ctx)

	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	projects := make([]domain.Project, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if domain.ValidateProjectName(name) != nil {
			log.Debug().Str("dir", name).Msg("skipping directory with invalid project name")
			continue
		}
		p, err := s.Load(ctx, name)
		switch {
		case err == nil:
			projects = append(projects, *p)
		case errors.Is(err, domain.ErrProjectNotFound):
			continue
		case errors.Is(err, domain.ErrParse):
			log.Warn().Err(err).Str(logging.FieldProject, name).Msg("compose file is malformed, listing project without services")
			path, _ := s.findComposeFile(filepath.Join(s.root, name))
			projects = append(projects, domain.Project{Name: name, Dir: filepath.Join(s.root, name), Path: path})
		default:
			return nil, err
		}
	}
	return projects, nil
}

// Load parses a project's compose document.
func (s *ComposeStore) Load(ctx context.Context, project string) (*domain.Project, error) {
	dir, err := s.projectDir(project)
	if err != nil {
		return nil, err
	}
	doc, path, raw, err := s.read(dir)
	if err != nil {
		return nil, err
	}

	services, err := doc.services()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrComposeInvalid, err)
	}
	networks, err := doc.networks()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrComposeInvalid, err)
	}

	return &domain.Project{
		Name:           project,
		Dir:            dir,
		Path:           path,
		ComposeContent: string(raw),
		Services:       services,
		Networks:       networks,
		Volumes:        doc.volumeNames(),
	}, nil
}

// CreateProject writes an empty compose document into a new directory.
func (s *ComposeStore) CreateProject(ctx context.Context, project string) (*domain.Project, error) {
	ctx = s.ctx(ctx, "CreateProject", project)
	dir, err := s.projectDir(project)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(project)
	defer unlock()

	if _, err := s.fs.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectExists, project)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat project directory: %w", err)
	}

	if err := s.fs.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}
	path := filepath.Join(dir, s.fileName)
	if err := s.write(path, newDocument()); err != nil {
		_ = s.fs.RemoveAll(dir)
		return nil, err
	}

	logging.FromCtx(ctx).Info().Str("path", path).Msg("project created")
	return s.Load(ctx, project)
}

// DeleteProject removes the project directory and everything in it.
func (s *ComposeStore) DeleteProject(ctx context.Context, project string) error {
	ctx = s.ctx(ctx, "DeleteProject", project)
	dir, err := s.projectDir(project)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(project)
	defer unlock()

	if _, err := s.findComposeFile(dir); err != nil {
		return err
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove project directory: %w", err)
	}

	logging.FromCtx(ctx).Info().Msg("project deleted")
	return nil
}

// AddService appends a new service to the document.
func (s *ComposeStore) AddService(ctx context.Context, project string, spec domain.ServiceSpec) (domain.ServiceSpec, error) {
	ctx = s.ctx(ctx, "AddService", project)
	if err := checkServiceShape(spec); err != nil {
		return domain.ServiceSpec{}, err
	}

	err := s.mutate(ctx, project, func(doc *document) error {
		services, networks, err := docSpecs(doc)
		if err != nil {
			return err
		}
		if containsService(services, spec.Name) {
			return fmt.Errorf("%w: %s", domain.ErrServiceExists, spec.Name)
		}
		if err := checkReferences(spec, services, networks); err != nil {
			return err
		}
		return doc.setService(spec)
	})
	if err != nil {
		return domain.ServiceSpec{}, err
	}

	logging.FromCtx(ctx).Info().Str(logging.FieldService, spec.Name).Msg("service added")
	return spec.Normalize(), nil
}

// UpdateService replaces a service definition. Keys the API does not model are kept.
func (s *ComposeStore) UpdateService(ctx context.Context, project, service string, spec domain.ServiceSpec) (domain.ServiceSpec, error) {
	ctx = s.ctx(ctx, "UpdateService", project)
	if spec.Name == "" {
		spec.Name = service
	}
	if spec.Name != service {
		return domain.ServiceSpec{}, domain.NewValidationError("name", "service name cannot be changed from %q to %q", service, spec.Name)
	}
	if err := checkServiceShape(spec); err != nil {
		return domain.ServiceSpec{}, err
	}

	err := s.mutate(ctx, project, func(doc *document) error {
		services, networks, err := docSpecs(doc)
		if err != nil {
			return err
		}
		if !containsService(services, service) {
			return fmt.Errorf("%w: %s", domain.ErrServiceNotFound, service)
		}
		if err := checkReferences(spec, services, networks); err != nil {
			return err
		}
		return doc.setService(spec)
	})
	if err != nil {
		return domain.ServiceSpec{}, err
	}

	logging.FromCtx(ctx).Info().Str(logging.FieldService, service).Msg("service updated")
	return spec.Normalize(), nil
}

// DeleteService removes a service. Its containers are left alone.
func (s *ComposeStore) DeleteService(ctx context.Context, project, service string) error {
	ctx = s.ctx(ctx, "DeleteService", project)

	err := s.mutate(ctx, project, func(doc *document) error {
		services, _, err := docSpecs(doc)
		if err != nil {
			return err
		}
		if !containsService(services, service) {
			return fmt.Errorf("%w: %s", domain.ErrServiceNotFound, service)
		}
		for _, other := range services {
			if other.Name != service && slices.Contains(other.DependsOn, service) {
				return fmt.Errorf("%w: %s depends on %s", domain.ErrServiceInUse, other.Name, service)
			}
		}
		doc.remove(keyServices, service)
		return nil
	})
	if err != nil {
		return err
	}

	logging.FromCtx(ctx).Info().Str(logging.FieldService, service).Msg("service deleted")
	return nil
}

// AddNetwork adds a top-level network.
func (s *ComposeStore) AddNetwork(ctx context.Context, project string, spec domain.NetworkSpec) (domain.NetworkSpec, error) {
	ctx = s.ctx(ctx, "AddNetwork", project)
	if err := domain.ValidateResourceName("name", spec.Name); err != nil {
		return domain.NetworkSpec{}, err
	}

	err := s.mutate(ctx, project, func(doc *document) error {
		_, networks, err := docSpecs(doc)
		if err != nil {
			return err
		}
		if containsNetwork(networks, spec.Name) {
			return fmt.Errorf("%w: %s", domain.ErrNetworkExists, spec.Name)
		}
		return doc.setNetwork(spec)
	})
	if err != nil {
		return domain.NetworkSpec{}, err
	}

	logging.FromCtx(ctx).Info().Str(logging.FieldNetwork, spec.Name).Msg("network added")
	return normalizeNetwork(spec), nil
}

// UpdateNetwork replaces a network definition.
// The driver of an external network cannot change; an empty driver keeps it.
func (s *ComposeStore) UpdateNetwork(ctx context.Context, project, network string, spec domain.NetworkSpec) (domain.NetworkSpec, error) {
	ctx = s.ctx(ctx, "UpdateNetwork", project)
	if spec.Name == "" {
		spec.Name = network
	}
	if spec.Name != network {
		return domain.NetworkSpec{}, domain.NewValidationError("name", "network name cannot be changed from %q to %q", network, spec.Name)
	}

	err := s.mutate(ctx, project, func(doc *document) error {
		_, networks, err := docSpecs(doc)
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(networks, func(n domain.NetworkSpec) bool { return n.Name == network })
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrNetworkNotFound, network)
		}
		existing := networks[idx]
		if err := existing.CheckUpdate(spec); err != nil {
			return err
		}
		if existing.External && spec.Driver == "" {
			spec.Driver = existing.Driver
		}
		return doc.setNetwork(spec)
	})
	if err != nil {
		return domain.NetworkSpec{}, err
	}

	logging.FromCtx(ctx).Info().Str(logging.FieldNetwork, network).Msg("network updated")
	return normalizeNetwork(spec), nil
}

// DeleteNetwork removes a network no service references.
func (s *ComposeStore) DeleteNetwork(ctx context.Context, project, network string) error {
	ctx = s.ctx(ctx, "DeleteNetwork", project)

	err := s.mutate(ctx, project, func(doc *document) error {
		services, networks, err := docSpecs(doc)
		if err != nil {
			return err
		}
		if !containsNetwork(networks, network) {
			return fmt.Errorf("%w: %s", domain.ErrNetworkNotFound, network)
		}
		for _, svc := range services {
			if slices.Contains(svc.Networks, network) {
				return fmt.Errorf("%w: %s uses %s", domain.ErrNetworkInUse, svc.Name, network)
			}
		}
		doc.remove(keyNetworks, network)
		return nil
	})
	if err != nil {
		return err
	}

	logging.FromCtx(ctx).Info().Str(logging.FieldNetwork, network).Msg("network deleted")
	return nil
}

// mutate runs fn on the project's document under the project lock and
// writes the result back atomically. Nothing is written if fn fails.
func (s *ComposeStore) mutate(ctx context.Context, project string, fn func(doc *document) error) error {
	dir, err := s.projectDir(project)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(project)
	defer unlock()

	doc, path, _, err := s.read(dir)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.write(path, doc); err != nil {
		logging.FromCtx(ctx).Error().Err(err).Str("path", path).Msg("failed to write compose file")
		return err
	}
	return nil
}

func (s *ComposeStore) projectDir(project string) (string, error) {
	if err := domain.ValidateProjectName(project); err != nil {
		return "", err
	}
	dir := filepath.Join(s.root, project)
	if err := validation.ValidatePathWithinRoot(s.root, dir); err != nil {
		return "", domain.NewValidationError("name", "%v", err)
	}
	return dir, nil
}

// findComposeFile returns the first known compose file in dir.
func (s *ComposeStore) findComposeFile(dir string) (string, error) {
	for _, name := range composeFileNames {
		path := filepath.Join(dir, name)
		info, err := s.fs.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat compose file: %w", err)
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrProjectNotFound, filepath.Base(dir))
}

func (s *ComposeStore) read(dir string) (*document, string, []byte, error) {
	path, err := s.findComposeFile(dir)
	if err != nil {
		return nil, "", nil, err
	}
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to read compose file: %w", err)
	}
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, "", nil, fmt.Errorf("%w: %w", domain.ErrComposeInvalid, err)
	}
	return doc, path, raw, nil
}

// write replaces path through a temp file and rename so readers never
// observe a partially written document.
func (s *ComposeStore) write(path string, doc *document) error {
	data, err := doc.bytes()
	if err != nil {
		return fmt.Errorf("failed to render compose file: %w", err)
	}

	mode := os.FileMode(0644)
	if info, err := s.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary compose file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write compose file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to sync compose file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to close compose file: %w", err)
	}
	if err := s.fs.Chmod(tmpPath, mode); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to set compose file mode: %w", err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to move compose file into place: %w", err)
	}
	return nil
}

func docSpecs(doc *document) ([]domain.ServiceSpec, []domain.NetworkSpec, error) {
	services, err := doc.services()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrComposeInvalid, err)
	}
	networks, err := doc.networks()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrComposeInvalid, err)
	}
	return services, networks, nil
}

func checkServiceShape(spec domain.ServiceSpec) error {
	if err := domain.ValidateResourceName("name", spec.Name); err != nil {
		return err
	}
	if spec.Image == "" && spec.Build == "" {
		return domain.ErrServiceImageNeeded
	}
	return nil
}

// checkReferences ensures depends_on and networks point at things the document defines.
func checkReferences(spec domain.ServiceSpec, services []domain.ServiceSpec, networks []domain.NetworkSpec) error {
	for _, dep := range spec.DependsOn {
		if dep == spec.Name {
			return domain.NewValidationError("depends_on", "service cannot depend on itself")
		}
		if !containsService(services, dep) {
			return domain.NewValidationError("depends_on", "unknown service %q", dep)
		}
	}
	for _, n := range spec.Networks {
		if n == "default" {
			continue
		}
		if !containsNetwork(networks, n) {
			return domain.NewValidationError("networks", "unknown network %q", n)
		}
	}
	return nil
}

func containsService(services []domain.ServiceSpec, name string) bool {
	return slices.ContainsFunc(services, func(s domain.ServiceSpec) bool { return s.Name == name })
}

func containsNetwork(networks []domain.NetworkSpec, name string) bool {
	return slices.ContainsFunc(networks, func(n domain.NetworkSpec) bool { return n.Name == name })
}

func normalizeNetwork(spec domain.NetworkSpec) domain.NetworkSpec {
	if spec.Config == nil {
		spec.Config = map[string]any{}
	}
	return spec
}
