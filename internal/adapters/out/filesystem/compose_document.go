package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bnema/stevedore/internal/domain"
)

const (
	keyServices = "services"
	keyNetworks = "networks"
	keyVolumes  = "volumes"
)

// document is a parsed compose file. Edits touch only the nodes they
// replace, so unrelated services, comments and extension keys survive.
type document struct {
	root *yaml.Node
}

func newDocument() *document {
	top := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	mappingSet(top, keyServices, &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
	return &document{root: &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{top}}}
}

func parseDocument(data []byte) (*document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return newDocument(), nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("top level of a compose file must be a mapping")
	}
	doc := &document{root: &root}
	for _, key := range []string{keyServices, keyNetworks, keyVolumes} {
		if n := mappingGet(doc.top(), key); n != nil && !isNull(n) && n.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s must be a mapping", key)
		}
	}
	return doc, nil
}

func (d *document) top() *yaml.Node { return d.root.Content[0] }

// section returns the mapping under key, creating it when asked.
func (d *document) section(key string, create bool) *yaml.Node {
	n := mappingGet(d.top(), key)
	if n == nil {
		if !create {
			return nil
		}
		n = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		mappingSet(d.top(), key, n)
		return n
	}
	if isNull(n) {
		if !create {
			return nil
		}
		n.Kind, n.Tag, n.Value = yaml.MappingNode, "!!map", ""
	}
	if create {
		// An empty section reads back as "{}" and the encoder would render
		// every entry added to it inline.
		n.Style &^= yaml.FlowStyle
	}
	return n
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *document) services() ([]domain.ServiceSpec, error) {
	section := d.section(keyServices, false)
	if section == nil {
		return nil, nil
	}
	specs := make([]domain.ServiceSpec, 0, len(section.Content)/2)
	for i := 0; i+1 < len(section.Content); i += 2 {
		name := section.Content[i].Value
		svc, err := decodeService(section.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", name, err)
		}
		specs = append(specs, svc.toSpec(name))
	}
	return specs, nil
}

func (d *document) networks() ([]domain.NetworkSpec, error) {
	section := d.section(keyNetworks, false)
	if section == nil {
		return nil, nil
	}
	specs := make([]domain.NetworkSpec, 0, len(section.Content)/2)
	for i := 0; i+1 < len(section.Content); i += 2 {
		name := section.Content[i].Value
		spec, err := decodeNetwork(name, section.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("network %q: %w", name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (d *document) volumeNames() []string {
	section := d.section(keyVolumes, false)
	if section == nil {
		return nil
	}
	names := make([]string, 0, len(section.Content)/2)
	for i := 0; i+1 < len(section.Content); i += 2 {
		names = append(names, section.Content[i].Value)
	}
	return names
}

// setService writes spec under its name, keeping keys the API does not model.
func (d *document) setService(spec domain.ServiceSpec) error {
	section := d.section(keyServices, true)
	svc := serviceFromSpec(spec)
	if existing := mappingGet(section, spec.Name); existing != nil && !isNull(existing) {
		prev, err := decodeService(existing)
		if err != nil {
			return err
		}
		svc.Extra = prev.Extra
	}
	var node yaml.Node
	if err := node.Encode(svc); err != nil {
		return err
	}
	mappingSet(section, spec.Name, &node)
	return nil
}

func (d *document) setNetwork(spec domain.NetworkSpec) error {
	section := d.section(keyNetworks, true)
	fields := make(map[string]any, len(spec.Config)+2)
	for k, v := range spec.Config {
		fields[k] = v
	}
	if spec.Driver != "" {
		fields["driver"] = spec.Driver
	}
	if spec.External {
		fields["external"] = true
	}
	var node yaml.Node
	if err := node.Encode(fields); err != nil {
		return err
	}
	mappingSet(section, spec.Name, &node)
	return nil
}

func (d *document) remove(sectionKey, name string) bool {
	section := d.section(sectionKey, false)
	if section == nil {
		return false
	}
	return mappingDelete(section, name)
}

// serviceDoc is the on-disk shape of a service. Reads accept the short and
// long compose syntaxes; writes always use the short one.
type serviceDoc struct {
	Image       string         `yaml:"image,omitempty"`
	Build       buildField     `yaml:"build,omitempty"`
	Command     commandField   `yaml:"command,omitempty"`
	Restart     string         `yaml:"restart,omitempty"`
	Ports       portList       `yaml:"ports,omitempty"`
	Environment envMap         `yaml:"environment,omitempty"`
	Volumes     volumeList     `yaml:"volumes,omitempty"`
	Labels      labelList      `yaml:"labels,omitempty"`
	DependsOn   nameList       `yaml:"depends_on,omitempty"`
	Networks    nameList       `yaml:"networks,omitempty"`
	Extra       map[string]any `yaml:",inline"`
}

func decodeService(node *yaml.Node) (serviceDoc, error) {
	var svc serviceDoc
	if isNull(node) {
		return svc, nil
	}
	if node.Kind != yaml.MappingNode {
		return svc, errors.New("service definition must be a mapping")
	}
	if err := node.Decode(&svc); err != nil {
		return svc, err
	}
	return svc, nil
}

func serviceFromSpec(spec domain.ServiceSpec) serviceDoc {
	return serviceDoc{
		Image:       spec.Image,
		Build:       buildField(spec.Build),
		Command:     commandField(spec.Command),
		Restart:     string(spec.Restart),
		Ports:       portList(spec.Ports),
		Environment: envMap(spec.Environment),
		Volumes:     volumeList(spec.Volumes),
		Labels:      labelList(spec.Labels),
		DependsOn:   nameList(spec.DependsOn),
		Networks:    nameList(spec.Networks),
	}
}

func (s serviceDoc) toSpec(name string) domain.ServiceSpec {
	return domain.ServiceSpec{
		Name:        name,
		Image:       s.Image,
		Build:       string(s.Build),
		Ports:       []string(s.Ports),
		Environment: map[string]string(s.Environment),
		Volumes:     []string(s.Volumes),
		Labels:      []string(s.Labels),
		DependsOn:   []string(s.DependsOn),
		Networks:    []string(s.Networks),
		Restart:     domain.RestartPolicy(s.Restart),
		Command:     string(s.Command),
	}.Normalize()
}

func decodeNetwork(name string, node *yaml.Node) (domain.NetworkSpec, error) {
	spec := domain.NetworkSpec{Name: name, Config: map[string]any{}}
	if isNull(node) {
		return spec, nil
	}
	if node.Kind != yaml.MappingNode {
		return spec, errors.New("network definition must be a mapping")
	}
	var fields map[string]any
	if err := node.Decode(&fields); err != nil {
		return spec, err
	}
	for k, v := range fields {
		switch k {
		case "driver":
			spec.Driver = fmt.Sprint(v)
		case "external":
			// Legacy syntax allows external: {name: ...}.
			switch ext := v.(type) {
			case bool:
				spec.External = ext
			case map[string]any:
				spec.External = true
				if n, ok := ext["name"]; ok {
					spec.Config["name"] = n
				}
			}
		default:
			spec.Config[k] = v
		}
	}
	return spec, nil
}

// buildField accepts "build: ./dir" and "build: {context: ./dir}".
type buildField string

func (b *buildField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*b = buildField(node.Value)
	case yaml.MappingNode:
		var long struct {
			Context string `yaml:"context"`
		}
		if err := node.Decode(&long); err != nil {
			return err
		}
		if long.Context == "" {
			long.Context = "."
		}
		*b = buildField(long.Context)
	default:
		return fmt.Errorf("line %d: build must be a string or a mapping", node.Line)
	}
	return nil
}

// commandField accepts a shell string or an exec-form list.
type commandField string

func (c *commandField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = commandField(node.Value)
	case yaml.SequenceNode:
		var parts []string
		if err := node.Decode(&parts); err != nil {
			return err
		}
		for i, p := range parts {
			if strings.ContainsAny(p, " \t\"") {
				parts[i] = strconv.Quote(p)
			}
		}
		*c = commandField(strings.Join(parts, " "))
	default:
		return fmt.Errorf("line %d: command must be a string or a list", node.Line)
	}
	return nil
}

// portList accepts "8080:80", bare numbers and the long mapping syntax.
type portList []string

func (p *portList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: ports must be a list", node.Line)
	}
	out := make(portList, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.MappingNode:
			var long struct {
				Target    string `yaml:"target"`
				Published string `yaml:"published"`
				HostIP    string `yaml:"host_ip"`
				Protocol  string `yaml:"protocol"`
			}
			if err := item.Decode(&long); err != nil {
				return err
			}
			port := long.Target
			if long.Published != "" {
				port = long.Published + ":" + port
			}
			if long.HostIP != "" {
				port = long.HostIP + ":" + port
			}
			if long.Protocol != "" && long.Protocol != "tcp" {
				port += "/" + long.Protocol
			}
			out = append(out, port)
		default:
			return fmt.Errorf("line %d: invalid port entry", item.Line)
		}
	}
	*p = out
	return nil
}

// envMap accepts a mapping or a list of KEY=VALUE entries.
type envMap map[string]string

func (e *envMap) UnmarshalYAML(node *yaml.Node) error {
	out := envMap{}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			v := node.Content[i+1]
			if isNull(v) {
				out[node.Content[i].Value] = ""
				continue
			}
			out[node.Content[i].Value] = v.Value
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			key, value := domain.ParseEnvAssignment(item.Value)
			out[key] = value
		}
	default:
		return fmt.Errorf("line %d: environment must be a mapping or a list", node.Line)
	}
	*e = out
	return nil
}

// volumeList accepts "src:dst[:mode]" entries and the long mapping syntax.
type volumeList []string

func (v *volumeList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: volumes must be a list", node.Line)
	}
	out := make(volumeList, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.MappingNode:
			var long struct {
				Source   string `yaml:"source"`
				Target   string `yaml:"target"`
				ReadOnly bool   `yaml:"read_only"`
			}
			if err := item.Decode(&long); err != nil {
				return err
			}
			vol := long.Target
			if long.Source != "" {
				vol = long.Source + ":" + vol
			}
			if long.ReadOnly {
				vol += ":ro"
			}
			out = append(out, vol)
		default:
			return fmt.Errorf("line %d: invalid volume entry", item.Line)
		}
	}
	*v = out
	return nil
}

// labelList accepts a list of KEY=VALUE entries or a mapping.
type labelList []string

func (l *labelList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
	case yaml.MappingNode:
		out := make(labelList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			out = append(out, node.Content[i].Value+"="+node.Content[i+1].Value)
		}
		*l = out
	default:
		return fmt.Errorf("line %d: labels must be a list or a mapping", node.Line)
	}
	return nil
}

// nameList accepts a list of names or a mapping keyed by name, as used by
// depends_on and networks.
type nameList []string

func (n *nameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*n = items
	case yaml.MappingNode:
		out := make(nameList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			out = append(out, node.Content[i].Value)
		}
		*n = out
	default:
		return fmt.Errorf("line %d: expected a list or a mapping", node.Line)
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func mappingGet(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// mappingSet replaces the value under key in place, or appends the pair.
func mappingSet(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func mappingDelete(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return true
		}
	}
	return false
}
