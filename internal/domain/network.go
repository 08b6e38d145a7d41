package domain

// NetworkSpec is a top-level compose network.
// Config holds every compose key other than driver and external.
type NetworkSpec struct {
	Name     string
	Driver   string
	External bool
	Config   map[string]any
}

// CheckUpdate validates replacing n with next.
// External networks are managed outside the project, so their driver is fixed.
func (n NetworkSpec) CheckUpdate(next NetworkSpec) error {
	if n.External && next.Driver != "" && next.Driver != n.Driver {
		return ErrExternalDriverChange
	}
	return nil
}
