package domain

// Compose label conventions set by docker compose on every container it creates.
const (
	LabelComposeProject    = "com.docker.compose.project"
	LabelComposeService    = "com.docker.compose.service"
	LabelComposeWorkingDir = "com.docker.compose.project.working_dir"
	LabelComposeConfigFile = "com.docker.compose.project.config_files"
	LabelComposeNumber     = "com.docker.compose.container-number"
)

// ProjectOf returns the compose project a container belongs to, or "".
func ProjectOf(labels map[string]string) string {
	return labels[LabelComposeProject]
}

// ServiceOf returns the compose service a container belongs to, or "".
func ServiceOf(labels map[string]string) string {
	return labels[LabelComposeService]
}
