// Package validation provides input validation for names that end up in
// filesystem paths or registry URLs.
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Repository name grammar of the OCI distribution API:
// lowercase components separated by '.', '_', '__' or runs of '-', joined by '/'.
var repoNameRegex = regexp.MustCompile(`^[a-z0-9]+(?:(?:[._]|__|[-]+)[a-z0-9]+)*(?:/[a-z0-9]+(?:(?:[._]|__|[-]+)[a-z0-9]+)*)*$`)

// MaxRepositoryNameLength is the maximum allowed length for repository names.
const MaxRepositoryNameLength = 256

// ValidateRepositoryName validates an image repository name.
func ValidateRepositoryName(name string) error {
	if name == "" {
		return fmt.Errorf("repository name cannot be empty")
	}

	if len(name) > MaxRepositoryNameLength {
		return fmt.Errorf("repository name too long: %d chars (max %d)", len(name), MaxRepositoryNameLength)
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("repository name contains path traversal sequence")
	}

	if !repoNameRegex.MatchString(name) {
		return fmt.Errorf("invalid repository name format: must contain only lowercase letters, digits, and separators (., _, -)")
	}

	return nil
}

// ValidatePathWithinRoot validates that a constructed path stays within the root directory.
// This provides defense-in-depth after filepath.Join operations.
func ValidatePathWithinRoot(rootDir, fullPath string) error {
	cleanRoot := filepath.Clean(rootDir)
	cleanPath := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator)) && cleanPath != cleanRoot {
		return fmt.Errorf("path escapes root directory")
	}

	return nil
}
