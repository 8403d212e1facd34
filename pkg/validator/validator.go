package validator

import (
	"strings"

	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// IsRepository reports whether name has the owner/name shape.
func IsRepository(name string) bool {
	_, _, err := SplitRepository(name)
	return err == nil
}

// SplitRepository splits an owner/name string.
func SplitRepository(name string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(name), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errcodes.ErrInvalidRepositoryName
	}
	return parts[0], parts[1], nil
}
