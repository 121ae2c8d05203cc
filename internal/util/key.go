package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewLicenseKey generates a fresh opaque license key.
func NewLicenseKey() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
