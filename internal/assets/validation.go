package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a style name is safe for use as a filename.
// Dots are rejected too, so "style.css" or ".." never reach the filesystem.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
