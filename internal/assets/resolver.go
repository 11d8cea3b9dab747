package assets

import (
	"errors"
	"sort"
)

// Resolver combines a custom directory with the embedded styles. Custom
// styles win; names the directory lacks fall back to the embedded set.
type Resolver struct {
	custom   StyleLoader // nil if no custom directory configured
	embedded StyleLoader
}

// NewResolver creates a Resolver. An empty customDir uses embedded styles
// only; an invalid one is an error.
func NewResolver(customDir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customDir != "" {
		fsLoader, err := NewFilesystemLoader(customDir)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads a style, trying the custom directory first.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	content, err := r.custom.LoadStyle(name)
	if err == nil {
		return content, nil
	}
	// Only "not found" falls back; validation and I/O errors surface.
	if !errors.Is(err, ErrStyleNotFound) {
		return "", err
	}
	return r.embedded.LoadStyle(name)
}

// Styles lists custom and embedded style names without duplicates.
func (r *Resolver) Styles() ([]string, error) {
	names, err := r.embedded.Styles()
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return names, nil
	}

	custom, err := r.custom.Styles()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names)+len(custom))
	var merged []string
	for _, n := range append(custom, names...) {
		if !seen[n] {
			seen[n] = true
			merged = append(merged, n)
		}
	}
	sort.Strings(merged)
	return merged, nil
}

// HasCustomLoader returns true if a custom style directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ StyleLoader = (*Resolver)(nil)
