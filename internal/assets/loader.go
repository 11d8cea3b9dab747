package assets

// StyleLoader loads CSS styles by name (without the .css extension).
type StyleLoader interface {
	// LoadStyle returns ErrStyleNotFound if the style doesn't exist and
	// ErrInvalidAssetName if the name is not a plain identifier.
	LoadStyle(name string) (string, error)

	// Styles lists the available style names, sorted.
	Styles() ([]string, error)
}

// DefaultStyle is applied to Markdown inputs when no style is configured.
const DefaultStyle = "default"
