// Package assets provides the CSS styles applied to Markdown inputs before
// they are handed to the renderer.
//
// # Loader Architecture
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - styles compiled into the binary (default, technical)
//	    ├── FilesystemLoader  - {name}.css files from a user directory
//	    └── Resolver          - custom first, embedded as fallback
//
// Resolver is what the CLI uses: a user directory can override "default"
// or add new styles, and anything it lacks falls back to the embedded set.
//
// # Security
//
// Style names are validated so they cannot carry path components.
// FilesystemLoader resolves symlinks and verifies paths stay within its base
// directory.
package assets
