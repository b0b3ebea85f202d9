// Package domain defines the core business entities for ebookctl.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Identity: The resolved user behind a session
//   - Credential: Bearer token and/or cookie session marker
//   - Ebook: A generated document with its chapters and artifacts
//   - Stage: A step of the ebook generation lifecycle
//   - ExportFormat: A downloadable rendering of an ebook
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
