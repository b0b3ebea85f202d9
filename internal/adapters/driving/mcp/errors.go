// Package mcp exposes a read-only view of the user's ebooks over the
// Model Context Protocol so assistants can inspect generated books.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
