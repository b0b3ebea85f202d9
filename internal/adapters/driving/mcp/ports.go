package mcp

import (
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server reads from.
type Ports struct {
	// Pipeline lists and fetches ebooks.
	Pipeline driving.PipelineService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
