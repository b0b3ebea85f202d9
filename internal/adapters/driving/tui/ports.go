// Package tui provides the interactive ebook browser.
// It is a driving adapter over the pipeline and asset ports.
package tui

import (
	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

// Ports aggregates the driving ports the browser uses.
type Ports struct {
	// Pipeline lists, refreshes and enriches ebooks.
	Pipeline driving.PipelineService

	// Assets regenerates chapters.
	Assets driving.AssetService

	// Legal is passed to legal page generation when enriching.
	Legal domain.LegalOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	if p.Assets == nil {
		return ErrMissingAssetService
	}
	return nil
}
