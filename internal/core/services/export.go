package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
	"github.com/custodia-labs/ebookctl/internal/logger"
)

// Ensure ExportGateway implements the interfaces.
var (
	_ driving.ExportService   = (*ExportGateway)(nil)
	_ driving.StageObservable = (*ExportGateway)(nil)
)

// ExportGateway retrieves rendered ebooks and writes them to disk.
type ExportGateway struct {
	stageRunner
	exporter driven.Exporter
}

// NewExportGateway creates an export gateway.
func NewExportGateway(exporter driven.Exporter, session driving.SessionService, activity driven.ActivityStore) *ExportGateway {
	return &ExportGateway{
		stageRunner: stageRunner{session: session, activity: activity},
		exporter:    exporter,
	}
}

// SetObserver registers the receiver of stage events.
func (g *ExportGateway) SetObserver(observer driving.StageObserver) {
	g.setObserver(observer)
}

// Export retrieves ebookID rendered in format.
func (g *ExportGateway) Export(ctx context.Context, ebookID string, format domain.ExportFormat) (*domain.ExportedFile, error) {
	if ebookID == "" {
		return nil, fmt.Errorf("%w: ebook id is required", domain.ErrPreconditionUnmet)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
	if g.session != nil && !g.session.Credential().IsPresent() {
		return nil, domain.ErrAuthRequired
	}

	var data []byte
	err := g.run(ctx, ebookID, domain.StageExport, func() error {
		var err error
		data, err = g.exporter.Export(ctx, ebookID, format)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &domain.ExportedFile{
		EbookID:     ebookID,
		Format:      format,
		FileName:    domain.ExportFileName(ebookID, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Save writes file into dir, creating dir if needed.
func (g *ExportGateway) Save(file *domain.ExportedFile, dir string) (string, error) {
	if file == nil || file.FileName == "" {
		return "", fmt.Errorf("%w: nothing to save", domain.ErrInvalidInput)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(file.FileName))
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	logger.Info("Saved %s (%d bytes)", path, len(file.Data))
	return path, nil
}
