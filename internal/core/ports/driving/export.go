package driving

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// ExportService retrieves and saves rendered ebooks.
type ExportService interface {
	// Export retrieves the ebook rendered in format.
	Export(ctx context.Context, ebookID string, format domain.ExportFormat) (*domain.ExportedFile, error)

	// Save writes file into dir and returns the written path.
	Save(file *domain.ExportedFile, dir string) (string, error)
}
