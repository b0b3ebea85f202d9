package driving

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// AssetService performs granular, retryable edits of a generated ebook.
type AssetService interface {
	// EditChapter replaces a chapter's content once the remote acknowledges it.
	EditChapter(ctx context.Context, ebook *domain.Ebook, number int, content string) error

	// RegenerateChapter replaces a chapter's content with regenerated text.
	RegenerateChapter(ctx context.Context, ebook *domain.Ebook, number int) error

	// RegenerateImage replaces exactly one image slot.
	RegenerateImage(ctx context.Context, ebook *domain.Ebook, chapterNumber, index int) error

	// UploadImage sends a user image and, on success, replaces ebook with a
	// fresh snapshot instead of merging the response.
	UploadImage(ctx context.Context, ebook *domain.Ebook, chapterNumber int, fileName string, data []byte) error
}
