package driven

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// AuthGateway is the remote authentication boundary.
type AuthGateway interface {
	// Login exchanges email and password for a token and identity.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error)

	// Register creates an account and returns its token and identity.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error)

	// ExchangeCode trades an opaque redirect code for a session.
	// The remote side may also set a session cookie.
	ExchangeCode(ctx context.Context, code string) (*domain.AuthResult, error)

	// WhoAmI resolves the identity behind the current credential.
	WhoAmI(ctx context.Context) (*domain.Identity, error)

	// Logout invalidates the session remotely.
	Logout(ctx context.Context) error
}

// PipelineGateway is the remote document lifecycle boundary.
type PipelineGateway interface {
	// Create registers a new ebook and returns its snapshot with the assigned id.
	Create(ctx context.Context, spec domain.Spec) (*domain.Ebook, error)

	// GenerateTOC derives a table of contents from the spec. Nothing is persisted.
	GenerateTOC(ctx context.Context, spec domain.Spec) ([]domain.TOCEntry, error)

	// SaveTOC persists the table of contents against the ebook.
	SaveTOC(ctx context.Context, ebookID string, toc []domain.TOCEntry) error

	// GenerateContent writes every chapter of the table of contents.
	GenerateContent(ctx context.Context, ebookID string, toc []domain.TOCEntry) ([]domain.Chapter, error)

	// Get returns a full snapshot of an ebook.
	Get(ctx context.Context, ebookID string) (*domain.Ebook, error)

	// List returns every ebook of the current user.
	List(ctx context.Context) ([]domain.Ebook, error)

	// GenerateCover returns a freshly generated cover.
	GenerateCover(ctx context.Context, ebookID string) (*domain.Cover, error)

	// GenerateLegalPages returns freshly generated legal pages.
	GenerateLegalPages(ctx context.Context, ebookID string, opts domain.LegalOptions) (*domain.LegalPages, error)

	// GenerateVisualTheme returns a freshly generated visual theme.
	GenerateVisualTheme(ctx context.Context, ebookID string) (*domain.VisualTheme, error)

	// GenerateIllustrations returns one illustration set per chapter.
	GenerateIllustrations(ctx context.Context, ebookID string) ([]domain.IllustrationSet, error)
}

// AssetGateway is the remote boundary for granular edits of a generated ebook.
type AssetGateway interface {
	// EditChapter replaces a chapter's content wholesale.
	EditChapter(ctx context.Context, ebookID string, number int, content string) error

	// RegenerateChapter returns new content for one chapter.
	RegenerateChapter(ctx context.Context, ebookID string, number int) (string, error)

	// RegenerateImage returns a new image for one slot.
	RegenerateImage(ctx context.Context, ebookID string, chapterNumber, index int) (*domain.Image, error)

	// UploadImage sends a user image for a chapter. The response carries no
	// usable layout; callers re-fetch the ebook.
	UploadImage(ctx context.Context, ebookID string, chapterNumber int, fileName string, data []byte) error
}

// Exporter retrieves rendered exports.
type Exporter interface {
	// Export returns the raw bytes of the ebook rendered in format.
	Export(ctx context.Context, ebookID string, format domain.ExportFormat) ([]byte, error)
}
