package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

type createResponse struct {
	EbookID string        `json:"ebook_id"`
	Ebook   *domain.Ebook `json:"ebook"`
}

type tocResponse struct {
	TOC []domain.TOCEntry `json:"toc"`
}

type saveTOCRequest struct {
	TOC []domain.TOCEntry `json:"toc"`
}

type contentRequest struct {
	EbookID string            `json:"ebook_id"`
	TOC     []domain.TOCEntry `json:"toc"`
}

type contentResponse struct {
	Chapters []domain.Chapter `json:"chapters"`
}

type listResponse struct {
	Ebooks []domain.Ebook `json:"ebooks"`
}

type ebookRequest struct {
	EbookID string `json:"ebook_id"`
}

type legalRequest struct {
	EbookID string `json:"ebook_id"`
	domain.LegalOptions
}

type coverResponse struct {
	Cover *domain.Cover `json:"cover"`
}

type legalResponse struct {
	LegalPages *domain.LegalPages `json:"legal_pages"`
}

type themeResponse struct {
	VisualTheme *domain.VisualTheme `json:"visual_theme"`
}

type illustrationsResponse struct {
	Illustrations []domain.IllustrationSet `json:"illustrations"`
}

// Create registers a new ebook.
func (c *Client) Create(ctx context.Context, spec domain.Spec) (*domain.Ebook, error) {
	var resp createResponse
	if err := c.doJSON(ctx, "create", http.MethodPost, "/api/ebooks/create", nil, spec, &resp); err != nil {
		return nil, err
	}
	ebook := resp.Ebook
	if ebook == nil {
		ebook = &domain.Ebook{Spec: spec, Status: domain.StatusDraft}
	}
	if ebook.ID == "" {
		ebook.ID = resp.EbookID
	}
	return ebook, nil
}

// GenerateTOC generates a table of contents for spec.
func (c *Client) GenerateTOC(ctx context.Context, spec domain.Spec) ([]domain.TOCEntry, error) {
	var resp tocResponse
	if err := c.doJSON(ctx, "generate toc", http.MethodPost, "/api/ebooks/generate-toc", nil, spec, &resp); err != nil {
		return nil, err
	}
	return resp.TOC, nil
}

// SaveTOC persists a table of contents.
func (c *Client) SaveTOC(ctx context.Context, ebookID string, toc []domain.TOCEntry) error {
	path := fmt.Sprintf("/api/ebooks/%s/save-toc", url.PathEscape(ebookID))
	return c.doJSON(ctx, "save toc", http.MethodPost, path, nil, saveTOCRequest{TOC: toc}, nil)
}

// GenerateContent writes the chapters of toc.
func (c *Client) GenerateContent(ctx context.Context, ebookID string, toc []domain.TOCEntry) ([]domain.Chapter, error) {
	var resp contentResponse
	body := contentRequest{EbookID: ebookID, TOC: toc}
	if err := c.doJSON(ctx, "generate content", http.MethodPost, "/api/ebooks/generate-content", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Chapters, nil
}

// Get fetches a full ebook snapshot.
func (c *Client) Get(ctx context.Context, ebookID string) (*domain.Ebook, error) {
	var ebook domain.Ebook
	path := "/api/ebooks/" + url.PathEscape(ebookID)
	if err := c.doJSON(ctx, "get ebook", http.MethodGet, path, nil, nil, &ebook); err != nil {
		return nil, err
	}
	return &ebook, nil
}

// List returns the user's ebooks, newest first.
func (c *Client) List(ctx context.Context) ([]domain.Ebook, error) {
	var resp listResponse
	if err := c.doJSON(ctx, "list ebooks", http.MethodGet, "/api/ebooks/list", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Ebooks, nil
}

// GenerateCover generates a cover design.
func (c *Client) GenerateCover(ctx context.Context, ebookID string) (*domain.Cover, error) {
	var resp coverResponse
	query := url.Values{"ebook_id": {ebookID}}
	if err := c.doJSON(ctx, "generate cover", http.MethodPost, "/api/ebooks/generate-cover", query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Cover == nil {
		return nil, missingField("generate cover", "cover")
	}
	return resp.Cover, nil
}

// GenerateLegalPages generates the legal pages.
func (c *Client) GenerateLegalPages(ctx context.Context, ebookID string, opts domain.LegalOptions) (*domain.LegalPages, error) {
	var resp legalResponse
	body := legalRequest{EbookID: ebookID, LegalOptions: opts}
	if err := c.doJSON(ctx, "generate legal pages", http.MethodPost, "/api/ebooks/generate-legal-pages", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.LegalPages == nil {
		return nil, missingField("generate legal pages", "legal_pages")
	}
	return resp.LegalPages, nil
}

// GenerateVisualTheme generates the visual theme.
func (c *Client) GenerateVisualTheme(ctx context.Context, ebookID string) (*domain.VisualTheme, error) {
	var resp themeResponse
	body := ebookRequest{EbookID: ebookID}
	if err := c.doJSON(ctx, "generate visual theme", http.MethodPost, "/api/ebooks/generate-visual-theme", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.VisualTheme == nil {
		return nil, missingField("generate visual theme", "visual_theme")
	}
	return resp.VisualTheme, nil
}

// GenerateIllustrations generates one illustration set per chapter.
func (c *Client) GenerateIllustrations(ctx context.Context, ebookID string) ([]domain.IllustrationSet, error) {
	var resp illustrationsResponse
	body := ebookRequest{EbookID: ebookID}
	if err := c.doJSON(ctx, "generate illustrations", http.MethodPost, "/api/ebooks/generate-illustrations", nil, body, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Illustrations {
		for j := range resp.Illustrations[i].Images {
			img := &resp.Illustrations[i].Images[j]
			img.Index = j
			if img.Source == "" {
				img.Source = domain.ImageSourceGenerated
			}
		}
	}
	return resp.Illustrations, nil
}

// missingField reports a 2xx response without its payload.
func missingField(op, field string) error {
	return fmt.Errorf("%w: response has no %s", &domain.RemoteError{Kind: domain.ErrStageFailed, Op: op}, field)
}
