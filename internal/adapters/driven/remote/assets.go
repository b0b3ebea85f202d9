package remote

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

type chapterContent struct {
	Content string `json:"content"`
}

type imageResponse struct {
	Image *domain.Image `json:"image"`
}

// EditChapter replaces a chapter's content.
func (c *Client) EditChapter(ctx context.Context, ebookID string, number int, content string) error {
	return c.doJSON(ctx, "edit chapter", http.MethodPut, chapterPath(ebookID, number), nil, chapterContent{Content: content}, nil)
}

// RegenerateChapter regenerates a chapter and returns its new content.
func (c *Client) RegenerateChapter(ctx context.Context, ebookID string, number int) (string, error) {
	var resp chapterContent
	if err := c.doJSON(ctx, "regenerate chapter", http.MethodPost, chapterPath(ebookID, number)+"/regenerate", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// RegenerateImage regenerates one image slot.
func (c *Client) RegenerateImage(ctx context.Context, ebookID string, chapterNumber, index int) (*domain.Image, error) {
	var resp imageResponse
	path := fmt.Sprintf("%s/%d/regenerate", imagesPath(ebookID, chapterNumber), index)
	if err := c.doJSON(ctx, "regenerate image", http.MethodPost, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Image == nil {
		return nil, missingField("regenerate image", "image")
	}
	img := *resp.Image
	img.Index = index
	return &img, nil
}

// UploadImage sends a user image for a chapter as multipart form field "file".
func (c *Client) UploadImage(ctx context.Context, ebookID string, chapterNumber int, fileName string, data []byte) error {
	const op = "upload image"

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("%s: build form: %w", op, err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("%s: build form: %w", op, err)
	}

	path := fmt.Sprintf("/api/ebooks/%s/illustrations/%d/upload", url.PathEscape(ebookID), chapterNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Export retrieves the rendered ebook bytes.
func (c *Client) Export(ctx context.Context, ebookID string, format domain.ExportFormat) ([]byte, error) {
	path := fmt.Sprintf("/api/ebooks/%s/export/%s", url.PathEscape(ebookID), format)
	return c.doBytes(ctx, "export "+string(format), path)
}

func imagesPath(ebookID string, chapterNumber int) string {
	return fmt.Sprintf("/api/ebooks/%s/illustrations/%d/images", url.PathEscape(ebookID), chapterNumber)
}

func chapterPath(ebookID string, number int) string {
	return fmt.Sprintf("/api/ebooks/%s/chapters/%d", url.PathEscape(ebookID), number)
}
