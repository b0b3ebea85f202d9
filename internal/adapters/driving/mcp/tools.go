package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// ListEbooksInput is the input schema for the list_ebooks tool.
type ListEbooksInput struct {
	Status string `json:"status,omitempty" jsonschema:"only return ebooks with this status (draft or completed)"`
}

// ListEbooksOutput is the output schema for the list_ebooks tool.
type ListEbooksOutput struct {
	Ebooks []EbookSummaryOutput `json:"ebooks"`
	Count  int                  `json:"count"`
}

// EbookSummaryOutput is one row of list_ebooks.
type EbookSummaryOutput struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Status       string `json:"status"`
	ChapterCount int    `json:"chapter_count"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// GetEbookInput is the input schema for the get_ebook tool.
type GetEbookInput struct {
	ID             string `json:"id" jsonschema:"the ebook identifier"`
	IncludeContent bool   `json:"include_content,omitempty" jsonschema:"include full chapter text"`
}

// GetEbookOutput is the output schema for the get_ebook tool.
type GetEbookOutput struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Status        string          `json:"status"`
	Stage         string          `json:"stage"`
	Chapters      []ChapterOutput `json:"chapters"`
	HasCover      bool            `json:"has_cover"`
	HasLegalPages bool            `json:"has_legal_pages"`
	HasTheme      bool            `json:"has_theme"`
	ImageCount    int             `json:"image_count"`
}

// ChapterOutput describes one chapter, or one TOC entry before content exists.
type ChapterOutput struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_ebooks",
		Description: "List the ebooks owned by the signed-in user",
	}, s.handleListEbooks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_ebook",
		Description: "Fetch one ebook with its chapters and generated assets",
	}, s.handleGetEbook)
}

func (s *Server) handleListEbooks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListEbooksInput,
) (*mcp.CallToolResult, ListEbooksOutput, error) {
	summaries, err := s.ports.Pipeline.List(ctx)
	if err != nil {
		return nil, ListEbooksOutput{}, toolError(err)
	}

	ebooks := summarize(summaries, input.Status)
	return nil, ListEbooksOutput{Ebooks: ebooks, Count: len(ebooks)}, nil
}

// summarize converts summaries, keeping only those with status when it is set.
func summarize(summaries []domain.Summary, status string) []EbookSummaryOutput {
	out := make([]EbookSummaryOutput, 0, len(summaries))
	for _, sum := range summaries {
		if status != "" && sum.Status != status {
			continue
		}
		out = append(out, EbookSummaryOutput{
			ID:           sum.ID,
			Title:        sum.Title,
			Author:       sum.Author,
			Status:       sum.Status,
			ChapterCount: sum.ChapterCount,
			CreatedAt:    sum.CreatedAt,
		})
	}
	return out
}

func (s *Server) handleGetEbook(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetEbookInput,
) (*mcp.CallToolResult, GetEbookOutput, error) {
	if input.ID == "" {
		return nil, GetEbookOutput{}, errors.New("id is required")
	}

	ebook, err := s.ports.Pipeline.Refresh(ctx, input.ID)
	if err != nil {
		return nil, GetEbookOutput{}, toolError(err)
	}

	return nil, describeEbook(ebook, input.IncludeContent), nil
}

func describeEbook(ebook *domain.Ebook, withContent bool) GetEbookOutput {
	out := GetEbookOutput{
		ID:            ebook.ID,
		Title:         ebook.Title,
		Author:        ebook.Author,
		Status:        ebook.Status,
		Stage:         string(ebook.Stage()),
		HasCover:      ebook.Cover != nil,
		HasLegalPages: ebook.LegalPages != nil,
		HasTheme:      ebook.VisualTheme != nil,
	}
	for _, set := range ebook.Illustrations {
		out.ImageCount += len(set.Images)
	}

	if ebook.HasChapters() {
		out.Chapters = make([]ChapterOutput, len(ebook.Chapters))
		for i, ch := range ebook.Chapters {
			out.Chapters[i] = ChapterOutput{Number: ch.Number, Title: ch.Title, Description: ch.Description}
			if withContent {
				out.Chapters[i].Content = ch.Content
			}
		}
		return out
	}

	out.Chapters = make([]ChapterOutput, len(ebook.TOC))
	for i, entry := range ebook.TOC {
		out.Chapters[i] = ChapterOutput{Number: entry.Number, Title: entry.Title, Description: entry.Description}
	}
	return out
}

// toolError replaces service errors with the message shown to users.
func toolError(err error) error {
	return errors.New(domain.UserMessage(err))
}
