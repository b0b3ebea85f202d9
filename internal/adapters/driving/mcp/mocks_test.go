package mcp

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
// Only the read methods are exercised by the MCP server.
type mockPipelineService struct {
	driving.PipelineService

	summaries []domain.Summary
	ebook     *domain.Ebook
	err       error
	refreshed string
}

func (m *mockPipelineService) List(_ context.Context) ([]domain.Summary, error) {
	return m.summaries, m.err
}

func (m *mockPipelineService) Refresh(_ context.Context, id string) (*domain.Ebook, error) {
	m.refreshed = id
	return m.ebook, m.err
}

func sampleEbook() *domain.Ebook {
	return &domain.Ebook{
		ID:     "eb-1",
		Spec:   domain.Spec{Title: "Rivers", Author: "Ada"},
		Status: domain.StatusCompleted,
		Chapters: []domain.Chapter{
			{Number: 1, Title: "Source", Description: "where it begins", Content: "Rain falls.\n"},
			{Number: 2, Title: "Delta", Content: "The sea."},
		},
		Cover: &domain.Cover{},
		Illustrations: []domain.IllustrationSet{
			{ChapterNumber: 1, Images: []domain.Image{{Index: 0}, {Index: 1}}},
			{ChapterNumber: 2, Images: []domain.Image{{Index: 0}}},
		},
	}
}
