package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

const uriScheme = "ebookctl://"

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "ebooks",
		Name:        "ebooks",
		Description: "Summaries of the user's ebooks",
		MIMEType:    "application/json",
	}, s.handleEbooksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "ebooks/{id}",
		Name:        "ebook",
		Description: "Full text of one ebook as markdown",
		MIMEType:    "text/markdown",
	}, s.handleEbookResource)
}

func (s *Server) handleEbooksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	summaries, err := s.ports.Pipeline.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ebooks: %w", err)
	}

	data, err := json.MarshalIndent(summarize(summaries, ""), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling ebooks: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleEbookResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractEbookID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ebook, err := s.ports.Pipeline.Refresh(ctx, id)
	if isNotFound(err) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting ebook: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     renderMarkdown(ebook),
		}},
	}, nil
}

func isNotFound(err error) bool {
	var remoteErr *domain.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusNotFound {
		return true
	}
	return errors.Is(err, domain.ErrNotFound)
}

// extractEbookID extracts the id from a URI like ebookctl://ebooks/{id}.
func extractEbookID(uri string) string {
	const prefix = uriScheme + "ebooks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

func renderMarkdown(ebook *domain.Ebook) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ebook.Title)
	if ebook.Author != "" {
		fmt.Fprintf(&b, "_by %s_\n\n", ebook.Author)
	}
	if !ebook.HasChapters() {
		for _, entry := range ebook.TOC {
			fmt.Fprintf(&b, "%d. %s\n", entry.Number, entry.Title)
		}
		return b.String()
	}
	for _, ch := range ebook.Chapters {
		fmt.Fprintf(&b, "## %d. %s\n\n%s\n\n", ch.Number, ch.Title, strings.TrimSpace(ch.Content))
	}
	return b.String()
}
