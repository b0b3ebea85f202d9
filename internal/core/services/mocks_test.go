package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockAuthGateway implements driven.AuthGateway for testing.
type mockAuthGateway struct {
	loginFn    func(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error)
	registerFn func(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error)
	exchangeFn func(ctx context.Context, code string) (*domain.AuthResult, error)
	whoAmIFn   func(ctx context.Context) (*domain.Identity, error)
	logoutErr  error

	exchangeCalls atomic.Int32
	whoAmICalls   atomic.Int32
	logoutCalls   atomic.Int32
}

var _ driven.AuthGateway = (*mockAuthGateway)(nil)

func (m *mockAuthGateway) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthGateway) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	return m.registerFn(ctx, req)
}

func (m *mockAuthGateway) ExchangeCode(ctx context.Context, code string) (*domain.AuthResult, error) {
	m.exchangeCalls.Add(1)
	return m.exchangeFn(ctx, code)
}

func (m *mockAuthGateway) WhoAmI(ctx context.Context) (*domain.Identity, error) {
	m.whoAmICalls.Add(1)
	return m.whoAmIFn(ctx)
}

func (m *mockAuthGateway) Logout(_ context.Context) error {
	m.logoutCalls.Add(1)
	return m.logoutErr
}

// mockRemote implements the pipeline, asset and export gateways.
// Unset functions succeed with empty results.
type mockRemote struct {
	createFn        func(ctx context.Context, spec domain.Spec) (*domain.Ebook, error)
	tocFn           func(ctx context.Context, spec domain.Spec) ([]domain.TOCEntry, error)
	saveTOCFn       func(ctx context.Context, id string, toc []domain.TOCEntry) error
	contentFn       func(ctx context.Context, id string, toc []domain.TOCEntry) ([]domain.Chapter, error)
	getFn           func(ctx context.Context, id string) (*domain.Ebook, error)
	listFn          func(ctx context.Context) ([]domain.Ebook, error)
	coverFn         func(ctx context.Context, id string) (*domain.Cover, error)
	legalFn         func(ctx context.Context, id string, opts domain.LegalOptions) (*domain.LegalPages, error)
	themeFn         func(ctx context.Context, id string) (*domain.VisualTheme, error)
	illustrationsFn func(ctx context.Context, id string) ([]domain.IllustrationSet, error)
	editFn          func(ctx context.Context, id string, n int, content string) error
	regenChapterFn  func(ctx context.Context, id string, n int) (string, error)
	regenImageFn    func(ctx context.Context, id string, ch, idx int) (*domain.Image, error)
	uploadFn        func(ctx context.Context, id string, ch int, name string, data []byte) error
	exportFn        func(ctx context.Context, id string, f domain.ExportFormat) ([]byte, error)

	mu    sync.Mutex
	calls map[string]int
}

var (
	_ driven.PipelineGateway = (*mockRemote)(nil)
	_ driven.AssetGateway    = (*mockRemote)(nil)
	_ driven.Exporter        = (*mockRemote)(nil)
)

func (m *mockRemote) called(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockRemote) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockRemote) Create(ctx context.Context, spec domain.Spec) (*domain.Ebook, error) {
	m.called("create")
	if m.createFn != nil {
		return m.createFn(ctx, spec)
	}
	return &domain.Ebook{ID: "ebook_1", Spec: spec, Status: domain.StatusDraft}, nil
}

func (m *mockRemote) GenerateTOC(ctx context.Context, spec domain.Spec) ([]domain.TOCEntry, error) {
	m.called("toc")
	if m.tocFn != nil {
		return m.tocFn(ctx, spec)
	}
	return nil, nil
}

func (m *mockRemote) SaveTOC(ctx context.Context, id string, toc []domain.TOCEntry) error {
	m.called("save_toc")
	if m.saveTOCFn != nil {
		return m.saveTOCFn(ctx, id, toc)
	}
	return nil
}

func (m *mockRemote) GenerateContent(ctx context.Context, id string, toc []domain.TOCEntry) ([]domain.Chapter, error) {
	m.called("content")
	if m.contentFn != nil {
		return m.contentFn(ctx, id, toc)
	}
	return nil, nil
}

func (m *mockRemote) Get(ctx context.Context, id string) (*domain.Ebook, error) {
	m.called("get")
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &domain.Ebook{ID: id}, nil
}

func (m *mockRemote) List(ctx context.Context) ([]domain.Ebook, error) {
	m.called("list")
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRemote) GenerateCover(ctx context.Context, id string) (*domain.Cover, error) {
	m.called("cover")
	if m.coverFn != nil {
		return m.coverFn(ctx, id)
	}
	return &domain.Cover{Title: "cover"}, nil
}

func (m *mockRemote) GenerateLegalPages(ctx context.Context, id string, opts domain.LegalOptions) (*domain.LegalPages, error) {
	m.called("legal")
	if m.legalFn != nil {
		return m.legalFn(ctx, id, opts)
	}
	return &domain.LegalPages{Publisher: opts.Publisher}, nil
}

func (m *mockRemote) GenerateVisualTheme(ctx context.Context, id string) (*domain.VisualTheme, error) {
	m.called("theme")
	if m.themeFn != nil {
		return m.themeFn(ctx, id)
	}
	return &domain.VisualTheme{Name: "classic"}, nil
}

func (m *mockRemote) GenerateIllustrations(ctx context.Context, id string) ([]domain.IllustrationSet, error) {
	m.called("illustrations")
	if m.illustrationsFn != nil {
		return m.illustrationsFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRemote) EditChapter(ctx context.Context, id string, n int, content string) error {
	m.called("edit")
	if m.editFn != nil {
		return m.editFn(ctx, id, n, content)
	}
	return nil
}

func (m *mockRemote) RegenerateChapter(ctx context.Context, id string, n int) (string, error) {
	m.called("regen_chapter")
	if m.regenChapterFn != nil {
		return m.regenChapterFn(ctx, id, n)
	}
	return "", nil
}

func (m *mockRemote) RegenerateImage(ctx context.Context, id string, ch, idx int) (*domain.Image, error) {
	m.called("regen_image")
	if m.regenImageFn != nil {
		return m.regenImageFn(ctx, id, ch, idx)
	}
	return &domain.Image{}, nil
}

func (m *mockRemote) UploadImage(ctx context.Context, id string, ch int, name string, data []byte) error {
	m.called("upload")
	if m.uploadFn != nil {
		return m.uploadFn(ctx, id, ch, name, data)
	}
	return nil
}

func (m *mockRemote) Export(ctx context.Context, id string, f domain.ExportFormat) ([]byte, error) {
	m.called("export")
	if m.exportFn != nil {
		return m.exportFn(ctx, id, f)
	}
	return nil, nil
}

// gate blocks a mocked call until released, reporting when it has started.
type gate struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait() {
	g.once.Do(func() { close(g.started) })
	<-g.release
}

func (g *gate) open() {
	close(g.release)
}

// authRequired is a 401 as the remote adapter reports it.
func authRequired() error {
	return &domain.RemoteError{Kind: domain.ErrAuthRequired, StatusCode: 401, Detail: "Not authenticated", Op: "test"}
}

// remoteFailure is a 500 with the given detail.
func remoteFailure(detail string) error {
	return &domain.RemoteError{Kind: domain.ErrStageFailed, StatusCode: 500, Detail: detail, Op: "test"}
}

// sampleEbook returns a completed ebook with two chapters and one
// illustration set of two images.
func sampleEbook() *domain.Ebook {
	return &domain.Ebook{
		ID:     "ebook_1",
		Spec:   domain.Spec{Title: "Book", Author: "Ada", ChaptersCount: 2},
		Status: domain.StatusCompleted,
		TOC: []domain.TOCEntry{
			{Number: 1, Title: "One"},
			{Number: 2, Title: "Two"},
		},
		Chapters: []domain.Chapter{
			{Number: 1, Title: "One", Content: "first"},
			{Number: 2, Title: "Two", Content: "second"},
		},
		Cover: &domain.Cover{Title: "Book"},
		Illustrations: []domain.IllustrationSet{
			{ChapterNumber: 1, Images: []domain.Image{
				{Index: 0, Data: []byte("a"), Source: domain.ImageSourceGenerated},
				{Index: 1, Data: []byte("b"), Source: domain.ImageSourceGenerated},
			}},
		},
	}
}
