package cli

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

// mockPipeline implements driving.PipelineService and publishes a started
// and a finished event for every stage it runs.
type mockPipeline struct {
	mu       sync.Mutex
	observer driving.StageObserver

	ebook     *domain.Ebook
	summaries []domain.Summary
	history   []domain.StageEvent
	failStage domain.Stage
	err       error

	calls    []string
	created  domain.Spec
	enriched []domain.Stage
	legal    domain.LegalOptions
	limit    int
}

func (m *mockPipeline) SetObserver(observer driving.StageObserver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = observer
}

func (m *mockPipeline) run(stage domain.Stage, ebook *domain.Ebook, apply func()) error {
	m.mu.Lock()
	m.calls = append(m.calls, string(stage))
	observer := m.observer
	m.mu.Unlock()

	var id string
	if ebook != nil {
		id = ebook.ID
	}
	publish := func(kind domain.EventKind, msg string) {
		if observer != nil {
			observer(domain.StageEvent{EbookID: id, Stage: stage, Kind: kind, Message: msg, At: time.Now()})
		}
	}

	publish(domain.EventStarted, "")
	if stage == m.failStage {
		err := &domain.StageError{Stage: stage, Message: stage.FailureMessage()}
		publish(domain.EventFailed, err.Message)
		return err
	}
	if apply != nil {
		apply()
	}
	publish(domain.EventSucceeded, "")
	return nil
}

func (m *mockPipeline) Create(_ context.Context, spec domain.Spec) (*domain.Ebook, error) {
	m.created = spec
	ebook := &domain.Ebook{ID: "eb-new", Spec: spec, Status: domain.StatusDraft}
	if err := m.run(domain.StageCreate, nil, nil); err != nil {
		return nil, err
	}
	m.ebook = ebook
	return ebook, nil
}

func (m *mockPipeline) GenerateTOC(_ context.Context, ebook *domain.Ebook) error {
	return m.run(domain.StageGenerateTOC, ebook, func() {
		ebook.SetTOC([]domain.TOCEntry{
			{Number: 1, Title: "Seeds", Description: "Starting out"},
			{Number: 2, Title: "Harvest", Description: "Bringing it in"},
		})
	})
}

func (m *mockPipeline) SaveTOC(_ context.Context, ebook *domain.Ebook) error {
	return m.run(domain.StageSaveTOC, ebook, func() { ebook.TOCSaved = true })
}

func (m *mockPipeline) GenerateContent(_ context.Context, ebook *domain.Ebook) error {
	return m.run(domain.StageGenerateContent, ebook, func() {
		chapters := make([]domain.Chapter, len(ebook.TOC))
		for i, e := range ebook.TOC {
			chapters[i] = domain.Chapter{Number: e.Number, Title: e.Title, Content: "some words here"}
		}
		ebook.SetChapters(chapters)
	})
}

func (m *mockPipeline) Complete(ctx context.Context, ebook *domain.Ebook) error {
	if err := m.SaveTOC(ctx, ebook); err != nil {
		return err
	}
	return m.GenerateContent(ctx, ebook)
}

func (m *mockPipeline) GenerateCover(_ context.Context, ebook *domain.Ebook) error {
	return m.run(domain.StageCover, ebook, func() { ebook.Cover = &domain.Cover{} })
}

func (m *mockPipeline) GenerateLegalPages(_ context.Context, ebook *domain.Ebook, opts domain.LegalOptions) error {
	m.legal = opts
	return m.run(domain.StageLegalPages, ebook, func() { ebook.LegalPages = &domain.LegalPages{} })
}

func (m *mockPipeline) GenerateVisualTheme(_ context.Context, ebook *domain.Ebook) error {
	return m.run(domain.StageVisualTheme, ebook, func() { ebook.VisualTheme = &domain.VisualTheme{} })
}

func (m *mockPipeline) GenerateIllustrations(_ context.Context, ebook *domain.Ebook) error {
	return m.run(domain.StageIllustrations, ebook, nil)
}

func (m *mockPipeline) EnrichAll(ctx context.Context, ebook *domain.Ebook, opts domain.LegalOptions) error {
	return m.Enrich(ctx, ebook, domain.EnrichmentStages(), opts)
}

func (m *mockPipeline) Enrich(ctx context.Context, ebook *domain.Ebook, stages []domain.Stage, opts domain.LegalOptions) error {
	m.enriched = stages
	var firstErr error
	for _, stage := range stages {
		var err error
		switch stage {
		case domain.StageCover:
			err = m.GenerateCover(ctx, ebook)
		case domain.StageLegalPages:
			err = m.GenerateLegalPages(ctx, ebook, opts)
		case domain.StageVisualTheme:
			err = m.GenerateVisualTheme(ctx, ebook)
		case domain.StageIllustrations:
			err = m.GenerateIllustrations(ctx, ebook)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *mockPipeline) Refresh(_ context.Context, ebookID string) (*domain.Ebook, error) {
	m.calls = append(m.calls, "refresh:"+ebookID)
	if m.err != nil {
		return nil, m.err
	}
	if m.ebook == nil {
		return &domain.Ebook{ID: ebookID, Status: domain.StatusDraft}, nil
	}
	return m.ebook, nil
}

func (m *mockPipeline) List(_ context.Context) ([]domain.Summary, error) {
	return m.summaries, m.err
}

func (m *mockPipeline) History(_ context.Context, _ string, limit int) ([]domain.StageEvent, error) {
	m.limit = limit
	return m.history, m.err
}

// mockAssets implements driving.AssetService.
type mockAssets struct {
	err      error
	edited   string
	uploaded string
	data     []byte
}

func (m *mockAssets) EditChapter(_ context.Context, ebook *domain.Ebook, number int, content string) error {
	if m.err != nil {
		return m.err
	}
	m.edited = content
	return ebook.ReplaceChapterContent(number, content)
}

func (m *mockAssets) RegenerateChapter(_ context.Context, ebook *domain.Ebook, number int) error {
	if m.err != nil {
		return m.err
	}
	return ebook.ReplaceChapterContent(number, "fresh text")
}

func (m *mockAssets) RegenerateImage(_ context.Context, ebook *domain.Ebook, chapterNumber, index int) error {
	if m.err != nil {
		return m.err
	}
	return ebook.ReplaceImage(chapterNumber, index, domain.Image{Data: []byte("png")})
}

func (m *mockAssets) UploadImage(_ context.Context, _ *domain.Ebook, _ int, fileName string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.uploaded = fileName
	m.data = data
	return nil
}

// mockExport implements driving.ExportService.
type mockExport struct {
	err     error
	format  domain.ExportFormat
	savedTo string
}

func (m *mockExport) Export(_ context.Context, ebookID string, format domain.ExportFormat) (*domain.ExportedFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.format = format
	return &domain.ExportedFile{
		EbookID:  ebookID,
		Format:   format,
		FileName: domain.ExportFileName(ebookID, format),
		Data:     make([]byte, 2048),
	}, nil
}

func (m *mockExport) Save(file *domain.ExportedFile, dir string) (string, error) {
	m.savedTo = dir
	return dir + "/" + file.FileName, nil
}

// mockAuth implements driving.AuthService.
type mockAuth struct {
	identity *domain.Identity
	err      error
	state    domain.AuthState

	login     domain.LoginRequest
	register  domain.RegisterRequest
	location  driven.RedirectLocation
	loggedOut bool
}

func (m *mockAuth) Login(_ context.Context, req domain.LoginRequest) (*domain.Identity, error) {
	m.login = req
	return m.identity, m.err
}

func (m *mockAuth) Register(_ context.Context, req domain.RegisterRequest) (*domain.Identity, error) {
	m.register = req
	return m.identity, m.err
}

func (m *mockAuth) Resolve(_ context.Context, location driven.RedirectLocation) (*domain.Identity, error) {
	m.location = location
	return m.identity, m.err
}

func (m *mockAuth) Logout(_ context.Context) error {
	m.loggedOut = true
	return m.err
}

func (m *mockAuth) BrowserLoginURL(loginURL, redirectURI string) (string, string, error) {
	return loginURL + "?redirect=" + redirectURI, "state", nil
}

func (m *mockAuth) State() domain.AuthState {
	return m.state
}

// mockSession implements driving.SessionService.
type mockSession struct {
	credential domain.Credential
}

func (m *mockSession) SetCredential(_ context.Context, token string, cookie bool) error {
	m.credential = domain.Credential{Token: token, CookieSession: cookie}
	return nil
}

func (m *mockSession) SetIdentity(domain.Identity) {}
func (m *mockSession) Clear(context.Context) error { return nil }
func (m *mockSession) CurrentIdentity(context.Context) (*domain.Identity, error) { return nil, nil }
func (m *mockSession) Identity() (*domain.Identity, bool) { return nil, false }
func (m *mockSession) Credential() domain.Credential { return m.credential }
func (m *mockSession) SetResolver(driving.IdentityResolver) {}
func (m *mockSession) Subscribe(func()) {}
