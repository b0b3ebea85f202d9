package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
	"github.com/custodia-labs/ebookctl/internal/logger"
)

// Ensure PipelineOrchestrator implements the interfaces.
var (
	_ driving.PipelineService = (*PipelineOrchestrator)(nil)
	_ driving.StageObservable = (*PipelineOrchestrator)(nil)
)

// PipelineOrchestrator drives ebooks through creation, table of contents,
// content and enrichment. Results are merged into the ebook passed in.
type PipelineOrchestrator struct {
	stageRunner
	gateway driven.PipelineGateway
	guard   *inflightGuard
}

// NewPipelineOrchestrator creates a pipeline orchestrator.
// activity may be nil, in which case no journal is kept.
func NewPipelineOrchestrator(
	gateway driven.PipelineGateway,
	session driving.SessionService,
	activity driven.ActivityStore,
) *PipelineOrchestrator {
	return &PipelineOrchestrator{
		stageRunner: stageRunner{session: session, activity: activity},
		gateway:     gateway,
		guard:       newInflightGuard(),
	}
}

// SetObserver registers the receiver of stage events.
func (o *PipelineOrchestrator) SetObserver(observer driving.StageObserver) {
	o.setObserver(observer)
}

// Create registers a new ebook. Repeated calls create distinct ebooks.
func (o *PipelineOrchestrator) Create(ctx context.Context, spec domain.Spec) (*domain.Ebook, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var ebook *domain.Ebook
	err := o.run(ctx, "", domain.StageCreate, func() error {
		created, err := o.gateway.Create(ctx, spec)
		if err != nil {
			return err
		}
		if created == nil || created.ID == "" {
			return fmt.Errorf("no ebook id returned: %w", domain.ErrStageFailed)
		}
		ebook = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ebook.Status == "" {
		ebook.Status = domain.StatusDraft
	}
	logger.Info("Created ebook %s", ebook.ID)
	return ebook, nil
}

// GenerateTOC generates an unsaved table of contents.
func (o *PipelineOrchestrator) GenerateTOC(ctx context.Context, ebook *domain.Ebook) error {
	id, err := o.ebookID(ebook)
	if err != nil {
		return err
	}
	ebookMu.Lock()
	spec := ebook.Spec
	ebookMu.Unlock()

	return o.guarded(ctx, id, domain.StageGenerateTOC, func() error {
		toc, err := o.gateway.GenerateTOC(ctx, spec)
		if err != nil {
			return err
		}
		o.merge(func() { ebook.SetTOC(toc) })
		return nil
	})
}

// SaveTOC persists the ebook's current table of contents.
func (o *PipelineOrchestrator) SaveTOC(ctx context.Context, ebook *domain.Ebook) error {
	id, toc, err := o.tocOf(ebook)
	if err != nil {
		return err
	}

	return o.guarded(ctx, id, domain.StageSaveTOC, func() error {
		if err := o.gateway.SaveTOC(ctx, id, toc); err != nil {
			return err
		}
		o.merge(func() { ebook.TOCSaved = true })
		return nil
	})
}

// GenerateContent writes the chapters of the ebook's table of contents.
func (o *PipelineOrchestrator) GenerateContent(ctx context.Context, ebook *domain.Ebook) error {
	id, toc, err := o.tocOf(ebook)
	if err != nil {
		return err
	}

	return o.guarded(ctx, id, domain.StageGenerateContent, func() error {
		chapters, err := o.gateway.GenerateContent(ctx, id, toc)
		if err != nil {
			return err
		}
		o.merge(func() { ebook.SetChapters(chapters) })
		return nil
	})
}

// Complete saves the table of contents then generates content.
// A failure at either step leaves the table of contents intact.
func (o *PipelineOrchestrator) Complete(ctx context.Context, ebook *domain.Ebook) error {
	if err := o.SaveTOC(ctx, ebook); err != nil {
		return err
	}
	return o.GenerateContent(ctx, ebook)
}

// GenerateCover generates or replaces the cover.
func (o *PipelineOrchestrator) GenerateCover(ctx context.Context, ebook *domain.Ebook) error {
	id, err := o.ebookID(ebook)
	if err != nil {
		return err
	}
	return o.guarded(ctx, id, domain.StageCover, func() error {
		cover, err := o.gateway.GenerateCover(ctx, id)
		if err != nil {
			return err
		}
		o.merge(func() { ebook.Cover = cover })
		return nil
	})
}

// GenerateLegalPages generates or replaces the legal pages.
func (o *PipelineOrchestrator) GenerateLegalPages(ctx context.Context, ebook *domain.Ebook, opts domain.LegalOptions) error {
	id, err := o.ebookID(ebook)
	if err != nil {
		return err
	}
	return o.guarded(ctx, id, domain.StageLegalPages, func() error {
		pages, err := o.gateway.GenerateLegalPages(ctx, id, opts)
		if err != nil {
			return err
		}
		o.merge(func() { ebook.LegalPages = pages })
		return nil
	})
}

// GenerateVisualTheme generates or replaces the visual theme.
func (o *PipelineOrchestrator) GenerateVisualTheme(ctx context.Context, ebook *domain.Ebook) error {
	id, err := o.ebookID(ebook)
	if err != nil {
		return err
	}
	return o.guarded(ctx, id, domain.StageVisualTheme, func() error {
		theme, err := o.gateway.GenerateVisualTheme(ctx, id)
		if err != nil {
			return err
		}
		o.merge(func() { ebook.VisualTheme = theme })
		return nil
	})
}

// GenerateIllustrations generates or replaces the illustrations.
// It makes no remote call when the ebook has no chapters.
func (o *PipelineOrchestrator) GenerateIllustrations(ctx context.Context, ebook *domain.Ebook) error {
	id, err := o.ebookID(ebook)
	if err != nil {
		return err
	}
	ebookMu.Lock()
	hasChapters := ebook.HasChapters()
	ebookMu.Unlock()
	if !hasChapters {
		return fmt.Errorf("%w: generate content before illustrations", domain.ErrPreconditionUnmet)
	}

	return o.guarded(ctx, id, domain.StageIllustrations, func() error {
		sets, err := o.gateway.GenerateIllustrations(ctx, id)
		if err != nil {
			return err
		}
		o.merge(func() { ebook.Illustrations = sets })
		return nil
	})
}

// EnrichAll runs every enrichment stage concurrently.
func (o *PipelineOrchestrator) EnrichAll(ctx context.Context, ebook *domain.Ebook, opts domain.LegalOptions) error {
	return o.Enrich(ctx, ebook, domain.EnrichmentStages(), opts)
}

// Enrich runs stages concurrently. Every success is merged even when a
// sibling fails; the failures are joined.
func (o *PipelineOrchestrator) Enrich(
	ctx context.Context,
	ebook *domain.Ebook,
	stages []domain.Stage,
	opts domain.LegalOptions,
) error {
	if _, err := o.ebookID(ebook); err != nil {
		return err
	}

	var (
		g      errgroup.Group
		errsMu sync.Mutex
		errs   []error
	)
	for _, stage := range stages {
		g.Go(func() error {
			var err error
			switch stage {
			case domain.StageCover:
				err = o.GenerateCover(ctx, ebook)
			case domain.StageLegalPages:
				err = o.GenerateLegalPages(ctx, ebook, opts)
			case domain.StageVisualTheme:
				err = o.GenerateVisualTheme(ctx, ebook)
			case domain.StageIllustrations:
				err = o.GenerateIllustrations(ctx, ebook)
			default:
				err = fmt.Errorf("%w: %s is not an enrichment stage", domain.ErrInvalidInput, stage)
			}
			if err != nil {
				errsMu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", stage, err))
				errsMu.Unlock()
			}
			return err
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Refresh fetches a full snapshot of an ebook.
func (o *PipelineOrchestrator) Refresh(ctx context.Context, ebookID string) (*domain.Ebook, error) {
	if ebookID == "" {
		return nil, fmt.Errorf("%w: ebook id is required", domain.ErrInvalidInput)
	}
	ebook, err := o.gateway.Get(ctx, ebookID)
	if err != nil {
		return nil, o.fail(ctx, domain.StageRefresh, err)
	}
	return ebook, nil
}

// List returns summaries of the user's ebooks.
func (o *PipelineOrchestrator) List(ctx context.Context) ([]domain.Summary, error) {
	ebooks, err := o.gateway.List(ctx)
	if err != nil {
		return nil, o.fail(ctx, domain.StageList, err)
	}
	summaries := make([]domain.Summary, 0, len(ebooks))
	for i := range ebooks {
		summaries = append(summaries, ebooks[i].Summarize())
	}
	return summaries, nil
}

// History returns journaled stage events, newest first.
func (o *PipelineOrchestrator) History(ctx context.Context, ebookID string, limit int) ([]domain.StageEvent, error) {
	if o.activity == nil {
		return nil, nil
	}
	return o.activity.List(ctx, ebookID, limit)
}

// guarded runs call as stage of id, rejecting a duplicate pending call.
func (o *PipelineOrchestrator) guarded(ctx context.Context, id string, stage domain.Stage, call func() error) error {
	release, err := o.guard.acquire(stageKey(id, stage))
	if err != nil {
		return err
	}
	defer release()
	return o.run(ctx, id, stage, call)
}

func (o *PipelineOrchestrator) merge(fn func()) {
	ebookMu.Lock()
	defer ebookMu.Unlock()
	fn()
}

func (o *PipelineOrchestrator) ebookID(ebook *domain.Ebook) (string, error) {
	ebookMu.Lock()
	defer ebookMu.Unlock()
	if err := requireID(ebook); err != nil {
		return "", err
	}
	return ebook.ID, nil
}

func (o *PipelineOrchestrator) tocOf(ebook *domain.Ebook) (string, []domain.TOCEntry, error) {
	ebookMu.Lock()
	defer ebookMu.Unlock()
	if err := requireID(ebook); err != nil {
		return "", nil, err
	}
	if len(ebook.TOC) == 0 {
		return "", nil, fmt.Errorf("%w: generate a table of contents first", domain.ErrPreconditionUnmet)
	}
	toc := make([]domain.TOCEntry, len(ebook.TOC))
	copy(toc, ebook.TOC)
	return ebook.ID, toc, nil
}
