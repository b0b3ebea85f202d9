package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

// Ensure AssetMutator implements the interfaces.
var (
	_ driving.AssetService    = (*AssetMutator)(nil)
	_ driving.StageObservable = (*AssetMutator)(nil)
)

// AssetMutator edits and regenerates individual chapters and images.
type AssetMutator struct {
	stageRunner
	assets   driven.AssetGateway
	pipeline driven.PipelineGateway
	guard    *inflightGuard
}

// NewAssetMutator creates an asset mutator. pipeline is used to re-fetch
// the ebook after an upload.
func NewAssetMutator(
	assets driven.AssetGateway,
	pipeline driven.PipelineGateway,
	session driving.SessionService,
	activity driven.ActivityStore,
) *AssetMutator {
	return &AssetMutator{
		stageRunner: stageRunner{session: session, activity: activity},
		assets:      assets,
		pipeline:    pipeline,
		guard:       newInflightGuard(),
	}
}

// SetObserver registers the receiver of stage events.
func (m *AssetMutator) SetObserver(observer driving.StageObserver) {
	m.setObserver(observer)
}

// EditChapter replaces a chapter's content after the remote acknowledges it.
func (m *AssetMutator) EditChapter(ctx context.Context, ebook *domain.Ebook, number int, content string) error {
	id, err := m.chapterOf(ebook, number)
	if err != nil {
		return err
	}
	release, err := m.guard.acquire(chapterKey(id, number))
	if err != nil {
		return err
	}
	defer release()

	return m.run(ctx, id, domain.StageEditChapter, func() error {
		if err := m.assets.EditChapter(ctx, id, number, content); err != nil {
			return err
		}
		return m.merge(func() error { return ebook.ReplaceChapterContent(number, content) })
	})
}

// RegenerateChapter replaces a chapter's content with regenerated text.
func (m *AssetMutator) RegenerateChapter(ctx context.Context, ebook *domain.Ebook, number int) error {
	id, err := m.chapterOf(ebook, number)
	if err != nil {
		return err
	}
	release, err := m.guard.acquire(chapterKey(id, number))
	if err != nil {
		return err
	}
	defer release()

	return m.run(ctx, id, domain.StageRegenerateChapter, func() error {
		content, err := m.assets.RegenerateChapter(ctx, id, number)
		if err != nil {
			return err
		}
		return m.merge(func() error { return ebook.ReplaceChapterContent(number, content) })
	})
}

// RegenerateImage replaces exactly one image slot. It conflicts with an
// upload pending for the same chapter.
func (m *AssetMutator) RegenerateImage(ctx context.Context, ebook *domain.Ebook, chapterNumber, index int) error {
	id, err := m.slotOf(ebook, chapterNumber, index)
	if err != nil {
		return err
	}
	release, err := m.guard.acquire(imageSlotKey(id, chapterNumber, index), imageUploadKey(id, chapterNumber))
	if err != nil {
		return err
	}
	defer release()

	return m.run(ctx, id, domain.StageRegenerateImage, func() error {
		img, err := m.assets.RegenerateImage(ctx, id, chapterNumber, index)
		if err != nil {
			return err
		}
		if img.Source == "" {
			img.Source = domain.ImageSourceGenerated
		}
		return m.merge(func() error { return ebook.ReplaceImage(chapterNumber, index, *img) })
	})
}

// UploadImage sends a user image for a chapter and then replaces ebook with
// a fresh snapshot. It conflicts with any pending slot of the chapter.
func (m *AssetMutator) UploadImage(
	ctx context.Context,
	ebook *domain.Ebook,
	chapterNumber int,
	fileName string,
	data []byte,
) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	id, err := m.chapterOf(ebook, chapterNumber)
	if err != nil {
		return err
	}
	release, err := m.guard.acquire(imageUploadKey(id, chapterNumber), imageChapterPrefix(id, chapterNumber))
	if err != nil {
		return err
	}
	defer release()

	if err := m.run(ctx, id, domain.StageUploadImage, func() error {
		return m.assets.UploadImage(ctx, id, chapterNumber, fileName, data)
	}); err != nil {
		return err
	}

	fresh, err := m.pipeline.Get(ctx, id)
	if err != nil {
		return m.fail(ctx, domain.StageRefresh, err)
	}
	return m.merge(func() error {
		saved := ebook.TOCSaved
		*ebook = *fresh
		ebook.TOCSaved = saved
		return nil
	})
}

func (m *AssetMutator) merge(fn func() error) error {
	ebookMu.Lock()
	defer ebookMu.Unlock()
	return fn()
}

func (m *AssetMutator) chapterOf(ebook *domain.Ebook, number int) (string, error) {
	ebookMu.Lock()
	defer ebookMu.Unlock()
	if err := requireID(ebook); err != nil {
		return "", err
	}
	if ebook.Chapter(number) == nil {
		return "", fmt.Errorf("%w: chapter %d does not exist", domain.ErrPreconditionUnmet, number)
	}
	return ebook.ID, nil
}

func (m *AssetMutator) slotOf(ebook *domain.Ebook, chapterNumber, index int) (string, error) {
	ebookMu.Lock()
	defer ebookMu.Unlock()
	if err := requireID(ebook); err != nil {
		return "", err
	}
	set := ebook.IllustrationSet(chapterNumber)
	if set == nil || index < 0 || index >= len(set.Images) {
		return "", fmt.Errorf("%w: no image %d for chapter %d", domain.ErrPreconditionUnmet, index, chapterNumber)
	}
	return ebook.ID, nil
}
