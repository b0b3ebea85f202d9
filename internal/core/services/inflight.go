package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// inflightGuard tracks pending operations by key.
// A second acquire of a pending key is rejected rather than joined.
type inflightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{active: make(map[string]struct{})}
}

// acquire marks key pending. It fails if key, or any pending key starting
// with one of conflicts, is already pending. The returned release must be
// called when the operation settles.
func (g *inflightGuard) acquire(key string, conflicts ...string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.active[key]; ok {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrOperationInFlight)
	}
	for pending := range g.active {
		for _, prefix := range conflicts {
			if strings.HasPrefix(pending, prefix) {
				return nil, fmt.Errorf("%s conflicts with %s: %w", key, pending, domain.ErrOperationInFlight)
			}
		}
	}

	g.active[key] = struct{}{}
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.active, key)
	}, nil
}

func stageKey(ebookID string, stage domain.Stage) string {
	return fmt.Sprintf("stage:%s:%s", ebookID, stage)
}

func chapterKey(ebookID string, number int) string {
	return fmt.Sprintf("chapter:%s:%d", ebookID, number)
}

func imageChapterPrefix(ebookID string, chapterNumber int) string {
	return fmt.Sprintf("img:%s:%d:", ebookID, chapterNumber)
}

func imageSlotKey(ebookID string, chapterNumber, index int) string {
	return fmt.Sprintf("%s%d", imageChapterPrefix(ebookID, chapterNumber), index)
}

func imageUploadKey(ebookID string, chapterNumber int) string {
	return imageChapterPrefix(ebookID, chapterNumber) + "upload"
}
