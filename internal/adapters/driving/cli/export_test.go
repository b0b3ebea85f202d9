package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

func TestExportCmd(t *testing.T) {
	t.Run("uses the configured directory", func(t *testing.T) {
		ts := setupTestServices(t)
		require.NoError(t, ts.settings.Set("export.dir", "/books"))

		out, err := execute(t, "export", "eb-1", "--format", "EPUB")

		require.NoError(t, err)
		assert.Equal(t, domain.FormatEPUB, ts.export.format)
		assert.Equal(t, "/books", ts.export.savedTo)
		assert.Contains(t, out, "Saved /books/ebook_eb-1.epub (2.0 kB)")
	})

	t.Run("dir flag wins", func(t *testing.T) {
		ts := setupTestServices(t)
		require.NoError(t, ts.settings.Set("export.dir", "/books"))

		_, err := execute(t, "export", "eb-1", "-d", "/tmp/out")

		require.NoError(t, err)
		assert.Equal(t, domain.FormatPDF, ts.export.format)
		assert.Equal(t, "/tmp/out", ts.export.savedTo)
	})

	t.Run("mobi is saved as epub", func(t *testing.T) {
		setupTestServices(t)

		out, err := execute(t, "export", "eb-1", "-f", "mobi", "-d", "/x")

		require.NoError(t, err)
		assert.Contains(t, out, "ebook_eb-1.epub")
	})

	t.Run("unknown format", func(t *testing.T) {
		ts := setupTestServices(t)

		_, err := execute(t, "export", "eb-1", "-f", "rtf")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, ts.export.format)
	})

	t.Run("export failure", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.export.err = &domain.StageError{Stage: domain.StageExport, Message: domain.StageExport.FailureMessage()}

		_, err := execute(t, "export", "eb-1")

		assert.ErrorIs(t, err, domain.ErrStageFailed)
		assert.Empty(t, ts.export.savedTo)
	})
}
