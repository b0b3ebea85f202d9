package cli

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

var exportCmd = &cobra.Command{
	Use:   "export [ebook-id]",
	Short: "Download a rendered ebook",
	Long: `Download the ebook rendered as pdf, epub, html, mobi or docx.
The service renders mobi requests as epub, so they are saved with a .epub
extension.

Examples:
  ebookctl export <ebook-id> --format pdf
  ebookctl export <ebook-id> --format epub --dir ~/Books`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// Flags for export.
var (
	exportFormat string
	exportDir    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(domain.FormatPDF), "Format (pdf, epub, html, mobi, docx)")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Output directory (defaults to the export.dir setting)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errNotConfigured("export")
	}
	format, err := domain.ParseExportFormat(exportFormat)
	if err != nil {
		return err
	}

	dir := exportDir
	if dir == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			dir = settings.Export.Dir
		}
	}

	var file *domain.ExportedFile
	if err := runStages(cmd, "Exporting "+string(format), func(ctx context.Context) error {
		var err error
		file, err = exportService.Export(ctx, args[0], format)
		return err
	}); err != nil {
		return err
	}

	path, err := exportService.Save(file, dir)
	if err != nil {
		return err
	}
	cmd.Printf("Saved %s (%s)\n", path, humanize.Bytes(uint64(len(file.Data))))
	return nil
}
