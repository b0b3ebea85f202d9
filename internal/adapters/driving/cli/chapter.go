package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Edit or regenerate a chapter",
}

var chapterEditCmd = &cobra.Command{
	Use:   "edit [ebook-id] [chapter]",
	Short: "Replace a chapter's content",
	Long: `Replace a chapter's content with text read from --file, or from stdin
when --file is "-" or omitted.`,
	Args: cobra.ExactArgs(2),
	RunE: runChapterEdit,
}

var chapterRegenerateCmd = &cobra.Command{
	Use:   "regenerate [ebook-id] [chapter]",
	Short: "Rewrite a chapter",
	Args:  cobra.ExactArgs(2),
	RunE:  runChapterRegenerate,
}

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Regenerate or upload chapter illustrations",
}

var imageRegenerateCmd = &cobra.Command{
	Use:   "regenerate [ebook-id] [chapter] [index]",
	Short: "Regenerate one illustration",
	Args:  cobra.ExactArgs(3),
	RunE:  runImageRegenerate,
}

var imageUploadCmd = &cobra.Command{
	Use:   "upload [ebook-id] [chapter] [file]",
	Short: "Upload your own illustration for a chapter",
	Args:  cobra.ExactArgs(3),
	RunE:  runImageUpload,
}

var chapterEditFile string

func init() {
	chapterEditCmd.Flags().StringVarP(&chapterEditFile, "file", "f", "-", "File with the new content")

	chapterCmd.AddCommand(chapterEditCmd)
	chapterCmd.AddCommand(chapterRegenerateCmd)
	imageCmd.AddCommand(imageRegenerateCmd)
	imageCmd.AddCommand(imageUploadCmd)
	rootCmd.AddCommand(chapterCmd)
	rootCmd.AddCommand(imageCmd)
}

func runChapterEdit(cmd *cobra.Command, args []string) error {
	if assetService == nil || pipelineService == nil {
		return errNotConfigured("asset")
	}
	number, err := parseNumber("chapter", args[1])
	if err != nil {
		return err
	}
	content, err := readContent(cmd, chapterEditFile)
	if err != nil {
		return err
	}
	ebook, err := pipelineService.Refresh(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if err := runStages(cmd, fmt.Sprintf("Chapter %d", number), func(ctx context.Context) error {
		return assetService.EditChapter(ctx, ebook, number, content)
	}); err != nil {
		return err
	}
	cmd.Printf("Chapter %d saved.\n", number)
	return nil
}

func runChapterRegenerate(cmd *cobra.Command, args []string) error {
	if assetService == nil || pipelineService == nil {
		return errNotConfigured("asset")
	}
	number, err := parseNumber("chapter", args[1])
	if err != nil {
		return err
	}
	ebook, err := pipelineService.Refresh(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if err := runStages(cmd, fmt.Sprintf("Chapter %d", number), func(ctx context.Context) error {
		return assetService.RegenerateChapter(ctx, ebook, number)
	}); err != nil {
		return err
	}
	if ch := ebook.Chapter(number); ch != nil {
		cmd.Printf("Chapter %d rewritten (%d characters).\n", number, len(ch.Content))
	}
	return nil
}

func runImageRegenerate(cmd *cobra.Command, args []string) error {
	if assetService == nil || pipelineService == nil {
		return errNotConfigured("asset")
	}
	chapter, err := parseNumber("chapter", args[1])
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(args[2])
	if err != nil || index < 0 {
		return fmt.Errorf("%w: image index must be a non-negative integer", domain.ErrInvalidInput)
	}
	ebook, err := pipelineService.Refresh(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if err := runStages(cmd, fmt.Sprintf("Chapter %d image %d", chapter, index), func(ctx context.Context) error {
		return assetService.RegenerateImage(ctx, ebook, chapter, index)
	}); err != nil {
		return err
	}
	if set := ebook.IllustrationSet(chapter); set != nil && index < len(set.Images) {
		cmd.Printf("Image %d of chapter %d: %s\n", index, chapter, set.Images[index].Status())
	}
	return nil
}

func runImageUpload(cmd *cobra.Command, args []string) error {
	if assetService == nil || pipelineService == nil {
		return errNotConfigured("asset")
	}
	chapter, err := parseNumber("chapter", args[1])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[2])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	ebook, err := pipelineService.Refresh(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if err := runStages(cmd, fmt.Sprintf("Chapter %d upload", chapter), func(ctx context.Context) error {
		return assetService.UploadImage(ctx, ebook, chapter, filepath.Base(args[2]), data)
	}); err != nil {
		return err
	}
	cmd.Printf("Uploaded %s to chapter %d.\n", filepath.Base(args[2]), chapter)
	return nil
}

func parseNumber(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return n, nil
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: content is empty", domain.ErrInvalidInput)
	}
	return string(data), nil
}
