package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

var ebookCmd = &cobra.Command{
	Use:   "ebook",
	Short: "Create and generate ebooks",
	Long: `Create an ebook from a spec, generate its table of contents and chapters,
and enrich it with a cover, legal pages, a visual theme and illustrations.

A spec file is TOML or YAML:

  title = "The Little Gardener"
  author = "Ada"
  tone = "warm"
  target_audience = ["beginners"]
  description = "A first book about growing vegetables"
  chapters_count = 8
  length = "medium"

Examples:
  ebookctl ebook create --spec book.toml --generate
  ebookctl ebook toc <ebook-id> --save
  ebookctl ebook generate <ebook-id>
  ebookctl ebook enrich <ebook-id> cover visual_theme`,
}

var ebookCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an ebook from a spec",
	RunE:  runEbookCreate,
}

var ebookTOCCmd = &cobra.Command{
	Use:   "toc [ebook-id]",
	Short: "Generate a table of contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runEbookTOC,
}

var ebookGenerateCmd = &cobra.Command{
	Use:   "generate [ebook-id]",
	Short: "Save the table of contents and write the chapters",
	Long: `Save the ebook's table of contents and write its chapters.
A table of contents is generated first if the ebook has none.`,
	Args: cobra.ExactArgs(1),
	RunE: runEbookGenerate,
}

var ebookGetCmd = &cobra.Command{
	Use:   "get [ebook-id]",
	Short: "Show an ebook",
	Args:  cobra.ExactArgs(1),
	RunE:  runEbookGet,
}

var ebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your ebooks",
	RunE:  runEbookList,
}

var ebookEnrichCmd = &cobra.Command{
	Use:   "enrich [ebook-id] [stage...]",
	Short: "Generate cover, legal pages, visual theme and illustrations",
	Long: `Run enrichment stages concurrently. With no stage named, all four run.
A stage that succeeds is kept even when another one fails, and every stage
can be run again to replace its result.

Stages: cover, legal_pages, visual_theme, illustrations`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEbookEnrich,
}

// Flags for ebook commands.
var (
	createSpecPath   string
	createSpec       domain.Spec
	createAudience   string
	createGenerate   bool
	createEnrich     bool
	tocSave          bool
	generateFreshTOC bool
	getJSON          bool
	legalFlags       domain.LegalOptions
)

func init() {
	f := ebookCreateCmd.Flags()
	f.StringVar(&createSpecPath, "spec", "", "Spec file (.toml, .yaml)")
	f.StringVar(&createSpec.Title, "title", "", "Title")
	f.StringVar(&createSpec.Author, "author", "", "Author")
	f.StringVar(&createSpec.Tone, "tone", "", "Tone of voice")
	f.StringVar(&createAudience, "audience", "", "Target audience (comma-separated)")
	f.StringVar(&createSpec.Description, "description", "", "Description")
	f.IntVar(&createSpec.ChaptersCount, "chapters", 0, "Number of chapters")
	f.StringVar(&createSpec.Length, "length", "", "Chapter length (short, medium, long)")
	f.BoolVar(&createGenerate, "generate", false, "Generate the table of contents and chapters")
	f.BoolVar(&createEnrich, "enrich", false, "Also run every enrichment stage (implies --generate)")

	ebookTOCCmd.Flags().BoolVar(&tocSave, "save", false, "Save the generated table of contents")
	ebookGenerateCmd.Flags().BoolVar(&generateFreshTOC, "new-toc", false, "Generate a new table of contents first")
	ebookGetCmd.Flags().BoolVar(&getJSON, "json", false, "Print the ebook as JSON")

	for _, c := range []*cobra.Command{ebookEnrichCmd, ebookCreateCmd} {
		c.Flags().StringVar(&legalFlags.Publisher, "publisher", "", "Publisher for the legal pages")
		c.Flags().StringVar(&legalFlags.Edition, "edition", "", "Edition for the legal pages")
		c.Flags().IntVar(&legalFlags.Year, "year", 0, "Publication year for the legal pages")
		c.Flags().StringVar(&legalFlags.ISBN, "isbn", "", "ISBN for the legal pages")
	}

	ebookCmd.AddCommand(ebookCreateCmd)
	ebookCmd.AddCommand(ebookTOCCmd)
	ebookCmd.AddCommand(ebookGenerateCmd)
	ebookCmd.AddCommand(ebookGetCmd)
	ebookCmd.AddCommand(ebookListCmd)
	ebookCmd.AddCommand(ebookEnrichCmd)
	rootCmd.AddCommand(ebookCmd)
}

func runEbookCreate(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}

	spec, err := specFromFlags()
	if err != nil {
		return err
	}

	var ebook *domain.Ebook
	err = runStages(cmd, "Creating "+spec.Title, func(ctx context.Context) error {
		var err error
		ebook, err = pipelineService.Create(ctx, spec)
		if err != nil {
			return err
		}
		if !createGenerate && !createEnrich {
			return nil
		}
		if err := pipelineService.GenerateTOC(ctx, ebook); err != nil {
			return err
		}
		if err := pipelineService.Complete(ctx, ebook); err != nil {
			return err
		}
		if createEnrich {
			return pipelineService.EnrichAll(ctx, ebook, legalOptions())
		}
		return nil
	})
	if ebook != nil {
		cmd.Printf("Ebook: %s (%s)\n", ebook.ID, ebook.Stage())
	}
	return err
}

func specFromFlags() (domain.Spec, error) {
	spec := createSpec
	if createSpecPath != "" {
		if specLoader == nil {
			return domain.Spec{}, errors.New("spec loader not configured")
		}
		loaded, err := specLoader(createSpecPath)
		if err != nil {
			return domain.Spec{}, err
		}
		spec = mergeSpec(loaded, createSpec)
	}
	if createAudience != "" {
		spec.TargetAudience = splitList(createAudience)
	}
	if err := spec.Validate(); err != nil {
		return domain.Spec{}, err
	}
	return spec, nil
}

// mergeSpec overlays the non-zero fields of override onto base.
func mergeSpec(base, override domain.Spec) domain.Spec {
	if override.Title != "" {
		base.Title = override.Title
	}
	if override.Author != "" {
		base.Author = override.Author
	}
	if override.Tone != "" {
		base.Tone = override.Tone
	}
	if override.Description != "" {
		base.Description = override.Description
	}
	if override.ChaptersCount != 0 {
		base.ChaptersCount = override.ChaptersCount
	}
	if override.Length != "" {
		base.Length = override.Length
	}
	return base
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runEbookTOC(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}
	ebook, err := pipelineService.Refresh(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	err = runStages(cmd, "Table of contents", func(ctx context.Context) error {
		if err := pipelineService.GenerateTOC(ctx, ebook); err != nil {
			return err
		}
		if tocSave {
			return pipelineService.SaveTOC(ctx, ebook)
		}
		return nil
	})
	if len(ebook.TOC) > 0 {
		cmd.Println(renderTOC(ebook.TOC))
	}
	if err == nil && !tocSave {
		cmd.Printf("Not saved. Run 'ebookctl ebook generate %s' to save it and write the chapters.\n", ebook.ID)
	}
	return err
}

func runEbookGenerate(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}
	ebook, err := pipelineService.Refresh(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	err = runStages(cmd, "Writing "+ebook.Title, func(ctx context.Context) error {
		if generateFreshTOC || len(ebook.TOC) == 0 {
			if err := pipelineService.GenerateTOC(ctx, ebook); err != nil {
				return err
			}
		}
		return pipelineService.Complete(ctx, ebook)
	})
	if err != nil {
		return err
	}
	cmd.Printf("Wrote %d chapters.\n", len(ebook.Chapters))
	return nil
}

func runEbookGet(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}
	ebook, err := pipelineService.Refresh(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if getJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ebook)
	}
	printEbook(cmd, ebook)
	return nil
}

func printEbook(cmd *cobra.Command, ebook *domain.Ebook) {
	cmd.Printf("%s\n", ebook.Title)
	cmd.Printf("  ID:       %s\n", ebook.ID)
	cmd.Printf("  Author:   %s\n", ebook.Author)
	cmd.Printf("  Status:   %s (%s)\n", ebook.Status, ebook.Stage())
	cmd.Printf("  Created:  %s\n", relativeTime(ebook.CreatedAt))
	cmd.Printf("  Cover:         %s\n", presence(ebook.Cover != nil))
	cmd.Printf("  Legal pages:   %s\n", presence(ebook.LegalPages != nil))
	cmd.Printf("  Visual theme:  %s\n", presence(ebook.VisualTheme != nil))
	cmd.Printf("  Illustrations: %s\n", illustrationSummary(ebook))
	cmd.Println()

	if len(ebook.Chapters) > 0 {
		rows := make([][]string, 0, len(ebook.Chapters))
		for _, ch := range ebook.Chapters {
			rows = append(rows, []string{strconv.Itoa(ch.Number), ch.Title, strconv.Itoa(len(strings.Fields(ch.Content)))})
		}
		cmd.Println(renderTable([]string{"#", "Chapter", "Words"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
		return
	}
	if len(ebook.TOC) > 0 {
		cmd.Println(renderTOC(ebook.TOC))
	}
}

func renderTOC(toc []domain.TOCEntry) string {
	rows := make([][]string, 0, len(toc))
	for _, e := range toc {
		rows = append(rows, []string{strconv.Itoa(e.Number), e.Title, e.Description})
	}
	return renderTable([]string{"#", "Title", "Description"}, rows, []columnAlignment{alignRight})
}

func presence(ok bool) string {
	if ok {
		return "generated"
	}
	return "-"
}

func illustrationSummary(ebook *domain.Ebook) string {
	if len(ebook.Illustrations) == 0 {
		return "-"
	}
	var ready, failed, total int
	for _, set := range ebook.Illustrations {
		for _, img := range set.Images {
			total++
			switch img.Status() {
			case domain.ImageReady:
				ready++
			case domain.ImageFailed:
				failed++
			}
		}
	}
	summary := fmt.Sprintf("%d/%d ready", ready, total)
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	return summary
}

func runEbookList(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}
	summaries, err := pipelineService.List(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cmd.Println("No ebooks yet.")
		cmd.Println("Create one with: ebookctl ebook create --spec book.toml")
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{s.ID, s.Title, s.Author, s.Status, strconv.Itoa(s.ChapterCount), relativeTime(s.CreatedAt)})
	}
	cmd.Println(renderTable(
		[]string{"ID", "Title", "Author", "Status", "Chapters", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func runEbookEnrich(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}

	stages, err := parseStages(args[1:])
	if err != nil {
		return err
	}
	ebook, err := pipelineService.Refresh(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	return runStages(cmd, "Enriching "+ebook.Title, func(ctx context.Context) error {
		return pipelineService.Enrich(ctx, ebook, stages, legalOptions())
	})
}

func parseStages(names []string) ([]domain.Stage, error) {
	if len(names) == 0 || (len(names) == 1 && names[0] == "all") {
		return domain.EnrichmentStages(), nil
	}
	stages := make([]domain.Stage, 0, len(names))
	for _, name := range names {
		stage := domain.Stage(strings.ReplaceAll(strings.ToLower(name), "-", "_"))
		switch stage {
		case "legal":
			stage = domain.StageLegalPages
		case "theme":
			stage = domain.StageVisualTheme
		}
		if !stage.IsEnrichment() {
			return nil, fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidInput, name)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// legalOptions merges the legal page flags over the configured defaults.
func legalOptions() domain.LegalOptions {
	opts := legalFlags
	if settingsService == nil {
		return opts
	}
	settings, err := settingsService.Get()
	if err != nil {
		return opts
	}
	if opts.Publisher == "" {
		opts.Publisher = settings.Legal.Publisher
	}
	if opts.Edition == "" {
		opts.Edition = settings.Legal.Edition
	}
	return opts
}
