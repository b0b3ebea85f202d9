package cli

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [ebook-id]",
	Short: "Show recent pipeline activity",
	Long: `Show the stage events recorded on this machine, newest first.
Pass an ebook ID to show only that ebook's activity.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of events (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}

	var ebookID string
	if len(args) > 0 {
		ebookID = args[0]
	}
	events, err := pipelineService.History(commandContext(cmd), ebookID, historyLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		cmd.Println("No activity recorded.")
		return nil
	}

	rows := make([][]string, 0, len(events))
	for i, e := range events {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			humanize.Time(e.At),
			e.EbookID,
			e.Stage.Label(),
			string(e.Kind),
			e.Message,
		})
	}
	cmd.Println(renderTable(
		[]string{"#", "When", "Ebook", "Stage", "Event", "Message"},
		rows,
		[]columnAlignment{alignRight},
	))
	return nil
}
