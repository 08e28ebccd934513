package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/novelforge/tracker/internal/record"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the word-count dashboard",
	Long: `Show aggregate progress for the project: current word count, delta
since the project baseline, progress against the target from novel.toml,
and the deadline countdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		summary, err := t.Summary(context.Background())
		if err != nil {
			fail("%v", err)
		}

		fmt.Println(titleStyle.Render("📊 " + t.Project.Title))
		fmt.Println()
		fmt.Printf("  Current words   %s\n", accentStyle.Render(renderCount(summary.TotalWords)))
		fmt.Printf("  Δ since start   %s\n", renderSigned(summary.Delta))
		fmt.Printf("  Target          %s\n", renderCount(summary.TargetWords))
		fmt.Printf("  %s\n", renderProgressBar(summary.Progress, 30))
		if summary.Countdown != "" {
			fmt.Printf("  Deadline        %s\n", summary.Countdown)
		}
		fmt.Println()
		fmt.Printf("  Chapters: %d total, %d done\n", summary.Chapters, summary.DoneChapters)
		for _, status := range statusOrder(summary.ByStatus) {
			fmt.Printf("    %-14s %d\n", status, summary.ByStatus[status])
		}
	},
}

// statusOrder lists the known statuses first, in workflow order, then
// anything unexpected.
func statusOrder(byStatus map[string]int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range record.StatusOptions {
		if byStatus[s] > 0 {
			out = append(out, s)
			seen[s] = true
		}
	}
	for s := range byStatus {
		if !seen[s] {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
