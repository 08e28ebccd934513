package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/novelforge/tracker/internal/app"
	"github.com/novelforge/tracker/internal/record"
	"github.com/novelforge/tracker/internal/stats"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "View and save the chapters collection",
}

var chaptersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all chapters with their progress",
	Run: func(cmd *cobra.Command, args []string) {
		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		ctx := context.Background()
		chapters, err := t.LoadCollection(ctx, record.Chapters)
		if err != nil {
			fail("%v", err)
		}

		if len(chapters) == 0 {
			fmt.Println("No chapters yet. Run 'nft seed' for demo data or 'nft chapters save <file>'.")
			return
		}

		now := t.Snapshots.Clock()
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, titleStyle.Render("#")+"\t"+titleStyle.Render("TITLE")+"\t"+titleStyle.Render("STATUS")+"\t"+titleStyle.Render("PRI")+"\t"+titleStyle.Render("WORDS")+"\t"+titleStyle.Render("DEADLINE"))
		for _, r := range chapters {
			ch := record.ChapterView(r)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				ch.Number, ch.Title, ch.Status, ch.Priority,
				renderCount(ch.WordCount),
				stats.Countdown(ch.Deadline, now))
		}
		_ = w.Flush()
	},
}

var chaptersSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Replace the chapters collection from a JSON or YAML file",
	Long: `Replace the entire chapters collection with the records in the given
file. This is a full overwrite, not a merge: the file must contain the
complete desired contents. A snapshot of the pre-edit state is taken
first if today's checkpoint does not yet exist.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		res := saveCollection(record.Chapters, args[0])
		if res.ChapterCompleted {
			fmt.Println(accentStyle.Render(`Kaela sneers: "About bloody time you wrapped one up."`))
		}
	},
}

// saveCollection is the shared save flow for all three collections.
func saveCollection(name, file string) app.SaveResult {
	records, err := record.LoadFile(file)
	if err != nil {
		fail("%v", err)
	}

	t, cleanup, err := openTracker()
	if err != nil {
		fail("%v", err)
	}
	defer cleanup()

	res, err := t.SaveCollection(context.Background(), name, records)
	if err != nil {
		// Distinct from an empty-but-successful save: nothing was
		// persisted.
		fail("save failed, your edits were NOT persisted: %v", err)
	}

	fmt.Printf("%s Saved %d record(s) to %s\n", passStyle.Render("✓"), res.Persisted, name)
	if res.Dropped > 0 {
		fmt.Printf("  (dropped %d blank row(s))\n", res.Dropped)
	}
	if res.Checkpoint.Taken {
		fmt.Printf("  Snapshot: %s\n", res.Checkpoint.Path)
	}
	for _, warn := range res.Checkpoint.Warnings {
		fmt.Println(warnStyle.Render(fmt.Sprintf("  Warning: %v", warn)))
	}
	return res
}

func init() {
	chaptersCmd.AddCommand(chaptersListCmd)
	chaptersCmd.AddCommand(chaptersSaveCmd)
	rootCmd.AddCommand(chaptersCmd)
}
