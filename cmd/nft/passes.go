package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/novelforge/tracker/internal/record"
)

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "View and save the editing-pass board",
}

var passesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all editing passes",
	Run: func(cmd *cobra.Command, args []string) {
		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		passes, err := t.LoadCollection(context.Background(), record.EditPasses)
		if err != nil {
			fail("%v", err)
		}

		if len(passes) == 0 {
			fmt.Println("No editing passes.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, titleStyle.Render("FOCUS")+"\t"+titleStyle.Render("CHAPTER")+"\t"+titleStyle.Render("DONE"))
		for _, r := range passes {
			ep := record.EditPassView(r)
			done := ""
			if ep.Status {
				done = passStyle.Render("✓")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ep.Focus, ep.Chapter, done)
		}
		_ = w.Flush()
	},
}

var passesSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Replace the editing-pass board from a JSON or YAML file",
	Long: `Replace the edit_passes collection from a record file.

A pass's chapter field is a loose reference to a chapter number; it is
not validated against the chapters collection here.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		saveCollection(record.EditPasses, args[0])
	},
}

func init() {
	passesCmd.AddCommand(passesListCmd)
	passesCmd.AddCommand(passesSaveCmd)
	rootCmd.AddCommand(passesCmd)
}
