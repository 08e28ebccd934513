package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/novelforge/tracker/internal/importer"
	"github.com/novelforge/tracker/internal/record"
)

var importKind string

var importCmd = &cobra.Command{
	Use:   "import <source>",
	Short: "Import chapters from an external manuscript",
	Long: `Import chapter records from an external source, such as a Word
document or a Google Docs URL, and save them as the chapters
collection.

No importer backend is wired yet; this command currently reports which
kinds are registered and that they are stubs.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		imp, err := importer.New(importer.Kind(importKind))
		if err != nil {
			kinds := importer.Kinds()
			fail("%v (registered kinds: %v)", err, kinds)
		}

		records, err := imp.Import(context.Background(), args[0])
		if err != nil {
			if errors.Is(err, importer.ErrNotImplemented) {
				fmt.Println(warnStyle.Render(fmt.Sprintf("⚠️ The %s importer is not wired yet; nothing was imported.", importKind)))
				return
			}
			fail("%v", err)
		}

		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		res, err := t.SaveCollection(context.Background(), record.Chapters, records)
		if err != nil {
			fail("import failed, the store was NOT modified: %v", err)
		}
		fmt.Printf("%s Imported %d chapter(s)\n", passStyle.Render("✓"), res.Persisted)
	},
}

func init() {
	importCmd.Flags().StringVarP(&importKind, "kind", "k", string(importer.KindDocx), "importer kind (docx, gdoc)")
	rootCmd.AddCommand(importCmd)
}
