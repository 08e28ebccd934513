package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo chapters into an empty store",
	Long: `Seed the chapters collection with a small demo manuscript so the
dashboard has something to show. Seeding only happens when the
collection is empty; an existing manuscript is never touched.`,
	Run: func(cmd *cobra.Command, args []string) {
		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		seeded, err := t.SeedDemo(context.Background())
		if err != nil {
			fail("%v", err)
		}

		if seeded {
			fmt.Printf("%s Seeded demo chapters. Try 'nft chapters list'.\n", passStyle.Render("✓"))
		} else {
			fmt.Println("Chapters collection is not empty; nothing seeded.")
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
