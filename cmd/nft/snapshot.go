package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage daily store snapshots",
	Long: `Manage the daily snapshot safety net.

At most one snapshot is taken per calendar day, named by date
(YYYY-MM-DD.json) so the newest sort last. Only the most recent
snapshots are kept; older ones are pruned after each new checkpoint.`,
}

var snapshotNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Take today's snapshot if it does not exist yet",
	Run: func(cmd *cobra.Command, args []string) {
		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		res, err := t.RequestCheckpoint(context.Background())
		if err != nil {
			fail("%v", err)
		}

		if res.Taken {
			fmt.Printf("%s Snapshot written: %s\n", passStyle.Render("✓"), res.Path)
		} else {
			fmt.Printf("Today's snapshot already exists: %s\n", res.Path)
		}
		for _, p := range res.Pruned {
			fmt.Printf("  Pruned: %s\n", p)
		}
		for _, warn := range res.Warnings {
			fmt.Println(warnStyle.Render(fmt.Sprintf("  Warning: %v", warn)))
		}
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshot artifacts, oldest first",
	Run: func(cmd *cobra.Command, args []string) {
		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		infos, err := t.Snapshots.List()
		if err != nil {
			fail("%v", err)
		}

		if len(infos) == 0 {
			fmt.Println("No snapshots yet.")
			return
		}

		for _, info := range infos {
			fmt.Printf("%s  %8d bytes  %s\n", info.Date, info.Size, faintStyle.Render(info.Path))
		}
	},
}

var snapshotRestoreYes bool

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <date>",
	Short: "Replace ALL current data with a dated snapshot",
	Long: `Restore the store from the snapshot for the given date (YYYY-MM-DD).

Every collection is replaced with the snapshot's contents; collections
not present in the snapshot are emptied. The current state is NOT
snapshotted first unless today's checkpoint already ran, so consider
'nft snapshot now' before restoring.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		date := args[0]

		confirmed := snapshotRestoreYes
		if !confirmed {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				fail("refusing to restore without confirmation; pass --yes")
			}
			err := huh.NewConfirm().
				Title(fmt.Sprintf("Replace ALL current data with snapshot %s?", date)).
				Affirmative("Restore").
				Negative("Cancel").
				Value(&confirmed).
				Run()
			if err != nil {
				fail("%v", err)
			}
		}
		if !confirmed {
			fmt.Println("Restore cancelled.")
			return
		}

		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		if err := t.Restore(context.Background(), date); err != nil {
			fail("%v", err)
		}

		fmt.Printf("%s Restored store from snapshot %s\n", passStyle.Render("✓"), date)
	},
}

func init() {
	snapshotRestoreCmd.Flags().BoolVar(&snapshotRestoreYes, "yes", false, "skip the confirmation prompt")

	snapshotCmd.AddCommand(snapshotNowCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	rootCmd.AddCommand(snapshotCmd)
}
