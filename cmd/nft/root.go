package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/novelforge/tracker/internal/app"
	"github.com/novelforge/tracker/internal/config"
	"github.com/novelforge/tracker/internal/logging"
	"github.com/novelforge/tracker/internal/project"
	"github.com/novelforge/tracker/internal/snapshot"
	"github.com/novelforge/tracker/internal/store"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "nft",
	Short: "Progress tracker for a novel-writing project",
	Long: `nft tracks chapters, editing passes, and to-dos for a single
novel-writing project.

State lives in an embedded store under the data directory, with the
word-count target and deadline in novel.toml alongside it. Every
user-facing action opportunistically takes at most one snapshot per
calendar day; the most recent snapshots are kept as the safety net
against destructive edits.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/novelforge/config.toml)")
	rootCmd.PersistentFlags().String("data-dir", "", "data directory holding the store, snapshots, and novel.toml")
	_ = viper.BindPFlag(config.KeyDataDir, rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "novelforge")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("NFT")
	viper.AutomaticEnv()

	viper.SetDefault(config.KeyDataDir, "data")
	viper.SetDefault(config.KeySnapshotRetention, snapshot.DefaultRetention)
	viper.SetDefault(config.KeyServePort, 8080)
	viper.SetDefault(config.KeyLogFile, "")

	_ = viper.ReadInConfig()
}

// openTracker builds a tracker from the resolved configuration. The
// returned cleanup closes the store and must run before exit.
func openTracker() (*app.Tracker, func(), error) {
	st, err := store.Open(config.StorePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	manifest, err := project.Load(config.DataDir())
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	logger := logging.New("[nft] ", config.LogFile())

	snaps := snapshot.New(config.SnapshotDir(), config.SnapshotRetention())
	snaps.Logger = logger

	t := app.New(st, snaps, manifest, logger)

	cleanup := func() {
		if err := st.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return t, cleanup, nil
}

// fail prints an error and exits, the shared failure path for all
// commands.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
