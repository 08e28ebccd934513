// Package config exposes the tracker's viper-backed configuration.
// Defaults are registered by the root command's initConfig; everything
// here is a typed getter over the resolved settings.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Keys understood in the config file and environment (NFT_ prefix, dots
// as underscores).
const (
	KeyDataDir           = "data.dir"
	KeySnapshotRetention = "snapshot.retention"
	KeyServePort         = "serve.port"
	KeyLogFile           = "log.file"
)

// DataDir returns the directory holding the store, snapshots, and the
// project manifest.
func DataDir() string {
	return viper.GetString(KeyDataDir)
}

// StorePath returns the record store's database file.
func StorePath() string {
	return filepath.Join(DataDir(), "tracker.db")
}

// SnapshotDir returns the snapshot artifact directory.
func SnapshotDir() string {
	return filepath.Join(DataDir(), "snapshots")
}

// SnapshotRetention returns the maximum number of daily snapshots kept.
func SnapshotRetention() int {
	return viper.GetInt(KeySnapshotRetention)
}

// ServePort returns the dashboard server port.
func ServePort() int {
	return viper.GetInt(KeyServePort)
}

// LogFile returns the rotating log file path; empty disables file
// logging.
func LogFile() string {
	return viper.GetString(KeyLogFile)
}
