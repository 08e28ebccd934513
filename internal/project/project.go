// Package project reads the novel.toml project manifest: the working
// title, the target word count the dashboard measures progress against,
// and an optional project deadline. The manifest is display-side
// configuration; none of it is persisted into the record store.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up in the data directory.
const FileName = "novel.toml"

// DefaultTargetWords matches the dashboard's default target.
const DefaultTargetWords = 90000

// Manifest describes one novel project.
type Manifest struct {
	// Title is the working title, used only for display.
	Title string `toml:"title"`
	// TargetWords is the word-count goal the progress bar measures
	// against.
	TargetWords int `toml:"target_words"`
	// Deadline is an optional project deadline; any value the
	// countdown parser accepts ("2026-10-01", "in 6 weeks").
	Deadline string `toml:"deadline,omitempty"`
}

// Default returns the manifest used when no novel.toml exists.
func Default() Manifest {
	return Manifest{
		Title:       "Untitled Novel",
		TargetWords: DefaultTargetWords,
	}
}

// Load reads the manifest from the given data directory. A missing file
// yields the defaults, not an error; a malformed file is an error so a
// typo does not silently reset the target.
func Load(dir string) (Manifest, error) {
	m := Default()

	path := filepath.Join(dir, FileName)
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Manifest{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if m.TargetWords <= 0 {
		m.TargetWords = DefaultTargetWords
	}
	_ = meta // unknown keys pass through unvalidated, like record fields

	return m, nil
}

// Save writes the manifest to the given data directory.
func Save(dir string, m Manifest) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return nil
}
