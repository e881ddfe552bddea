package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/podarr/podarr/internal/config"
	"github.com/podarr/podarr/internal/library"
	"github.com/podarr/podarr/internal/media"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check on-disk files against recorded episodes",
	Long: `Verify compares each series directory against the metadata store.
It reports recorded episodes whose file is missing, and files on disk
that no recorded episode accounts for. Unaccounted files are fuzzy
matched against episode titles to suggest likely renames.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// labelPrefix strips the "NNNN - " sequence label a payload filename
// starts with, leaving the rendered title.
var labelPrefix = regexp.MustCompile(`^[0-9]+ - `)

func runVerify(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	series := cfg.SelectedSeries()
	store, err := library.NewStore(cfg.DataDir(), series)
	if err != nil {
		return err
	}
	files, err := media.NewStore(cfg.BaseDir, cfg.TempDir(), series, cfg.Workers.Fingerprint)
	if err != nil {
		return err
	}

	clean := true
	for _, s := range series {
		episodes, err := store.ReadAll(s)
		if err != nil {
			return err
		}
		names, err := files.ListFilenames(s)
		if err != nil {
			return err
		}

		expected := make(map[string]bool, len(episodes))
		titles := make([]string, 0, len(episodes))
		for _, e := range episodes {
			expected[media.Filename(e)] = true
			titles = append(titles, e.Title)
		}

		onDisk := make(map[string]bool, len(names))
		for _, name := range names {
			onDisk[name] = true
			if expected[name] {
				continue
			}
			clean = false
			stripped := strings.TrimSuffix(labelPrefix.ReplaceAllString(name, ""), ".mp3")
			if m := media.MatchTitle(stripped, titles); m.Title != "" {
				fmt.Printf("%s: unrecorded file %q (closest episode: %q, %.2f)\n", s, name, m.Title, m.Score)
			} else {
				fmt.Printf("%s: unrecorded file %q (no matching episode)\n", s, name)
			}
		}

		for _, e := range episodes {
			if e.Fingerprinted() && !onDisk[media.Filename(e)] {
				clean = false
				fmt.Printf("%s: missing file for %s %q\n", s, e.SequenceLabel, e.Title)
			}
		}
	}
	if clean {
		fmt.Println("all series directories match the metadata store")
	}
	return nil
}
