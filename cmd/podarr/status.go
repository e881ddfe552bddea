package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/podarr/podarr/internal/config"
	"github.com/podarr/podarr/internal/library"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-series episode counts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	series := cfg.SelectedSeries()
	store, err := library.NewStore(cfg.DataDir(), series)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tKNOWN\tRESOLVED\tDOWNLOADED")
	for _, s := range series {
		episodes, err := store.ReadAll(s)
		if err != nil {
			return err
		}
		var resolved, downloaded int
		for _, e := range episodes {
			if e.Resolved() {
				resolved++
			}
			if e.Fingerprinted() {
				downloaded++
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s, len(episodes), resolved, downloaded)
	}
	return w.Flush()
}
