package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/podarr/podarr/internal/config"
	"github.com/podarr/podarr/internal/download"
	"github.com/podarr/podarr/internal/events"
	"github.com/podarr/podarr/internal/library"
	"github.com/podarr/podarr/internal/media"
	"github.com/podarr/podarr/internal/pipeline"
	"github.com/podarr/podarr/internal/scraper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the discovery, resolution, and retrieval pipeline",
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	series := cfg.SelectedSeries()

	store, err := library.NewStore(cfg.DataDir(), series)
	if err != nil {
		return err
	}
	files, err := media.NewStore(cfg.BaseDir, cfg.TempDir(), series, cfg.Workers.Fingerprint)
	if err != nil {
		return err
	}

	var eventLog *events.EventLog
	if !cfg.Events.Disabled {
		db, err := sql.Open("sqlite", cfg.Events.Database)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer func() { _ = db.Close() }()
		eventLog, err = events.NewEventLog(db)
		if err != nil {
			return err
		}
	}

	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer bus.Close()
	go printEvents(bus.SubscribeAll(256))

	canc := pipeline.NewCanceller()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nshutting down, letting in-flight jobs finish...")
		canc.Cancel()
	}()

	renderer := scraper.NewPageRenderer()
	fetcher := download.NewHTTPFetcher()

	p := pipeline.New(canc, logger,
		pipeline.NewDiscovery(renderer, store, series, bus),
		pipeline.NewResolution(renderer, store, series, cfg.Workers.Resolve, bus),
		pipeline.NewRetrieval(fetcher, store, files, series, cfg.Workers.Download, bus),
	)
	return p.Run(cmd.Context())
}

// printEvents renders the progress stream for the terminal. It only
// consumes; the pipeline never waits on it.
func printEvents(ch <-chan events.Event) {
	for e := range ch {
		switch ev := e.(type) {
		case *events.StageStarted:
			fmt.Printf("%s: %d jobs\n", ev.Stage, ev.Jobs)
		case *events.StageCompleted:
			if ev.Cancelled {
				fmt.Printf("%s: stopped on cancellation\n", ev.Stage)
			}
		case *events.EpisodesDiscovered:
			if ev.Count > 0 {
				fmt.Printf("found %d new episodes in %s\n", ev.Count, ev.Series)
			}
		case *events.JobStarted:
			fmt.Printf("%02d start %s: %s %s %s\n", ev.Worker, ev.Stage, ev.Series, ev.Label, ev.Title)
		case *events.JobCompleted:
			fmt.Printf("%02d done %s: %s %s %s\n", ev.Worker, ev.Stage, ev.Series, ev.Label, ev.Title)
		case *events.JobFailed:
			fmt.Printf("%02d %s FAILED: %s %s %s (%s)\n", ev.Worker, ev.Stage, ev.Series, ev.Label, ev.Title, ev.Reason)
		case *events.WorkerStopped:
			fmt.Printf("%02d worker stopped (%s)\n", ev.Worker, ev.Stage)
		}
	}
}
