package main

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/podarr/podarr/internal/config"
	"github.com/podarr/podarr/internal/events"
)

var eventsSince time.Duration

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events from past runs",
	Long: `Events prints the persisted event stream, most recent runs last.
Requires event persistence to be enabled in the configuration.`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().DurationVar(&eventsSince, "since", 24*time.Hour, "How far back to look")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Events.Disabled {
		return fmt.Errorf("event persistence is disabled in %s", configPath)
	}

	db, err := sql.Open("sqlite", cfg.Events.Database)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer func() { _ = db.Close() }()

	log, err := events.NewEventLog(db)
	if err != nil {
		return err
	}
	rows, err := log.Since(time.Now().Add(-eventsSince))
	if err != nil {
		return err
	}

	registry := events.DefaultRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		line := row.Payload
		if e, err := registry.Unmarshal(row); err == nil {
			line = describeEvent(e)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.OccurredAt.Local().Format(time.DateTime), row.EventType, line)
	}
	return w.Flush()
}

func describeEvent(e events.Event) string {
	switch ev := e.(type) {
	case *events.StageStarted:
		return fmt.Sprintf("%s: %d jobs", ev.Stage, ev.Jobs)
	case *events.StageCompleted:
		if ev.Cancelled {
			return fmt.Sprintf("%s: cancelled", ev.Stage)
		}
		return fmt.Sprintf("%s: finished", ev.Stage)
	case *events.EpisodesDiscovered:
		return fmt.Sprintf("%s: %d new episodes", ev.Series, ev.Count)
	case *events.JobStarted:
		return fmt.Sprintf("%s %s %s (worker %d)", ev.Series, ev.Label, ev.Title, ev.Worker)
	case *events.JobCompleted:
		return fmt.Sprintf("%s %s %s (worker %d)", ev.Series, ev.Label, ev.Title, ev.Worker)
	case *events.JobFailed:
		return fmt.Sprintf("%s %s %s: %s", ev.Series, ev.Label, ev.Title, ev.Reason)
	case *events.WorkerStopped:
		return fmt.Sprintf("%s worker %d stopped", ev.Stage, ev.Worker)
	}
	return e.EntityID()
}
