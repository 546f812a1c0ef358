// Package convene parses service command flags and runs log maintenance.
package convene

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/convene-app/convene/internal/match/eventlog/sqlite"
	"github.com/convene-app/convene/internal/match/service"
	"github.com/convene-app/convene/internal/match/snapshot"
	snapshotsqlite "github.com/convene-app/convene/internal/match/snapshot/sqlite"
	entrypoint "github.com/convene-app/convene/internal/platform/cmd"
)

// Config holds convene command configuration.
type Config struct {
	EventsPath    string        `env:"CONVENE_EVENTS_DB" envDefault:"convene-events.db"`
	SnapshotsPath string        `env:"CONVENE_SNAPSHOTS_DB" envDefault:"convene-snapshots.db"`
	Rebuild       bool          `env:"CONVENE_REBUILD"`
	Timeout       time.Duration `env:"CONVENE_TIMEOUT" envDefault:"30s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.EventsPath, "events-db", cfg.EventsPath, "Path to the event log database")
	fs.StringVar(&cfg.SnapshotsPath, "snapshots-db", cfg.SnapshotsPath, "Path to the snapshot database")
	fs.BoolVar(&cfg.Rebuild, "rebuild", cfg.Rebuild, "Rebuild all snapshots from the event log")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Maximum run duration")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the event log and snapshot stores, optionally rebuilds the
// snapshots, and reports a summary of the log's matches.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceConvene, func(ctx context.Context) error {
		log, err := sqlite.Open(cfg.EventsPath)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer log.Close()

		snapshots, err := snapshotsqlite.Open(cfg.SnapshotsPath)
		if err != nil {
			return fmt.Errorf("open snapshots: %w", err)
		}
		defer snapshots.Close()

		if cfg.Rebuild {
			if err := snapshot.Rebuild(ctx, log, snapshots.Matches(), snapshots.Actors()); err != nil {
				return fmt.Errorf("rebuild snapshots: %w", err)
			}
			fmt.Fprintln(out, "snapshots rebuilt")
		}

		matches := service.NewMatchService(log, snapshots.Matches(), snapshots.Actors())
		all, err := matches.List(ctx)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		events, err := log.AllEvents(ctx)
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}

		fmt.Fprintf(out, "events: %d\n", len(events))
		fmt.Fprintf(out, "matches: %d\n", len(all))
		for _, match := range all {
			fmt.Fprintf(out, "  %s %s organizer=%s participants=%d version=%d\n",
				match.ID, match.State, match.OrganizerID, len(match.ParticipantIDs), match.Version)
		}
		return nil
	})
}
