package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/roosthq/roost/internal/repositories"
	"github.com/roosthq/roost/internal/shared"
	"github.com/urfave/cli/v3"
)

// cacheableResources are the collection endpoints the snapshot cache accepts.
var cacheableResources = map[string]bool{
	"farms":         true,
	"facilities":    true,
	"chickens":      true,
	"users":         true,
	"roles":         true,
	"presentations": true,
	"media":         true,
	"playlists":     true,
	"streams":       true,
	"templates":     true,
}

// openCacheDB opens the configured snapshot database and ensures the schema
// is current.
func (r *Runner) openCacheDB() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Cache.MaxOpenConns, r.config.Cache.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// CacheSnapshot fetches a collection from the server and stores the response
// body in the local snapshot cache.
func (r *Runner) CacheSnapshot(ctx context.Context, cmd *cli.Command) error {
	resource := cmd.String("resource")
	if !cacheableResources[resource] {
		return fmt.Errorf("%w: unknown resource %q", shared.ErrInvalidArgument, resource)
	}

	query := url.Values{}
	if farmID := cmd.String("farm"); farmID != "" {
		query.Set("farmId", farmID)
	}

	r.logger.Info("snapshotting collection", "resource", resource)

	var items []map[string]any
	if err := r.client.Get(ctx, "/"+resource, query, &items); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}

	db, err := r.openCacheDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSnapshotRepository(db)
	if err := repo.Save(resource, query, items, len(items)); err != nil {
		return err
	}

	r.writePlain("✓ Cached %d %s\n", len(items), resource)
	return nil
}

// CacheList prints every cached snapshot, most recent first.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCacheDB()
	if err != nil {
		return err
	}
	defer db.Close()

	snaps, err := repositories.NewSnapshotRepository(db).List()
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		r.writePlainln("no cached snapshots")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Snapshots (%d)", len(snaps)))
	for _, snap := range snaps {
		label := snap.Resource
		if snap.Query != "" {
			label = fmt.Sprintf("%s?%s", snap.Resource, snap.Query)
		}
		r.writePlain("%-32s  %4d items  %s\n", label, snap.ItemCount, snap.FetchedAt.Local().Format(time.RFC3339))
	}
	return nil
}

// CachePrune deletes snapshots older than the given number of days.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	days := int(cmd.Int("days"))
	if days < 1 {
		return fmt.Errorf("%w: --days must be at least 1", shared.ErrInvalidArgument)
	}

	db, err := r.openCacheDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := repositories.NewSnapshotRepository(db).Prune(cutoff)
	if err != nil {
		return err
	}

	r.writePlain("✓ Pruned %d snapshots older than %d days\n", removed, days)
	return nil
}

// cacheCommand handles the local collection snapshot cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache collection snapshots locally",
		Commands: []*cli.Command{
			{
				Name:  "snapshot",
				Usage: "Fetch a collection and cache the response",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "resource",
						Usage:    "Collection to snapshot (farms, chickens, presentations, ...)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "farm",
						Usage: "Restrict the snapshot to one farm",
					},
				},
				Action: r.CacheSnapshot,
			},
			{
				Name:   "list",
				Usage:  "List cached snapshots",
				Action: r.CacheList,
			},
			{
				Name:  "prune",
				Usage: "Delete old snapshots",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Delete snapshots older than this many days",
						Value: 7,
					},
				},
				Action: r.CachePrune,
			},
		},
	}
}
