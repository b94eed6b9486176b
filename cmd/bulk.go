package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
	"github.com/roosthq/roost/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportRun exports one or more farm rosters to disk through the bulk engine.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringArgs("ids")
	if cmd.Bool("all") {
		farms, err := r.farm.Farms(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to list farms: %w", err)
		}
		ids = ids[:0]
		for _, farm := range farms {
			ids = append(ids, farm.ID)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: pass farm ids or --all", shared.ErrMissingArgument)
	}

	r.logger.Info("starting bulk export", "farms", len(ids), "format", cmd.String("format"))
	r.writePlain("Exporting %d farms...\n\n", len(ids))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, ids, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n═══════════════════════════════════════\n")
	r.writePlain("Export Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Exported: %d/%d farms\n", result.SuccessfulExports, result.TotalFarms)
	r.writePlain("Output directory: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d farms:\n", result.FailedExports)
		for _, farm := range result.Results {
			if !farm.Success {
				r.writePlain("  - %s: %s\n", farm.FarmID, farm.Error)
			}
		}
	}

	return nil
}

// ImportRun creates bird records on a farm from a CSV roster file.
func (r *Runner) ImportRun(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: roster file path", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	farmID := cmd.String("farm")
	r.logger.Info("starting bulk import", "farm", farmID, "file", path)
	r.writePlain("Importing birds into farm %s...\n\n", farmID)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkImport(ctx, progressCh, farmID, f, tasks.BulkImportOpts{
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n═══════════════════════════════════════\n")
	r.writePlain("Import Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Created: %d/%d birds\n", result.Created, result.Total)

	if result.Failed > 0 {
		r.writePlain("\nFailed to create %d birds:\n", result.Failed)
		for _, failure := range result.Failures {
			r.writePlain("  - %s: %s\n", failure.Tag, failure.Error)
		}
	}

	return nil
}

// DumpRun fetches every collection the account can see and prints it as JSON.
func (r *Runner) DumpRun(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("starting account dump")

	progressCh := make(chan tasks.ProgressUpdate, 20)
	go func() {
		for update := range progressCh {
			r.logger.Debug("dump progress", "phase", update.Phase.String(), "message", update.Message)
		}
	}()

	result, err := r.engine.Dump(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	pretty := cmd.Bool("pretty")
	if cmd.Bool("save") {
		data, err := shared.MarshalJSON(result.Data(), pretty)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile("roost_dump.json", data, 0644); err != nil {
			return fmt.Errorf("failed to write dump file: %w", err)
		}
		r.writePlain("✓ Dump saved to roost_dump.json\n")
		return nil
	}

	return r.writeJSON(result.Data(), pretty)
}

// WatchRun follows one facility's live event channel, printing each event
// until interrupted.
func (r *Runner) WatchRun(ctx context.Context, cmd *cli.Command) error {
	facilityID := cmd.StringArg("facility")
	if facilityID == "" {
		return fmt.Errorf("%w: facility id", shared.ErrMissingArgument)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	events, stop, err := r.watchFacility(ctx, facilityID)
	if err != nil {
		return err
	}
	defer stop()

	r.writePlain("Watching facility %s (ctrl-c to stop)...\n\n", facilityID)

	for event := range events {
		r.printFacilityEvent(event)
	}
	return nil
}

func (r *Runner) printFacilityEvent(event models.FacilityEvent) {
	stamp := event.At.Local().Format("15:04:05")
	if event.Type == "log" {
		r.writePlain("[%s] %s\n", stamp, event.Message)
		return
	}

	parts := make([]string, 0, len(event.Fields))
	for k, v := range event.Fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(parts)
	r.writePlain("[%s] %s\n", stamp, strings.Join(parts, " "))
}
