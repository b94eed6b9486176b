package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/realtime"
	"github.com/roosthq/roost/internal/shared"
	"github.com/roosthq/roost/internal/ui"
	"github.com/urfave/cli/v3"
)

// watchFacility dials a facility's live channel and returns the event stream
// plus a stop function that tears the connection down.
func (r *Runner) watchFacility(ctx context.Context, facilityID string) (<-chan models.FacilityEvent, func(), error) {
	endpoint, err := realtime.EndpointURL(r.config.Realtime, r.config.API.BaseURL, facilityID)
	if err != nil {
		return nil, nil, err
	}

	watcher := realtime.NewWatcher(endpoint, r.store.AccessToken, r.config.Realtime, r.logger)

	watchCtx, cancel := context.WithCancel(ctx)
	go watcher.Run(watchCtx)

	return watcher.Events(), cancel, nil
}

// TUI launches the interactive terminal console.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.farm == nil || r.directory == nil {
		return fmt.Errorf("%w: services not initialized", shared.ErrMissingConfig)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/roost-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.farm, r.directory, r.watchFacility)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
