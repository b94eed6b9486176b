package ui

import (
	"time"

	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/services"
)

type farmsFetchedMsg struct {
	farms []models.Farm
	err   error
}

type facilitiesFetchedMsg struct {
	farm       models.Farm
	facilities []models.Facility
	err        error
}

type chickensFetchedMsg struct {
	facility models.Facility
	chickens []models.Chicken
	err      error
}

type matrixFetchedMsg struct {
	matrix *services.Matrix
	err    error
}

// toggleDoneMsg reports the settled state of one matrix cell.
type toggleDoneMsg struct {
	userID string
	roleID string
	on     bool
	err    error
}

type liveEventMsg models.FacilityEvent

// watchClosedMsg is sent when the live event channel shuts down.
type watchClosedMsg struct{}

// flashTickMsg redraws the matrix once a highlight window has lapsed.
type flashTickMsg time.Time
