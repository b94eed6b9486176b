// package tasks implements long-running operations over the console API.
//
// The core abstraction is Engine, which orchestrates full-account data dumps,
// bulk farm exports to disk, and bulk bird imports from CSV. Operations emit
// progress updates via channels for non-blocking status reporting to CLI/UI
// layers.
package tasks

import (
	"context"
	"fmt"
	"net/url"

	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
)

// APIClient defines the interface for making read requests against the API.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// RosterService covers the farm operations the engine needs for exports and
// imports. [services.FarmService] satisfies it.
type RosterService interface {
	Farm(ctx context.Context, id string) (*models.Farm, error)
	Facilities(ctx context.Context, query url.Values) ([]models.Facility, error)
	Chickens(ctx context.Context, query url.Values) ([]models.Chicken, error)
	CreateChicken(ctx context.Context, payload map[string]any) error
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// DumpResult contains all data fetched from the API.
type DumpResult struct {
	Farms         any              // Farm records
	Facilities    any              // Facility records
	Chickens      any              // Bird records
	Users         any              // Directory users
	Roles         any              // Directory roles
	Presentations any              // Studio presentations
	Media         any              // Studio media library
	Playlists     any              // Studio playlists
	Streams       any              // Studio streams
	Templates     any              // Marketplace templates
	Errors        []EndpointResult // Failed endpoint fetches
}

// DumpData is the JSON-serializable form of a [DumpResult].
type DumpData struct {
	Farms         any      `json:"farms,omitempty"`
	Facilities    any      `json:"facilities,omitempty"`
	Chickens      any      `json:"chickens,omitempty"`
	Users         any      `json:"users,omitempty"`
	Roles         any      `json:"roles,omitempty"`
	Presentations any      `json:"presentations,omitempty"`
	Media         any      `json:"media,omitempty"`
	Playlists     any      `json:"playlists,omitempty"`
	Streams       any      `json:"streams,omitempty"`
	Templates     any      `json:"templates,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

type endpointOperation struct {
	name    string
	path    string
	target  *any
	phase   Phase
	message string
}

// Engine orchestrates dump, export, and import operations.
type Engine struct {
	roster RosterService
	api    APIClient
}

// NewEngine creates an Engine with the provided roster service and API client.
func NewEngine(roster RosterService, api APIClient) *Engine {
	return &Engine{roster: roster, api: api}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Dump fetches every collection the console knows about. Individual endpoint
// failures are recorded in the result rather than aborting the dump.
func (e *Engine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrMissingConfig)
	}

	result := &DumpResult{
		Errors: []EndpointResult{},
	}

	endpoints := []endpointOperation{
		{name: "farms", path: "/farms", target: &result.Farms, phase: FetchFarms, message: "Fetching farms..."},
		{name: "facilities", path: "/facilities", target: &result.Facilities, phase: FetchFacilities, message: "Fetching facilities..."},
		{name: "chickens", path: "/chickens", target: &result.Chickens, phase: FetchChickens, message: "Fetching birds..."},
		{name: "users", path: "/users", target: &result.Users, phase: FetchUsers, message: "Fetching users..."},
		{name: "roles", path: "/roles", target: &result.Roles, phase: FetchRoles, message: "Fetching roles..."},
		{name: "presentations", path: "/presentations", target: &result.Presentations, phase: FetchPresentations, message: "Fetching presentations..."},
		{name: "media", path: "/media", target: &result.Media, phase: FetchMedia, message: "Fetching media..."},
		{name: "playlists", path: "/playlists", target: &result.Playlists, phase: FetchPlaylists, message: "Fetching playlists..."},
		{name: "streams", path: "/streams", target: &result.Streams, phase: FetchStreams, message: "Fetching streams..."},
		{name: "templates", path: "/templates", target: &result.Templates, phase: FetchTemplates, message: "Fetching templates..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		var data any
		if err := e.api.Get(ctx, endpoint.path, nil, &data); err != nil {
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    err,
			})
			continue
		}
		*endpoint.target = data
	}

	return result, nil
}

// Data converts the result to its JSON-serializable form.
func (r *DumpResult) Data() DumpData {
	data := DumpData{
		Farms:         r.Farms,
		Facilities:    r.Facilities,
		Chickens:      r.Chickens,
		Users:         r.Users,
		Roles:         r.Roles,
		Presentations: r.Presentations,
		Media:         r.Media,
		Playlists:     r.Playlists,
		Streams:       r.Streams,
		Templates:     r.Templates,
	}
	for _, ep := range r.Errors {
		data.Errors = append(data.Errors, fmt.Sprintf("%s: %v", ep.Endpoint, ep.Error))
	}
	return data
}
