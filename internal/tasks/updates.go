package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchFarms Phase = iota
	FetchFacilities
	FetchChickens
	FetchUsers
	FetchRoles
	FetchPresentations
	FetchMedia
	FetchPlaylists
	FetchStreams
	FetchTemplates
	ExportFarm
	ImportBirds
)

func (p Phase) String() string {
	switch p {
	case FetchFarms:
		return "fetch_farms"
	case FetchFacilities:
		return "fetch_facilities"
	case FetchChickens:
		return "fetch_chickens"
	case FetchUsers:
		return "fetch_users"
	case FetchRoles:
		return "fetch_roles"
	case FetchPresentations:
		return "fetch_presentations"
	case FetchMedia:
		return "fetch_media"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchStreams:
		return "fetch_streams"
	case FetchTemplates:
		return "fetch_templates"
	case ExportFarm:
		return "export_farm"
	case ImportBirds:
		return "import_birds"
	default:
		return ""
	}
}

func operationUpdate(op endpointOperation, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   op.phase,
		Step:    step,
		Total:   total,
		Message: op.message,
	}
}

func exportingFarmUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFarm,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFarm,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFarm,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func importingBirdUpdate(step, total int, tag string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportBirds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Importing: %s", step, total, tag),
	}
}
