package tasks

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/roosthq/roost/internal/formatter"
	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk farm exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: roost_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// FarmExportJob carries one fetched farm into the worker pool.
type FarmExportJob struct {
	FarmID string
	Export *models.FarmExport
}

// FarmExportResult records the outcome of exporting a single farm.
type FarmExportResult struct {
	FarmID   string   `json:"farmId"`
	FarmName string   `json:"farmName"`
	Success  bool     `json:"success"`
	Files    []string `json:"files,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalFarms        int                `json:"totalFarms"`
	SuccessfulExports int                `json:"successfulExports"`
	FailedExports     int                `json:"failedExports"`
	OutputDirectory   string             `json:"outputDirectory"`
	ManifestPath      string             `json:"manifestPath,omitempty"`
	Results           []FarmExportResult `json:"results"`
}

// BulkExport exports multiple farms concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern: a producer fetches each farm's
// roster under a shared rate limiter while workers write the export files. It
// handles partial failures gracefully and generates a manifest file
// summarizing the run.
func (e *Engine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.roster == nil {
		return nil, fmt.Errorf("%w: roster service not initialized", shared.ErrMissingConfig)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("roost_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalFarms:      len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FarmExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan FarmExportJob, len(ids))
	results := make(chan FarmExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, farmID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			export, err := e.fetchFarmExport(ctx, farmID)
			if err != nil {
				results <- FarmExportResult{
					FarmID:   farmID,
					FarmName: fmt.Sprintf("Unknown (%s)", farmID),
					Success:  false,
					Error:    fmt.Sprintf("failed to fetch farm: %v", err),
				}
				continue
			}

			jobs <- FarmExportJob{
				FarmID: farmID,
				Export: export,
			}

			e.sendProgress(prog, exportingFarmUpdate(i+1, len(ids), export.Farm.Name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(
				completed,
				len(ids),
				res.FarmName,
				len(res.Files),
			))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(
				completed,
				len(ids),
				res.FarmName,
				fmt.Errorf("%s", res.Error),
			))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// fetchFarmExport assembles the export bundle for one farm.
func (e *Engine) fetchFarmExport(ctx context.Context, farmID string) (*models.FarmExport, error) {
	farm, err := e.roster.Farm(ctx, farmID)
	if err != nil {
		return nil, err
	}

	query := url.Values{"farmId": {farmID}}
	facilities, err := e.roster.Facilities(ctx, query)
	if err != nil {
		return nil, err
	}
	chickens, err := e.roster.Chickens(ctx, query)
	if err != nil {
		return nil, err
	}

	return &models.FarmExport{
		Farm:       *farm,
		Facilities: facilities,
		Chickens:   chickens,
	}, nil
}

// exportWorker is a worker goroutine that exports farms from the jobs channel.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan FarmExportJob,
	results chan<- FarmExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSingleFarm(job, opts)
	}
}

// exportSingleFarm exports a single farm to the appropriate format.
func (e *Engine) exportSingleFarm(j FarmExportJob, opts BulkExportOpts) FarmExportResult {
	result := FarmExportResult{
		FarmID:   j.FarmID,
		FarmName: j.Export.Farm.Name,
		Success:  false,
		Files:    []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.Export.Farm.ID)
		csvRes, err := formatter.WriteCSVExport(j.Export, baseFilepath)
		if err != nil {
			result.Error = fmt.Sprintf("CSV export failed: %v", err)
			return result
		}
		result.Files = []string{csvRes.BirdsFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.Export.Farm.ID)
		mdRes, err := formatter.WriteMarkdownExport(j.Export, outputDir)
		if err != nil {
			result.Error = fmt.Sprintf("markdown export failed: %v", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_birds.txt", j.Export.Farm.ID))
		path, err := formatter.WriteTextExport(j.Export, txtPath)
		if err != nil {
			result.Error = fmt.Sprintf("text export failed: %v", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Export.Farm.ID))
		data, err := shared.MarshalJSON(j.Export, true)
		if err != nil {
			result.Error = fmt.Sprintf("JSON marshal failed: %v", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Sprintf("JSON write failed: %v", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}

// BulkImportOpts contains configuration for bulk bird imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// ImportFailure records one bird that could not be created.
type ImportFailure struct {
	Tag   string `json:"tag"`
	Error string `json:"error"`
}

// BulkImportResult summarizes a bulk import run.
type BulkImportResult struct {
	Total    int             `json:"total"`
	Created  int             `json:"created"`
	Failed   int             `json:"failed"`
	Failures []ImportFailure `json:"failures,omitempty"`
}

// BulkImport reads a CSV bird roster and creates each bird on the given farm.
//
// Rows are validated up front; a CSV parse error aborts the whole run before
// any writes. Creation failures are partial: the run continues and each
// failure is recorded against the bird's tag.
func (e *Engine) BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	farmID string,
	r io.Reader,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if e.roster == nil {
		return nil, fmt.Errorf("%w: roster service not initialized", shared.ErrMissingConfig)
	}
	if farmID == "" {
		return nil, fmt.Errorf("%w: farm id is required", shared.ErrMissingArgument)
	}

	birds, err := formatter.ParseChickenCSV(r)
	if err != nil {
		return nil, err
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan models.Chicken, len(birds))
	failures := make(chan ImportFailure, len(birds))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bird := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					failures <- ImportFailure{Tag: bird.Tag, Error: err.Error()}
					continue
				}
				if err := e.roster.CreateChicken(ctx, importPayload(farmID, bird)); err != nil {
					failures <- ImportFailure{Tag: bird.Tag, Error: err.Error()}
				}
			}
		}()
	}

	for i, bird := range birds {
		e.sendProgress(prog, importingBirdUpdate(i+1, len(birds), bird.Tag))
		jobs <- bird
	}
	close(jobs)

	wg.Wait()
	close(failures)

	result := &BulkImportResult{Total: len(birds)}
	for f := range failures {
		result.Failures = append(result.Failures, f)
	}
	result.Failed = len(result.Failures)
	result.Created = result.Total - result.Failed
	return result, nil
}

// importPayload builds the creation payload for one bird.
func importPayload(farmID string, bird models.Chicken) map[string]any {
	payload := map[string]any{
		"farmId":  farmID,
		"tag":     bird.Tag,
		"healthy": bird.Healthy,
	}
	if bird.Breed != "" {
		payload["breed"] = bird.Breed
	}
	if bird.Sex != "" {
		payload["sex"] = bird.Sex
	}
	if bird.WeightKg > 0 {
		payload["weightKg"] = bird.WeightKg
	}
	if bird.FacilityID != "" {
		payload["facilityId"] = bird.FacilityID
	}
	if !bird.HatchedAt.IsZero() {
		payload["hatchedAt"] = bird.HatchedAt.Format(time.RFC3339)
	}
	return payload
}
