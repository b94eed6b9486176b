// package formatter provides functions to export farm data to various formats (CSV, Markdown, plain text)
// and to parse bird rosters back in from CSV.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
)

// csvHeaders is the column set used by both export and import.
var csvHeaders = []string{"ID", "Tag", "Breed", "Sex", "WeightKg", "FacilityID", "HatchedAt", "Healthy"}

// ExportToCSV converts a FarmExport's bird roster to CSV
func ExportToCSV(export *models.FarmExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, bird := range export.Chickens {
		hatched := ""
		if !bird.HatchedAt.IsZero() {
			hatched = bird.HatchedAt.Format(time.RFC3339)
		}
		record := []string{
			bird.ID,
			bird.Tag,
			bird.Breed,
			bird.Sex,
			strconv.FormatFloat(bird.WeightKg, 'f', -1, 64),
			bird.FacilityID,
			hatched,
			strconv.FormatBool(bird.Healthy),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FarmExport to Markdown with a facility table and bird list
func ExportToMarkdown(export *models.FarmExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Farm.Name))

	if export.Farm.Location != "" {
		buf.WriteString(fmt.Sprintf("**Location**: %s\n\n", export.Farm.Location))
	}
	buf.WriteString(fmt.Sprintf("**Facilities**: %d\n", len(export.Facilities)))
	buf.WriteString(fmt.Sprintf("**Birds**: %d\n\n", len(export.Chickens)))

	if len(export.Facilities) > 0 {
		buf.WriteString("## Facilities\n\n")
		buf.WriteString("| Name | Kind | Capacity | Status |\n")
		buf.WriteString("| --- | --- | --- | --- |\n")
		for _, f := range export.Facilities {
			buf.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n", f.Name, f.Kind, f.Capacity, f.Status))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Birds\n\n")
	for i, bird := range export.Chickens {
		breedPart := ""
		if bird.Breed != "" {
			breedPart = fmt.Sprintf(" (%s)", bird.Breed)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s [%.2f kg]\n", i+1, bird.Tag, breedPart, bird.WeightKg))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FarmExport to plain text format
func ExportToText(export *models.FarmExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Farm: %s\n", export.Farm.Name))
	if export.Farm.Location != "" {
		buf.WriteString(fmt.Sprintf("Location: %s\n", export.Farm.Location))
	}
	buf.WriteString(fmt.Sprintf("Birds: %d\n\n", len(export.Chickens)))

	for i, bird := range export.Chickens {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, bird.Tag, bird.Breed))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of farm metadata (without the roster)
func ToMetadataJSON(farm models.Farm) ([]byte, error) {
	return shared.MarshalJSON(farm, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	BirdsFile    string
	MetadataFile string
}

// WriteCSVExport exports a farm roster to CSV with an accompanying metadata JSON file.
//
// Defaults to the farm ID as the base filename & creates {base}_birds.csv and {base}_metadata.json
func WriteCSVExport(export *models.FarmExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Farm.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	birdsFile := baseFilepath + "_birds.csv"
	if err := os.WriteFile(birdsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Farm)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		BirdsFile:    birdsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a farm to Markdown format in a dedicated directory.
//
// Directory name defaults to the farm ID. Creates {dir}/README.md.
func WriteMarkdownExport(export *models.FarmExport, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Farm.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{mdFile},
	}, nil
}

// WriteTextExport exports a farm roster to plain text format.
//
// Defaults to {farm.ID}_birds.txt as the filename.
func WriteTextExport(export *models.FarmExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_birds.txt", export.Farm.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteExportManifest writes an export summary as indented JSON.
func WriteExportManifest(manifest any, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ParseChickenCSV reads a bird roster from CSV produced by [ExportToCSV] or
// written by hand. Column order is fixed; the ID column may be empty for new
// birds. Rows with the wrong field count or unparseable values are rejected
// with their line number.
func ParseChickenCSV(r io.Reader) ([]models.Chicken, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty CSV input", shared.ErrValidation)
	}

	header := records[0]
	if len(header) != len(csvHeaders) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", shared.ErrValidation, len(csvHeaders), len(header))
	}
	for i, name := range csvHeaders {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return nil, fmt.Errorf("%w: expected column %q at position %d, got %q", shared.ErrValidation, name, i+1, header[i])
		}
	}

	birds := make([]models.Chicken, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2

		bird := models.Chicken{
			ID:         strings.TrimSpace(record[0]),
			Tag:        strings.TrimSpace(record[1]),
			Breed:      strings.TrimSpace(record[2]),
			Sex:        strings.TrimSpace(record[3]),
			FacilityID: strings.TrimSpace(record[5]),
		}
		if bird.Tag == "" {
			return nil, fmt.Errorf("%w: line %d: tag is required", shared.ErrValidation, line)
		}

		if w := strings.TrimSpace(record[4]); w != "" {
			weight, err := strconv.ParseFloat(w, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad weight %q", shared.ErrValidation, line, w)
			}
			bird.WeightKg = weight
		}

		if h := strings.TrimSpace(record[6]); h != "" {
			hatched, err := time.Parse(time.RFC3339, h)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad hatch date %q", shared.ErrValidation, line, h)
			}
			bird.HatchedAt = hatched
		}

		if healthy := strings.TrimSpace(record[7]); healthy != "" {
			v, err := strconv.ParseBool(healthy)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad healthy flag %q", shared.ErrValidation, line, healthy)
			}
			bird.Healthy = v
		}

		birds = append(birds, bird)
	}

	return birds, nil
}
