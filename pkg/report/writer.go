// Package report writes the end-of-run batch report as a JSON file.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
)

// Report is the serialized form of a batch result
type Report struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Unknown   int       `json:"unknown"`
	Total     int       `json:"total"`
	Pins      []Pin     `json:"pins"`
}

// Pin is one outcome in the report
type Pin struct {
	Filename   string  `json:"filename"`
	Board      string  `json:"board"`
	Status     string  `json:"status"`
	Reason     string  `json:"reason,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// FromResult converts a batch result into its report form
func FromResult(result *models.BatchResult) *Report {
	r := &Report{
		StartedAt: result.StartedAt,
		EndedAt:   result.EndedAt,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Skipped:   result.Skipped,
		Unknown:   result.Unknown,
		Total:     result.Total(),
		Pins:      make([]Pin, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		r.Pins = append(r.Pins, Pin{
			Filename:   o.Job.Filename,
			Board:      o.Job.Board,
			Status:     string(o.Status),
			Reason:     o.Reason,
			DurationMS: float64(o.Duration.Microseconds()) / 1000,
		})
	}
	return r
}

// Write saves the report to path atomically: the file is complete or absent,
// never truncated by a crash mid-write.
func Write(result *models.BatchResult, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary report file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(FromResult(result)); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync report file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace report file: %w", err)
	}

	return nil
}
