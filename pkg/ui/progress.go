package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// BatchTracker keeps track of posting progress
type BatchTracker struct {
	Total     int
	Completed int
	StartTime time.Time
}

// NewBatchTracker creates a tracker for a batch of total pins
func NewBatchTracker(total int) *BatchTracker {
	return &BatchTracker{
		Total:     total,
		StartTime: time.Now(),
	}
}

// Record marks one more pin as completed
func (bt *BatchTracker) Record() {
	bt.Completed++
}

// Bar returns a formatted progress bar for the batch
func (bt *BatchTracker) Bar() string {
	const width = 40
	progress := 0.0
	if bt.Total > 0 {
		progress = float64(bt.Completed) / float64(bt.Total)
	}
	filled := int(progress * float64(width))

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("|%s| %d/%d (%.0f%%)", bar, bt.Completed, bt.Total, progress*100)
}

// Elapsed returns the time since tracking started
func (bt *BatchTracker) Elapsed() time.Duration {
	return time.Since(bt.StartTime)
}

// PrintOutcome prints one pin's outcome with the running progress bar
func (bt *BatchTracker) PrintOutcome(outcome models.Outcome) {
	if quietMode {
		return
	}

	label := statusLabel(outcome.Status)
	line := fmt.Sprintf("%s %s  %s", label, bt.Bar(), outcome.Job.Filename)
	if outcome.Reason != "" {
		line += Dim(" (" + outcome.Reason + ")")
	}
	fmt.Println(line)
}

// statusLabel maps a status to a colored tag
func statusLabel(status models.Status) string {
	switch status {
	case models.StatusSucceeded:
		return Green("[POSTED ]")
	case models.StatusSkipped:
		return Yellow("[SKIPPED]")
	case models.StatusUnknown:
		return Magenta("[UNKNOWN]")
	default:
		return Red("[FAILED ]")
	}
}

// PrintSummary prints the end-of-run summary block
func PrintSummary(result *models.BatchResult) {
	if quietMode {
		return
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("  COMPLETED: %s posted | %s failed | %s skipped | %s unknown | %d total\n",
		Green(fmt.Sprintf("%d", result.Succeeded)),
		Red(fmt.Sprintf("%d", result.Failed)),
		Yellow(fmt.Sprintf("%d", result.Skipped)),
		Magenta(fmt.Sprintf("%d", result.Unknown)),
		result.Total(),
	)
	fmt.Printf("  Elapsed: %s\n", result.EndedAt.Sub(result.StartedAt).Round(time.Second))
	fmt.Println(strings.Repeat("=", 60))

	if failures := result.Failures(); len(failures) > 0 {
		fmt.Println()
		PrintWarning("Pins that did not post:")
		for _, o := range failures {
			fmt.Printf("    %s: %s\n", o.Job.Filename, o.Reason)
		}
	}
}
