package metadata

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
)

// Defaults are the batch-wide fallback values applied to every image that
// the CSV does not override.
type Defaults struct {
	Title       string
	Description string
	Link        string
	Board       string
}

// Resolution is the output of matching discovered images against CSV
// metadata: the jobs to post, the outcomes pre-recorded for images that
// cannot be posted, and warnings for CSV rows that matched nothing.
type Resolution struct {
	Jobs     []models.PostJob
	Skipped  []models.Outcome
	Warnings []string
}

// Resolve merges defaults and CSV records into one post job per discovered
// image. The merge is field-wise: a non-empty CSV value wins, otherwise the
// default applies. CSV filenames match image basenames exactly, including
// case. Images left without a title, description or board are skipped up
// front rather than failed mid-batch.
func Resolve(defaults Defaults, images []string, records map[string]Record) Resolution {
	var res Resolution

	matched := make(map[string]bool, len(records))
	for _, path := range images {
		name := filepath.Base(path)

		job := models.PostJob{
			ImagePath:   path,
			Filename:    name,
			Title:       defaults.Title,
			Description: defaults.Description,
			Link:        defaults.Link,
			Board:       defaults.Board,
		}

		if rec, ok := records[name]; ok {
			matched[name] = true
			if rec.Title != "" {
				job.Title = rec.Title
			}
			if rec.Description != "" {
				job.Description = rec.Description
			}
			if rec.Link != "" {
				job.Link = rec.Link
			}
			if rec.Board != "" {
				job.Board = rec.Board
			}
		}

		if missing := missingField(job); missing != "" {
			res.Skipped = append(res.Skipped, models.Outcome{
				Job:    job,
				Status: models.StatusSkipped,
				Reason: fmt.Sprintf("missing required field: %s", missing),
			})
			continue
		}

		res.Jobs = append(res.Jobs, job)
	}

	var unmatched []string
	for name := range records {
		if !matched[name] {
			unmatched = append(unmatched, name)
		}
	}
	sort.Strings(unmatched)
	for _, name := range unmatched {
		res.Warnings = append(res.Warnings, fmt.Sprintf("no matching image for CSV row: %s", name))
	}

	return res
}

// missingField returns the name of the first required field the job lacks,
// or "" when the job is postable.
func missingField(job models.PostJob) string {
	switch {
	case job.Title == "":
		return "title"
	case job.Description == "":
		return "description"
	case job.Board == "":
		return "board"
	default:
		return ""
	}
}
