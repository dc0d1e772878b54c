package metadata

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
)

// Record holds per-image metadata loaded from the CSV file. All fields are
// optional except Filename, Title and Description, which the header must
// declare.
type Record struct {
	Filename    string
	Title       string
	Description string
	Link        string
	Board       string
}

// requiredColumns are the CSV columns that must appear in the header.
var requiredColumns = []string{"filename", "title", "description"}

// LoadCSV reads per-image metadata from path. Records are keyed by the
// filename column. A later row for the same filename replaces an earlier one.
// A missing file returns an empty map; a malformed header or unreadable row
// is an input error that aborts the run before the browser starts.
func LoadCSV(path string) (map[string]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Record{}, nil
		}
		return nil, errs.Newf(errs.ErrorTypeInput, "cannot open metadata file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return map[string]Record{}, nil
	}
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeInput, "cannot read metadata header: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, errs.Newf(errs.ErrorTypeInput, "metadata file missing required column: %s", col)
		}
	}

	records := make(map[string]Record)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Newf(errs.ErrorTypeInput, "cannot read metadata row: %v", err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := Record{
			Filename:    field("filename"),
			Title:       field("title"),
			Description: field("description"),
			Link:        field("link"),
			Board:       field("board"),
		}
		if rec.Filename == "" {
			continue
		}
		records[rec.Filename] = rec
	}

	return records, nil
}
