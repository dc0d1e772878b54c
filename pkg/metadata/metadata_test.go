package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/models"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscoverImagesSorted(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "c.png", "a.jpg", "b.JPEG", "notes.txt", "d.webp")

	images, err := DiscoverImages(dir)
	require.NoError(t, err)

	var names []string
	for _, p := range images {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"a.jpg", "b.JPEG", "c.png", "d.webp"}, names)

	for _, p := range images {
		assert.True(t, filepath.IsAbs(p), "expected absolute path, got %s", p)
	}
}

func TestDiscoverImagesMissingFolder(t *testing.T) {
	_, err := DiscoverImages(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.ErrorTypeInput, e.Type)
}

func TestDiscoverImagesEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "readme.md")

	_, err := DiscoverImages(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images found")
}

func TestDiscoverImagesSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))
	writeFiles(t, dir, "real.png")

	images, err := DiscoverImages(dir)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "real.png", filepath.Base(images[0]))
}

func TestIsSupportedImage(t *testing.T) {
	supported := []string{"a.jpg", "b.JPEG", "c.png", "d.GIF", "e.webp", "f.bmp", "g.tiff"}
	for _, name := range supported {
		assert.True(t, IsSupportedImage(name), "expected %s supported", name)
	}

	unsupported := []string{"a.txt", "b.svg", "c.mp4", "noext", "d.heic"}
	for _, name := range unsupported {
		assert.False(t, IsSupportedImage(name), "expected %s unsupported", name)
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pins.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"filename,title,description,link,board",
		"a.jpg,Sunset,Golden hour,https://example.com,Travel",
		"b.png,Lake,,,",
	}, "\n"))

	records, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Record{
		Filename:    "a.jpg",
		Title:       "Sunset",
		Description: "Golden hour",
		Link:        "https://example.com",
		Board:       "Travel",
	}, records["a.jpg"])

	assert.Equal(t, "Lake", records["b.png"].Title)
	assert.Empty(t, records["b.png"].Board)
}

func TestLoadCSVMissingFileIsEmpty(t *testing.T) {
	records, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadCSVMissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, "filename,title\na.jpg,Sunset")

	_, err := LoadCSV(path)
	require.Error(t, err)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.ErrorTypeInput, e.Type)
	assert.Contains(t, err.Error(), "description")
}

func TestLoadCSVOptionalColumnsOmitted(t *testing.T) {
	path := writeCSV(t, "filename,title,description\na.jpg,Sunset,Golden hour")

	records, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Empty(t, records["a.jpg"].Link)
	assert.Empty(t, records["a.jpg"].Board)
}

func TestLoadCSVLaterRowWins(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"filename,title,description",
		"a.jpg,First,one",
		"a.jpg,Second,two",
	}, "\n"))

	records, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "Second", records["a.jpg"].Title)
}

func TestResolveFieldWiseMerge(t *testing.T) {
	defaults := Defaults{
		Title:       "Default title",
		Description: "Default description",
		Board:       "Default Board",
	}
	images := []string{"/pins/a.jpg", "/pins/b.png"}
	records := map[string]Record{
		"a.jpg": {Filename: "a.jpg", Title: "Sunset", Link: "https://example.com"},
	}

	res := Resolve(defaults, images, records)
	require.Len(t, res.Jobs, 2)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, res.Warnings)

	a := res.Jobs[0]
	assert.Equal(t, "Sunset", a.Title)
	assert.Equal(t, "Default description", a.Description)
	assert.Equal(t, "https://example.com", a.Link)
	assert.Equal(t, "Default Board", a.Board)

	b := res.Jobs[1]
	assert.Equal(t, "Default title", b.Title)
	assert.Empty(t, b.Link)
}

func TestResolveSkipsMissingRequiredFields(t *testing.T) {
	defaults := Defaults{Title: "T", Description: "D"}
	images := []string{"/pins/a.jpg", "/pins/b.png"}
	records := map[string]Record{
		"b.png": {Filename: "b.png", Board: "Travel"},
	}

	res := Resolve(defaults, images, records)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "b.png", res.Jobs[0].Filename)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, models.StatusSkipped, res.Skipped[0].Status)
	assert.Equal(t, "missing required field: board", res.Skipped[0].Reason)
}

func TestResolveCaseSensitiveMatch(t *testing.T) {
	defaults := Defaults{Title: "T", Description: "D", Board: "B"}
	images := []string{"/pins/Photo.JPG"}
	records := map[string]Record{
		"photo.jpg": {Filename: "photo.jpg", Title: "Mismatch"},
	}

	res := Resolve(defaults, images, records)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "T", res.Jobs[0].Title, "lowercase CSV row must not match uppercase file")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "photo.jpg")
}

func TestResolveWarnsUnmatchedRows(t *testing.T) {
	defaults := Defaults{Title: "T", Description: "D", Board: "B"}
	images := []string{"/pins/a.jpg"}
	records := map[string]Record{
		"a.jpg":    {Filename: "a.jpg"},
		"gone.png": {Filename: "gone.png"},
		"also.png": {Filename: "also.png"},
	}

	res := Resolve(defaults, images, records)
	assert.Equal(t, []string{
		"no matching image for CSV row: also.png",
		"no matching image for CSV row: gone.png",
	}, res.Warnings)
}
