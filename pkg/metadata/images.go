// Package metadata builds the post queue: it discovers images in the source
// folder, loads optional per-image metadata from a CSV file, and resolves the
// two into concrete post jobs.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errs "github.com/SoCloseSociety/PinterestBulkPostBot/pkg/errors"
)

// supportedExtensions lists the image extensions picked up during discovery.
// Matching is case-insensitive.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
}

// IsSupportedImage reports whether the filename carries a supported image
// extension.
func IsSupportedImage(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// DiscoverImages scans folder for supported images and returns their
// absolute paths sorted by filename. A missing folder or a folder with no
// images is an input error that aborts the run before the browser starts.
func DiscoverImages(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Newf(errs.ErrorTypeInput, "images folder does not exist: %s", folder)
		}
		return nil, errs.Newf(errs.ErrorTypeInput, "cannot access images folder: %v", err)
	}
	if !info.IsDir() {
		return nil, errs.Newf(errs.ErrorTypeInput, "images folder is not a directory: %s", folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeInput, "cannot read images folder: %v", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupportedImage(entry.Name()) {
			abs, err := filepath.Abs(filepath.Join(folder, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("failed to resolve image path: %w", err)
			}
			images = append(images, abs)
		}
	}

	if len(images) == 0 {
		return nil, errs.Newf(errs.ErrorTypeInput, "no images found in folder: %s", folder)
	}

	sort.Slice(images, func(i, j int) bool {
		return filepath.Base(images[i]) < filepath.Base(images[j])
	})

	return images, nil
}
