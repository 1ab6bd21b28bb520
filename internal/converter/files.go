package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SupportedExtensions lists the image formats accepted as conversion input.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff"}

var supportedExtensionSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(SupportedExtensions))
	for _, ext := range SupportedExtensions {
		set[ext] = struct{}{}
	}
	return set
}()

// IsSupported reports whether the file name carries a supported image
// extension. The comparison is case-insensitive.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := supportedExtensionSet[ext]
	return ok
}

// FindSupportedFiles returns the supported image files directly inside dir,
// sorted by name. Subdirectories are not descended into.
func FindSupportedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupported(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
