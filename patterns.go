package imglink

import (
	"path/filepath"
	"strings"
)

// ImageExtensions are the lowercase file extensions HashFiles and Watch pick up.
var ImageExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif",
	".bmp", ".tif", ".tiff", ".webp",
}

// IsImageFile checks whether name has a supported image extension.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
