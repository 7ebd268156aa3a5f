package constants

import "strings"

// AllowedExtensions holds the default file extensions offered by the
// label-image picker. The loader itself enforces no whitelist; unknown
// extensions fall back to a generic media type.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
