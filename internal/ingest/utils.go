package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/careermate/constants"
)

// AllowedExt checks if a file extension is in the default allowed set.
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// ExtSet builds a lookup of normalized extensions, falling back to
// constants.AllowedExtensions when exts has no usable entry.
func ExtSet(exts []string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, e := range exts {
		if e = constants.NormalizeExt(e); e != "" {
			out[e] = struct{}{}
		}
	}
	if len(out) == 0 {
		for e := range constants.AllowedExtensions {
			out[e] = struct{}{}
		}
	}
	return out
}

func extOf(path string) string {
	return constants.NormalizeExt(filepath.Ext(path))
}
