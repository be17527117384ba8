package constants

import "strings"

// DocumentFormat is the detected container of an uploaded document.
type DocumentFormat string

const (
	PDF   DocumentFormat = "PDF"
	IMAGE DocumentFormat = "IMAGE"
	TEXT  DocumentFormat = "TEXT"
)

// AllowedExtensions holds the default allowed file extensions for document ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns the document format for an extension, or "" when unsupported.
func MapExtToFormat(ext string) DocumentFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "tif", "tiff":
		return IMAGE
	case "txt":
		return TEXT
	default:
		return ""
	}
}

// MapContentTypeToFormat maps a sniffed MIME type to a document format.
func MapContentTypeToFormat(contentType string) DocumentFormat {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "application/pdf"):
		return PDF
	case strings.HasPrefix(ct, "image/"):
		return IMAGE
	default:
		return ""
	}
}
