package domain

import (
	"path/filepath"
	"strings"
)

// RawFile is an external file handed to the importer before normalisation.
type RawFile struct {
	// Name is the file name or path the bytes came from.
	Name string

	// MIMEType is the detected content type (e.g., "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// TitleFromName derives a human-readable title from a file name:
// the extension is dropped and underscores and dashes become spaces.
func TitleFromName(name string) string {
	filename := filepath.Base(name)
	if filename == "." || filename == string(filepath.Separator) {
		return ""
	}
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return strings.TrimSpace(filename)
}
