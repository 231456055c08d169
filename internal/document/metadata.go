package document

import (
	"path/filepath"
	"strings"
)

// Metadata derives the source name and subject area from a filename. The
// subject comes from keywords the reference textbooks carry in their titles;
// anything unrecognized stays "unknown".
func Metadata(filename string) (source, subject string) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	subject = "unknown"
	switch {
	case strings.Contains(name, "Biology"):
		subject = "biology"
	case strings.Contains(name, "Chemistry"), strings.Contains(name, "Organic"):
		subject = "chemistry"
	case strings.Contains(name, "Physics"):
		subject = "physics"
	case strings.Contains(name, "Anatomy"), strings.Contains(name, "Physiology"):
		subject = "medicine"
	case strings.Contains(name, "Microbiology"):
		subject = "microbiology"
	}
	return name, subject
}
