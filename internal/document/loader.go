package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/chunker"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

// Resolve expands the given arguments into a flat list of loadable files.
// Arguments may be files, directories (walked recursively) or glob patterns.
// Unsupported file types are ignored.
func Resolve(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			walkErr := filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && supported(path) {
					files = append(files, path)
				}
				return nil
			})
			if walkErr != nil {
				return nil, walkErr
			}
		case err == nil:
			if supported(arg) {
				files = append(files, arg)
			}
		default:
			matches, globErr := filepath.Glob(arg)
			if globErr != nil || len(matches) == 0 {
				return nil, fmt.Errorf("no such file or pattern: %s", arg)
			}
			for _, m := range matches {
				if supported(m) {
					files = append(files, m)
				}
			}
		}
	}
	return files, nil
}

func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}

// Load reads one file, extracts and cleans its text, and attaches provenance
// metadata derived from the filename.
func Load(path string) (domain.Document, error) {
	var raw string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		raw, err = extractPDF(path)
	case ".txt", ".md":
		var data []byte
		data, err = os.ReadFile(path)
		raw = string(data)
	default:
		err = fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return domain.Document{}, err
	}

	filename := filepath.Base(path)
	source, subject := Metadata(filename)
	return domain.Document{
		Source:   source,
		Subject:  subject,
		Filename: filename,
		Text:     chunker.Clean(raw),
	}, nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", fmt.Errorf("read pdf text %s: %w", path, err)
	}
	return buf.String(), nil
}
