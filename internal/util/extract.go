package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
)

const minResumeLength = 100

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(` {2,}`)
)

// ExtractPDFText pulls plain text from every page of a PDF. Resumes are
// born-digital documents, so native text extraction is enough; scanned
// PDFs come back empty and are rejected.
func ExtractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var pages []string
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, text)
		}
	}

	result := CleanExtractedText(strings.Join(pages, "\n\n"))
	if len(result) == 0 {
		return "", fmt.Errorf("no text extracted from PDF (document might be empty or scanned)")
	}
	if len(result) < minResumeLength {
		return "", fmt.Errorf("content too short for meaningful matching")
	}

	return result, nil
}

// CleanExtractedText collapses excessive whitespace left behind by
// multi-column PDF layouts.
func CleanExtractedText(text string) string {
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = multiSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for n := range lines {
		lines[n] = strings.TrimSpace(lines[n])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
