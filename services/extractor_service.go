package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// NoPage marks text that does not come from a paginated document.
const NoPage = -1

// PageText is the text of one page. Number is zero-based, or NoPage.
type PageText struct {
	Number int
	Text   string
}

// SetPDFLicense registers the UniPDF metered license key. PDF extraction
// fails without one.
func SetPDFLicense(key string) error {
	if key == "" {
		return fmt.Errorf("no UniPDF license key configured")
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("failed to set UniPDF license key: %w", err)
	}
	return nil
}

// ExtractPages reads a file and returns its text page by page.
// It automatically handles different file types.
func ExtractPages(path string) ([]PageText, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".txt", ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []PageText{{Number: NoPage, Text: string(content)}}, nil
	case ".pdf":
		return extractPDFPages(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// extractPDFPages uses UniPDF to get the text of every page.
func extractPDFPages(path string) ([]PageText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return nil, err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return nil, err
	}

	pages := make([]PageText, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		ex, err := extractor.New(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, PageText{Number: i - 1, Text: text})
	}

	return pages, nil
}

func isSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}
