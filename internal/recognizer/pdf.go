package recognizer

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount reads the page count of a PDF without rendering it. The count
// feeds folder progress totals: a ten-page PDF is ten scan units, not one.
func PageCount(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages <= 0 {
		return 0, fmt.Errorf("pdf %s reports no pages", path)
	}
	return pages, nil
}
