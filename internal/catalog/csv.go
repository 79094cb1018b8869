package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// csvHeader is the column layout of an exported display page.
var csvHeader = []string{"id", "title", "price", "category", "images", "description"}

// EncodeCSV renders the given products as CSV, one row per product.
// Image URLs are joined with "|" and newlines in descriptions are flattened
// so every product stays on a single row.
func EncodeCSV(products []Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	flattener := strings.NewReplacer("\r\n", " ", "\n", " ")
	for _, p := range products {
		row := []string{
			fmt.Sprintf("%d", p.ID),
			p.Title,
			formatPrice(p.Price),
			p.CategoryName(),
			strings.Join(p.Images, "|"),
			flattener.Replace(p.Description),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row for product %d: %w", p.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// formatPrice renders a price without a trailing ".00" for whole amounts.
func formatPrice(price float64) string {
	if price == float64(int64(price)) {
		return fmt.Sprintf("%d", int64(price))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", price), "0"), ".")
}
