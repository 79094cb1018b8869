package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the column a query is ordered by.
type SortKey string

const (
	SortNone     SortKey = ""
	SortID       SortKey = "id"
	SortTitle    SortKey = "title"
	SortPrice    SortKey = "price"
	SortCategory SortKey = "category"
)

// SortDir is the direction of an active sort.
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// Query is the complete view state a display page is derived from.
// It is a plain value: deriving a page never mutates it or the collection.
type Query struct {
	Search   string
	Sort     SortKey
	Dir      SortDir
	PageSize int
	Page     int
}

// Page is the derived slice of the filtered, sorted collection covering the
// active page, plus the numbers the record count and pagination are built from.
// From and To are 1-based positions within the filtered set, 0 when empty.
type Page struct {
	Items     []Product
	Total     int
	Page      int
	PageCount int
	From      int
	To        int
}

// Run derives the display page for the query from the full collection.
// The filter keeps products whose title contains the search text
// case-insensitively; an empty search keeps everything. Sorting operates on a
// copy and is stable, so the collection order stays the fallback order. A page
// index beyond the last page is clamped before slicing.
func (q Query) Run(all []Product) Page {
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	filtered := filterByTitle(all, q.Search)
	sorted := sortProducts(filtered, q.Sort, q.Dir)

	total := len(sorted)
	pageCount := (total + q.PageSize - 1) / q.PageSize
	if pageCount < 1 {
		pageCount = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * q.PageSize
	end := min(start+q.PageSize, total)
	if start > total {
		start = total
	}
	items := sorted[start:end]

	from, to := 0, 0
	if len(items) > 0 {
		from = start + 1
		to = start + len(items)
	}

	return Page{
		Items:     items,
		Total:     total,
		Page:      page,
		PageCount: pageCount,
		From:      from,
		To:        to,
	}
}

// Clamp returns the query with its page index corrected into the valid range
// for the given collection. Callers use it after the filtered set shrinks.
func (q Query) Clamp(all []Product) Query {
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	total := len(filterByTitle(all, q.Search))
	pageCount := (total + q.PageSize - 1) / q.PageSize
	if pageCount < 1 {
		pageCount = 1
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > pageCount {
		q.Page = pageCount
	}
	return q
}

// filterByTitle keeps products whose title contains the search text as a
// case-insensitive substring. Only the title is searched.
func filterByTitle(all []Product, search string) []Product {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return all
	}
	var filtered []Product
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), search) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// sortProducts returns a stably sorted copy of the products. With SortNone the
// input is returned as is. Text keys compare case-insensitively and
// locale-aware; a product without a category sorts as an empty category name.
func sortProducts(products []Product, key SortKey, dir SortDir) []Product {
	if key == SortNone {
		return products
	}

	compare := comparatorFor(key)
	if compare == nil {
		return products
	}

	sorted := make([]Product, len(products))
	copy(sorted, products)
	slices.SortStableFunc(sorted, func(a, b Product) int {
		result := compare(a, b)
		if dir == Desc {
			return -result
		}
		return result
	})
	return sorted
}

func comparatorFor(key SortKey) func(a, b Product) int {
	switch key {
	case SortID:
		return func(a, b Product) int { return cmp.Compare(a.ID, b.ID) }
	case SortPrice:
		return func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortTitle:
		collator := newCollator()
		return func(a, b Product) int { return collator.CompareString(a.Title, b.Title) }
	case SortCategory:
		collator := newCollator()
		return func(a, b Product) int { return collator.CompareString(a.CategoryName(), b.CategoryName()) }
	default:
		return nil
	}
}

// newCollator builds a case-insensitive collator. Collators are not safe for
// concurrent use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}
