package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeProducts builds n products with IDs 1..n and titles "Product 01"..
func makeProducts(n int) []Product {
	products := make([]Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, Product{
			ID:    int64(i),
			Title: fmt.Sprintf("Product %02d", i),
			Price: float64(i * 10),
		})
	}
	return products
}

func titles(products []Product) []string {
	result := make([]string, len(products))
	for i, p := range products {
		result[i] = p.Title
	}
	return result
}

func ids(products []Product) []int64 {
	result := make([]int64, len(products))
	for i, p := range products {
		result[i] = p.ID
	}
	return result
}

func Test_Query_Filter(t *testing.T) {
	all := []Product{
		{ID: 1, Title: "Classic Red Shirt", Description: "warm hoodie"},
		{ID: 2, Title: "Sleek Hoodie"},
		{ID: 3, Title: "RED sneakers"},
	}
	testCases := []struct {
		name     string
		search   string
		expected []int64
	}{
		{
			name:     "empty search keeps everything",
			search:   "",
			expected: []int64{1, 2, 3},
		},
		{
			name:     "whitespace-only search keeps everything",
			search:   "   ",
			expected: []int64{1, 2, 3},
		},
		{
			name:     "substring match is case-insensitive",
			search:   "red",
			expected: []int64{1, 3},
		},
		{
			name:     "only the title is searched, not the description",
			search:   "hoodie",
			expected: []int64{2},
		},
		{
			name:     "no match yields empty result",
			search:   "jacket",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			query := Query{Search: tc.search, PageSize: 10, Page: 1}
			// when
			page := query.Run(all)
			// then
			assert.Equal(t, tc.expected, idsOrNil(page.Items))
			assert.Equal(t, len(tc.expected), page.Total)
		})
	}
}

func idsOrNil(products []Product) []int64 {
	if len(products) == 0 {
		return nil
	}
	return ids(products)
}

func Test_Query_Sort(t *testing.T) {
	all := []Product{
		{ID: 3, Title: "banana", Price: 30, Category: &Category{Name: "Fruit"}},
		{ID: 1, Title: "Apple", Price: 10},
		{ID: 2, Title: "cherry", Price: 20, Category: &Category{Name: "berries"}},
	}
	testCases := []struct {
		name     string
		sort     SortKey
		dir      SortDir
		expected []int64
	}{
		{
			name:     "no sort keeps collection order",
			sort:     SortNone,
			expected: []int64{3, 1, 2},
		},
		{
			name:     "id ascending",
			sort:     SortID,
			dir:      Asc,
			expected: []int64{1, 2, 3},
		},
		{
			name:     "id descending",
			sort:     SortID,
			dir:      Desc,
			expected: []int64{3, 2, 1},
		},
		{
			name:     "price ascending",
			sort:     SortPrice,
			dir:      Asc,
			expected: []int64{1, 2, 3},
		},
		{
			name:     "price descending",
			sort:     SortPrice,
			dir:      Desc,
			expected: []int64{3, 2, 1},
		},
		{
			name:     "title is case-insensitive",
			sort:     SortTitle,
			dir:      Asc,
			expected: []int64{1, 3, 2},
		},
		{
			name:     "absent category sorts as empty string",
			sort:     SortCategory,
			dir:      Asc,
			expected: []int64{1, 2, 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			query := Query{Sort: tc.sort, Dir: tc.dir, PageSize: 10, Page: 1}
			// when
			page := query.Run(all)
			// then
			assert.Equal(t, tc.expected, ids(page.Items))
		})
	}
}

func Test_Query_Sort_DescendingIsExactReverse(t *testing.T) {
	// given
	all := makeProducts(7)
	ascending := Query{Sort: SortPrice, Dir: Asc, PageSize: 100, Page: 1}
	descending := Query{Sort: SortPrice, Dir: Desc, PageSize: 100, Page: 1}
	// when
	up := ascending.Run(all).Items
	down := descending.Run(all).Items
	// then
	require.Len(t, down, len(up))
	for i := range up {
		assert.Equal(t, up[i].ID, down[len(down)-1-i].ID)
	}
}

func Test_Query_Sort_DoesNotMutateInput(t *testing.T) {
	// given
	all := []Product{{ID: 2, Price: 20}, {ID: 1, Price: 10}}
	query := Query{Sort: SortPrice, Dir: Asc, PageSize: 10, Page: 1}
	// when
	query.Run(all)
	// then
	assert.Equal(t, []int64{2, 1}, ids(all))
}

func Test_Query_SortByPrice_Scenario(t *testing.T) {
	// given
	all := []Product{{ID: 1, Price: 30}, {ID: 2, Price: 10}, {ID: 3, Price: 20}}
	// when ascending, then descending
	asc := Query{Sort: SortPrice, Dir: Asc, PageSize: 10, Page: 1}.Run(all)
	desc := Query{Sort: SortPrice, Dir: Desc, PageSize: 10, Page: 1}.Run(all)
	// then
	assert.Equal(t, []float64{10, 20, 30}, prices(asc.Items))
	assert.Equal(t, []float64{30, 20, 10}, prices(desc.Items))
}

func prices(products []Product) []float64 {
	result := make([]float64, len(products))
	for i, p := range products {
		result[i] = p.Price
	}
	return result
}

func Test_Query_Paginate(t *testing.T) {
	testCases := []struct {
		name          string
		total         int
		pageSize      int
		page          int
		expectedLen   int
		expectedPage  int
		expectedCount int
		expectedFrom  int
		expectedTo    int
	}{
		{
			name:  "first page of fifteen",
			total: 15, pageSize: 10, page: 1,
			expectedLen: 10, expectedPage: 1, expectedCount: 2, expectedFrom: 1, expectedTo: 10,
		},
		{
			name:  "last partial page",
			total: 15, pageSize: 10, page: 2,
			expectedLen: 5, expectedPage: 2, expectedCount: 2, expectedFrom: 11, expectedTo: 15,
		},
		{
			name:  "page beyond the end is clamped to the last page",
			total: 15, pageSize: 10, page: 9,
			expectedLen: 5, expectedPage: 2, expectedCount: 2, expectedFrom: 11, expectedTo: 15,
		},
		{
			name:  "page below one is clamped to the first page",
			total: 15, pageSize: 10, page: 0,
			expectedLen: 10, expectedPage: 1, expectedCount: 2, expectedFrom: 1, expectedTo: 10,
		},
		{
			name:  "empty collection reports one page and zero items",
			total: 0, pageSize: 10, page: 1,
			expectedLen: 0, expectedPage: 1, expectedCount: 1, expectedFrom: 0, expectedTo: 0,
		},
		{
			name:  "exact multiple has no trailing page",
			total: 20, pageSize: 10, page: 2,
			expectedLen: 10, expectedPage: 2, expectedCount: 2, expectedFrom: 11, expectedTo: 20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			all := makeProducts(tc.total)
			query := Query{PageSize: tc.pageSize, Page: tc.page}
			// when
			page := query.Run(all)
			// then
			assert.Len(t, page.Items, tc.expectedLen)
			assert.Equal(t, tc.expectedPage, page.Page)
			assert.Equal(t, tc.expectedCount, page.PageCount)
			assert.Equal(t, tc.expectedFrom, page.From)
			assert.Equal(t, tc.expectedTo, page.To)
			assert.LessOrEqual(t, len(page.Items), tc.pageSize)
		})
	}
}

func Test_Query_NarrowingSearchResetsToSinglePage(t *testing.T) {
	// given: fifteen products, three of which match the search
	all := makeProducts(15)
	all[2].Title = "Linen shirt"
	all[7].Title = "Denim shirt"
	all[11].Title = "Silk Shirt"

	full := Query{PageSize: 10, Page: 1}.Run(all)
	require.Len(t, full.Items, 10)

	// when: the search narrows the set while the view was on page 2
	narrowed := Query{Search: "shirt", PageSize: 10, Page: 2}.Run(all)

	// then: one page of three items, page index corrected
	assert.Equal(t, 3, narrowed.Total)
	assert.Equal(t, 1, narrowed.PageCount)
	assert.Equal(t, 1, narrowed.Page)
	assert.Equal(t, []string{"Linen shirt", "Denim shirt", "Silk Shirt"}, titles(narrowed.Items))
}

func Test_Query_Clamp(t *testing.T) {
	// given
	all := makeProducts(15)
	query := Query{PageSize: 10, Page: 5}
	// when
	clamped := query.Clamp(all)
	// then
	assert.Equal(t, 2, clamped.Page)

	// and a search that empties the set clamps to page 1
	query = Query{Search: "no such product", PageSize: 10, Page: 3}
	assert.Equal(t, 1, query.Clamp(all).Page)
}
