package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EncodeCSV(t *testing.T) {
	// given
	rating := 4.5
	products := []Product{
		{
			ID:          7,
			Title:       `Mug, "large"`,
			Price:       12.5,
			Description: "first line\nsecond line",
			Category:    &Category{ID: 1, Name: "Kitchen"},
			Images:      []string{"https://img/one.png", "https://img/two.png"},
			Rating:      &rating,
		},
		{
			ID:    8,
			Title: "Plain product",
			Price: 30,
		},
	}

	// when
	data, err := EncodeCSV(products)

	// then
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,title,price,category,images,description", lines[0])
	// quotes are escaped, images joined with a pipe, newlines flattened
	assert.Equal(t, `7,"Mug, ""large""",12.5,Kitchen,https://img/one.png|https://img/two.png,first line second line`, lines[1])
	assert.Equal(t, "8,Plain product,30,,,", lines[2])
}

func Test_EncodeCSV_EmptyPage(t *testing.T) {
	// when
	data, err := EncodeCSV(nil)
	// then
	require.NoError(t, err)
	assert.Equal(t, "id,title,price,category,images,description\n", string(data))
}
