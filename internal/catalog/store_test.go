package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Store_Load(t *testing.T) {
	// given
	store := NewStore()
	products := makeProducts(3)
	// when
	store.Load(products)
	// then
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, []int64{1, 2, 3}, ids(store.Snapshot()))

	// and a reload replaces the collection entirely
	store.Load(makeProducts(1))
	assert.Equal(t, 1, store.Len())
}

func Test_Store_Snapshot_IsACopy(t *testing.T) {
	// given
	store := NewStore()
	store.Load(makeProducts(2))
	// when
	snapshot := store.Snapshot()
	snapshot[0].Title = "mutated"
	// then
	found, err := store.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Product 01", found.Title)
}

func Test_Store_ApplyCreated_Prepends(t *testing.T) {
	// given
	store := NewStore()
	store.Load(makeProducts(3))
	// when
	store.ApplyCreated(Product{ID: 42, Title: "Newest"})
	// then
	snapshot := store.Snapshot()
	require.Len(t, snapshot, 4)
	assert.Equal(t, int64(42), snapshot[0].ID)
	assert.Equal(t, []int64{42, 1, 2, 3}, ids(snapshot))
}

func Test_Store_ApplyUpdated(t *testing.T) {
	testCases := []struct {
		name        string
		update      Product
		expectError error
		expectedIDs []int64
	}{
		{
			name:        "existing product is replaced in place",
			update:      Product{ID: 2, Title: "Renamed"},
			expectError: nil,
			expectedIDs: []int64{1, 2, 3},
		},
		{
			name:        "unknown id leaves the collection unchanged",
			update:      Product{ID: 99, Title: "Ghost"},
			expectError: ErrProductNotFound,
			expectedIDs: []int64{1, 2, 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			store := NewStore()
			store.Load(makeProducts(3))
			// when
			err := store.ApplyUpdated(tc.update)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
			} else {
				require.NoError(t, err)
				found, findErr := store.FindByID(tc.update.ID)
				require.NoError(t, findErr)
				assert.Equal(t, tc.update.Title, found.Title)
			}
			assert.Equal(t, tc.expectedIDs, ids(store.Snapshot()))
		})
	}
}

func Test_Store_FindByID(t *testing.T) {
	// given
	store := NewStore()
	store.Load(makeProducts(3))

	// when / then
	found, err := store.FindByID(2)
	require.NoError(t, err)
	assert.Equal(t, "Product 02", found.Title)

	_, err = store.FindByID(99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
