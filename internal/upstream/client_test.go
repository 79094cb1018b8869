package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, discardLogger())
}

func Test_Client_FetchAll(t *testing.T) {
	// given
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Shirt","price":19.99,"images":["https://img/a.png"],"category":{"id":2,"name":"Clothes","image":"https://img/c.png"}},
			{"id":2,"title":"Mug","price":5,"images":[]}
		]`))
	})

	// when
	products, err := client.FetchAll(context.Background())

	// then
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Shirt", products[0].Title)
	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Clothes", products[0].Category.Name)
	assert.Nil(t, products[1].Category)
}

func Test_Client_Create(t *testing.T) {
	// given
	var received ProductPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":101,"title":"New Mug","price":9.5,"images":[]}`))
	})
	payload := ProductPayload{Title: "New Mug", Price: 9.5, CategoryID: 1, Images: []string{}}

	// when
	created, err := client.Create(context.Background(), payload)

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	assert.Equal(t, payload, received)
}

func Test_Client_Update(t *testing.T) {
	// given
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"title":"Renamed","price":42,"images":[]}`))
	})

	// when
	updated, err := client.Update(context.Background(), 7, ProductPayload{Title: "Renamed", Price: 42})

	// then
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func Test_Client_ErrorResponses(t *testing.T) {
	testCases := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{
			name:            "structured error surfaces the server message",
			status:          http.StatusBadRequest,
			body:            `{"message":"price must be positive"}`,
			expectedMessage: "price must be positive",
		},
		{
			name:            "plain text error surfaces the raw body",
			status:          http.StatusBadGateway,
			body:            "upstream exploded",
			expectedMessage: "upstream exploded",
		},
		{
			name:            "invalid JSON error surfaces as text instead of failing",
			status:          http.StatusInternalServerError,
			body:            `{"message": busted`,
			expectedMessage: `{"message": busted`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			// when
			_, err := client.FetchAll(context.Background())
			// then
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.expectedMessage, apiErr.Message)
		})
	}
}

func Test_Client_TransportError(t *testing.T) {
	// given: a server that is already gone
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := NewClient(server.URL, time.Second, discardLogger())
	server.Close()

	// when
	_, err := client.FetchAll(context.Background())

	// then
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
