package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/pharmadash/pkg/domain/schema"
	"github.com/vsinha/pharmadash/pkg/infrastructure/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, retryMax int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{URL: srv.URL + "/", Key: "anon-key", RetryMax: retryMax},
		logging.Component(logging.Discard(), "supabase"))
	require.NoError(t, err)
	return client
}

func TestClient_FetchPreservesColumnOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/items", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"label": "CEFEPIME", "id": 38, "product_id": "000038"},
			{"label": "TESTAVAN", "id": 40, "product_id": null}
		]`))
	}, 0)

	tbl, err := client.Fetch(context.Background(), "items")
	require.NoError(t, err)

	assert.Equal(t, "items", tbl.Name)
	assert.Equal(t, []string{"label", "id", "product_id"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())

	id, _ := tbl.Rows[0].Get("id")
	assert.Equal(t, json.Number("38"), id)

	items, err := schema.DecodeItems(tbl)
	require.NoError(t, err)
	assert.Equal(t, "", items[1].ProductID)
}

func TestClient_EmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, 0)

	tbl, err := client.Fetch(context.Background(), "batches")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())

	_, err = schema.DecodeBatches(tbl)
	assert.ErrorIs(t, err, schema.ErrEmptyTable)
}

func TestClient_HTTPErrorNotRetriedByDefault(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"relation \"public.batches\" does not exist"}`))
	}, 0)

	_, err := client.Fetch(context.Background(), "batches")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batches returned HTTP 500")
	assert.Contains(t, err.Error(), "does not exist")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, 0)

	_, err := client.Fetch(context.Background(), "items")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}, 0)

	_, err := client.Fetch(context.Background(), "items")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supabase: decode items")
}

func TestClient_InvalidTableName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, 0)

	_, err := client.Fetch(context.Background(), "items?select=secret")
	assert.Error(t, err)
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{Key: "k"}, logging.Component(logging.Discard(), "supabase"))
	assert.EqualError(t, err, "supabase: url is required")

	_, err = NewClient(Config{URL: "https://example.supabase.co"}, logging.Component(logging.Discard(), "supabase"))
	assert.EqualError(t, err, "supabase: key is required")
}
