package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats", r.URL.Path)
		fmt.Fprint(w, `{"data":{"total_entries":15}}`)
	}))
	defer server.Close()

	api, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	resp, err := api.Get("/api/stats")
	require.NoError(t, err)

	var stats Stats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 15, stats.TotalEntries)
}

func TestAPIClient_Post_SendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "how do I merge dataframes?", body["question"])

		fmt.Fprint(w, `{"data":{"answer":"use pd.merge","links":[]}}`)
	}))
	defer server.Close()

	api, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	resp, err := api.Post("/api/", map[string]string{"question": "how do I merge dataframes?"})
	require.NoError(t, err)

	var answer Answer
	require.NoError(t, json.Unmarshal(resp.Data, &answer))
	assert.Equal(t, "use pd.merge", answer.Answer)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"question is required"}`)
	}))
	defer server.Close()

	api, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	_, err = api.Post("/api/", map[string]string{})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "question is required", apiErr.Message)
}

func TestAPIClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "bad gateway")
	}))
	defer server.Close()

	api, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	_, err = api.Get("/health")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}
