//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/covalentlabs/webquill/internal/api/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	resp, err := http.Post(url, "application/json", &body)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestE2E_FullIndexAndRetrieveFlow(t *testing.T) {
	env := SetupE2EEnv(t)

	// Health first
	resp, err := http.Get(env.APIServer.URL + "/health")
	require.NoError(t, err)
	var health map[string]string
	decode(t, resp, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "webquill", health["service"])

	// Index the fake website
	resp = postJSON(t, env.APIServer.URL+"/api/crawl", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var crawl handlers.CrawlResponse
	decode(t, resp, &crawl)
	assert.Equal(t, "success", crawl.Status)
	assert.Equal(t, 3, crawl.PagesCrawled)
	assert.Greater(t, crawl.ChunksCreated, 0)
	assert.Equal(t, int64(crawl.ChunksCreated), crawl.VectorDBStats.TotalDocuments)

	// Stats reflect the indexed chunks
	resp, err = http.Get(env.APIServer.URL + "/api/stats")
	require.NoError(t, err)
	var stats handlers.StatsResponse
	decode(t, resp, &stats)
	assert.Equal(t, "rag_documents", stats.Stats.CollectionName)
	assert.Equal(t, int64(crawl.ChunksCreated), stats.Stats.TotalDocuments)

	// Ask retrieves ranked chunks
	resp = postJSON(t, env.APIServer.URL+"/api/ask", handlers.AskRequest{
		Question: "how are invoices billed?",
		TopK:     3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ask handlers.AskResponse
	decode(t, resp, &ask)
	assert.Equal(t, "success", ask.Status)
	require.NotEmpty(t, ask.RetrievedDocuments)
	assert.Equal(t, len(ask.RetrievedDocuments), ask.TotalResults)
	for i, doc := range ask.RetrievedDocuments {
		assert.Equal(t, i+1, doc.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, doc.Distance, ask.RetrievedDocuments[i-1].Distance)
		}
	}

	// Clear empties the collection but keeps it queryable
	resp = postJSON(t, env.APIServer.URL+"/api/clear", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(env.APIServer.URL + "/api/stats")
	require.NoError(t, err)
	decode(t, resp, &stats)
	assert.Equal(t, int64(0), stats.Stats.TotalDocuments)

	resp = postJSON(t, env.APIServer.URL+"/api/ask", handlers.AskRequest{Question: "anything"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &ask)
	assert.Equal(t, 0, ask.TotalResults)
}

func TestE2E_ReindexIsIdempotent(t *testing.T) {
	env := SetupE2EEnv(t)

	resp := postJSON(t, env.APIServer.URL+"/api/crawl", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first handlers.CrawlResponse
	decode(t, resp, &first)

	resp = postJSON(t, env.APIServer.URL+"/api/crawl", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second handlers.CrawlResponse
	decode(t, resp, &second)

	assert.Equal(t, first.ChunksCreated, second.ChunksCreated)
	assert.Equal(t, first.VectorDBStats.TotalDocuments, second.VectorDBStats.TotalDocuments,
		"re-indexing the same site must not grow the collection")
}

func TestE2E_ValidationErrors(t *testing.T) {
	env := SetupE2EEnv(t)

	resp := postJSON(t, env.APIServer.URL+"/api/ask", handlers.AskRequest{Question: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, env.APIServer.URL+"/api/ask", handlers.AskRequest{Question: "hi", TopK: 99})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, env.APIServer.URL+"/api/crawl", handlers.CrawlRequest{URL: "ftp://bad"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
