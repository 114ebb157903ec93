package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github/itish2003/docquery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req models.EmbedRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		assert.Equal(t, "nomic-embed-text:v1.5", req.Model)
		if req.Prompt == "fail" {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
			return
		}
		if req.Prompt == "empty" {
			_ = json.NewEncoder(w).Encode(models.EmbedResponse{})
			return
		}
		_ = json.NewEncoder(w).Encode(models.EmbedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.Client(), srv.URL+"/", "nomic-embed-text:v1.5")

	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)

	_, err = e.Embed(context.Background(), "fail")
	assert.ErrorContains(t, err, "non-200 status: 500")

	_, err = e.Embed(context.Background(), "empty")
	assert.ErrorContains(t, err, "empty embedding")
}
