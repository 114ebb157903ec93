package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r)
	return r
}

func TestIndexCarriesSlots(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	for _, id := range []string{"question-input", "loading", "response-container", "sources-container", "stats-container"} {
		assert.Contains(t, body, `id="`+id+`"`)
	}
	assert.Contains(t, body, `class="d-none mb-3"`)
}

func TestScriptIsServed(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/js/main.js", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/switch-mode")
	assert.Contains(t, w.Body.String(), "Error switching mode")
}
