package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github/itish2003/docquery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modeServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/switch-mode", r.URL.Path)
		var req models.ModeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSwitchSuccessIsSilent(t *testing.T) {
	srv := modeServer(t, http.StatusOK, `{"success":true,"mode":"summary"}`)
	ind := &recordingIndicator{}
	alerts := &recordingAlerter{}

	err := NewModeSwitcher(NewAPI(srv.URL, srv.Client()), ind, alerts).Switch(context.Background(), "summary")

	require.NoError(t, err)
	assert.Empty(t, alerts.Messages())
	assert.Equal(t, []string{"show", "hide"}, ind.Events())
}

func TestSwitchFailureAlertsOnce(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "error field", status: http.StatusInternalServerError, body: `{"error":"index not ready"}`, want: "Error switching mode: index not ready"},
		{name: "garbage body", status: http.StatusBadGateway, body: `bad gateway`, want: "Error switching mode: invalid response from /switch-mode (status 502)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := modeServer(t, tt.status, tt.body)
			ind := &recordingIndicator{}
			alerts := &recordingAlerter{}

			err := NewModeSwitcher(NewAPI(srv.URL, srv.Client()), ind, alerts).Switch(context.Background(), "technical")

			require.Error(t, err)
			msgs := alerts.Messages()
			require.Len(t, msgs, 1)
			assert.Contains(t, msgs[0], tt.want)
			assert.Equal(t, []string{"show", "hide"}, ind.Events())
		})
	}
}

func TestSwitchDoesNotTouchRegions(t *testing.T) {
	srv := modeServer(t, http.StatusOK, `{"success":true,"mode":"technical"}`)
	page, _, resp, src, stats := newTestPage()

	require.NoError(t, NewModeSwitcher(NewAPI(srv.URL, nil), page.Loading, &recordingAlerter{}).Switch(context.Background(), "technical"))

	assert.Zero(t, resp.Writes())
	assert.Zero(t, src.Writes())
	assert.Zero(t, stats.Writes())
}
