package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRendersAnswerSourcesAndStats(t *testing.T) {
	page, ind, resp, src, stats := newTestPage()
	q := newGatedQuerier()
	q.answers["what is A?"] = sampleResponse("A")

	res := NewQuerySubmitter(q, page, HTMLRenderer{}).Submit(context.Background(), "  what is A?  ")

	require.True(t, res.OK())
	assert.Equal(t, []string{"show", "hide"}, ind.Events())
	assert.Contains(t, resp.Content(), `<div class="response-text">A</div>`)
	assert.Equal(t, 1, strings.Count(src.Content(), `<div class="source-item">`))
	assert.Contains(t, src.Content(), "Source 1:")
	assert.NotContains(t, src.Content(), "Source 2:")
	assert.Contains(t, stats.Content(), "Cost: $0.0012")
	assert.Contains(t, stats.Content(), "Total Tokens: 15")
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		page, ind, resp, _, _ := newTestPage()
		q := newGatedQuerier()

		res := NewQuerySubmitter(q, page, HTMLRenderer{}).Submit(context.Background(), input)

		assert.True(t, res.Skipped)
		assert.Zero(t, q.Calls())
		assert.Empty(t, ind.Events())
		assert.Zero(t, resp.Writes())
	}
}

func TestSubmitServerErrorRendersInlineOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"not found"}`)
	}))
	defer srv.Close()

	page, ind, resp, src, stats := newTestPage()
	src.Set("previous sources")
	stats.Set("previous stats")

	res := NewQuerySubmitter(NewAPI(srv.URL, srv.Client()), page, HTMLRenderer{}).Submit(context.Background(), "q")

	require.Error(t, res.Err)
	var serverErr *ServerError
	require.ErrorAs(t, res.Err, &serverErr)
	assert.Equal(t, "not found", serverErr.Message)
	assert.Equal(t, "\n<div class=\"alert alert-danger\">not found</div>\n", resp.Content())
	assert.Equal(t, "previous sources", src.Content())
	assert.Equal(t, "previous stats", stats.Content())
	assert.Equal(t, []string{"show", "hide"}, ind.Events())
}

func TestSubmitTransportAndParseFailures(t *testing.T) {
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>oops</html>")
	}))
	defer garbage.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "non-json body", url: garbage.URL, want: "invalid response from /query"},
		{name: "unreachable", url: closedURL, want: "failed to reach /query"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ind, resp, src, _ := newTestPage()

			res := NewQuerySubmitter(NewAPI(tt.url, nil), page, HTMLRenderer{}).Submit(context.Background(), "q")

			require.Error(t, res.Err)
			assert.Contains(t, resp.Content(), `<div class="alert alert-danger">`)
			assert.Contains(t, resp.Content(), tt.want)
			assert.Zero(t, src.Writes())
			assert.Equal(t, []string{"show", "hide"}, ind.Events())
		})
	}
}

func TestSubmitReleasesLoadingWhenRenderPanics(t *testing.T) {
	page, ind, resp, _, _ := newTestPage()
	q := newGatedQuerier()
	q.answers["q"] = sampleResponse("A")

	res := NewQuerySubmitter(q, page, panickyRenderer{}).Submit(context.Background(), "q")

	require.Error(t, res.Err)
	assert.Contains(t, resp.Content(), "render failed: boom")
	assert.Equal(t, []string{"show", "hide"}, ind.Events())
}

func TestOverlappingSubmissionsLastResolvedWins(t *testing.T) {
	page, ind, resp, src, _ := newTestPage()
	q := newGatedQuerier()
	first := sampleResponse("first answer")
	first.Sources[0].Source = "first.pdf"
	second := sampleResponse("second answer")
	second.Sources[0].Source = "second.pdf"
	q.answers["first"] = first
	q.answers["second"] = second
	q.gates["first"] = make(chan struct{})

	s := NewQuerySubmitter(q, page, HTMLRenderer{})
	ctx := context.Background()

	firstDone := s.SubmitAsync(ctx, "first")
	waitStarted(t, q, "first")

	secondRes := <-s.SubmitAsync(ctx, "second")
	require.True(t, secondRes.OK())
	assert.Contains(t, resp.Content(), "second answer")

	close(q.gates["first"])
	firstRes := <-firstDone
	require.True(t, firstRes.OK())

	assert.Contains(t, resp.Content(), "first answer")
	assert.Contains(t, src.Content(), "first.pdf")
	assert.NotContains(t, src.Content(), "second.pdf")
	assert.Equal(t, []string{"show", "show", "hide", "hide"}, ind.Events())
}

func waitStarted(t *testing.T, q *gatedQuerier, question string) {
	t.Helper()
	select {
	case got := <-q.started:
		require.Equal(t, question, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("query %q never started", question)
	}
}

func TestOverlappingRenderIsNotTorn(t *testing.T) {
	page, _, _, src, _ := newTestPage()
	resp := newStallingRegion("first answer")
	page.Response = resp

	q := newGatedQuerier()
	first := sampleResponse("first answer")
	first.Sources[0].Source = "first.pdf"
	second := sampleResponse("second answer")
	second.Sources[0].Source = "second.pdf"
	q.answers["first"] = first
	q.answers["second"] = second

	s := NewQuerySubmitter(q, page, HTMLRenderer{})
	ctx := context.Background()

	firstDone := s.SubmitAsync(ctx, "first")
	waitStarted(t, q, "first")
	select {
	case <-resp.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first render never started")
	}

	secondDone := s.SubmitAsync(ctx, "second")
	waitStarted(t, q, "second")
	select {
	case <-secondDone:
		t.Fatal("second render ran while the first was half applied")
	case <-time.After(50 * time.Millisecond):
	}

	close(resp.release)
	require.True(t, (<-firstDone).OK())
	require.True(t, (<-secondDone).OK())

	assert.Contains(t, resp.Content(), "second answer")
	assert.Contains(t, src.Content(), "second.pdf")
	assert.NotContains(t, src.Content(), "first.pdf")
}

func TestSubmitSurvivesPanickingRegion(t *testing.T) {
	page, ind, _, _, _ := newTestPage()
	page.Response = panickyRegion{}
	q := newGatedQuerier()
	q.answers["q"] = sampleResponse("A")

	var res Result
	require.NotPanics(t, func() {
		res = <-NewQuerySubmitter(q, page, HTMLRenderer{}).SubmitAsync(context.Background(), "q")
	})

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "render failed: region gone")
	assert.Equal(t, []string{"show", "hide"}, ind.Events())
}
