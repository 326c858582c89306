package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveScoreNews_TopNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/app/news/soccer", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"articles":[
			{"title":"Madrid win the derby","url":"https://example.com/a","description":"Late goal.","publishedAt":"2026-08-29T08:00:00Z"},
			{"title":"Transfer window shuts","url":"https://example.com/b","description":"","publishedAt":"not-a-date"}
		]}`))
	}))
	defer srv.Close()

	n := NewLiveScoreNews(srv.URL)
	items, err := n.TopNews(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Madrid win the derby", items[0].Title)
	assert.Equal(t, "Late goal.", items[0].Snippet)
	assert.Equal(t, time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC), items[0].PublishedAt)
	// Unparseable timestamps degrade to zero, not an error.
	assert.True(t, items[1].PublishedAt.IsZero())
}

func TestLiveScoreNews_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewLiveScoreNews(srv.URL)
	_, err := n.TopNews(context.Background(), 5)
	assert.Error(t, err)
}
