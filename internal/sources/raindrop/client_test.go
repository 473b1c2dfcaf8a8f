package raindrop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linkshelf/shelf/internal/logger"
)

func testItem(id int64, link string) apiItem {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return apiItem{
		ID:         id,
		Link:       link,
		Title:      fmt.Sprintf("Item %d", id),
		Tags:       []string{"Go"},
		Created:    created,
		LastUpdate: created.Add(time.Hour),
	}
}

func TestFetchWalksAllPages(t *testing.T) {
	pages := map[string]listResponse{
		"0": {Result: true, Count: 3, Items: []apiItem{testItem(1, "https://a/"), testItem(2, "https://b/")}},
		"1": {Result: true, Count: 3, Items: []apiItem{testItem(3, "https://c/")}},
	}

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		resp, ok := pages[r.URL.Query().Get("page")]
		if !ok {
			t.Errorf("unexpected page request: %s", r.URL.RawQuery)
			resp = listResponse{Result: true}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", 5*time.Second, logger.Nop())
	bookmarks, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(bookmarks) != 3 {
		t.Errorf("got %d bookmarks, want 3 across two pages", len(bookmarks))
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if bookmarks[0].ID != "1" {
		t.Errorf("ID = %q, want numeric id as string", bookmarks[0].ID)
	}
}

func TestFetchStopsOnEmptyPage(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Count lies high but no items come back; the walk must stop.
		_ = json.NewEncoder(w).Encode(listResponse{Result: true, Count: 100})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", 5*time.Second, logger.Nop())
	bookmarks, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(bookmarks) != 0 {
		t.Errorf("got %d bookmarks, want 0", len(bookmarks))
	}
	if requests != 1 {
		t.Errorf("made %d requests, want 1", requests)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", 5*time.Second, logger.Nop())
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Error("Fetch with 401 response returned nil error")
	}
}

func TestFetchResultFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(listResponse{Result: false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", 5*time.Second, logger.Nop())
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Error("Fetch with result=false returned nil error")
	}
}

func TestMapItems(t *testing.T) {
	items := []apiItem{
		testItem(42, "https://example.org/"),
		{ID: 43, Title: "no link, dropped"},
	}

	bookmarks := mapItems(items)
	if len(bookmarks) != 1 {
		t.Fatalf("got %d bookmarks, want 1 (link-less item dropped)", len(bookmarks))
	}

	b := bookmarks[0]
	if b.ID != "42" {
		t.Errorf("ID = %q, want 42", b.ID)
	}
	if len(b.Tags) != 1 || b.Tags[0].Slug != "go" || b.Tags[0].Name != "Go" {
		t.Errorf("tags not normalized: %+v", b.Tags)
	}
	if !b.SourceUpdatedAt.After(b.DateBookmarked) {
		t.Errorf("lastUpdate not carried over: %v", b.SourceUpdatedAt)
	}
}
