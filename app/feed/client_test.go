package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFetchesDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent/1.0" {
			t.Errorf("Expected User-Agent 'test-agent/1.0', got: %s", got)
		}
		w.Write([]byte("<rss/>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-agent/1.0", 5*time.Second)
	data, err := client.Run(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != "<rss/>" {
		t.Errorf("Expected body '<rss/>', got: %s", data)
	}
}

func TestClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-agent/1.0", 5*time.Second)
	_, err := client.Run(context.Background(), server.URL)

	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %T", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got: %d", fetchErr.StatusCode)
	}
}

func TestClientNetworkFailure(t *testing.T) {
	client := NewClient(nil, "test-agent/1.0", 1*time.Second)
	_, err := client.Run(context.Background(), "http://127.0.0.1:1/feed.xml")

	if err == nil {
		t.Fatal("Expected error for unreachable host")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("Expected FetchError, got: %T", err)
	}
}
