package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Catalog</h1></body></html>`)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return httptest.NewServer(mux)
}

func TestCollyFetcher_Fetch(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	f := NewCollyFetcher("", 0)
	defer f.Close()

	doc, err := f.Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Catalog" {
		t.Errorf("document h1 = %q, want %q", got, "Catalog")
	}
}

func TestCollyFetcher_FetchErrorCarriesURL(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	f := NewCollyFetcher("", 0)
	defer f.Close()

	url := srv.URL + "/missing"
	_, err := f.Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("Fetch() expected error for 404 response, got nil")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() error = %T, want *FetchError", err)
	}
	if fe.URL != url {
		t.Errorf("FetchError.URL = %q, want %q", fe.URL, url)
	}
	if !strings.Contains(err.Error(), url) {
		t.Errorf("error message %q does not contain the URL", err)
	}
}

func TestCollyFetcher_TransportFailure(t *testing.T) {
	f := NewCollyFetcher("", 0)
	defer f.Close()

	// Nothing listens here.
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/")
	if err == nil {
		t.Fatal("Fetch() expected transport error, got nil")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Errorf("Fetch() error = %T, want *FetchError", err)
	}
}

func TestCollyFetcher_CancelledContext(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	f := NewCollyFetcher("", 0)
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Fetch(ctx, srv.URL+"/"); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}
