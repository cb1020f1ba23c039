package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestLookup_ReturnsCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latitude": 40.71, "longitude": -74.0}`))
	}))
	defer srv.Close()

	loc := New(srv.URL).Lookup(context.Background())
	if loc == nil {
		t.Fatal("Lookup returned nil")
	}
	if loc.Lat != 40.71 || loc.Lng != -74.0 {
		t.Fatalf("Lookup = %+v", loc)
	}
}

func TestLookup_CachesResult(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"latitude": 1, "longitude": 2}`))
	}))
	defer srv.Close()

	r := New(srv.URL)
	for i := 0; i < 3; i++ {
		if loc := r.Lookup(context.Background()); loc == nil {
			t.Fatalf("Lookup %d returned nil", i)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("endpoint hit %d times, want 1 (cached)", got)
	}
}

func TestLookup_FailuresAreNonFatal(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			if loc := New(srv.URL).Lookup(context.Background()); loc != nil {
				t.Fatalf("Lookup = %+v, want nil", loc)
			}
		})
	}
}

func TestLookup_DisabledWithoutEndpoint(t *testing.T) {
	if loc := New("").Lookup(context.Background()); loc != nil {
		t.Fatalf("Lookup = %+v, want nil", loc)
	}
}

func TestLookup_UnreachableEndpoint(t *testing.T) {
	if loc := New("http://127.0.0.1:1/geo").Lookup(context.Background()); loc != nil {
		t.Fatalf("Lookup = %+v, want nil", loc)
	}
}
