package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"autumhire/pkg/memcache"
)

const nominatimBody = `[
 {"name":"Nakuru","display_name":"Nakuru, Nakuru County, Kenya","lat":"-0.3031","lon":"36.0800","address":{"city":"Nakuru","county":"Nakuru County"}},
 {"name":"Nakuru","display_name":"Nakuru, Nakuru County, Kenya","lat":"-0.3031","lon":"36.0800","address":{"city":"Nakuru"}},
 {"name":"Naivasha","display_name":"Naivasha, Nakuru County, Kenya","lat":"-0.7167","lon":"36.4333","address":{"town":"Naivasha"}}
]`

func TestSearchCitiesUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		if r.URL.Path != "/search" || q.Get("countrycodes") != "ke" || q.Get("format") != "json" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		if r.Header.Get("User-Agent") != "autumhire-test" {
			t.Errorf("missing user agent")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nominatimBody))
	}))
	defer srv.Close()

	geo := NewNominatimClient(srv.URL, "autumhire-test", memcache.NewTTLCache(), zap.NewNop())
	ctx := context.Background()

	locs, err := geo.SearchCities(ctx, "Naku")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(locs) != 2 || locs[0].Name != "Nakuru" || locs[1].Name != "Naivasha" {
		t.Fatalf("unexpected locations %+v", locs)
	}
	if locs[0].Lat != -0.3031 {
		t.Fatalf("unexpected latitude %v", locs[0].Lat)
	}

	if _, err := geo.SearchCities(ctx, "  naku "); err != nil {
		t.Fatalf("cached search: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected second lookup from cache, upstream hit %d times", hits.Load())
	}
}

func TestSearchCitiesShortQueryAndUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	geo := NewNominatimClient(srv.URL, "", memcache.NewTTLCache(), zap.NewNop())

	locs, err := geo.SearchCities(context.Background(), "N")
	if err != nil || len(locs) != 0 {
		t.Fatalf("expected empty result for short query, got %v %v", locs, err)
	}
	if _, err := geo.SearchCities(context.Background(), "Kisumu"); err == nil {
		t.Fatal("expected upstream error")
	}
}
