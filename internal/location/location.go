// Package location provides best-effort coordinates for clock-in annotation.
// Lookups are bounded by a short timeout and cached for a few minutes; any
// failure degrades to "no location" rather than failing the clock action.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/clockwise-hq/clockwise/internal/remote"
)

const (
	lookupTimeout = 10 * time.Second
	cacheTTL      = 5 * time.Minute
	cacheKey      = "self"
)

// Resolver looks up the device position from a geolocation HTTP endpoint.
type Resolver struct {
	endpoint string
	http     *http.Client
	cache    *ttlcache.Cache[string, remote.Coordinates]
}

// New builds a Resolver for the given endpoint. An empty endpoint disables
// lookups entirely; Lookup then always returns nil.
func New(endpoint string) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		http:     &http.Client{Timeout: lookupTimeout},
		cache: ttlcache.New(
			ttlcache.WithTTL[string, remote.Coordinates](cacheTTL),
			ttlcache.WithDisableTouchOnHit[string, remote.Coordinates](),
		),
	}
}

// Lookup returns the current coordinates, or nil when the endpoint is unset,
// unreachable, slow, or returns garbage. Results are cached so repeated
// clock-ins do not hammer the endpoint.
func (r *Resolver) Lookup(ctx context.Context) *remote.Coordinates {
	if r == nil || r.endpoint == "" {
		return nil
	}

	if item := r.cache.Get(cacheKey); item != nil {
		loc := item.Value()
		return &loc
	}

	loc, err := r.fetch(ctx)
	if err != nil {
		return nil
	}
	r.cache.Set(cacheKey, *loc, ttlcache.DefaultTTL)
	return loc
}

func (r *Resolver) fetch(ctx context.Context) (*remote.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("geolocation endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &remote.Coordinates{Lat: payload.Latitude, Lng: payload.Longitude}, nil
}
