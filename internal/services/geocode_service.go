package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"autumhire/internal/models/response_models"
	"autumhire/pkg/memcache"
)

const (
	geocodeCacheTTL = 24 * time.Hour
	geocodeLimit    = 5
	minQueryLength  = 2
)

type GeocodeServiceInterface interface {
	SearchCities(ctx context.Context, query string) ([]response_models.Location, error)
}

// NominatimClient proxies city autocomplete to a Nominatim-compatible
// search endpoint, restricted to Kenya.
type NominatimClient struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	Cache     memcache.Cache
	TTL       time.Duration
	log       *zap.Logger
}

func NewNominatimClient(baseURL, userAgent string, cache memcache.Cache, log *zap.Logger) GeocodeServiceInterface {
	return &NominatimClient{
		HTTP:      &http.Client{Timeout: 10 * time.Second},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Cache:     cache,
		TTL:       geocodeCacheTTL,
		log:       log,
	}
}

func (c *NominatimClient) SearchCities(ctx context.Context, query string) ([]response_models.Location, error) {
	query = strings.Join(strings.Fields(query), " ")
	if len([]rune(query)) < minQueryLength {
		return []response_models.Location{}, nil
	}

	key := "geocode:ke:" + strings.ToLower(query)
	if cached, ok, err := c.Cache.Get(ctx, key); err != nil {
		c.log.Warn("geocode cache read failed", zap.Error(err))
	} else if ok {
		var locs []response_models.Location
		if err := json.Unmarshal([]byte(cached), &locs); err == nil {
			return locs, nil
		}
	}

	locs, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(locs); err == nil {
		if err := c.Cache.Set(ctx, key, string(data), c.TTL); err != nil {
			c.log.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return locs, nil
}

func (c *NominatimClient) fetch(ctx context.Context, query string) ([]response_models.Location, error) {
	u, err := url.Parse(c.BaseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("geocoder url: %w", err)
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("countrycodes", "ke")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(geocodeLimit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("geocoder bad status: %s", resp.Status)
	}

	var payload []struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		Address     struct {
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
			County  string `json:"county"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geocoder decode: %w", err)
	}

	locs := make([]response_models.Location, 0, len(payload))
	seen := map[string]bool{}
	for _, p := range payload {
		name := firstNonEmpty(p.Address.City, p.Address.Town, p.Address.Village, p.Name, p.Address.County)
		if name == "" || seen[p.DisplayName] {
			continue
		}
		seen[p.DisplayName] = true
		lat, _ := strconv.ParseFloat(p.Lat, 64)
		lon, _ := strconv.ParseFloat(p.Lon, 64)
		locs = append(locs, response_models.Location{
			Name:        name,
			DisplayName: p.DisplayName,
			Lat:         lat,
			Lon:         lon,
		})
	}
	return locs, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
