// Package geocoding resolves place names to coordinates via Nominatim.
package geocoding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dataplug/copilot-service/internal/domain/models"
)

// Resolver defines the interface for the geocoding collaborator.
type Resolver interface {
	// Resolve returns the place with coordinates when geocoding succeeds,
	// and with nil coordinates when it does not. It never fails the caller:
	// a place name alone is still a usable result.
	Resolve(ctx context.Context, placeName string) *models.PlaceInfo
}

// Config holds the geocoding service configuration.
type Config struct {
	BaseURL      string
	CountryCodes string
	Timeout      time.Duration
}

type service struct {
	baseURL      string
	countryCodes string
	httpClient   *http.Client
}

// NewService creates a new Nominatim geocoding service.
func NewService(cfg Config) Resolver {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org/search"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &service{
		baseURL:      baseURL,
		countryCodes: cfg.CountryCodes,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve returns the place with coordinates when geocoding succeeds.
func (s *service) Resolve(ctx context.Context, placeName string) *models.PlaceInfo {
	placeName = strings.TrimSpace(placeName)
	if placeName == "" {
		return nil
	}

	place := &models.PlaceInfo{Name: placeName}

	params := url.Values{}
	params.Set("q", placeName)
	params.Set("format", "json")
	params.Set("limit", "1")
	if s.countryCodes != "" {
		params.Set("countrycodes", s.countryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Error().Err(err).Str("place", placeName).Msg("geocoding request build failed")
		return place
	}
	req.Header.Set("User-Agent", "DataPlugCopilot/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("place", placeName).Msg("geocoding request failed")
		return place
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("place", placeName).Msg("geocoding returned non-200")
		return place
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Error().Err(err).Str("place", placeName).Msg("geocoding response decode failed")
		return place
	}
	if len(results) == 0 {
		log.Warn().Str("place", placeName).Msg("geocoding returned no results")
		return place
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		log.Warn().Str("place", placeName).Msg("geocoding returned unparsable coordinates")
		return place
	}

	place.Latitude = &lat
	place.Longitude = &lon
	log.Info().Str("place", placeName).Float64("lat", lat).Float64("lon", lon).Msg("geocoding resolved")
	return place
}
