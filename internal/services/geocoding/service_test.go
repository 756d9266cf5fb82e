package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "横浜", r.URL.Query().Get("q"))
		assert.Equal(t, "jp", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "DataPlugCopilot/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"35.4437","lon":"139.6380"}]`))
	}))
	defer server.Close()

	svc := NewService(Config{BaseURL: server.URL, CountryCodes: "jp"})
	place := svc.Resolve(context.Background(), "横浜")

	require.NotNil(t, place)
	assert.Equal(t, "横浜", place.Name)
	require.NotNil(t, place.Latitude)
	require.NotNil(t, place.Longitude)
	assert.InDelta(t, 35.4437, *place.Latitude, 1e-6)
	assert.InDelta(t, 139.6380, *place.Longitude, 1e-6)
}

func TestResolveNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	svc := NewService(Config{BaseURL: server.URL})
	place := svc.Resolve(context.Background(), "存在しない場所")

	require.NotNil(t, place)
	assert.Equal(t, "存在しない場所", place.Name)
	assert.Nil(t, place.Latitude)
	assert.Nil(t, place.Longitude)
}

func TestResolveServerErrorKeepsName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewService(Config{BaseURL: server.URL})
	place := svc.Resolve(context.Background(), "横浜")

	require.NotNil(t, place)
	assert.Equal(t, "横浜", place.Name)
	assert.Nil(t, place.Latitude)
}

func TestResolveEmptyName(t *testing.T) {
	svc := NewService(Config{BaseURL: "http://unused.invalid"})
	assert.Nil(t, svc.Resolve(context.Background(), "  "))
}
