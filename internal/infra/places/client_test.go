package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"suspended_business_scanner/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// insightsHandler serves computeInsights with per-type counts and a fixed
// place list once the requested set fits.
func insightsHandler(t *testing.T, countFor func(types []string) int, places []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req insightsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var types []string
		if req.Filter.TypeFilter != nil {
			types = req.Filter.TypeFilter.IncludedTypes
		}
		resp := insightsResponse{}
		switch req.Insights[0] {
		case insightCount:
			resp.Count = fmt.Sprintf("%d", countFor(types))
		case insightPlaces:
			for _, p := range places {
				resp.PlaceInsights = append(resp.PlaceInsights, placeInsight{Place: p})
			}
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func detailsHandler(t *testing.T, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Goog-Api-Key"))
		id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/"), "places/")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             id,
			"name":           "places/" + id,
			"displayName":    map[string]string{"text": "Place " + id},
			"businessStatus": status,
			"types":          []string{"cafe"},
		})
	}
}

func testClient(insights, details *httptest.Server, scan config.ScanSettings) *Client {
	c := &Client{
		authed:           insights.Client(),
		plain:            details.Client(),
		apiKey:           "test-key",
		scan:             scan,
		log:              quietLogger(),
		insightsEndpoint: insights.URL,
	}
	c.detailsBase = details.URL + "/"
	return c
}

func TestFetchPlacesHalvesTypeListUntilUnderCap(t *testing.T) {
	// Four types blow the cap; the first halving (two types) fits.
	countFor := func(types []string) int {
		if len(types) > 2 {
			return 150
		}
		return 2
	}
	insights := httptest.NewServer(insightsHandler(t, countFor, []string{"places/a", "places/b"}))
	defer insights.Close()
	details := httptest.NewServer(detailsHandler(t, "CLOSED_TEMPORARILY"))
	defer details.Close()

	client := testClient(insights, details, config.ScanSettings{
		Types:                 []string{"restaurant", "cafe", "bar", "bakery"},
		OnlyTemporarilyClosed: true,
		MaxPlacesPerRequest:   100,
		OverallMax:            500,
	})

	raws, err := client.FetchPlaces(context.Background(), config.CityPreset{Name: "Testville", Lat: 1, Lng: 2})
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "a", raws[0].ID)
	assert.Equal(t, "b", raws[1].ID)
}

func TestFetchPlacesSkipsOversizedSingleType(t *testing.T) {
	countFor := func([]string) int { return 1000 }
	insights := httptest.NewServer(insightsHandler(t, countFor, nil))
	defer insights.Close()
	details := httptest.NewServer(detailsHandler(t, "CLOSED_TEMPORARILY"))
	defer details.Close()

	client := testClient(insights, details, config.ScanSettings{
		Types:               []string{"restaurant"},
		MaxPlacesPerRequest: 100,
		OverallMax:          500,
	})

	raws, err := client.FetchPlaces(context.Background(), config.CityPreset{Name: "Testville"})
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestFetchPlacesReturnsNothingOnZeroCount(t *testing.T) {
	insights := httptest.NewServer(insightsHandler(t, func([]string) int { return 0 }, nil))
	defer insights.Close()
	details := httptest.NewServer(detailsHandler(t, "CLOSED_TEMPORARILY"))
	defer details.Close()

	client := testClient(insights, details, config.ScanSettings{
		Types:               []string{"cafe"},
		MaxPlacesPerRequest: 100,
		OverallMax:          500,
	})

	raws, err := client.FetchPlaces(context.Background(), config.CityPreset{Name: "Testville"})
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestFetchPlacesFiltersByBusinessStatus(t *testing.T) {
	insights := httptest.NewServer(insightsHandler(t, func([]string) int { return 1 }, []string{"places/open1"}))
	defer insights.Close()
	details := httptest.NewServer(detailsHandler(t, "OPERATIONAL"))
	defer details.Close()

	client := testClient(insights, details, config.ScanSettings{
		Types:                 []string{"cafe"},
		OnlyTemporarilyClosed: true,
		MaxPlacesPerRequest:   100,
		OverallMax:            500,
	})

	raws, err := client.FetchPlaces(context.Background(), config.CityPreset{Name: "Testville"})
	require.NoError(t, err)
	assert.Empty(t, raws, "operational places are dropped when only closures are wanted")
}
