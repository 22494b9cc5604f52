package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"suspended_business_scanner/internal/domain/place"
	"suspended_business_scanner/internal/infra/config"
	"suspended_business_scanner/internal/infra/sheets"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	insightsURL     = "https://areainsights.googleapis.com/v1:computeInsights"
	detailsBaseURL  = "https://places.googleapis.com/v1/"
	cloudScope      = "https://www.googleapis.com/auth/cloud-platform"
	insightCount    = "INSIGHT_COUNT"
	insightPlaces   = "INSIGHT_PLACES"
	detailsFieldSet = "name,id,displayName,formattedAddress,location,types,rating,userRatingCount,businessStatus"
)

// Client fetches temporarily closed places around a city center via the
// Area Insights API, then resolves each insight to full place details.
type Client struct {
	authed *http.Client // bearer-authorized, Area Insights
	plain  *http.Client // API-key header, Place Details
	apiKey string
	scan   config.ScanSettings
	log    *logrus.Logger

	insightsEndpoint string
	detailsBase      string
}

func NewClient(ctx context.Context, cfg *config.AppConfig, scan config.ScanSettings, log *logrus.Logger) (*Client, error) {
	credsJSON, err := sheets.CredentialsJSON(cfg.ServiceAccount)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, credsJSON, cloudScope)
	if err != nil {
		return nil, fmt.Errorf("failed to build area insights credentials: %w", err)
	}
	return &Client{
		authed:           oauth2.NewClient(ctx, creds.TokenSource),
		plain:            &http.Client{Timeout: 30 * time.Second},
		apiKey:           cfg.PlacesAPIKey,
		scan:             scan,
		log:              log,
		insightsEndpoint: insightsURL,
		detailsBase:      detailsBaseURL,
	}, nil
}

// FetchPlaces runs the scan for one city and returns raw payloads ready for
// normalization. The API caps INSIGHT_PLACES responses, so the client counts
// first and halves the type list until the count fits under the cap; a single
// type still over the cap is skipped.
func (c *Client) FetchPlaces(ctx context.Context, city config.CityPreset) ([]place.Raw, error) {
	location := locationFilter{
		Circle: &circleFilter{
			LatLng: latLng{Latitude: city.Lat, Longitude: city.Lng},
			Radius: c.scan.RadiusM,
		},
	}

	insights, err := c.placesUnderCap(ctx, location)
	if err != nil {
		return nil, err
	}
	if len(insights) == 0 {
		return nil, nil
	}

	raws := make([]place.Raw, 0, len(insights))
	for _, pi := range insights {
		if len(raws) >= c.scan.OverallMax {
			c.log.Warnf("Reached overall place cap (%d) for %s; stopping details fetch.", c.scan.OverallMax, city.Name)
			break
		}
		if pi.Place == "" {
			continue
		}
		raw, err := c.fetchDetails(ctx, pi.Place)
		if err != nil {
			// One unresolvable place does not sink the batch.
			c.log.Warnf("Failed to fetch details for %s: %v", pi.Place, err)
			continue
		}
		if c.scan.OnlyTemporarilyClosed && raw.BusinessStatus != "CLOSED_TEMPORARILY" {
			continue
		}
		raws = append(raws, raw)
		if c.scan.DetailsPause > 0 {
			select {
			case <-time.After(c.scan.DetailsPause):
			case <-ctx.Done():
				return raws, ctx.Err()
			}
		}
	}
	c.log.Infof("Fetched %d place detail payload(s) for %s.", len(raws), city.Name)
	return raws, nil
}

// placesUnderCap counts first, then fetches places once the working type set
// fits under the per-request cap. Oversized sets drop their trailing half and
// retry; an oversized single type is skipped rather than truncated silently.
func (c *Client) placesUnderCap(ctx context.Context, location locationFilter) ([]placeInsight, error) {
	working := append([]string(nil), c.scan.Types...)
	for len(working) > 0 {
		count, err := c.computeCount(ctx, location, working)
		if err != nil {
			return nil, err
		}
		c.log.Debugf("Area insight count for %d type(s): %d", len(working), count)

		if count == 0 {
			return nil, nil
		}
		if count <= c.scan.MaxPlacesPerRequest {
			return c.computePlaces(ctx, location, working)
		}
		if len(working) == 1 {
			c.log.Warnf("Single type %q exceeds per-request cap (%d > %d); skipping fetch.",
				working[0], count, c.scan.MaxPlacesPerRequest)
			return nil, nil
		}
		drop := len(working) / 2
		if drop == 0 {
			drop = 1
		}
		working = working[:len(working)-drop]
		c.log.Debugf("Count over cap; retrying with %d type(s).", len(working))
	}
	return nil, nil
}

func (c *Client) computeCount(ctx context.Context, location locationFilter, types []string) (int, error) {
	resp, err := c.computeInsights(ctx, insightCount, location, types)
	if err != nil {
		return 0, err
	}
	if resp.Count == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(resp.Count)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (c *Client) computePlaces(ctx context.Context, location locationFilter, types []string) ([]placeInsight, error) {
	resp, err := c.computeInsights(ctx, insightPlaces, location, types)
	if err != nil {
		return nil, err
	}
	return resp.PlaceInsights, nil
}

func (c *Client) computeInsights(ctx context.Context, insight string, location locationFilter, types []string) (*insightsResponse, error) {
	reqBody := insightsRequest{
		Insights: []string{insight},
		Filter: insightsFilter{
			LocationFilter:  location,
			OperatingStatus: c.scan.OperatingStatus,
		},
	}
	if len(types) > 0 {
		reqBody.Filter.TypeFilter = &typeFilter{IncludedTypes: types}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal computeInsights request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.insightsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build computeInsights request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.authed.Do(req)
	if err != nil {
		return nil, fmt.Errorf("computeInsights request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read computeInsights response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("computeInsights returned status %d: %s", resp.StatusCode, truncate(body, 512))
	}

	var parsed insightsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("computeInsights returned non-JSON (status %d): %w", resp.StatusCode, err)
	}
	return &parsed, nil
}

// fetchDetails resolves a place resource name ("places/<id>") to a raw
// payload using the API-key authenticated Place Details endpoint.
func (c *Client) fetchDetails(ctx context.Context, resourceName string) (place.Raw, error) {
	u := c.detailsBase + resourceName + "?" + url.Values{"fields": {detailsFieldSet}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return place.Raw{}, fmt.Errorf("failed to build details request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.plain.Do(req)
	if err != nil {
		return place.Raw{}, fmt.Errorf("details request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return place.Raw{}, fmt.Errorf("failed to read details response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return place.Raw{}, fmt.Errorf("details returned status %d: %s", resp.StatusCode, truncate(body, 512))
	}

	var d placeDetails
	if err := json.Unmarshal(body, &d); err != nil {
		return place.Raw{}, fmt.Errorf("details returned non-JSON: %w", err)
	}
	return place.Raw{
		ID:             d.ID,
		ResourceName:   d.Name,
		DisplayName:    d.DisplayName.Text,
		BusinessStatus: d.BusinessStatus,
		Address:        d.FormattedAddress,
		Lat:            d.Location.Latitude,
		Lng:            d.Location.Longitude,
		Types:          d.Types,
		Rating:         d.Rating,
		RatingCount:    d.UserRatingCount,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
