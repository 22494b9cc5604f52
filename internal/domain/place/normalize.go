package place

import (
	"errors"
	"strings"
)

// Raw is the loosely typed payload coming back from the place details API.
// Missing optional fields are left as zero values by the decoder.
type Raw struct {
	ID             string
	ResourceName   string // "places/<id>" resource name, fallback identity
	DisplayName    string
	BusinessStatus string
	Address        string
	Lat            float64
	Lng            float64
	Types          []string
	Rating         float64
	RatingCount    int
}

// ErrMissingPlaceID marks a payload that carries no usable identity key.
// Such payloads are dropped by the caller, never retried.
var ErrMissingPlaceID = errors.New("place payload has no id")

// Normalize converts a raw payload into a canonical Record. The identity key
// falls back to the API resource name when the id field is absent. Grid
// coordinates are not produced by the area scan, so they stay zero.
func Normalize(raw Raw, keyword string) (Record, error) {
	id := raw.ID
	if id == "" {
		id = raw.ResourceName
	}
	if id == "" {
		return Record{}, ErrMissingPlaceID
	}
	return Record{
		PlaceID:        id,
		Name:           raw.DisplayName,
		BusinessStatus: raw.BusinessStatus,
		Address:        raw.Address,
		Lat:            raw.Lat,
		Lng:            raw.Lng,
		Types:          strings.Join(raw.Types, ","),
		Rating:         raw.Rating,
		RatingCount:    raw.RatingCount,
		Keyword:        keyword,
	}, nil
}

// MatchingKeywords returns the place's types that appear in the configured
// type list, preserving the place's own type order.
func MatchingKeywords(placeTypes, allowedTypes []string) string {
	if len(placeTypes) == 0 || len(allowedTypes) == 0 {
		return ""
	}
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}
	var matches []string
	for _, t := range placeTypes {
		if _, ok := allowed[t]; ok {
			matches = append(matches, t)
		}
	}
	return strings.Join(matches, ",")
}
