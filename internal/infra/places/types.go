package places

// Wire shapes for the Area Insights and Place Details REST APIs.

type insightsRequest struct {
	Insights []string       `json:"insights"`
	Filter   insightsFilter `json:"filter"`
}

type insightsFilter struct {
	LocationFilter  locationFilter `json:"locationFilter"`
	TypeFilter      *typeFilter    `json:"typeFilter,omitempty"`
	OperatingStatus []string       `json:"operatingStatus,omitempty"`
}

type locationFilter struct {
	Circle *circleFilter `json:"circle,omitempty"`
}

type circleFilter struct {
	LatLng latLng `json:"latLng"`
	Radius int    `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type typeFilter struct {
	IncludedTypes []string `json:"includedTypes"`
}

type insightsResponse struct {
	Count         string         `json:"count"` // int64 serialized as string
	PlaceInsights []placeInsight `json:"placeInsights"`
}

type placeInsight struct {
	Place string `json:"place"` // resource name, "places/<id>"
}

type placeDetails struct {
	ID          string `json:"id"`
	Name        string `json:"name"` // resource name
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Types           []string `json:"types"`
	Rating          float64  `json:"rating"`
	UserRatingCount int      `json:"userRatingCount"`
	BusinessStatus  string   `json:"businessStatus"`
}
