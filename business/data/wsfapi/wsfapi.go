// Package wsfapi retrieves schedule and vessel position data from the WSDOT
// ferries REST API and loads it into plain structs. Any changes to the feed's
// shape can be handled here and not elsewhere in the program.
package wsfapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PugetTransitTools/ferrycast/foundation/httpclient"
)

const (
	defaultScheduleBaseURL = "https://www.wsdot.wa.gov/ferries/api/schedule/rest"
	defaultVesselsBaseURL  = "https://www.wsdot.wa.gov/ferries/api/vessels/rest"
	tripDateFormat         = "2006-01-02"
)

// Route identifies one ferry route available on a trip date
type Route struct {
	RouteID     int    `json:"RouteID"`
	RouteAbbrev string `json:"RouteAbbrev"`
	Description string `json:"Description"`
}

// Schedule is the raw per route schedule payload for one trip date
type Schedule struct {
	ScheduleID     int             `json:"ScheduleID"`
	ScheduleName   string          `json:"ScheduleName"`
	TerminalCombos []TerminalCombo `json:"TerminalCombos"`
}

// TerminalCombo groups the sailings between one departing and arriving
// terminal pair, with the annotation strings its sailings index into
type TerminalCombo struct {
	DepartingTerminalName string        `json:"DepartingTerminalName"`
	ArrivingTerminalName  string        `json:"ArrivingTerminalName"`
	SailingNotes          string        `json:"SailingNotes"`
	Annotations           []string      `json:"Annotations"`
	Times                 []SailingTime `json:"Times"`
}

// SailingTime is one raw scheduled sailing
type SailingTime struct {
	VesselName        string      `json:"VesselName"`
	DepartingTime     DotNetTime  `json:"DepartingTime"`
	ArrivingTime      *DotNetTime `json:"ArrivingTime"`
	AnnotationIndexes []int       `json:"AnnotationIndexes"`
}

// VesselLocation is one raw vessel position report from the vessels feed
type VesselLocation struct {
	VesselID                int         `json:"VesselID"`
	VesselName              string      `json:"VesselName"`
	VesselAbbrev            string      `json:"VesselAbbrev"`
	DepartingTerminalAbbrev string      `json:"DepartingTerminalAbbrev"`
	ArrivingTerminalAbbrev  string      `json:"ArrivingTerminalAbbrev"`
	Latitude                float64     `json:"Latitude"`
	Longitude               float64     `json:"Longitude"`
	Speed                   float64     `json:"Speed"`
	Heading                 float64     `json:"Heading"`
	InService               bool        `json:"InService"`
	AtDock                  bool        `json:"AtDock"`
	LeftDock                *DotNetTime `json:"LeftDock"`
	Eta                     *DotNetTime `json:"Eta"`
	ScheduledDeparture      *DotNetTime `json:"ScheduledDeparture"`
	OpRouteAbbrev           []string    `json:"OpRouteAbbrev"`
	TimeStamp               DotNetTime  `json:"TimeStamp"`
}

// RouteAbbrev returns the first operational route abbreviation for the vessel,
// or empty when the feed supplies none
func (v *VesselLocation) RouteAbbrev() string {
	if len(v.OpRouteAbbrev) == 0 {
		return ""
	}
	return v.OpRouteAbbrev[0]
}

// Client calls the WSDOT ferries REST API. Every fetch retries exactly once
// after RetryDelay; a second failure propagates to the caller.
type Client struct {
	ScheduleBaseURL string
	VesselsBaseURL  string
	APIKey          string
	RetryDelay      time.Duration
	HTTPClient      *http.Client
}

// NewClient builds a Client with production endpoints and apiKey
func NewClient(apiKey string, retryDelay time.Duration) *Client {
	return &Client{
		ScheduleBaseURL: defaultScheduleBaseURL,
		VesselsBaseURL:  defaultVesselsBaseURL,
		APIKey:          apiKey,
		RetryDelay:      retryDelay,
		HTTPClient:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchRoutesByTripDate retrieves all routes in service on tripDate
func (c *Client) FetchRoutesByTripDate(tripDate time.Time) ([]Route, error) {
	url := fmt.Sprintf("%s/routes/%s?apiaccesscode=%s",
		c.ScheduleBaseURL, tripDate.Format(tripDateFormat), c.APIKey)
	var routes []Route
	err := httpclient.GetJSONRetryOnce(c.HTTPClient, url, c.RetryDelay, &routes)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch routes for %s: %w", tripDate.Format(tripDateFormat), err)
	}
	return routes, nil
}

// FetchScheduleByTripDateAndRouteID retrieves the schedule payload for one
// route on tripDate
func (c *Client) FetchScheduleByTripDateAndRouteID(tripDate time.Time, routeID int) (*Schedule, error) {
	url := fmt.Sprintf("%s/schedule/%s/%d?apiaccesscode=%s",
		c.ScheduleBaseURL, tripDate.Format(tripDateFormat), routeID, c.APIKey)
	schedule := Schedule{}
	err := httpclient.GetJSONRetryOnce(c.HTTPClient, url, c.RetryDelay, &schedule)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch schedule for route %d on %s: %w",
			routeID, tripDate.Format(tripDateFormat), err)
	}
	return &schedule, nil
}

// FetchVesselLocations retrieves the current position snapshot for all vessels
func (c *Client) FetchVesselLocations() ([]VesselLocation, error) {
	url := fmt.Sprintf("%s/vessellocations?apiaccesscode=%s", c.VesselsBaseURL, c.APIKey)
	var locations []VesselLocation
	err := httpclient.GetJSONRetryOnce(c.HTTPClient, url, c.RetryDelay, &locations)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch vessel locations: %w", err)
	}
	return locations, nil
}
