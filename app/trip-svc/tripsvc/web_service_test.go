package tripsvc

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/matryer/is"
)

type fakeTripData struct {
	vesselTrips    map[string]*wsf.VesselTrip
	scheduledTrips map[string][]*wsf.ScheduledTrip
	keyRequests    [][]string
}

func (f *fakeTripData) GetAllVesselTrips() ([]*wsf.VesselTrip, error) {
	var trips []*wsf.VesselTrip
	for _, trip := range f.vesselTrips {
		trips = append(trips, trip)
	}
	return trips, nil
}

func (f *fakeTripData) GetVesselTrip(vesselAbbrev string) (*wsf.VesselTrip, error) {
	return f.vesselTrips[vesselAbbrev], nil
}

func (f *fakeTripData) GetScheduledTripsBySailingDay(sailingDay string) ([]*wsf.ScheduledTrip, error) {
	return f.scheduledTrips[sailingDay], nil
}

func (f *fakeTripData) GetScheduledTripsByKeys(sailingDay string, keys []string) ([]*wsf.ScheduledTrip, error) {
	f.keyRequests = append(f.keyRequests, keys)
	var matched []*wsf.ScheduledTrip
	for _, trip := range f.scheduledTrips[sailingDay] {
		for _, key := range keys {
			if trip.Key == key {
				matched = append(matched, trip)
			}
		}
	}
	return matched, nil
}

func testServiceData() *fakeTripData {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		panic(err)
	}
	departing := time.Date(2022, 5, 22, 8, 0, 0, 0, location)
	key := "TOK--2022-05-22--08:00--MUK-CLI"
	nextKey := "TOK--2022-05-22--08:30--CLI-MUK"
	return &fakeTripData{
		vesselTrips: map[string]*wsf.VesselTrip{
			"TOK": {
				VesselAbbrev:            "TOK",
				Key:                     &key,
				SailingDay:              "2022-05-22",
				DepartingTerminalAbbrev: "MUK",
				ArrivingTerminalAbbrev:  "CLI",
				AtDock:                  true,
			},
		},
		scheduledTrips: map[string][]*wsf.ScheduledTrip{
			"2022-05-22": {
				{
					Key:           key,
					SailingDay:    "2022-05-22",
					VesselAbbrev:  "TOK",
					DepartingTime: departing,
					TripType:      wsf.TripTypeDirect,
				},
				{
					Key:           nextKey,
					SailingDay:    "2022-05-22",
					VesselAbbrev:  "TOK",
					DepartingTime: departing.Add(30 * time.Minute),
					TripType:      wsf.TripTypeDirect,
				},
			},
		},
	}
}

func testServer(data *fakeTripData) *httptest.Server {
	discard := log.New(io.Discard, "", 0)
	return httptest.NewServer(makeRouter(discard, data))
}

func getBody(t *testing.T, url string, wantStatus int) []byte {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != wantStatus {
		t.Fatalf("status = %d, want %d", resp.StatusCode, wantStatus)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return body
}

func TestVesselTripRoutes(t *testing.T) {
	is := is.New(t)
	server := testServer(testServiceData())
	defer server.Close()

	var wrapper JsonVesselTripResponseWrapper
	body := getBody(t, server.URL+"/vesseltrips", http.StatusOK)
	is.NoErr(json.Unmarshal(body, &wrapper))
	is.Equal(len(wrapper.VesselTrips), 1)
	is.Equal(wrapper.VesselTrips[0].VesselAbbrev, "TOK")

	// vessel names are case insensitive in the route
	body = getBody(t, server.URL+"/vesseltrips/tok", http.StatusOK)
	is.NoErr(json.Unmarshal(body, &wrapper))
	is.Equal(len(wrapper.VesselTrips), 1)

	getBody(t, server.URL+"/vesseltrips/XYZ", http.StatusNotFound)
}

func TestScheduledTripRoutes(t *testing.T) {
	is := is.New(t)
	data := testServiceData()
	server := testServer(data)
	defer server.Close()

	var wrapper JsonScheduledTripResponseWrapper
	body := getBody(t, server.URL+"/scheduledtrips/2022-05-22", http.StatusOK)
	is.NoErr(json.Unmarshal(body, &wrapper))
	is.Equal(wrapper.SailingDay, "2022-05-22")
	is.Equal(len(wrapper.ScheduledTrips), 2)

	// key filters narrow the day to the requested trip chain
	body = getBody(t,
		server.URL+"/scheduledtrips/2022-05-22?key=TOK--2022-05-22--08:00--MUK-CLI",
		http.StatusOK)
	is.NoErr(json.Unmarshal(body, &wrapper))
	is.Equal(len(wrapper.ScheduledTrips), 1)
	is.Equal(wrapper.ScheduledTrips[0].Key, "TOK--2022-05-22--08:00--MUK-CLI")
	is.Equal(len(data.keyRequests), 1)

	// a day with no schedule serves an empty set, not an error
	body = getBody(t, server.URL+"/scheduledtrips/2022-06-01", http.StatusOK)
	is.NoErr(json.Unmarshal(body, &wrapper))
	is.Equal(len(wrapper.ScheduledTrips), 0)

	getBody(t, server.URL+"/scheduledtrips/not-a-day", http.StatusBadRequest)
}
