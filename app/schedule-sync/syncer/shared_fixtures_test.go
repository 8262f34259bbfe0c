package syncer

import (
	"fmt"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
)

// testLocation is loaded once for every syncer test
var testLocation *time.Location

func init() {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		panic(err)
	}
	testLocation = location
}

func testDay(hour int, minute int) time.Time {
	return time.Date(2022, 5, 22, hour, minute, 0, 0, testLocation)
}

// testTrip builds a scheduled trip the way mapSailing would, with a generated
// key and a provisional direct trip type
func testTrip(vesselAbbrev string, departingAbbrev string, arrivingAbbrev string,
	departing time.Time) *wsf.ScheduledTrip {
	key, err := wsf.GenerateTripKey(vesselAbbrev, departingAbbrev, arrivingAbbrev, &departing)
	if err != nil {
		panic(fmt.Sprintf("unable to build test trip: %v", err))
	}
	return &wsf.ScheduledTrip{
		Key:                     key,
		SailingDay:              wsf.SailingDayFor(departing),
		VesselAbbrev:            vesselAbbrev,
		DepartingTerminalAbbrev: departingAbbrev,
		ArrivingTerminalAbbrev:  arrivingAbbrev,
		DepartingTime:           departing,
		RouteId:                 7,
		RouteAbbrev:             "muk-cl",
		TripType:                wsf.TripTypeDirect,
	}
}

// fakeLookup resolves feed display names for mapper tests
type fakeLookup struct {
	vessels   map[string]string
	terminals map[string]string
}

func (f *fakeLookup) VesselAbbrev(name string) (string, bool) {
	abbrev, ok := f.vessels[name]
	return abbrev, ok
}

func (f *fakeLookup) TerminalAbbrev(name string) (string, bool) {
	abbrev, ok := f.terminals[name]
	return abbrev, ok
}

// fakeCrossings supplies crossing minutes keyed by departing-arriving terminal pair
type fakeCrossings map[string]int

func (f fakeCrossings) CrossingMinutes(_ string, departingTerminalAbbrev string,
	arrivingTerminalAbbrev string) (int, bool) {
	minutes, ok := f[departingTerminalAbbrev+"-"+arrivingTerminalAbbrev]
	return minutes, ok
}
