package syncer

import (
	"fmt"
	"log"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/PugetTransitTools/ferrycast/business/data/wsfapi"
)

// AbbrevLookup resolves display names from the schedule feed to internal abbreviations
type AbbrevLookup interface {
	VesselAbbrev(name string) (string, bool)
	TerminalAbbrev(name string) (string, bool)
}

// CrossingTimes supplies official published crossing minutes per route leg
type CrossingTimes interface {
	CrossingMinutes(routeAbbrev string, departingTerminalAbbrev string, arrivingTerminalAbbrev string) (int, bool)
}

// mapSailing builds one wsf.ScheduledTrip from a raw sailing record and its
// terminal combination context. Returns an error when any of the three
// abbreviations cannot be resolved or the trip key cannot be generated; the
// caller logs and drops that sailing.
//
// TripType is provisionally direct here, classifyTrips owns the final value.
func mapSailing(sailing wsfapi.SailingTime,
	combo wsfapi.TerminalCombo,
	route wsfapi.Route,
	sailingDay string,
	lookup AbbrevLookup) (*wsf.ScheduledTrip, error) {

	vesselAbbrev, ok := lookup.VesselAbbrev(sailing.VesselName)
	if !ok {
		return nil, fmt.Errorf("no abbreviation for vessel %q", sailing.VesselName)
	}
	departingAbbrev, ok := lookup.TerminalAbbrev(combo.DepartingTerminalName)
	if !ok {
		return nil, fmt.Errorf("no abbreviation for departing terminal %q", combo.DepartingTerminalName)
	}
	arrivingAbbrev, ok := lookup.TerminalAbbrev(combo.ArrivingTerminalName)
	if !ok {
		return nil, fmt.Errorf("no abbreviation for arriving terminal %q", combo.ArrivingTerminalName)
	}

	// a null feed departure decodes to the zero time; treat it as absent so the
	// sailing is dropped instead of keyed off the zero instant
	departingTime := wsfapi.TimeOrNil(&sailing.DepartingTime)
	key, err := wsf.GenerateTripKey(vesselAbbrev, departingAbbrev, arrivingAbbrev, departingTime)
	if err != nil {
		return nil, err
	}

	return &wsf.ScheduledTrip{
		Key:                     key,
		SailingDay:              sailingDay,
		VesselAbbrev:            vesselAbbrev,
		DepartingTerminalAbbrev: departingAbbrev,
		ArrivingTerminalAbbrev:  arrivingAbbrev,
		DepartingTime:           *departingTime,
		ArrivingTime:            wsfapi.TimeOrNil(sailing.ArrivingTime),
		SailingNotes:            combo.SailingNotes,
		Annotations:             annotationsForIndexes(combo.Annotations, sailing.AnnotationIndexes),
		RouteId:                 route.RouteID,
		RouteAbbrev:             route.RouteAbbrev,
		TripType:                wsf.TripTypeDirect,
	}, nil
}

// annotationsForIndexes extracts annotation strings by index, silently skipping
// out of range indexes
func annotationsForIndexes(annotations []string, indexes []int) wsf.Annotations {
	var result wsf.Annotations
	for _, index := range indexes {
		if index < 0 || index >= len(annotations) {
			continue
		}
		result = append(result, annotations[index])
	}
	return result
}

// mapSchedule produces trips for every sailing in schedule, logging and
// dropping sailings whose identity cannot be resolved
func mapSchedule(log *log.Logger,
	schedule *wsfapi.Schedule,
	route wsfapi.Route,
	sailingDay string,
	lookup AbbrevLookup) []*wsf.ScheduledTrip {

	var trips []*wsf.ScheduledTrip
	for _, combo := range schedule.TerminalCombos {
		for _, sailing := range combo.Times {
			trip, err := mapSailing(sailing, combo, route, sailingDay, lookup)
			if err != nil {
				log.Printf("dropping sailing on route %s: %v", route.RouteAbbrev, err)
				continue
			}
			trips = append(trips, trip)
		}
	}
	return trips
}
