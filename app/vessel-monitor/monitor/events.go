package monitor

import (
	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/PugetTransitTools/ferrycast/business/data/wsfapi"
)

// tripEvent is a trip boundary or dock event detected by comparing a vessel's
// latest position report against its stored live trip
type tripEvent int

const (
	eventNone tripEvent = iota
	// eventFirstSeen fires when a vessel has no stored live trip yet
	eventFirstSeen
	// eventTripBoundary fires when the departing terminal changed
	eventTripBoundary
	// eventKeyChange fires when the schedule identity changed without a
	// terminal change, for example a later sailing of the same crossing
	eventKeyChange
	// eventDockArrival fires when AtDock flips false to true
	eventDockArrival
	// eventDockDeparture fires when LeftDock becomes defined
	eventDockDeparture
)

func (e tripEvent) String() string {
	switch e {
	case eventNone:
		return "none"
	case eventFirstSeen:
		return "first-seen"
	case eventTripBoundary:
		return "trip-boundary"
	case eventKeyChange:
		return "key-change"
	case eventDockArrival:
		return "dock-arrival"
	case eventDockDeparture:
		return "dock-departure"
	}
	return "unknown"
}

// observation is one deduplicated position report with its derived schedule key
type observation struct {
	loc wsfapi.VesselLocation
	// key is nil when the report lacks the fields needed to identify a trip
	key *string
}

// makeObservation derives the schedule key for a raw position report. Reports
// without a scheduled departure cannot be matched to the schedule and carry a
// nil key.
func makeObservation(loc wsfapi.VesselLocation) observation {
	obs := observation{loc: loc}
	key, err := wsf.GenerateTripKey(loc.VesselAbbrev, loc.DepartingTerminalAbbrev,
		loc.ArrivingTerminalAbbrev, wsfapi.TimeOrNil(loc.ScheduledDeparture))
	if err == nil {
		obs.key = &key
	}
	return obs
}

// detectTripEvent determines which event, if any, the latest observation
// represents relative to the stored live trip. Check order matters: a terminal
// change is a trip boundary even when dock flags also changed.
func detectTripEvent(prev *wsf.VesselTrip, obs observation) tripEvent {
	if prev == nil {
		return eventFirstSeen
	}
	if obs.loc.DepartingTerminalAbbrev != prev.DepartingTerminalAbbrev {
		return eventTripBoundary
	}
	if !sameKey(prev.Key, obs.key) {
		return eventKeyChange
	}
	if obs.loc.AtDock && !prev.AtDock {
		return eventDockArrival
	}
	if wsfapi.TimeOrNil(obs.loc.LeftDock) != nil && prev.LeftDock == nil {
		return eventDockDeparture
	}
	return eventNone
}

func sameKey(k1 *string, k2 *string) bool {
	if k1 == nil || k2 == nil {
		return k1 == nil && k2 == nil
	}
	return *k1 == *k2
}

// tripTransition lists the field groups the orchestrator writes for one event
// type, keeping the state machine's transitions auditable
type tripTransition struct {
	// resetIdentity rewrites the schedule identity fields from the observation
	resetIdentity bool
	// rollPrevFields moves the current scheduled departure and left dock time
	// into the denormalized previous trip fields
	rollPrevFields bool
	// startTrip clears TripEnd and LeftDock for a newly begun trip
	startTrip bool
	// endTrip stamps TripEnd
	endTrip bool
	// clearPredictions drops all prediction slots before recomputing
	clearPredictions bool
	// slots are the prediction slots recomputed for this event
	slots []PredictionSlot
}

// transitionFor maps an event to the fields it touches. atDock selects the
// prediction slots relevant to the vessel's phase when identity changes.
func transitionFor(event tripEvent, atDock bool) tripTransition {
	atDockSlots := []PredictionSlot{SlotAtDockDepartCurr, SlotAtDockArriveNext, SlotAtDockDepartNext}
	atSeaSlots := []PredictionSlot{SlotAtSeaArriveNext, SlotAtSeaDepartNext}

	switch event {
	case eventFirstSeen:
		slots := atSeaSlots
		if atDock {
			slots = atDockSlots
		}
		return tripTransition{resetIdentity: true, startTrip: true, clearPredictions: true, slots: slots}
	case eventTripBoundary:
		slots := atSeaSlots
		if atDock {
			slots = atDockSlots
		}
		return tripTransition{resetIdentity: true, rollPrevFields: true, startTrip: true,
			clearPredictions: true, slots: slots}
	case eventKeyChange:
		slots := atSeaSlots
		if atDock {
			slots = atDockSlots
		}
		return tripTransition{resetIdentity: true, clearPredictions: true, slots: slots}
	case eventDockArrival:
		return tripTransition{endTrip: true, slots: []PredictionSlot{SlotAtDockDepartCurr, SlotAtDockArriveNext}}
	case eventDockDeparture:
		return tripTransition{slots: atSeaSlots}
	}
	return tripTransition{}
}
