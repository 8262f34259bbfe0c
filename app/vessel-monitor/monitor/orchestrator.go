package monitor

import (
	"errors"
	"log"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/PugetTransitTools/ferrycast/business/data/wsfapi"
	"github.com/jmoiron/sqlx"
)

// scheduleStore provides the persisted schedule the orchestrator matches
// live trips against
type scheduleStore interface {
	GetScheduledTripByKey(key string) (*wsf.ScheduledTrip, error)
}

// tripStore owns the single mutable live trip record per vessel
type tripStore interface {
	GetVesselTrip(vesselAbbrev string) (*wsf.VesselTrip, error)
	SaveVesselTrip(trip *wsf.VesselTrip) error
}

// dbStores backs the orchestrator stores with the database
type dbStores struct {
	db *sqlx.DB
}

func (d *dbStores) GetScheduledTripByKey(key string) (*wsf.ScheduledTrip, error) {
	return wsf.GetScheduledTripByKey(d.db, key)
}

func (d *dbStores) GetVesselTrip(vesselAbbrev string) (*wsf.VesselTrip, error) {
	return wsf.GetVesselTrip(d.db, vesselAbbrev)
}

func (d *dbStores) SaveVesselTrip(trip *wsf.VesselTrip) error {
	return wsf.SaveVesselTrip(d.db, trip)
}

// tripOrchestrator advances each vessel's live trip record from deduplicated
// position reports. Expensive work, the schedule lookup and prediction calls,
// only happens when an event fired.
type tripOrchestrator struct {
	log       *log.Logger
	schedule  scheduleStore
	trips     tripStore
	predictor Predictor
	metrics   *Collector
}

func makeTripOrchestrator(log *log.Logger,
	schedule scheduleStore,
	trips tripStore,
	predictor Predictor,
	metrics *Collector) *tripOrchestrator {
	return &tripOrchestrator{
		log:       log,
		schedule:  schedule,
		trips:     trips,
		predictor: predictor,
		metrics:   metrics,
	}
}

// advanceVessel processes one vessel's latest report and writes the updated
// live trip record, returning the event that fired
func (o *tripOrchestrator) advanceVessel(loc wsfapi.VesselLocation) (tripEvent, error) {
	prev, err := o.trips.GetVesselTrip(loc.VesselAbbrev)
	if err != nil {
		return eventNone, err
	}
	obs := makeObservation(loc)
	event := detectTripEvent(prev, obs)
	o.metrics.EventObserved(event.String())

	if event == eventNone {
		applyHeartbeat(prev, obs)
		return event, o.trips.SaveVesselTrip(prev)
	}

	trip := o.applyTransition(prev, obs, event)
	validateDeparture(o.log, o.metrics, trip)
	return event, o.trips.SaveVesselTrip(trip)
}

// applyHeartbeat refreshes only the cheap fields on a live trip between events
func applyHeartbeat(trip *wsf.VesselTrip, obs observation) {
	trip.AtDock = obs.loc.AtDock
	trip.InService = obs.loc.InService
	trip.Eta = wsfapi.TimeOrNil(obs.loc.Eta)
	if leftDock := wsfapi.TimeOrNil(obs.loc.LeftDock); leftDock != nil {
		trip.LeftDock = leftDock
	}
	trip.TimeStamp = obs.loc.TimeStamp.Time
}

// applyTransition builds the updated live trip record for an event, touching
// only the field groups the event's transition names
func (o *tripOrchestrator) applyTransition(prev *wsf.VesselTrip, obs observation, event tripEvent) *wsf.VesselTrip {
	transition := transitionFor(event, obs.loc.AtDock)

	trip := prev
	if trip == nil {
		trip = &wsf.VesselTrip{VesselAbbrev: obs.loc.VesselAbbrev}
	}

	if transition.rollPrevFields {
		trip.PrevScheduledDeparture = trip.ScheduledDeparture
		trip.PrevLeftDock = trip.LeftDock
	}
	if transition.resetIdentity {
		trip.Key = obs.key
		trip.DepartingTerminalAbbrev = obs.loc.DepartingTerminalAbbrev
		trip.ArrivingTerminalAbbrev = obs.loc.ArrivingTerminalAbbrev
		trip.RouteAbbrev = obs.loc.RouteAbbrev()
		trip.ScheduledDeparture = wsfapi.TimeOrNil(obs.loc.ScheduledDeparture)
		trip.SailingDay = ""
		if departure := trip.ScheduledDeparture; departure != nil {
			trip.SailingDay = wsf.SailingDayFor(*departure)
		}
		o.resolveScheduleMatch(trip, obs)
	}
	if transition.startTrip {
		start := obs.loc.TimeStamp.Time
		trip.TripStart = &start
		trip.TripEnd = nil
		trip.LeftDock = nil
	}
	if transition.endTrip {
		end := obs.loc.TimeStamp.Time
		trip.TripEnd = &end
	}
	if transition.clearPredictions {
		trip.AtDockDepartCurr = nil
		trip.AtDockArriveNext = nil
		trip.AtDockDepartNext = nil
		trip.AtSeaArriveNext = nil
		trip.AtSeaDepartNext = nil
	}

	applyHeartbeat(trip, obs)
	o.fillPredictions(trip, transition.slots, obs)
	return trip
}

// resolveScheduleMatch looks the observation's key up in the persisted
// schedule and refines identity fields the position feed renders loosely.
// A missing schedule match is logged and the trip continues unmatched.
func (o *tripOrchestrator) resolveScheduleMatch(trip *wsf.VesselTrip, obs observation) {
	if obs.key == nil {
		return
	}
	scheduled, err := o.schedule.GetScheduledTripByKey(*obs.key)
	if err != nil {
		var missing *wsf.MissingScheduledTrip
		if errors.As(err, &missing) {
			o.log.Printf("no schedule match for vessel %s key %s", obs.loc.VesselAbbrev, *obs.key)
		} else {
			o.log.Printf("error resolving schedule for vessel %s: %v", obs.loc.VesselAbbrev, err)
		}
		return
	}
	trip.SailingDay = scheduled.SailingDay
	trip.RouteAbbrev = scheduled.RouteAbbrev
	if trip.ArrivingTerminalAbbrev == "" {
		trip.ArrivingTerminalAbbrev = scheduled.ArrivingTerminalAbbrev
	}
}

// fillPredictions requests new predictions for the slots the fired event owns.
// Prediction failures are logged and leave the slot empty, never fatal.
func (o *tripOrchestrator) fillPredictions(trip *wsf.VesselTrip, slots []PredictionSlot, obs observation) {
	if o.predictor == nil || len(slots) == 0 {
		return
	}
	ctx := makePredictionContext(trip, obs.loc)
	for _, slot := range slots {
		prediction, err := o.predictor.Predict(slot, ctx)
		if err != nil {
			o.metrics.PredictionFailed()
			o.log.Printf("prediction %s failed for vessel %s: %v", slot, trip.VesselAbbrev, err)
			continue
		}
		o.metrics.PredictionMade()
		switch slot {
		case SlotAtDockDepartCurr:
			trip.AtDockDepartCurr = prediction
		case SlotAtDockArriveNext:
			trip.AtDockArriveNext = prediction
		case SlotAtDockDepartNext:
			trip.AtDockDepartNext = prediction
		case SlotAtSeaArriveNext:
			trip.AtSeaArriveNext = prediction
		case SlotAtSeaDepartNext:
			trip.AtSeaDepartNext = prediction
		}
	}
}

// makePredictionContext assembles the vessel context sent with every
// prediction request
func makePredictionContext(trip *wsf.VesselTrip, loc wsfapi.VesselLocation) PredictionContext {
	return PredictionContext{
		VesselAbbrev:            trip.VesselAbbrev,
		DepartingTerminalAbbrev: trip.DepartingTerminalAbbrev,
		ArrivingTerminalAbbrev:  trip.ArrivingTerminalAbbrev,
		RouteAbbrev:             trip.RouteAbbrev,
		ScheduledDeparture:      trip.ScheduledDeparture,
		PrevScheduledDeparture:  trip.PrevScheduledDeparture,
		PrevLeftDock:            trip.PrevLeftDock,
		LeftDock:                trip.LeftDock,
		Eta:                     trip.Eta,
		AtDock:                  loc.AtDock,
		Latitude:                loc.Latitude,
		Longitude:               loc.Longitude,
		Speed:                   loc.Speed,
		Heading:                 loc.Heading,
		At:                      loc.TimeStamp.Time,
	}
}

// earlyDepartureTolerance is how far before the scheduled departure an actual
// dock departure is treated as a feed or trip matching mismatch
const earlyDepartureTolerance = 10 * time.Minute

// validateDeparture flags, log only, vessels whose actual dock departure
// precedes the scheduled departure by more than the tolerance
func validateDeparture(log *log.Logger, metrics *Collector, trip *wsf.VesselTrip) {
	if trip.LeftDock == nil || trip.ScheduledDeparture == nil {
		return
	}
	early := trip.ScheduledDeparture.Sub(*trip.LeftDock)
	if early > earlyDepartureTolerance {
		metrics.EarlyDepartureObserved()
		log.Printf("vessel %s left dock %s before scheduled departure %s, possible trip mismatch",
			trip.VesselAbbrev, early, trip.ScheduledDeparture.Format("15:04"))
	}
}
