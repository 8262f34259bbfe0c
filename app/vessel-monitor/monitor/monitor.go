// Package monitor watches the WSF vessel position feed and maintains each
// vessel's live trip record
package monitor

import (
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/PugetTransitTools/ferrycast/business/data/wsfapi"
	"github.com/jmoiron/sqlx"
)

// TickResult reports what one monitor tick accomplished. Subroutine failures
// are isolated: a tick completes with partial success detail, it never throws
// past the orchestrator boundary.
type TickResult struct {
	LocationsSuccess bool          `json:"locations_success"`
	TripsSuccess     bool          `json:"trips_success"`
	Vessels          int           `json:"vessels"`
	Events           []VesselEvent `json:"events,omitempty"`
	Errors           []string      `json:"errors,omitempty"`
}

// VesselEvent is one trip event observed during a tick
type VesselEvent struct {
	VesselAbbrev string    `json:"vessel_abbrev"`
	Event        string    `json:"event"`
	At           time.Time `json:"at"`
}

// RunVesselMonitorLoop starts the loop that polls the vessel position feed
// every loopEverySeconds and advances live trip state, until shutdownSignal
func RunVesselMonitorLoop(log *log.Logger,
	db *sqlx.DB,
	client *wsfapi.Client,
	predictor Predictor,
	publisher *tickResultsPublisher,
	metrics *Collector,
	loopEverySeconds int,
	shutdownSignal chan os.Signal) error {

	loopDuration := time.Duration(loopEverySeconds) * time.Second

	sleepChan := make(chan bool)
	sleep := time.Duration(0) //run immediately the first time

	stores := &dbStores{db: db}
	orchestrator := makeTripOrchestrator(log, stores, stores, predictor, metrics)

	for {
		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("Exiting on shutdown signal")
			return nil
		case <-sleepChan:
		}

		sleep = loopDuration
		start := time.Now()

		locations, err := client.FetchVesselLocations()
		if err != nil {
			log.Printf("error attempting to get vessel locations. error:%v", err)
			continue
		}
		metrics.LocationsObserved(len(locations))

		result := runTick(log, db, orchestrator, metrics, locations)
		publisher.publish(&result)

		workTook := time.Now().Sub(start)
		metrics.TickCompleted(workTook)

		if workTook >= loopDuration {
			sleep = time.Duration(0)
		} else {
			sleep = loopDuration - workTook
		}
	}
}

// runTick deduplicates the fetched positions and runs the two tick
// subroutines, location persistence and trip orchestration, concurrently.
// Dedupe always completes before either subroutine runs; the subroutines have
// no ordering requirement relative to each other and their failures are
// isolated.
func runTick(log *log.Logger,
	db *sqlx.DB,
	orchestrator *tripOrchestrator,
	metrics *Collector,
	locations []wsfapi.VesselLocation) TickResult {

	latest := latestLocationPerVessel(locations)

	result := TickResult{Vessels: len(latest)}
	var locationErrs, tripErrs []string

	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		locationErrs = recordLocations(log, db, latest)
	}()
	go func() {
		defer wg.Done()
		result.Events, tripErrs = advanceVesselTrips(log, orchestrator, latest)
	}()
	wg.Wait()

	result.LocationsSuccess = len(locationErrs) == 0
	result.TripsSuccess = len(tripErrs) == 0
	if !result.LocationsSuccess {
		metrics.SubroutineFailed("locations")
	}
	if !result.TripsSuccess {
		metrics.SubroutineFailed("trips")
	}
	result.Errors = append(locationErrs, tripErrs...)
	return result
}

// latestLocationPerVessel reduces a position snapshot to one report per
// vessel. Reports are sorted ascending by timestamp and folded into a map so
// the newest report wins.
func latestLocationPerVessel(locations []wsfapi.VesselLocation) map[string]wsfapi.VesselLocation {
	sorted := make([]wsfapi.VesselLocation, len(locations))
	copy(sorted, locations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeStamp.Time.Before(sorted[j].TimeStamp.Time)
	})
	latest := make(map[string]wsfapi.VesselLocation)
	for _, location := range sorted {
		if location.VesselAbbrev == "" {
			continue
		}
		latest[location.VesselAbbrev] = location
	}
	return latest
}

// recordLocations persists the deduplicated location records, continuing past
// per vessel failures
func recordLocations(log *log.Logger, db *sqlx.DB, latest map[string]wsfapi.VesselLocation) []string {
	var errs []string
	for _, abbrev := range sortedVessels(latest) {
		location := toDomainLocation(latest[abbrev])
		if err := wsf.RecordVesselLocation(db, location); err != nil {
			log.Printf("error recording location for vessel %s: %v", abbrev, err)
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// advanceVesselTrips runs the orchestrator over each vessel's latest report
func advanceVesselTrips(log *log.Logger,
	orchestrator *tripOrchestrator,
	latest map[string]wsfapi.VesselLocation) ([]VesselEvent, []string) {

	var events []VesselEvent
	var errs []string
	for _, abbrev := range sortedVessels(latest) {
		location := latest[abbrev]
		event, err := orchestrator.advanceVessel(location)
		if err != nil {
			log.Printf("error advancing trip for vessel %s: %v", abbrev, err)
			errs = append(errs, err.Error())
			continue
		}
		if event != eventNone {
			events = append(events, VesselEvent{
				VesselAbbrev: abbrev,
				Event:        event.String(),
				At:           location.TimeStamp.Time,
			})
		}
	}
	return events, errs
}

func sortedVessels(latest map[string]wsfapi.VesselLocation) []string {
	vessels := make([]string, 0, len(latest))
	for abbrev := range latest {
		vessels = append(vessels, abbrev)
	}
	sort.Strings(vessels)
	return vessels
}

// toDomainLocation converts a raw feed report into the persisted location record
func toDomainLocation(loc wsfapi.VesselLocation) *wsf.VesselLocation {
	return &wsf.VesselLocation{
		VesselId:                loc.VesselID,
		VesselAbbrev:            loc.VesselAbbrev,
		DepartingTerminalAbbrev: loc.DepartingTerminalAbbrev,
		ArrivingTerminalAbbrev:  loc.ArrivingTerminalAbbrev,
		Latitude:                loc.Latitude,
		Longitude:               loc.Longitude,
		Heading:                 loc.Heading,
		Speed:                   loc.Speed,
		AtDock:                  loc.AtDock,
		InService:               loc.InService,
		LeftDock:                wsfapi.TimeOrNil(loc.LeftDock),
		Eta:                     wsfapi.TimeOrNil(loc.Eta),
		ScheduledDeparture:      wsfapi.TimeOrNil(loc.ScheduledDeparture),
		TimeStamp:               loc.TimeStamp.Time,
	}
}
