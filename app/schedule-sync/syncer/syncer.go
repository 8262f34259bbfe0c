// Package syncer downloads WSF schedules and reconciles them against the
// persisted scheduled trip store
package syncer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/PugetTransitTools/ferrycast/business/data/wsfapi"
	"github.com/jmoiron/sqlx"
)

// ReferenceData combines the static lookups the pipeline needs
type ReferenceData interface {
	AbbrevLookup
	CrossingTimes
}

// RouteSyncOutcome reports the result of syncing one route, including the
// classification warnings the feed produced. Err is route scoped; sibling
// routes are unaffected.
type RouteSyncOutcome struct {
	Route    wsfapi.Route
	Result   SyncResult
	Warnings []ClassificationWarning
	Err      error
}

// SyncTripDate downloads every route's schedule for tripDate, runs the
// mapping, classification and estimation pipeline, and reconciles each route
// against persisted state. Route fetches fan out up to maxConcurrent at a
// time and are joined before returning. A failed route is reported in its
// outcome and does not abort the others.
func SyncTripDate(log *log.Logger,
	db *sqlx.DB,
	client *wsfapi.Client,
	ref ReferenceData,
	tripDate time.Time,
	maxConcurrent int) ([]RouteSyncOutcome, error) {

	routes, err := client.FetchRoutesByTripDate(tripDate)
	if err != nil {
		return nil, fmt.Errorf("unable to sync trip date %s: %w", tripDate.Format("2006-01-02"), err)
	}
	sailingDay := wsf.SailingDayFor(tripDate)
	log.Printf("syncing %d routes for sailing day %s", len(routes), sailingDay)

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	outcomes := make([]RouteSyncOutcome, len(routes))
	semaphore := make(chan struct{}, maxConcurrent)
	wg := sync.WaitGroup{}
	for i, route := range routes {
		wg.Add(1)
		go func(i int, route wsfapi.Route) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			outcomes[i] = syncRoute(log, db, client, ref, route, tripDate, sailingDay)
		}(i, route)
	}
	wg.Wait()

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			log.Printf("route %s sync failed: %v", outcome.Route.RouteAbbrev, outcome.Err)
			continue
		}
		log.Printf("route %s synced: %s", outcome.Route.RouteAbbrev, outcome.Result)
	}
	return outcomes, nil
}

// syncRoute runs the full pipeline for one route on one sailing day
func syncRoute(log *log.Logger,
	db *sqlx.DB,
	client *wsfapi.Client,
	ref ReferenceData,
	route wsfapi.Route,
	tripDate time.Time,
	sailingDay string) RouteSyncOutcome {

	outcome := RouteSyncOutcome{Route: route}

	schedule, err := client.FetchScheduleByTripDateAndRouteID(tripDate, route.RouteID)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	trips := mapSchedule(log, schedule, route, sailingDay, ref)
	outcome.Warnings = ClassifyTrips(trips)
	for _, warning := range outcome.Warnings {
		log.Printf("classification warning on route %s: %s", route.RouteAbbrev, warning)
	}
	EstimateTrips(trips, ref)

	outcome.Result, outcome.Err = SyncRouteTrips(db, route.RouteID, sailingDay, trips)
	return outcome
}

// RebuildSailingDay replaces every trip for tripDate wholesale instead of
// diffing, used when a schedule change invalidates the whole day
func RebuildSailingDay(log *log.Logger,
	db *sqlx.DB,
	client *wsfapi.Client,
	ref ReferenceData,
	tripDate time.Time,
	deleteBatchSize int) error {

	routes, err := client.FetchRoutesByTripDate(tripDate)
	if err != nil {
		return fmt.Errorf("unable to rebuild trip date %s: %w", tripDate.Format("2006-01-02"), err)
	}
	sailingDay := wsf.SailingDayFor(tripDate)

	var dayTrips []*wsf.ScheduledTrip
	for _, route := range routes {
		schedule, err := client.FetchScheduleByTripDateAndRouteID(tripDate, route.RouteID)
		if err != nil {
			return fmt.Errorf("unable to rebuild sailing day %s: %w", sailingDay, err)
		}
		trips := mapSchedule(log, schedule, route, sailingDay, ref)
		warnings := ClassifyTrips(trips)
		for _, warning := range warnings {
			log.Printf("classification warning on route %s: %s", route.RouteAbbrev, warning)
		}
		EstimateTrips(trips, ref)
		dayTrips = append(dayTrips, trips...)
	}

	dayTrips = dedupeTripsByKey(dayTrips)
	log.Printf("replacing sailing day %s with %d trips", sailingDay, len(dayTrips))
	return ReplaceSailingDay(db, sailingDay, dayTrips, deleteBatchSize)
}
