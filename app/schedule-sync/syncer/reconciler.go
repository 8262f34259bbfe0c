package syncer

import (
	"fmt"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/PugetTransitTools/ferrycast/foundation/database"
	"github.com/jmoiron/sqlx"
)

// SyncResult reports what a per route reconciliation changed
type SyncResult struct {
	Deleted  int
	Inserted int
	Updated  int
}

func (r SyncResult) String() string {
	return fmt.Sprintf("deleted:%d inserted:%d updated:%d", r.Deleted, r.Inserted, r.Updated)
}

// RouteSyncError wraps a persistence failure during per route reconciliation
// with the route and input counts. One bad route must not abort a full
// schedule refresh, so callers surface this per route.
type RouteSyncError struct {
	RouteId      int
	InputCount   int
	DedupedCount int
	Err          error
}

func (e *RouteSyncError) Error() string {
	return fmt.Sprintf("sync failed for route %d (input:%d deduped:%d): %v",
		e.RouteId, e.InputCount, e.DedupedCount, e.Err)
}

func (e *RouteSyncError) Unwrap() error {
	return e.Err
}

// tripDiff partitions a fresh trip set against persisted state
type tripDiff struct {
	toDelete []string
	toInsert []*wsf.ScheduledTrip
	toUpdate []*wsf.ScheduledTrip
}

// dedupeTripsByKey collapses duplicate keys in the input set, last wins
func dedupeTripsByKey(trips []*wsf.ScheduledTrip) []*wsf.ScheduledTrip {
	byKey := make(map[string]int)
	var deduped []*wsf.ScheduledTrip
	for _, trip := range trips {
		if index, present := byKey[trip.Key]; present {
			deduped[index] = trip
			continue
		}
		byKey[trip.Key] = len(deduped)
		deduped = append(deduped, trip)
	}
	return deduped
}

// diffTrips computes the minimal change set between persisted and incoming
// trips. Equality is field by field schedule content, storage identity
// excluded, so a second run over identical input yields an empty diff.
func diffTrips(existing []*wsf.ScheduledTrip, incoming []*wsf.ScheduledTrip) tripDiff {
	existingByKey := make(map[string]*wsf.ScheduledTrip, len(existing))
	for _, trip := range existing {
		existingByKey[trip.Key] = trip
	}
	incomingKeys := make(map[string]bool, len(incoming))

	diff := tripDiff{}
	for _, trip := range incoming {
		incomingKeys[trip.Key] = true
		persisted, present := existingByKey[trip.Key]
		if !present {
			diff.toInsert = append(diff.toInsert, trip)
			continue
		}
		if !persisted.SameSchedule(trip) {
			diff.toUpdate = append(diff.toUpdate, trip)
		}
	}
	for _, trip := range existing {
		if !incomingKeys[trip.Key] {
			diff.toDelete = append(diff.toDelete, trip.Key)
		}
	}
	return diff
}

// SyncRouteTrips reconciles a freshly computed trip set for one route and
// sailing day against persisted state, applying deletes then upserts as one
// transaction. Failures are wrapped in RouteSyncError.
func SyncRouteTrips(db *sqlx.DB, routeId int, sailingDay string, incoming []*wsf.ScheduledTrip) (SyncResult, error) {
	deduped := dedupeTripsByKey(incoming)
	wrap := func(err error) error {
		return &RouteSyncError{
			RouteId:      routeId,
			InputCount:   len(incoming),
			DedupedCount: len(deduped),
			Err:          err,
		}
	}

	existing, err := wsf.GetScheduledTripsByRoute(db, routeId, sailingDay)
	if err != nil {
		return SyncResult{}, wrap(err)
	}
	diff := diffTrips(existing, deduped)

	err = database.ExecuteInTransaction(db, func(tx *sqlx.Tx) error {
		if err := wsf.DeleteScheduledTripsByKeys(tx, sailingDay, diff.toDelete); err != nil {
			return fmt.Errorf("deleting removed trips: %w", err)
		}
		if err := wsf.RecordScheduledTrips(tx, diff.toInsert); err != nil {
			return fmt.Errorf("inserting new trips: %w", err)
		}
		for _, trip := range diff.toUpdate {
			if err := wsf.UpdateScheduledTrip(tx, trip); err != nil {
				return fmt.Errorf("updating trip %s: %w", trip.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, wrap(err)
	}

	return SyncResult{
		Deleted:  len(diff.toDelete),
		Inserted: len(diff.toInsert),
		Updated:  len(diff.toUpdate),
	}, nil
}

// ReplaceSailingDay deletes every persisted trip for sailingDay in capped
// batches and bulk inserts a freshly classified and estimated set. The caller
// guarantees key uniqueness in trips.
func ReplaceSailingDay(db *sqlx.DB, sailingDay string, trips []*wsf.ScheduledTrip, deleteBatchSize int) error {
	for {
		deleted, err := wsf.DeleteSailingDayBatch(db, sailingDay, deleteBatchSize)
		if err != nil {
			return err
		}
		if deleted == 0 {
			break
		}
	}
	return database.ExecuteInTransaction(db, func(tx *sqlx.Tx) error {
		return wsf.RecordScheduledTrips(tx, trips)
	})
}

// PurgeExpiredTrips removes one bounded batch of trips departed before cutoff,
// returning whether more remain so the caller can loop
func PurgeExpiredTrips(db *sqlx.DB, cutoff time.Time, batchSize int) (bool, error) {
	deleted, err := wsf.PurgeDepartedBefore(db, cutoff, batchSize)
	if err != nil {
		return false, err
	}
	return deleted == int64(batchSize), nil
}
