package wsf

import (
	"fmt"
	"time"

	"github.com/PugetTransitTools/ferrycast/foundation/database"
	"github.com/jmoiron/sqlx"
)

// RecordScheduledTrips inserts trips into the database in batch as part of tx
func RecordScheduledTrips(tx *sqlx.Tx, trips []*ScheduledTrip) error {
	if len(trips) == 0 {
		return nil
	}
	now := time.Now()
	for _, trip := range trips {
		trip.CreatedAt = now
	}
	statementString := "insert into scheduled_trip ( " +
		"key, " +
		"sailing_day, " +
		"vessel_abbrev, " +
		"departing_terminal_abbrev, " +
		"arriving_terminal_abbrev, " +
		"departing_time, " +
		"arriving_time, " +
		"sailing_notes, " +
		"annotations, " +
		"route_id, " +
		"route_abbrev, " +
		"trip_type, " +
		"prev_key, " +
		"next_key, " +
		"next_departing_time, " +
		"est_arrive_next, " +
		"est_arrive_curr, " +
		"created_at) " +
		"values (" +
		":key, " +
		":sailing_day, " +
		":vessel_abbrev, " +
		":departing_terminal_abbrev, " +
		":arriving_terminal_abbrev, " +
		":departing_time, " +
		":arriving_time, " +
		":sailing_notes, " +
		":annotations, " +
		":route_id, " +
		":route_abbrev, " +
		":trip_type, " +
		":prev_key, " +
		":next_key, " +
		":next_departing_time, " +
		":est_arrive_next, " +
		":est_arrive_curr, " +
		":created_at)"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, trips)
	return err
}

// UpdateScheduledTrip replaces the schedule content of the persisted trip with
// the same key and sailing day
func UpdateScheduledTrip(tx *sqlx.Tx, trip *ScheduledTrip) error {
	statementString := "update scheduled_trip set " +
		"vessel_abbrev = :vessel_abbrev, " +
		"departing_terminal_abbrev = :departing_terminal_abbrev, " +
		"arriving_terminal_abbrev = :arriving_terminal_abbrev, " +
		"departing_time = :departing_time, " +
		"arriving_time = :arriving_time, " +
		"sailing_notes = :sailing_notes, " +
		"annotations = :annotations, " +
		"route_id = :route_id, " +
		"route_abbrev = :route_abbrev, " +
		"trip_type = :trip_type, " +
		"prev_key = :prev_key, " +
		"next_key = :next_key, " +
		"next_departing_time = :next_departing_time, " +
		"est_arrive_next = :est_arrive_next, " +
		"est_arrive_curr = :est_arrive_curr " +
		"where key = :key and sailing_day = :sailing_day"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, trip)
	return err
}

// GetScheduledTripsByRoute retrieves all persisted trips for routeId on sailingDay
func GetScheduledTripsByRoute(db *sqlx.DB, routeId int, sailingDay string) ([]*ScheduledTrip, error) {
	query := "select * from scheduled_trip where route_id = $1 and sailing_day = $2 order by departing_time"
	var results []*ScheduledTrip
	err := db.Select(&results, db.Rebind(query), routeId, sailingDay)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve scheduled trips for route %d on %s: %w", routeId, sailingDay, err)
	}
	return results, nil
}

// GetScheduledTripsBySailingDay retrieves all persisted trips for sailingDay across routes
func GetScheduledTripsBySailingDay(db *sqlx.DB, sailingDay string) ([]*ScheduledTrip, error) {
	query := "select * from scheduled_trip where sailing_day = $1 order by vessel_abbrev, departing_time"
	var results []*ScheduledTrip
	err := db.Select(&results, db.Rebind(query), sailingDay)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve scheduled trips for sailing day %s: %w", sailingDay, err)
	}
	return results, nil
}

// MissingScheduledTrip is returned by GetScheduledTripByKey when no trip with
// the requested key is persisted. Callers may continue without a schedule match
// but should log it.
type MissingScheduledTrip struct {
	Key string
}

func (m *MissingScheduledTrip) Error() string {
	return fmt.Sprintf("no scheduled trip found for key %s", m.Key)
}

// GetScheduledTripByKey retrieves the trip identified by key. Keys are unique
// within a sailing day; the most recent sailing day wins if a purge is overdue.
func GetScheduledTripByKey(db *sqlx.DB, key string) (*ScheduledTrip, error) {
	query := "select * from scheduled_trip where key = $1 order by sailing_day desc limit 1"
	var results []*ScheduledTrip
	err := db.Select(&results, db.Rebind(query), key)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve scheduled trip for key %s: %w", key, err)
	}
	if len(results) == 0 {
		return nil, &MissingScheduledTrip{Key: key}
	}
	return results[0], nil
}

// DeleteScheduledTripsByKeys removes the trips with keys on sailingDay as part of tx
func DeleteScheduledTripsByKeys(tx *sqlx.Tx, sailingDay string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	statementString := "delete from scheduled_trip where sailing_day = :sailing_day and key in (:keys)"
	query, args, err := sqlx.Named(statementString, map[string]interface{}{
		"sailing_day": sailingDay,
		"keys":        keys,
	})
	if err != nil {
		return err
	}
	query, args, err = sqlx.In(query, args...)
	if err != nil {
		return err
	}
	query = tx.Rebind(query)
	_, err = tx.Exec(query, args...)
	return err
}

// DeleteSailingDayBatch removes up to limit trips for sailingDay, returning the
// number removed. Callers loop until zero to bound single statement size.
func DeleteSailingDayBatch(db *sqlx.DB, sailingDay string, limit int) (int64, error) {
	statementString := "delete from scheduled_trip where id in " +
		"(select id from scheduled_trip where sailing_day = $1 limit $2)"
	result, err := db.Exec(db.Rebind(statementString), sailingDay, limit)
	if err != nil {
		return 0, fmt.Errorf("unable to delete scheduled trips for sailing day %s: %w", sailingDay, err)
	}
	return result.RowsAffected()
}

// PurgeDepartedBefore removes up to limit trips whose departing time is older
// than cutoff, returning the number removed
func PurgeDepartedBefore(db *sqlx.DB, cutoff time.Time, limit int) (int64, error) {
	statementString := "delete from scheduled_trip where id in " +
		"(select id from scheduled_trip where departing_time < $1 limit $2)"
	result, err := db.Exec(db.Rebind(statementString), cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("unable to purge scheduled trips departed before %v: %w", cutoff, err)
	}
	return result.RowsAffected()
}

// GetScheduledTripsByKeys retrieves persisted trips with keys on sailingDay
func GetScheduledTripsByKeys(db *sqlx.DB, sailingDay string, keys []string) ([]*ScheduledTrip, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	statementString := "select * from scheduled_trip where sailing_day = :sailing_day and key in (:keys)"
	rows, err := database.PrepareNamedQueryRowsFromMap(statementString, db, map[string]interface{}{
		"sailing_day": sailingDay,
		"keys":        keys,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	var results []*ScheduledTrip
	for rows.Next() {
		trip := ScheduledTrip{}
		if err = rows.StructScan(&trip); err != nil {
			return nil, err
		}
		results = append(results, &trip)
	}
	return results, rows.Err()
}
