package wsf

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// VesselTrip is the current or just-completed physical trip of one vessel.
// There is one mutable record per vessel, owned by the trip orchestrator and
// overwritten in place on each tick.
type VesselTrip struct {
	VesselAbbrev            string     `db:"vessel_abbrev" json:"vessel_abbrev"`
	Key                     *string    `db:"key" json:"key"`
	SailingDay              string     `db:"sailing_day" json:"sailing_day"`
	DepartingTerminalAbbrev string     `db:"departing_terminal_abbrev" json:"departing_terminal_abbrev"`
	ArrivingTerminalAbbrev  string     `db:"arriving_terminal_abbrev" json:"arriving_terminal_abbrev"`
	RouteAbbrev             string     `db:"route_abbrev" json:"route_abbrev"`
	ScheduledDeparture      *time.Time `db:"scheduled_departure" json:"scheduled_departure"`
	AtDock                  bool       `db:"at_dock" json:"at_dock"`
	LeftDock                *time.Time `db:"left_dock" json:"left_dock"`
	Eta                     *time.Time `db:"eta" json:"eta"`
	TripStart               *time.Time `db:"trip_start" json:"trip_start"`
	TripEnd                 *time.Time `db:"trip_end" json:"trip_end"`
	InService               bool       `db:"in_service" json:"in_service"`
	TimeStamp               time.Time  `db:"time_stamp" json:"time_stamp"`
	// denormalized previous trip fields used as prediction features
	PrevScheduledDeparture *time.Time `db:"prev_scheduled_departure" json:"prev_scheduled_departure"`
	PrevLeftDock           *time.Time `db:"prev_left_dock" json:"prev_left_dock"`
	// prediction slots, each populated only when the event that owns it fires
	AtDockDepartCurr *Prediction `db:"at_dock_depart_curr" json:"at_dock_depart_curr"`
	AtDockArriveNext *Prediction `db:"at_dock_arrive_next" json:"at_dock_arrive_next"`
	AtDockDepartNext *Prediction `db:"at_dock_depart_next" json:"at_dock_depart_next"`
	AtSeaArriveNext  *Prediction `db:"at_sea_arrive_next" json:"at_sea_arrive_next"`
	AtSeaDepartNext  *Prediction `db:"at_sea_depart_next" json:"at_sea_depart_next"`
}

func (v *VesselTrip) String() string {
	key := ""
	if v.Key != nil {
		key = *v.Key
	}
	return fmt.Sprintf("VesselTrip vessel:%s key:%s %s->%s atDock:%t",
		v.VesselAbbrev, key, v.DepartingTerminalAbbrev, v.ArrivingTerminalAbbrev, v.AtDock)
}

// GetVesselTrip retrieves the live trip record for vesselAbbrev, or nil when
// the vessel has not been seen yet
func GetVesselTrip(db *sqlx.DB, vesselAbbrev string) (*VesselTrip, error) {
	query := "select * from vessel_trip where vessel_abbrev = $1"
	trip := VesselTrip{}
	err := db.Get(&trip, db.Rebind(query), vesselAbbrev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve vessel trip for %s: %w", vesselAbbrev, err)
	}
	return &trip, nil
}

// GetAllVesselTrips retrieves the live trip records for every vessel
func GetAllVesselTrips(db *sqlx.DB) ([]*VesselTrip, error) {
	query := "select * from vessel_trip order by vessel_abbrev"
	var results []*VesselTrip
	err := db.Select(&results, query)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve vessel trips: %w", err)
	}
	return results, nil
}

// SaveVesselTrip inserts or replaces the single live trip record for a vessel
func SaveVesselTrip(db *sqlx.DB, trip *VesselTrip) error {
	statementString := "insert into vessel_trip ( " +
		"vessel_abbrev, " +
		"key, " +
		"sailing_day, " +
		"departing_terminal_abbrev, " +
		"arriving_terminal_abbrev, " +
		"route_abbrev, " +
		"scheduled_departure, " +
		"at_dock, " +
		"left_dock, " +
		"eta, " +
		"trip_start, " +
		"trip_end, " +
		"in_service, " +
		"time_stamp, " +
		"prev_scheduled_departure, " +
		"prev_left_dock, " +
		"at_dock_depart_curr, " +
		"at_dock_arrive_next, " +
		"at_dock_depart_next, " +
		"at_sea_arrive_next, " +
		"at_sea_depart_next) " +
		"values (" +
		":vessel_abbrev, " +
		":key, " +
		":sailing_day, " +
		":departing_terminal_abbrev, " +
		":arriving_terminal_abbrev, " +
		":route_abbrev, " +
		":scheduled_departure, " +
		":at_dock, " +
		":left_dock, " +
		":eta, " +
		":trip_start, " +
		":trip_end, " +
		":in_service, " +
		":time_stamp, " +
		":prev_scheduled_departure, " +
		":prev_left_dock, " +
		":at_dock_depart_curr, " +
		":at_dock_arrive_next, " +
		":at_dock_depart_next, " +
		":at_sea_arrive_next, " +
		":at_sea_depart_next) " +
		"on conflict (vessel_abbrev) do update set " +
		"key = excluded.key, " +
		"sailing_day = excluded.sailing_day, " +
		"departing_terminal_abbrev = excluded.departing_terminal_abbrev, " +
		"arriving_terminal_abbrev = excluded.arriving_terminal_abbrev, " +
		"route_abbrev = excluded.route_abbrev, " +
		"scheduled_departure = excluded.scheduled_departure, " +
		"at_dock = excluded.at_dock, " +
		"left_dock = excluded.left_dock, " +
		"eta = excluded.eta, " +
		"trip_start = excluded.trip_start, " +
		"trip_end = excluded.trip_end, " +
		"in_service = excluded.in_service, " +
		"time_stamp = excluded.time_stamp, " +
		"prev_scheduled_departure = excluded.prev_scheduled_departure, " +
		"prev_left_dock = excluded.prev_left_dock, " +
		"at_dock_depart_curr = excluded.at_dock_depart_curr, " +
		"at_dock_arrive_next = excluded.at_dock_arrive_next, " +
		"at_dock_depart_next = excluded.at_dock_depart_next, " +
		"at_sea_arrive_next = excluded.at_sea_arrive_next, " +
		"at_sea_depart_next = excluded.at_sea_depart_next"
	statementString = db.Rebind(statementString)
	_, err := db.NamedExec(statementString, trip)
	if err != nil {
		return fmt.Errorf("unable to save vessel trip for %s: %w", trip.VesselAbbrev, err)
	}
	return nil
}
