package wsf

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// VesselLocation is a single raw position observation for one vessel. The
// working set is always the most recent observation per vessel.
type VesselLocation struct {
	VesselId                int        `db:"vessel_id" json:"vessel_id"`
	VesselAbbrev            string     `db:"vessel_abbrev" json:"vessel_abbrev"`
	DepartingTerminalAbbrev string     `db:"departing_terminal_abbrev" json:"departing_terminal_abbrev"`
	ArrivingTerminalAbbrev  string     `db:"arriving_terminal_abbrev" json:"arriving_terminal_abbrev"`
	Latitude                float64    `db:"latitude" json:"latitude"`
	Longitude               float64    `db:"longitude" json:"longitude"`
	Heading                 float64    `db:"heading" json:"heading"`
	Speed                   float64    `db:"speed" json:"speed"`
	AtDock                  bool       `db:"at_dock" json:"at_dock"`
	InService               bool       `db:"in_service" json:"in_service"`
	LeftDock                *time.Time `db:"left_dock" json:"left_dock"`
	Eta                     *time.Time `db:"eta" json:"eta"`
	ScheduledDeparture      *time.Time `db:"scheduled_departure" json:"scheduled_departure"`
	TimeStamp               time.Time  `db:"time_stamp" json:"time_stamp"`
}

// RecordVesselLocation inserts or replaces the latest location record for a vessel
func RecordVesselLocation(db *sqlx.DB, location *VesselLocation) error {
	statementString := "insert into vessel_location ( " +
		"vessel_id, " +
		"vessel_abbrev, " +
		"departing_terminal_abbrev, " +
		"arriving_terminal_abbrev, " +
		"latitude, " +
		"longitude, " +
		"heading, " +
		"speed, " +
		"at_dock, " +
		"in_service, " +
		"left_dock, " +
		"eta, " +
		"scheduled_departure, " +
		"time_stamp) " +
		"values (" +
		":vessel_id, " +
		":vessel_abbrev, " +
		":departing_terminal_abbrev, " +
		":arriving_terminal_abbrev, " +
		":latitude, " +
		":longitude, " +
		":heading, " +
		":speed, " +
		":at_dock, " +
		":in_service, " +
		":left_dock, " +
		":eta, " +
		":scheduled_departure, " +
		":time_stamp) " +
		"on conflict (vessel_abbrev) do update set " +
		"vessel_id = excluded.vessel_id, " +
		"departing_terminal_abbrev = excluded.departing_terminal_abbrev, " +
		"arriving_terminal_abbrev = excluded.arriving_terminal_abbrev, " +
		"latitude = excluded.latitude, " +
		"longitude = excluded.longitude, " +
		"heading = excluded.heading, " +
		"speed = excluded.speed, " +
		"at_dock = excluded.at_dock, " +
		"in_service = excluded.in_service, " +
		"left_dock = excluded.left_dock, " +
		"eta = excluded.eta, " +
		"scheduled_departure = excluded.scheduled_departure, " +
		"time_stamp = excluded.time_stamp"
	statementString = db.Rebind(statementString)
	_, err := db.NamedExec(statementString, location)
	if err != nil {
		return fmt.Errorf("unable to record vessel location for %s: %w", location.VesselAbbrev, err)
	}
	return nil
}
