package wsf

import (
	"fmt"
	"time"
)

// pacificLocation is the ferry operator's local time zone. Sailing days and trip
// keys are rendered in Pacific time, not UTC, because the operational sailing
// day concept is Pacific-local.
var pacificLocation *time.Location

func init() {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		panic(fmt.Sprintf("unable to load America/Los_Angeles time zone: %v", err))
	}
	pacificLocation = location
}

// PacificLocation returns the America/Los_Angeles time zone used for sailing days and trip keys
func PacificLocation() *time.Location {
	return pacificLocation
}

// GenerateTripKey builds the stable composite identity for a scheduled sailing
// from vessel, terminals, and the local departure time. The arriving terminal
// may be empty. Returns an error if vesselAbbrev, departingTerminalAbbrev or
// departingTime is missing, in which case the trip cannot be identified and the
// record should be dropped.
func GenerateTripKey(vesselAbbrev string,
	departingTerminalAbbrev string,
	arrivingTerminalAbbrev string,
	departingTime *time.Time) (string, error) {

	if vesselAbbrev == "" {
		return "", fmt.Errorf("unable to generate trip key, missing vessel abbreviation")
	}
	if departingTerminalAbbrev == "" {
		return "", fmt.Errorf("unable to generate trip key, missing departing terminal abbreviation")
	}
	if departingTime == nil {
		return "", fmt.Errorf("unable to generate trip key, missing departing time")
	}
	local := departingTime.In(pacificLocation)
	return fmt.Sprintf("%s--%s--%s--%s-%s",
		vesselAbbrev,
		local.Format("2006-01-02"),
		local.Format("15:04"),
		departingTerminalAbbrev,
		arrivingTerminalAbbrev), nil
}

// SailingDayFor returns the Pacific calendar date string for a departure instant
func SailingDayFor(at time.Time) string {
	return at.In(pacificLocation).Format("2006-01-02")
}
