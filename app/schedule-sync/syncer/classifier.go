package syncer

import (
	"fmt"
	"sort"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
)

// ClassificationWarning is a structured diagnostic reported when an overlap
// group cannot be resolved against an expected next terminal. The trips
// involved default to direct rather than guessing.
type ClassificationWarning struct {
	VesselAbbrev            string    `json:"vessel_abbrev"`
	SailingDay              string    `json:"sailing_day"`
	DepartingTerminalAbbrev string    `json:"departing_terminal_abbrev"`
	DepartingTime           time.Time `json:"departing_time"`
	TripKeys                []string  `json:"trip_keys"`
	Reason                  string    `json:"reason"`
}

func (w ClassificationWarning) String() string {
	return fmt.Sprintf("ambiguous overlap group for vessel %s departing %s at %s: %s",
		w.VesselAbbrev, w.DepartingTerminalAbbrev, w.DepartingTime.Format("2006-01-02T15:04"), w.Reason)
}

// ClassifyTrips assigns the authoritative TripType to every trip of one
// sailing day. Trips of the same vessel departing the same terminal at the
// same time form an overlap group: the member continuing to the vessel's next
// departure terminal is the direct leg, the rest are indirect sailing options.
// Ambiguous groups default every member to direct and report a warning.
func ClassifyTrips(trips []*wsf.ScheduledTrip) []ClassificationWarning {
	var warnings []ClassificationWarning
	for _, vesselTrips := range groupByVessel(trips) {
		warnings = append(warnings, classifyVesselTrips(vesselTrips)...)
	}
	return warnings
}

// classifyVesselTrips runs the overlap group scan over one vessel's trips,
// which must be sorted ascending by departing time
func classifyVesselTrips(vesselTrips []*wsf.ScheduledTrip) []ClassificationWarning {
	var warnings []ClassificationWarning
	for start := 0; start < len(vesselTrips); {
		end := overlapGroupEnd(vesselTrips, start)
		group := vesselTrips[start:end]
		if len(group) == 1 {
			group[0].TripType = wsf.TripTypeDirect
			start = end
			continue
		}

		expectedNextTerminal, found := nextDepartureTerminal(vesselTrips, end, group[0].DepartingTime)
		matched := false
		if found {
			for _, trip := range group {
				if trip.ArrivingTerminalAbbrev == expectedNextTerminal {
					trip.TripType = wsf.TripTypeDirect
					matched = true
				} else {
					trip.TripType = wsf.TripTypeIndirect
				}
			}
		}

		if !matched {
			// ambiguous feed data, default everything to direct
			reason := "no later departure to read an expected next terminal from"
			if found {
				reason = fmt.Sprintf("no group member arrives at expected next terminal %s", expectedNextTerminal)
			}
			keys := make([]string, 0, len(group))
			for _, trip := range group {
				trip.TripType = wsf.TripTypeDirect
				keys = append(keys, trip.Key)
			}
			warnings = append(warnings, ClassificationWarning{
				VesselAbbrev:            group[0].VesselAbbrev,
				SailingDay:              group[0].SailingDay,
				DepartingTerminalAbbrev: group[0].DepartingTerminalAbbrev,
				DepartingTime:           group[0].DepartingTime,
				TripKeys:                keys,
				Reason:                  reason,
			})
		}
		start = end
	}
	return warnings
}

// groupByVessel partitions trips by vessel abbreviation, each slice sorted
// ascending by departing time
func groupByVessel(trips []*wsf.ScheduledTrip) map[string][]*wsf.ScheduledTrip {
	byVessel := make(map[string][]*wsf.ScheduledTrip)
	for _, trip := range trips {
		byVessel[trip.VesselAbbrev] = append(byVessel[trip.VesselAbbrev], trip)
	}
	for _, vesselTrips := range byVessel {
		sort.SliceStable(vesselTrips, func(i, j int) bool {
			return vesselTrips[i].DepartingTime.Before(vesselTrips[j].DepartingTime)
		})
	}
	return byVessel
}

// overlapGroupEnd returns the index just past the maximal run of trips sharing
// the departing time and departing terminal of the trip at start
func overlapGroupEnd(vesselTrips []*wsf.ScheduledTrip, start int) int {
	first := vesselTrips[start]
	end := start + 1
	for end < len(vesselTrips) &&
		vesselTrips[end].DepartingTime.Equal(first.DepartingTime) &&
		vesselTrips[end].DepartingTerminalAbbrev == first.DepartingTerminalAbbrev {
		end++
	}
	return end
}

// nextDepartureTerminal looks ahead from index for the first trip whose
// departing time differs from groupTime and returns its departing terminal
func nextDepartureTerminal(vesselTrips []*wsf.ScheduledTrip, index int, groupTime time.Time) (string, bool) {
	for ; index < len(vesselTrips); index++ {
		if !vesselTrips[index].DepartingTime.Equal(groupTime) {
			return vesselTrips[index].DepartingTerminalAbbrev, true
		}
	}
	return "", false
}
