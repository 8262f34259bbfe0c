package syncer

import (
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
)

// EstimateTrips computes per trip arrival estimates and previous/next leg
// linkage for one classified sailing day. Feed supplied arriving times win
// when sane; otherwise the official crossing time table is consulted; when
// neither source is available the estimate stays unset rather than fabricated.
func EstimateTrips(trips []*wsf.ScheduledTrip, crossings CrossingTimes) {
	for _, trip := range trips {
		estimateArriveNext(trip, crossings)
	}
	for _, vesselTrips := range groupByVessel(trips) {
		linkVesselTrips(vesselTrips)
	}
}

// estimateArriveNext sets EstArriveNext for one trip, rounding up to the next
// whole minute
func estimateArriveNext(trip *wsf.ScheduledTrip, crossings CrossingTimes) {
	if trip.ArrivingTime != nil && trip.ArrivingTime.After(trip.DepartingTime) {
		arrive := ceilToMinute(*trip.ArrivingTime)
		trip.EstArriveNext = &arrive
		return
	}
	minutes, ok := crossings.CrossingMinutes(trip.RouteAbbrev, trip.DepartingTerminalAbbrev, trip.ArrivingTerminalAbbrev)
	if !ok {
		return
	}
	arrive := ceilToMinute(trip.DepartingTime.Add(time.Duration(minutes) * time.Minute))
	trip.EstArriveNext = &arrive
}

// terminalArrival is the most recent known direct arrival at a terminal
type terminalArrival struct {
	key      string
	arriveAt *time.Time
}

// linkVesselTrips walks one vessel's trips in overlap groups, wiring NextKey,
// NextDepartingTime, PrevKey and EstArriveCurr. The last-arrival bookkeeping
// is updated only after an entire overlap group is processed so simultaneous
// sibling trips never resolve against each other.
func linkVesselTrips(vesselTrips []*wsf.ScheduledTrip) {
	lastArrivalByTerminal := make(map[string]terminalArrival)

	for start := 0; start < len(vesselTrips); {
		end := overlapGroupEnd(vesselTrips, start)
		group := vesselTrips[start:end]

		nextDirect := nextDirectTripAfter(vesselTrips, end, group[0].DepartingTime)

		for _, trip := range group {
			if nextDirect != nil {
				nextKey := nextDirect.Key
				nextDeparting := nextDirect.DepartingTime
				trip.NextKey = &nextKey
				trip.NextDepartingTime = &nextDeparting
			}
			if prev, ok := lastArrivalByTerminal[trip.DepartingTerminalAbbrev]; ok {
				prevKey := prev.key
				trip.PrevKey = &prevKey
				// a candidate arrival later than this trip's own departure is
				// inconsistent feed data and is discarded, not clamped
				if prev.arriveAt != nil && !prev.arriveAt.After(trip.DepartingTime) {
					arriveCurr := *prev.arriveAt
					trip.EstArriveCurr = &arriveCurr
				}
			}
		}

		for _, trip := range group {
			if trip.TripType != wsf.TripTypeDirect || trip.ArrivingTerminalAbbrev == "" {
				continue
			}
			lastArrivalByTerminal[trip.ArrivingTerminalAbbrev] = terminalArrival{
				key:      trip.Key,
				arriveAt: trip.EstArriveNext,
			}
		}
		start = end
	}
}

// nextDirectTripAfter returns the first direct trip at or past index departing
// strictly after groupTime
func nextDirectTripAfter(vesselTrips []*wsf.ScheduledTrip, index int, groupTime time.Time) *wsf.ScheduledTrip {
	for ; index < len(vesselTrips); index++ {
		trip := vesselTrips[index]
		if trip.TripType == wsf.TripTypeDirect && trip.DepartingTime.After(groupTime) {
			return trip
		}
	}
	return nil
}

// ceilToMinute rounds t up to the next whole minute, leaving times already on
// a minute boundary unchanged
func ceilToMinute(t time.Time) time.Time {
	truncated := t.Truncate(time.Minute)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(time.Minute)
}
