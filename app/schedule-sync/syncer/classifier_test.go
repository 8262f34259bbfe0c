package syncer

import (
	"testing"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/matryer/is"
)

func TestClassifyTrips_overlapGroupResolved(t *testing.T) {
	is := is.New(t)

	// TOK lists two sailings for the same 08:00 departure out of MUK. Its next
	// departure is out of CLI, so the sailing arriving at CLI is the vessel's
	// actual crossing and the other is an indirect option.
	direct := testTrip("TOK", "MUK", "CLI", testDay(8, 0))
	indirect := testTrip("TOK", "MUK", "PTD", testDay(8, 0))
	later := testTrip("TOK", "CLI", "MUK", testDay(8, 30))

	warnings := ClassifyTrips([]*wsf.ScheduledTrip{indirect, direct, later})

	is.Equal(len(warnings), 0)
	is.Equal(direct.TripType, wsf.TripTypeDirect)
	is.Equal(indirect.TripType, wsf.TripTypeIndirect)
	is.Equal(later.TripType, wsf.TripTypeDirect)
}

func TestClassifyTrips_singletonGroupsAreDirect(t *testing.T) {
	is := is.New(t)

	first := testTrip("SUQ", "MUK", "CLI", testDay(9, 0))
	second := testTrip("SUQ", "CLI", "MUK", testDay(9, 30))

	warnings := ClassifyTrips([]*wsf.ScheduledTrip{first, second})

	is.Equal(len(warnings), 0)
	is.Equal(first.TripType, wsf.TripTypeDirect)
	is.Equal(second.TripType, wsf.TripTypeDirect)
}

func TestClassifyTrips_lastGroupOfDayHasNoLookahead(t *testing.T) {
	is := is.New(t)

	optionA := testTrip("TOK", "MUK", "CLI", testDay(23, 30))
	optionB := testTrip("TOK", "MUK", "PTD", testDay(23, 30))

	warnings := ClassifyTrips([]*wsf.ScheduledTrip{optionA, optionB})

	is.Equal(len(warnings), 1)
	is.Equal(optionA.TripType, wsf.TripTypeDirect)
	is.Equal(optionB.TripType, wsf.TripTypeDirect)
	is.Equal(warnings[0].VesselAbbrev, "TOK")
	is.Equal(warnings[0].DepartingTerminalAbbrev, "MUK")
	is.Equal(len(warnings[0].TripKeys), 2)
}

func TestClassifyTrips_noMemberReachesNextTerminal(t *testing.T) {
	is := is.New(t)

	optionA := testTrip("TOK", "MUK", "CLI", testDay(8, 0))
	optionB := testTrip("TOK", "MUK", "PTD", testDay(8, 0))
	// next departure is out of SEA, which neither 08:00 sailing arrives at
	later := testTrip("TOK", "SEA", "BBI", testDay(10, 0))

	warnings := ClassifyTrips([]*wsf.ScheduledTrip{optionA, optionB, later})

	is.Equal(len(warnings), 1)
	is.Equal(optionA.TripType, wsf.TripTypeDirect)
	is.Equal(optionB.TripType, wsf.TripTypeDirect)
}

func TestClassifyTrips_vesselsClassifiedIndependently(t *testing.T) {
	is := is.New(t)

	tokDirect := testTrip("TOK", "MUK", "CLI", testDay(8, 0))
	tokIndirect := testTrip("TOK", "MUK", "PTD", testDay(8, 0))
	tokLater := testTrip("TOK", "CLI", "MUK", testDay(8, 30))
	// SUQ departs at the same instant from the same terminal but it is a
	// different vessel, so it must not join TOK's overlap group
	suq := testTrip("SUQ", "MUK", "PTD", testDay(8, 0))

	warnings := ClassifyTrips([]*wsf.ScheduledTrip{tokIndirect, suq, tokDirect, tokLater})

	is.Equal(len(warnings), 0)
	is.Equal(tokDirect.TripType, wsf.TripTypeDirect)
	is.Equal(tokIndirect.TripType, wsf.TripTypeIndirect)
	is.Equal(suq.TripType, wsf.TripTypeDirect)
}

func TestOverlapGroupEnd_requiresSameTerminal(t *testing.T) {
	is := is.New(t)

	// same vessel and instant but different departing terminals are separate groups
	trips := []*wsf.ScheduledTrip{
		testTrip("TOK", "MUK", "CLI", testDay(8, 0)),
		testTrip("TOK", "SEA", "BBI", testDay(8, 0)),
	}
	is.Equal(overlapGroupEnd(trips, 0), 1)
}
