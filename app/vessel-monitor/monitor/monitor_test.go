package monitor

import (
	"testing"

	"github.com/PugetTransitTools/ferrycast/business/data/wsfapi"
	"github.com/matryer/is"
)

func locationAt(vesselAbbrev string, hour int, minute int) wsfapi.VesselLocation {
	return wsfapi.VesselLocation{
		VesselAbbrev: vesselAbbrev,
		TimeStamp:    wsfapi.DotNetTime{Time: monitorTestTime(hour, minute)},
	}
}

func TestLatestLocationPerVessel(t *testing.T) {
	is := is.New(t)

	locations := []wsfapi.VesselLocation{
		locationAt("TOK", 8, 5),
		locationAt("SUQ", 8, 2),
		locationAt("TOK", 8, 1),
		locationAt("TOK", 8, 3),
		locationAt("SUQ", 8, 4),
	}

	latest := latestLocationPerVessel(locations)

	is.Equal(len(latest), 2)
	is.True(latest["TOK"].TimeStamp.Time.Equal(monitorTestTime(8, 5)))
	is.True(latest["SUQ"].TimeStamp.Time.Equal(monitorTestTime(8, 4)))
}

func TestLatestLocationPerVessel_inputOrderIrrelevant(t *testing.T) {
	is := is.New(t)

	// newest first in the input should not change which report wins
	latest := latestLocationPerVessel([]wsfapi.VesselLocation{
		locationAt("TOK", 8, 5),
		locationAt("TOK", 8, 1),
	})
	is.True(latest["TOK"].TimeStamp.Time.Equal(monitorTestTime(8, 5)))
}

func TestLatestLocationPerVessel_skipsEmptyAbbrev(t *testing.T) {
	is := is.New(t)

	latest := latestLocationPerVessel([]wsfapi.VesselLocation{
		locationAt("", 8, 5),
		locationAt("TOK", 8, 1),
	})
	is.Equal(len(latest), 1)
}

func TestSortedVessels(t *testing.T) {
	is := is.New(t)

	latest := map[string]wsfapi.VesselLocation{
		"WAL": {},
		"SUQ": {},
		"TOK": {},
	}
	is.Equal(sortedVessels(latest), []string{"SUQ", "TOK", "WAL"})
}

func TestToDomainLocation(t *testing.T) {
	is := is.New(t)

	raw := tokAtDock()
	raw.Latitude = 47.951
	raw.Longitude = -122.31
	raw.Speed = 0.1
	raw.Heading = 180

	location := toDomainLocation(raw)
	is.Equal(location.VesselAbbrev, "TOK")
	is.Equal(location.DepartingTerminalAbbrev, "MUK")
	is.Equal(location.Latitude, 47.951)
	is.Equal(location.AtDock, true)
	is.Equal(location.LeftDock, nil)
	is.True(location.ScheduledDeparture != nil)
	is.True(location.ScheduledDeparture.Equal(monitorTestTime(8, 0)))
	is.True(location.TimeStamp.Equal(monitorTestTime(7, 50)))
}
