package reference

import (
	"testing"

	"github.com/matryer/is"
)

func TestLookup_nameNormalization(t *testing.T) {
	is := is.New(t)
	l := MakeLookup(
		map[string]string{"Tokitae": "TOK"},
		map[string]string{"Mukilteo": "MUK"})

	abbrev, ok := l.VesselAbbrev("Tokitae")
	is.True(ok)
	is.Equal(abbrev, "TOK")

	// feed casing and padding drift must not break resolution
	abbrev, ok = l.VesselAbbrev("  TOKITAE ")
	is.True(ok)
	is.Equal(abbrev, "TOK")

	abbrev, ok = l.TerminalAbbrev("mukilteo")
	is.True(ok)
	is.Equal(abbrev, "MUK")

	_, ok = l.VesselAbbrev("Kalakala")
	is.True(!ok)
}

func TestLookup_crossings(t *testing.T) {
	is := is.New(t)
	l := MakeLookup(nil, nil)
	l.AddCrossing("muk-cl", "MUK", "CLI", 20)

	minutes, ok := l.CrossingMinutes("muk-cl", "MUK", "CLI")
	is.True(ok)
	is.Equal(minutes, 20)

	// crossing times are directional entries, not symmetric by default
	_, ok = l.CrossingMinutes("muk-cl", "CLI", "MUK")
	is.True(!ok)
}

func TestDefault(t *testing.T) {
	is := is.New(t)
	l := Default()

	abbrev, ok := l.VesselAbbrev("Walla Walla")
	is.True(ok)
	is.Equal(abbrev, "WAL")

	abbrev, ok = l.TerminalAbbrev("Seattle")
	is.True(ok)
	is.Equal(abbrev, "P52")

	minutes, ok := l.CrossingMinutes("muk-cl", "MUK", "CLI")
	is.True(ok)
	is.Equal(minutes, 20)

	minutes, ok = l.CrossingMinutes("ana-sid", "SID", "ANA")
	is.True(ok)
	is.Equal(minutes, 135)
}
