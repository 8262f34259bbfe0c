package wsf

import (
	"testing"
	"time"
)

func TestGenerateTripKey(t *testing.T) {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	morning := time.Date(2022, 5, 22, 8, 0, 0, 0, location)
	morningUTC := morning.In(time.UTC)
	lateNight := time.Date(2022, 5, 22, 23, 55, 0, 0, location)

	type args struct {
		vesselAbbrev            string
		departingTerminalAbbrev string
		arrivingTerminalAbbrev  string
		departingTime           *time.Time
	}
	tests := []struct {
		name    string
		args    args
		want    string
		wantErr bool
	}{
		{
			name: "morning sailing",
			args: args{
				vesselAbbrev:            "TOK",
				departingTerminalAbbrev: "MUK",
				arrivingTerminalAbbrev:  "CLI",
				departingTime:           &morning,
			},
			want: "TOK--2022-05-22--08:00--MUK-CLI",
		},
		{
			name: "utc input renders in pacific local time",
			args: args{
				vesselAbbrev:            "TOK",
				departingTerminalAbbrev: "MUK",
				arrivingTerminalAbbrev:  "CLI",
				departingTime:           &morningUTC,
			},
			want: "TOK--2022-05-22--08:00--MUK-CLI",
		},
		{
			name: "late night sailing stays on its pacific date",
			args: args{
				vesselAbbrev:            "SUQ",
				departingTerminalAbbrev: "CLI",
				arrivingTerminalAbbrev:  "MUK",
				departingTime:           &lateNight,
			},
			want: "SUQ--2022-05-22--23:55--CLI-MUK",
		},
		{
			name: "missing arriving terminal still produces a key",
			args: args{
				vesselAbbrev:            "TOK",
				departingTerminalAbbrev: "MUK",
				arrivingTerminalAbbrev:  "",
				departingTime:           &morning,
			},
			want: "TOK--2022-05-22--08:00--MUK-",
		},
		{
			name: "missing vessel",
			args: args{
				vesselAbbrev:            "",
				departingTerminalAbbrev: "MUK",
				arrivingTerminalAbbrev:  "CLI",
				departingTime:           &morning,
			},
			wantErr: true,
		},
		{
			name: "missing departing terminal",
			args: args{
				vesselAbbrev:            "TOK",
				departingTerminalAbbrev: "",
				arrivingTerminalAbbrev:  "CLI",
				departingTime:           &morning,
			},
			wantErr: true,
		},
		{
			name: "missing departing time",
			args: args{
				vesselAbbrev:            "TOK",
				departingTerminalAbbrev: "MUK",
				arrivingTerminalAbbrev:  "CLI",
				departingTime:           nil,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateTripKey(tt.args.vesselAbbrev, tt.args.departingTerminalAbbrev,
				tt.args.arrivingTerminalAbbrev, tt.args.departingTime)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateTripKey() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("GenerateTripKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateTripKey_deterministic(t *testing.T) {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	departing := time.Date(2022, 5, 22, 8, 0, 0, 0, location)
	first, err := GenerateTripKey("WAL", "SEA", "BBI", &departing)
	if err != nil {
		t.Errorf("GenerateTripKey() unexpected error = %v", err)
		return
	}
	second, err := GenerateTripKey("WAL", "SEA", "BBI", &departing)
	if err != nil {
		t.Errorf("GenerateTripKey() unexpected error = %v", err)
		return
	}
	if first != second {
		t.Errorf("GenerateTripKey() not deterministic, got %v and %v", first, second)
	}
}

func TestSailingDayFor(t *testing.T) {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{
			name: "midday",
			at:   time.Date(2022, 5, 22, 12, 0, 0, 0, location),
			want: "2022-05-22",
		},
		{
			name: "utc instant past midnight utc is still previous pacific day",
			at:   time.Date(2022, 5, 23, 2, 30, 0, 0, time.UTC),
			want: "2022-05-22",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SailingDayFor(tt.at); got != tt.want {
				t.Errorf("SailingDayFor() = %v, want %v", got, tt.want)
			}
		})
	}
}
