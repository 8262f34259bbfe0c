package wsf

import (
	"testing"
	"time"
)

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestScheduledTrip_SameSchedule(t *testing.T) {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	departing := time.Date(2022, 5, 22, 8, 0, 0, 0, location)
	arriving := time.Date(2022, 5, 22, 8, 20, 0, 0, location)
	baseline := func() *ScheduledTrip {
		return &ScheduledTrip{
			Id:                      42,
			Key:                     "TOK--2022-05-22--08:00--MUK-CLI",
			SailingDay:              "2022-05-22",
			VesselAbbrev:            "TOK",
			DepartingTerminalAbbrev: "MUK",
			ArrivingTerminalAbbrev:  "CLI",
			DepartingTime:           departing,
			ArrivingTime:            timePtr(arriving),
			SailingNotes:            "",
			Annotations:             Annotations{"Daily"},
			RouteId:                 7,
			RouteAbbrev:             "muk-cl",
			TripType:                TripTypeDirect,
			NextKey:                 strPtr("TOK--2022-05-22--08:30--CLI-MUK"),
			EstArriveNext:           timePtr(arriving),
			CreatedAt:               departing,
		}
	}
	tests := []struct {
		name   string
		modify func(trip *ScheduledTrip)
		want   bool
	}{
		{
			name:   "identical",
			modify: func(trip *ScheduledTrip) {},
			want:   true,
		},
		{
			name: "storage id ignored",
			modify: func(trip *ScheduledTrip) {
				trip.Id = 9999
			},
			want: true,
		},
		{
			name: "created at ignored",
			modify: func(trip *ScheduledTrip) {
				trip.CreatedAt = trip.CreatedAt.Add(time.Hour)
			},
			want: true,
		},
		{
			name: "same departure instant in another zone",
			modify: func(trip *ScheduledTrip) {
				trip.DepartingTime = trip.DepartingTime.In(time.UTC)
			},
			want: true,
		},
		{
			name: "trip type changed",
			modify: func(trip *ScheduledTrip) {
				trip.TripType = TripTypeIndirect
			},
			want: false,
		},
		{
			name: "arriving time cleared",
			modify: func(trip *ScheduledTrip) {
				trip.ArrivingTime = nil
			},
			want: false,
		},
		{
			name: "next key changed",
			modify: func(trip *ScheduledTrip) {
				trip.NextKey = strPtr("TOK--2022-05-22--09:00--CLI-MUK")
			},
			want: false,
		},
		{
			name: "annotations changed",
			modify: func(trip *ScheduledTrip) {
				trip.Annotations = Annotations{"Daily", "Low tide"}
			},
			want: false,
		},
		{
			name: "estimated arrival changed",
			modify: func(trip *ScheduledTrip) {
				trip.EstArriveNext = timePtr(arriving.Add(time.Minute))
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := baseline()
			other := baseline()
			tt.modify(other)
			if got := trip.SameSchedule(other); got != tt.want {
				t.Errorf("SameSchedule() = %v, want %v", got, tt.want)
			}
		})
	}
}
