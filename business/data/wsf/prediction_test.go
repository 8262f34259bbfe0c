package wsf

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestPrediction_RecordActual(t *testing.T) {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	pred := time.Date(2022, 5, 22, 8, 20, 0, 0, location)
	band := func() Prediction {
		return Prediction{
			PredTime: pred,
			MinTime:  pred.Add(-4 * time.Minute),
			MaxTime:  pred.Add(4 * time.Minute),
			MAE:      2.5,
			StdDev:   1.8,
		}
	}
	tests := []struct {
		name           string
		actual         time.Time
		wantDeltaTotal float64
		wantDeltaRange float64
	}{
		{
			name:           "inside band",
			actual:         pred.Add(2 * time.Minute),
			wantDeltaTotal: 2,
			wantDeltaRange: 0,
		},
		{
			name:           "exactly on band edge",
			actual:         pred.Add(4 * time.Minute),
			wantDeltaTotal: 4,
			wantDeltaRange: 0,
		},
		{
			name:           "late beyond band",
			actual:         pred.Add(10 * time.Minute),
			wantDeltaTotal: 10,
			wantDeltaRange: 6,
		},
		{
			name:           "early before band",
			actual:         pred.Add(-7 * time.Minute),
			wantDeltaTotal: -7,
			wantDeltaRange: -3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			p := band()
			p.RecordActual(tt.actual)
			is.True(p.Actual != nil)
			is.True(p.Actual.Equal(tt.actual))
			is.True(p.DeltaTotal != nil)
			is.Equal(*p.DeltaTotal, tt.wantDeltaTotal)
			is.True(p.DeltaRange != nil)
			is.Equal(*p.DeltaRange, tt.wantDeltaRange)
		})
	}
}

func TestPrediction_Value_nil(t *testing.T) {
	is := is.New(t)
	var p *Prediction
	v, err := p.Value()
	is.NoErr(err)
	is.Equal(v, nil)
}
