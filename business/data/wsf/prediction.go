package wsf

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Prediction is one ML-produced arrival or departure estimate with its error
// band. MinTime <= PredTime <= MaxTime always holds for predictions produced by
// this system. MAE and StdDev are in minutes.
type Prediction struct {
	PredTime time.Time `json:"pred_time"`
	MinTime  time.Time `json:"min_time"`
	MaxTime  time.Time `json:"max_time"`
	MAE      float64   `json:"mae"`
	StdDev   float64   `json:"std_dev"`
	// Actual is set once the predicted event has been observed
	Actual *time.Time `json:"actual,omitempty"`
	// DeltaTotal is the signed minutes between Actual and PredTime
	DeltaTotal *float64 `json:"delta_total,omitempty"`
	// DeltaRange is zero when Actual falls inside [MinTime, MaxTime], otherwise
	// the signed minutes to the nearest bound
	DeltaRange *float64 `json:"delta_range,omitempty"`
}

// RecordActual sets Actual and computes the delta error metrics against the
// prediction band
func (p *Prediction) RecordActual(actual time.Time) {
	p.Actual = &actual
	deltaTotal := actual.Sub(p.PredTime).Minutes()
	p.DeltaTotal = &deltaTotal
	deltaRange := 0.0
	if actual.Before(p.MinTime) {
		deltaRange = actual.Sub(p.MinTime).Minutes()
	} else if actual.After(p.MaxTime) {
		deltaRange = actual.Sub(p.MaxTime).Minutes()
	}
	p.DeltaRange = &deltaRange
}

// Value implements driver.Valuer so a Prediction can be stored as a json column
func (p *Prediction) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for a Prediction json column
func (p *Prediction) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("unable to scan %T into Prediction", src)
}
