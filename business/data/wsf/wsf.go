// Package wsf provides Washington State Ferries schedule and live trip CRUD functionality
package wsf

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TripType partitions scheduled sailings into direct crossings and indirect
// sailing options that involve an intermediate leg
type TripType string

const (
	TripTypeDirect   TripType = "direct"
	TripTypeIndirect TripType = "indirect"
)

// ScheduledTrip is one scheduled sailing leg for a vessel on a sailing day.
// Key is unique within a SailingDay. PrevKey and NextKey only ever reference
// direct trips of the same vessel.
type ScheduledTrip struct {
	// Id is storage identity only, excluded from schedule equality
	Id                      int64       `db:"id" json:"-"`
	Key                     string      `db:"key" json:"key"`
	SailingDay              string      `db:"sailing_day" json:"sailing_day"`
	VesselAbbrev            string      `db:"vessel_abbrev" json:"vessel_abbrev"`
	DepartingTerminalAbbrev string      `db:"departing_terminal_abbrev" json:"departing_terminal_abbrev"`
	ArrivingTerminalAbbrev  string      `db:"arriving_terminal_abbrev" json:"arriving_terminal_abbrev"`
	DepartingTime           time.Time   `db:"departing_time" json:"departing_time"`
	ArrivingTime            *time.Time  `db:"arriving_time" json:"arriving_time"`
	SailingNotes            string      `db:"sailing_notes" json:"sailing_notes"`
	Annotations             Annotations `db:"annotations" json:"annotations"`
	RouteId                 int         `db:"route_id" json:"route_id"`
	RouteAbbrev             string      `db:"route_abbrev" json:"route_abbrev"`
	TripType                TripType    `db:"trip_type" json:"trip_type"`
	PrevKey                 *string     `db:"prev_key" json:"prev_key"`
	NextKey                 *string     `db:"next_key" json:"next_key"`
	NextDepartingTime       *time.Time  `db:"next_departing_time" json:"next_departing_time"`
	EstArriveNext           *time.Time  `db:"est_arrive_next" json:"est_arrive_next"`
	EstArriveCurr           *time.Time  `db:"est_arrive_curr" json:"est_arrive_curr"`
	CreatedAt               time.Time   `db:"created_at" json:"-"`
}

func (s *ScheduledTrip) String() string {
	return fmt.Sprintf("ScheduledTrip key:%s vessel:%s %s->%s departing:%s type:%s",
		s.Key, s.VesselAbbrev, s.DepartingTerminalAbbrev, s.ArrivingTerminalAbbrev,
		s.DepartingTime.Format("2006-01-02T15:04:05"), s.TripType)
}

// SameSchedule returns true when other carries the same schedule content,
// ignoring storage identity fields
func (s *ScheduledTrip) SameSchedule(other *ScheduledTrip) bool {
	if other == nil {
		return false
	}
	return s.Key == other.Key &&
		s.SailingDay == other.SailingDay &&
		s.VesselAbbrev == other.VesselAbbrev &&
		s.DepartingTerminalAbbrev == other.DepartingTerminalAbbrev &&
		s.ArrivingTerminalAbbrev == other.ArrivingTerminalAbbrev &&
		s.DepartingTime.Equal(other.DepartingTime) &&
		sameOptionalTime(s.ArrivingTime, other.ArrivingTime) &&
		s.SailingNotes == other.SailingNotes &&
		s.Annotations.equal(other.Annotations) &&
		s.RouteId == other.RouteId &&
		s.RouteAbbrev == other.RouteAbbrev &&
		s.TripType == other.TripType &&
		sameOptionalString(s.PrevKey, other.PrevKey) &&
		sameOptionalString(s.NextKey, other.NextKey) &&
		sameOptionalTime(s.NextDepartingTime, other.NextDepartingTime) &&
		sameOptionalTime(s.EstArriveNext, other.EstArriveNext) &&
		sameOptionalTime(s.EstArriveCurr, other.EstArriveCurr)
}

func sameOptionalTime(t1 *time.Time, t2 *time.Time) bool {
	if t1 == nil || t2 == nil {
		return t1 == nil && t2 == nil
	}
	return t1.Equal(*t2)
}

func sameOptionalString(s1 *string, s2 *string) bool {
	if s1 == nil || s2 == nil {
		return s1 == nil && s2 == nil
	}
	return *s1 == *s2
}

// Annotations is an ordered list of sailing annotation strings, stored as a json column
type Annotations []string

func (a Annotations) equal(other Annotations) bool {
	if len(a) != len(other) {
		return false
	}
	for i, s := range a {
		if other[i] != s {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer for Annotations
func (a Annotations) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for Annotations
func (a *Annotations) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("unable to scan %T into Annotations", src)
}
