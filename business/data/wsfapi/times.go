package wsfapi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dotNetDatePattern matches WSDOT's .NET json date rendering, for example
// "/Date(1652188800000-0700)/". The offset suffix is informational, the
// milliseconds are an absolute unix epoch value.
var dotNetDatePattern = regexp.MustCompile(`^/Date\((-?\d+)([+-]\d{4})?\)/$`)

// DotNetTime wraps time.Time with json marshaling for the .NET date format the
// WSDOT ferries API uses for every timestamp
type DotNetTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler for DotNetTime
func (d *DotNetTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	matches := dotNetDatePattern.FindStringSubmatch(s)
	if matches == nil {
		return fmt.Errorf("unable to parse %q as a .NET json date", s)
	}
	millis, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return fmt.Errorf("unable to parse %q as a .NET json date: %w", s, err)
	}
	d.Time = time.Unix(millis/1000, (millis%1000)*int64(time.Millisecond)).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler for DotNetTime
func (d DotNetTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"/Date(%d)/"`, d.Time.UnixNano()/int64(time.Millisecond))), nil
}

// TimeOrNil returns a *time.Time for an optional DotNetTime field
func TimeOrNil(d *DotNetTime) *time.Time {
	if d == nil || d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
