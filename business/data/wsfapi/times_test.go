package wsfapi

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDotNetTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "with pacific offset suffix",
			input: `"/Date(1653231600000-0700)/"`,
			want:  time.Unix(1653231600, 0),
		},
		{
			name:  "without offset suffix",
			input: `"/Date(1653231600000)/"`,
			want:  time.Unix(1653231600, 0),
		},
		{
			name:  "with positive offset suffix",
			input: `"/Date(1653231600000+0100)/"`,
			want:  time.Unix(1653231600, 0),
		},
		{
			name:  "sub second milliseconds preserved",
			input: `"/Date(1653231600250)/"`,
			want:  time.Unix(1653231600, 250*int64(time.Millisecond)),
		},
		{
			name:  "null is the zero time",
			input: `null`,
			want:  time.Time{},
		},
		{
			name:    "plain iso timestamp rejected",
			input:   `"2022-05-22T08:00:00Z"`,
			wantErr: true,
		},
		{
			name:    "garbage rejected",
			input:   `"/Date(yesterday)/"`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DotNetTime
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if !d.Time.Equal(tt.want) {
				t.Errorf("UnmarshalJSON() = %v, want %v", d.Time, tt.want)
			}
		})
	}
}

func TestDotNetTime_roundTrip(t *testing.T) {
	original := DotNetTime{Time: time.Unix(1653231600, 0)}
	data, err := json.Marshal(original)
	if err != nil {
		t.Errorf("MarshalJSON() unexpected error = %v", err)
		return
	}
	var decoded DotNetTime
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Errorf("UnmarshalJSON() unexpected error = %v", err)
		return
	}
	if !decoded.Time.Equal(original.Time) {
		t.Errorf("round trip = %v, want %v", decoded.Time, original.Time)
	}
}

func TestTimeOrNil(t *testing.T) {
	if got := TimeOrNil(nil); got != nil {
		t.Errorf("TimeOrNil(nil) = %v, want nil", got)
	}
	if got := TimeOrNil(&DotNetTime{}); got != nil {
		t.Errorf("TimeOrNil(zero) = %v, want nil", got)
	}
	set := DotNetTime{Time: time.Unix(1653231600, 0)}
	got := TimeOrNil(&set)
	if got == nil || !got.Equal(set.Time) {
		t.Errorf("TimeOrNil(set) = %v, want %v", got, set.Time)
	}
}
