package utils

import "time"

// Kenya time (EAT, +03:00). The fixed zone keeps formatting deterministic on
// hosts without tzdata.
var keLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Africa/Nairobi"); err == nil {
		return loc
	}
	return time.FixedZone("EAT", 3*3600)
}()

func KenyaLocation() *time.Location { return keLoc }

// Timestamp mirrors the document-store timestamp shape the web client sends,
// e.g. {"seconds": 1700000000, "nanoseconds": 0}.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int32 `json:"nanoseconds,omitempty"`
}

func (ts Timestamp) IsZero() bool { return ts.Seconds == 0 && ts.Nanoseconds == 0 }

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanoseconds)).In(keLoc)
}

func TimestampFrom(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int32(t.Nanosecond())}
}

// FormatShortDate renders dd/mm/yy in Kenya time, "" for the zero value.
func FormatShortDate(ts Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Time().Format("02/01/06")
}

func FormatDateKE(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(keLoc).Format("02/01/06")
}
