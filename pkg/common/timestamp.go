package common

import "time"

type Timestamp struct {
	Seconds int64
	Nanos   int64
}

func TimestampFromMicros(micros int64) Timestamp {
	secs := micros / 1000000
	rem := micros % 1000000
	if rem < 0 {
		secs--
		rem += 1000000
	}
	return Timestamp{Seconds: secs, Nanos: rem * 1000}
}

func (ts *Timestamp) Equal(o *Timestamp) bool {
	return ts.Seconds == o.Seconds && ts.Nanos == o.Nanos
}

func (ts *Timestamp) Less(o *Timestamp) bool {
	if ts.Seconds != o.Seconds {
		return ts.Seconds < o.Seconds
	}
	return ts.Nanos < o.Nanos
}

func (ts *Timestamp) ToTime() time.Time {
	return time.Unix(ts.Seconds, ts.Nanos).UTC()
}

func (ts *Timestamp) String() string {
	return ts.ToTime().Format("2006-01-02 15:04:05.000000")
}
