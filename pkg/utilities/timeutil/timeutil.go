package timeutil

import (
	"time"
)

// TimeUTC is a small helper type representing Unix time (in seconds) in UTC.
type TimeUTC struct {
	T int64 `json:"t"`
}

func NowUTC() TimeUTC {
	return TimeUTC{T: time.Now().UTC().Unix()}
}
