package util

import (
	"time"

	iso8601 "github.com/senseyeio/duration"
)

const secondsPerDay = 24 * 60 * 60

var nextDayDuration, _ = iso8601.ParseISO8601("P1D")

func AddTimeToDate(date time.Time, sourceTime time.Time) time.Time {
	newDateTime := time.Date(date.Year(), date.Month(), date.Day(), sourceTime.Hour(), sourceTime.Minute(), sourceTime.Second(), sourceTime.Nanosecond(), date.Location())

	return newDateTime
}

// ServiceDay truncates an instant to midnight in its own location
func ServiceDay(dateTime time.Time) time.Time {
	return time.Date(dateTime.Year(), dateTime.Month(), dateTime.Day(), 0, 0, 0, 0, dateTime.Location())
}

// RollOver moves a downstream time onto the following day when its clock time
// is earlier than the upstream time. Only a single midnight is ever crossed.
func RollOver(downstream time.Time, upstream time.Time) time.Time {
	if downstream.Before(upstream) {
		return nextDayDuration.Shift(downstream)
	}

	return downstream
}

// WholeMinutesBetween returns the whole minutes from earlier to later, taking
// the seconds modulo one day so a negative gap wraps around midnight
func WholeMinutesBetween(later time.Time, earlier time.Time) int {
	gap := later.Sub(earlier)

	seconds := int64(gap / time.Second)
	if gap%time.Second < 0 {
		seconds--
	}

	seconds %= secondsPerDay
	if seconds < 0 {
		seconds += secondsPerDay
	}

	return int(seconds / 60)
}
