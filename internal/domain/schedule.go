package domain

import (
	"fmt"
	"time"
)

// DayBucket groups the activities that fall on one calendar day of a trip.
// Date is that day as midnight UTC (see CalendarDate), so formatting it
// yields the local date even in zones where local midnight does not exist.
type DayBucket struct {
	Date       time.Time
	Activities []Activity
}

// BucketActivities returns one bucket per calendar day from tripStart's day to
// tripEnd's day inclusive, in ascending order. Days are evaluated in loc, so an
// activity belongs to the bucket whose local date it shares, not to a 24h window.
//
// Activities keep their input order inside each bucket. Activities whose day
// lies outside the trip span are not placed in any bucket.
// A nil loc means UTC. If tripEnd precedes tripStart a single bucket for the
// start day is returned.
func BucketActivities(tripStart, tripEnd time.Time, activities []Activity, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.UTC
	}

	first := CalendarDate(tripStart, loc)
	days := daysBetween(first, CalendarDate(tripEnd, loc))
	if days < 0 {
		days = 0
	}

	buckets := make([]DayBucket, days+1)
	for i := range buckets {
		buckets[i] = DayBucket{Date: first.AddDate(0, 0, i), Activities: []Activity{}}
	}

	for _, a := range activities {
		i := daysBetween(first, CalendarDate(a.OccursAt, loc))
		if i < 0 || i > days {
			continue
		}
		buckets[i].Activities = append(buckets[i].Activities, a)
	}

	return buckets
}

// ValidateTripDates enforces the date rules shared by trip creation and update.
//   - startsAt must not be before now.
//   - endsAt must not be before startsAt.
func ValidateTripDates(startsAt, endsAt, now time.Time) error {
	if startsAt.Before(now) {
		return fmt.Errorf("%w: invalid trip start date", ErrValidation)
	}
	if endsAt.Before(startsAt) {
		return fmt.Errorf("%w: invalid trip end date", ErrValidation)
	}
	return nil
}

// ValidateActivityDate reports whether occursAt falls on one of the trip's
// calendar days, evaluated in loc. Both the first and last day are included,
// so an activity in the afternoon of the last day is accepted even when the
// trip's ends_at is midnight.
func ValidateActivityDate(trip Trip, occursAt time.Time, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	day := CalendarDate(occursAt, loc)
	if day.Before(CalendarDate(trip.StartsAt, loc)) || day.After(CalendarDate(trip.EndsAt, loc)) {
		return fmt.Errorf("%w: invalid activity date", ErrValidation)
	}
	return nil
}

// CalendarDate returns t's calendar day in loc as midnight UTC. Comparing and
// stepping these values is plain date arithmetic: every day is 24h long and no
// daylight-saving gap can move or merge two dates.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from one CalendarDate to another.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours()) / 24
}
