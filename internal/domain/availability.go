package domain

import (
	"errors"
	"time"
)

// Slot availability is an explicit per-session state machine. Every
// transition is tagged with the (date, type) key the fetch was issued for;
// results whose key no longer matches the current selection are discarded,
// so a slow response for a previously-selected date can never overwrite a
// newer one.

type AvailabilityStatus string

const (
	AvailabilityIdle    AvailabilityStatus = "idle"
	AvailabilityLoading AvailabilityStatus = "loading"
	AvailabilityLoaded  AvailabilityStatus = "loaded"
	AvailabilityFailed  AvailabilityStatus = "failed"
)

type AvailabilityKey struct {
	Date string      `json:"date"`
	Type BookingType `json:"type"`
}

type Availability struct {
	Status AvailabilityStatus `json:"status"`
	Key    AvailabilityKey    `json:"key"`
	Slots  []string           `json:"slots"`
	Reason string             `json:"reason,omitempty"`
}

// Reset returns the machine to Idle. Called when the date or type changes.
func (a *Availability) Reset() {
	*a = Availability{Status: AvailabilityIdle}
}

// Begin marks a fetch in flight for the given key.
func (a *Availability) Begin(key AvailabilityKey) {
	*a = Availability{Status: AvailabilityLoading, Key: key}
}

// Complete records a successful fetch. It reports false and leaves the
// machine untouched when the key no longer matches the in-flight request.
func (a *Availability) Complete(key AvailabilityKey, slots []string) bool {
	if a.Key != key {
		return false
	}
	if slots == nil {
		slots = []string{}
	}
	*a = Availability{Status: AvailabilityLoaded, Key: key, Slots: slots}
	return true
}

// Fail records a failed fetch, leaving the slot list empty.
func (a *Availability) Fail(key AvailabilityKey, reason string) bool {
	if a.Key != key {
		return false
	}
	*a = Availability{Status: AvailabilityFailed, Key: key, Slots: []string{}, Reason: reason}
	return true
}

// Offers reports whether the slot may be selected right now: only slots from
// the most recently loaded list for the given key count.
func (a *Availability) Offers(key AvailabilityKey, slot string) bool {
	if a.Status != AvailabilityLoaded || a.Key != key {
		return false
	}
	for _, s := range a.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Date pre-filter: before the backend is ever asked, a date must parse, be
// strictly after today, and not fall on a weekend in the client's calendar.

var (
	ErrBadDate     = errors.New("invalid date")
	ErrPastDate    = errors.New("date must be in the future")
	ErrWeekendDate = errors.New("weekends are not bookable")
)

func CheckDateSelectable(dateStr, timeZone string, now time.Time) error {
	loc := LoadLocation(timeZone)
	day, err := time.ParseInLocation(DateFormat, dateStr, loc)
	if err != nil {
		return ErrBadDate
	}
	today := now.In(loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	if !day.After(today) {
		return ErrPastDate
	}
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return ErrWeekendDate
	}
	return nil
}

// LoadLocation resolves the session time zone, falling back to UTC for
// anything unknown.
func LoadLocation(timeZone string) *time.Location {
	if timeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduledAt combines the selected calendar day and slot label into a single
// instant in the session time zone.
func (s *IntakeState) ScheduledAt() (time.Time, error) {
	if s.SelectedDate == "" || s.SelectedTime == "" {
		return time.Time{}, ErrBadDate
	}
	loc := LoadLocation(s.TimeZone)
	t, err := time.ParseInLocation(DateFormat+" "+TimeFormat, s.SelectedDate+" "+s.SelectedTime, loc)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}
