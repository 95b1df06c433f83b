// Package timefmt adapts the standard time package to the handful of
// zone-aware operations the charts need: formatting, UTC offsets and
// truncation to calendar units.
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zones must resolve on hosts without a zoneinfo database
)

// ErrUnknownZone is returned by LoadZone for names the zone database does
// not know.
var ErrUnknownZone = errors.New("unknown time zone")

// Zone is a named time zone.
type Zone struct {
	name string
	loc  *time.Location
}

// UTC is the default zone.
var UTC = Zone{name: "UTC", loc: time.UTC}

// LoadZone resolves an IANA zone name. An empty name means UTC.
func LoadZone(name string) (Zone, error) {
	if name == "" || name == "UTC" {
		return UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("%w %q", ErrUnknownZone, name)
	}
	return Zone{name: name, loc: loc}, nil
}

// Name returns the zone name as it was loaded.
func (z Zone) Name() string {
	if z.loc == nil {
		return UTC.name
	}
	return z.name
}

// Location returns the underlying location.
func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

// In converts t to the zone.
func (z Zone) In(t time.Time) time.Time {
	return t.In(z.Location())
}

// Format renders t in the zone using a Go reference layout.
func Format(t time.Time, z Zone, layout string) string {
	return z.In(t).Format(layout)
}

// UTCOffset returns the zone's offset from UTC at instant t.
func UTCOffset(t time.Time, z Zone) time.Duration {
	_, offset := z.In(t).Zone()
	return time.Duration(offset) * time.Second
}

// Unit is a calendar unit StartOf can truncate to.
type Unit int

// Calendar units.
const (
	Hour Unit = iota
	Day
	Week
)

// StartOf truncates t to the beginning of the unit containing it, in the
// zone's wall clock. Weeks start on Sunday. Hours are truncated by instant,
// so a repeated wall-clock hour resolves to the occurrence containing t.
func StartOf(t time.Time, unit Unit, z Zone) time.Time {
	local := z.In(t)
	y, mo, d := local.Date()
	switch unit {
	case Day:
		return time.Date(y, mo, d, 0, 0, 0, 0, local.Location())
	case Week:
		return time.Date(y, mo, d-int(local.Weekday()), 0, 0, 0, 0, local.Location())
	default:
		off := UTCOffset(t, z)
		return z.In(t.Add(off).Truncate(time.Hour).Add(-off))
	}
}

// HourLabel renders the hour of t as a compact 12-hour label: "5a", "8p",
// "12a".
func HourLabel(t time.Time, z Zone) string {
	s := z.In(t).Format("3PM")
	return strings.ToLower(s[:len(s)-1])
}

// OverlayLabel renders the time shown in a hover overlay, e.g.
// "03:04 PM (UTC) Mon Jan 02". With dateOnly set the clock is omitted and
// the year added: "Mon Jan 02 2006".
func OverlayLabel(t time.Time, z Zone, dateOnly bool) string {
	if dateOnly {
		return Format(t, z, "Mon Jan 02 2006")
	}
	return Format(t, z, "03:04 PM") + " (" + z.Name() + ") " + Format(t, z, "Mon Jan 02")
}
