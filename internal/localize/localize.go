// Package localize converts stored UTC timestamps into the configured
// display timezone for user-facing output.
package localize

import (
	"log/slog"
	"time"
)

// Localizer renders timestamps in the display timezone.
type Localizer struct {
	loc *time.Location
}

// New loads the named timezone. Unknown names fall back to UTC with a
// warning rather than failing startup.
func New(logger *slog.Logger, name string) *Localizer {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("Unknown display timezone, falling back to UTC", "timezone", name, "error", err)
		loc = time.UTC
	}
	return &Localizer{loc: loc}
}

// Localize converts t into the display timezone.
func (l *Localizer) Localize(t time.Time) time.Time {
	return t.In(l.loc)
}

// FormatDate renders t as a short human-readable date, e.g. "Apr 25, 2026".
func (l *Localizer) FormatDate(t time.Time) string {
	return t.In(l.loc).Format("Jan 02, 2006")
}

// FormatDateTime renders t with time of day included.
func (l *Localizer) FormatDateTime(t time.Time) string {
	return t.In(l.loc).Format("Jan 02, 2006 3:04 PM")
}
