// Package timeparse normalizes the loose timestamp formats found on the
// upstream sites into UTC components or a fixed display rendering.
package timeparse

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"
)

// DisplayLayout is the fixed pattern used for kickoff displays,
// e.g. "Wednesday, 11/15/2023 - 05:13 AM +0700".
const DisplayLayout = "Monday, 01/02/2006 - 03:04 PM -0700"

// fallbackLayouts cover the bare time and day/month fragments the livescore
// page renders, which dateparse does not recognize on its own.
var fallbackLayouts = []string{
	"15:04",
	"15h04",
	"02/01",
	"02/01/2006",
	"02/01 15:04",
}

// Normalizer parses free-form timestamps in a given source timezone.
type Normalizer struct {
	loc    *time.Location
	logger *zap.Logger
}

// New builds a Normalizer whose naive timestamps are interpreted in sourceZone.
func New(sourceZone string, logger *zap.Logger) (*Normalizer, error) {
	loc, err := time.LoadLocation(sourceZone)
	if err != nil {
		return nil, fmt.Errorf("load source zone %q: %w", sourceZone, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{loc: loc, logger: logger}, nil
}

// ParseFlexible attempts a tolerant parse of text. The second return is false
// when no interpretation succeeded; callers keep the raw string in that case.
// It never returns an error.
func (n *Normalizer) ParseFlexible(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	if t, err := dateparse.ParseIn(text, n.loc); err == nil {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, text, n.loc); err == nil {
			// Layouts without a date component land in year zero; pin them to
			// today so the zone conversion crosses the right day boundary.
			if t.Year() == 0 {
				now := time.Now().In(n.loc)
				t = time.Date(now.Year(), now.Month(), now.Day(),
					t.Hour(), t.Minute(), 0, 0, n.loc)
			}
			return t, true
		}
	}
	n.logger.Warn("unparseable timestamp, keeping raw text", zap.String("text", text))
	return time.Time{}, false
}

// UTCTimeOfDay projects an instant to its time-of-day component in UTC.
func (n *Normalizer) UTCTimeOfDay(t time.Time) string {
	return t.UTC().Format("15:04:05")
}

// UTCDate projects an instant to its date component in UTC.
func (n *Normalizer) UTCDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatEpoch renders a UTC epoch-seconds value in the target timezone using
// the fixed display layout. It depends only on its inputs.
func FormatEpoch(epochSeconds int64, targetZone string) (string, error) {
	loc, err := time.LoadLocation(targetZone)
	if err != nil {
		return "", fmt.Errorf("load target zone %q: %w", targetZone, err)
	}
	return time.Unix(epochSeconds, 0).In(loc).Format(DisplayLayout), nil
}
