package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"github.com/sfvdirectory/sitegen/internal/models"
)

// Weekdays are indexed by day_of_week, Sunday first
var Weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// HoursRow is one formatted line of a business's schedule
type HoursRow struct {
	DayOfWeek int
	Day       string
	Display   string
	IsToday   bool
}

// Label renders the row as a single accessible line of day and hours
func (r HoursRow) Label() string {
	return r.Day + " — " + r.Display
}

// TodayIndex returns the day_of_week of now in loc
func TodayIndex(now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	return int(now.In(loc).Weekday())
}

var clockLayouts = []string{"15:04:05.999999", "15:04:05", "15:04"}

// FormatClock converts a 24-hour "HH:MM[:SS[.ffffff]]" value to "3:04 PM".
// Postgres stores end of day as 24:00, which reads as midnight.
func FormatClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if isEndOfDay(value) {
		return "12:00 AM", nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("3:04 PM"), nil
		}
	}
	return "", fmt.Errorf("unrecognized time %q", value)
}

func isEndOfDay(value string) bool {
	rest, ok := strings.CutPrefix(value, "24:00")
	if !ok {
		return false
	}
	return rest == "" || strings.Trim(rest, ":0.") == ""
}

// FormatBusinessHours produces one row per weekday present in rows, Sunday through Saturday.
// Days without a row are omitted. Rows that cannot be formatted are dropped and reported;
// when a day appears twice the first row wins.
func FormatBusinessHours(rows []models.BusinessHours, todayIndex int) ([]HoursRow, []*BuildError) {
	var byDay [7]*models.BusinessHours
	var errs []*BuildError

	for i := range rows {
		h := &rows[i]
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			errs = append(errs, &BuildError{
				Field:  "day_of_week",
				Value:  fmt.Sprint(h.DayOfWeek),
				Reason: "day must be between 0 and 6",
			})
			continue
		}
		if byDay[h.DayOfWeek] != nil {
			errs = append(errs, &BuildError{
				Field:  "day_of_week",
				Value:  Weekdays[h.DayOfWeek],
				Reason: "duplicate hours row",
			})
			continue
		}
		byDay[h.DayOfWeek] = h
	}

	formatted := make([]HoursRow, 0, len(rows))
	for day, h := range byDay {
		if h == nil {
			continue
		}

		display, err := displayHours(h)
		if err != nil {
			errs = append(errs, &BuildError{
				Field:  "hours",
				Value:  Weekdays[day],
				Reason: err.Error(),
			})
			continue
		}

		formatted = append(formatted, HoursRow{
			DayOfWeek: day,
			Day:       Weekdays[day],
			Display:   display,
			IsToday:   day == todayIndex,
		})
	}

	return formatted, errs
}

func displayHours(h *models.BusinessHours) (string, error) {
	switch {
	case h.Is24Hour:
		return "24 Hours", nil
	case h.IsClosed:
		return "Closed", nil
	}

	open, err := FormatClock(h.OpenTime)
	if err != nil {
		return "", fmt.Errorf("open time: %w", err)
	}
	closing, err := FormatClock(h.CloseTime)
	if err != nil {
		return "", fmt.Errorf("close time: %w", err)
	}
	return open + " - " + closing, nil
}
