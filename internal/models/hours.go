package models

// BusinessHours is one day of a business's weekly schedule.
// DayOfWeek runs from 0 (Sunday) to 6 (Saturday).
type BusinessHours struct {
	BusinessID int64  `json:"business_id" db:"business_id"`
	DayOfWeek  int    `json:"day_of_week" db:"day_of_week"`
	OpenTime   string `json:"open_time,omitempty" db:"open_time"`
	CloseTime  string `json:"close_time,omitempty" db:"close_time"`
	IsClosed   bool   `json:"is_closed" db:"is_closed"`
	Is24Hour   bool   `json:"is_24_hour" db:"is_24_hour"`
}
