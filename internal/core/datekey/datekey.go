// Package datekey derives integer calendar keys and generates calendar rows
package datekey

import "time"

// Key returns the yyyymmdd key of t in UTC
func Key(t time.Time) int32 {
	t = t.UTC()
	return int32(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// FromKey returns midnight UTC for a yyyymmdd key
func FromKey(k int32) time.Time {
	y := int(k) / 10000
	m := (int(k) / 100) % 100
	d := int(k) % 100
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// Day is one row of the calendar dimension
type Day struct {
	Key         int32
	Date        time.Time
	Year        int
	Quarter     int
	Month       int
	MonthName   string
	Day         int
	Weekday     int // 1 monday .. 7 sunday
	WeekdayName string
	IsWeekend   bool
	ISOWeek     int
}

// NewDay builds the calendar attributes for the day containing t
func NewDay(t time.Time) Day {
	t = t.UTC()
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	_, wk := d.ISOWeek()
	return Day{
		Key:         Key(d),
		Date:        d,
		Year:        d.Year(),
		Quarter:     (int(d.Month())-1)/3 + 1,
		Month:       int(d.Month()),
		MonthName:   d.Month().String(),
		Day:         d.Day(),
		Weekday:     wd,
		WeekdayName: d.Weekday().String(),
		IsWeekend:   wd >= 6,
		ISOWeek:     wk,
	}
}

// Calendar returns one Day per date from from to to inclusive
// an inverted range yields nothing
func Calendar(from, to time.Time) []Day {
	start := NewDay(from).Date
	end := NewDay(to).Date
	if end.Before(start) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	out := make([]Day, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, NewDay(d))
	}
	return out
}
