package models

import "time"

// Deadline bands
const (
	BandOverdue = "overdue"
	BandUrgent  = "urgent"
	BandWarning = "warning"
	BandNormal  = "normal"
)

// Deadline describes how close an RFQ deadline is.
type Deadline struct {
	Band string `json:"band"`
	Days int    `json:"days"`
}

// DeadlineBand compares calendar dates, ignoring time of day. For overdue
// deadlines Days is the absolute number of days past.
func DeadlineBand(deadline, now time.Time) Deadline {
	d := daysBetween(now, deadline)
	switch {
	case d < 0:
		return Deadline{Band: BandOverdue, Days: -d}
	case d <= 3:
		return Deadline{Band: BandUrgent, Days: d}
	case d <= 7:
		return Deadline{Band: BandWarning, Days: d}
	default:
		return Deadline{Band: BandNormal, Days: d}
	}
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
