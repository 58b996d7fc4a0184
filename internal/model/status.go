package model

import "time"

// Distance is the non-negative calendar decomposition of a time gap.
type Distance struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

func (d Distance) IsZero() bool {
	return d == Distance{}
}

// CountdownStatus is derived on every tick and never persisted.
type CountdownStatus struct {
	IsOverdue bool
	Distance  Distance
	Target    time.Time
}

// TargetTime returns last completion + interval, or now when the record has
// no history yet.
func TargetTime(r CountdownRecord, interval time.Duration, now time.Time) time.Time {
	last, ok := r.LastCompleted()
	if !ok {
		return now
	}
	return last.Add(interval)
}

// ComputeStatus reports overdue only once a whole second has passed since
// target, matching the resolution of Distance.
func ComputeStatus(target, now time.Time) CountdownStatus {
	overdue := now.Sub(target) >= time.Second
	var d Distance
	if overdue {
		d = Decompose(target, now)
	} else {
		d = Decompose(now, target)
	}
	return CountdownStatus{IsOverdue: overdue, Distance: d, Target: target}
}

// Decompose splits the interval between a and b into whole calendar days
// (stepping days in a's location, so DST days keep their wall-clock length)
// and the remaining hours, minutes and seconds. Order of a and b does not
// matter; sub-second remainders are truncated.
func Decompose(a, b time.Time) Distance {
	start, end := a, b
	if end.Before(start) {
		start, end = end, start
	}

	days := int(end.Sub(start) / (24 * time.Hour))
	if days > 0 {
		days--
	}
	for !start.AddDate(0, 0, days+1).After(end) {
		days++
	}
	for days > 0 && start.AddDate(0, 0, days).After(end) {
		days--
	}

	rem := end.Sub(start.AddDate(0, 0, days))
	hours := int(rem / time.Hour)
	rem -= time.Duration(hours) * time.Hour
	minutes := int(rem / time.Minute)
	rem -= time.Duration(minutes) * time.Minute
	seconds := int(rem / time.Second)

	return Distance{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}
}
