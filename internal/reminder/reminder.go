// Package reminder estimates how soon scheduled maintenance falls due.
package reminder

import (
	"math"
	"time"

	"evo/internal/model"
)

// Level is the urgency of a maintenance item.
type Level string

const (
	LevelUnknown Level = "unknown"
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// daysPerMonth converts a month interval into the day budget used for the warning threshold.
const daysPerMonth = 30

func (l Level) rank() int {
	switch l {
	case LevelDanger:
		return 3
	case LevelWarning:
		return 2
	case LevelOK:
		return 1
	}
	return 0
}

// Worse returns the more severe of a and b.
func Worse(a, b Level) Level {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Estimate is the remaining distance and time until a service is due.
// Nil fields mean the dimension cannot be computed.
type Estimate struct {
	KmLeft   *int64 `json:"kmLeft"`
	DaysLeft *int64 `json:"daysLeft"`
	Level    Level  `json:"level"`
}

// Reminders holds one estimate per counter kind.
type Reminders struct {
	Small  Estimate `json:"small"`
	Big    Estimate `json:"big"`
	Brakes Estimate `json:"brakes"`
}

// Get returns the estimate for k.
func (r Reminders) Get(k model.CounterKind) Estimate {
	switch k {
	case model.CounterSmall:
		return r.Small
	case model.CounterBig:
		return r.Big
	case model.CounterBrakes:
		return r.Brakes
	}
	return Estimate{Level: LevelUnknown}
}

// Compute projects the next due point of c from the current odometer reading.
func Compute(c *model.ServiceCounter, odometer int64, now time.Time) Estimate {
	if c == nil {
		return Estimate{Level: LevelUnknown}
	}

	kmLevel, dayLevel := LevelUnknown, LevelUnknown
	var out Estimate

	if c.LastKm != nil && c.IntervalKm > 0 {
		driven := max(0, odometer-*c.LastKm)
		left := c.IntervalKm - driven
		out.KmLeft = &left
		kmLevel = classify(left, c.IntervalKm)
	}

	if c.LastDate != nil && c.IntervalMonths > 0 {
		due := c.LastDate.AddDate(0, c.IntervalMonths, 0)
		left := int64(math.Ceil(due.Sub(now).Hours() / 24))
		out.DaysLeft = &left
		dayLevel = classify(left, int64(c.IntervalMonths)*daysPerMonth)
	}

	out.Level = Worse(kmLevel, dayLevel)
	return out
}

// ComputeAll estimates every counter of v.
func ComputeAll(v *model.Vehicle, now time.Time) Reminders {
	return Reminders{
		Small:  Compute(v.ServiceCounters.Small, v.Odometer, now),
		Big:    Compute(v.ServiceCounters.Big, v.Odometer, now),
		Brakes: Compute(v.ServiceCounters.Brakes, v.Odometer, now),
	}
}

// classify grades remaining against interval: nothing left is danger, the last tenth is warning.
func classify(remaining, interval int64) Level {
	switch {
	case remaining <= 0:
		return LevelDanger
	case remaining <= interval/10:
		return LevelWarning
	default:
		return LevelOK
	}
}
