package service

import (
	"evo/internal/config"
	"evo/internal/model"
)

// newCounters builds the initial counters of a vehicle from the configured schedule.
func newCounters(d config.ServiceDefaults) model.ServiceCounters {
	return model.ServiceCounters{
		Small:  &model.ServiceCounter{IntervalKm: d.Small.IntervalKm, IntervalMonths: d.Small.IntervalMonths},
		Big:    &model.ServiceCounter{IntervalKm: d.Big.IntervalKm, IntervalMonths: d.Big.IntervalMonths},
		Brakes: &model.ServiceCounter{IntervalKm: d.Brakes.IntervalKm, IntervalMonths: d.Brakes.IntervalMonths},
	}
}

func defaultCounter(d config.ServiceDefaults, k model.CounterKind) *model.ServiceCounter {
	c := newCounters(d)
	return c.Get(k)
}

// resetCounters points each counter at the newest service cost that marks it done.
// A cost without mileage clears lastKm. Counters with no such cost keep their stored values.
func resetCounters(v *model.Vehicle, d config.ServiceDefaults) {
	for _, k := range model.CounterKinds {
		var latest *model.Cost
		for i := range v.Costs {
			c := &v.Costs[i]
			if c.ResetsCounter(k) && newer(c, latest) {
				latest = c
			}
		}
		if latest == nil {
			continue
		}

		counter := v.ServiceCounters.Get(k)
		if counter == nil {
			counter = defaultCounter(d, k)
			v.ServiceCounters.Set(k, counter)
		}
		date := latest.Date
		counter.LastDate = &date
		counter.LastKm = nil
		if latest.Mileage != nil {
			km := *latest.Mileage
			counter.LastKm = &km
		}
	}
}

// newer orders costs by date, then by mileage; a missing mileage sorts first.
func newer(c, than *model.Cost) bool {
	if than == nil {
		return true
	}
	if !c.Date.Equal(than.Date) {
		return c.Date.After(than.Date)
	}
	switch {
	case c.Mileage == nil:
		return false
	case than.Mileage == nil:
		return true
	}
	return *c.Mileage > *than.Mileage
}

// followOdometer raises the odometer to the cost mileage when the cost reads higher.
func followOdometer(v *model.Vehicle, c *model.Cost) {
	if c.Mileage != nil && *c.Mileage > v.Odometer {
		v.Odometer = *c.Mileage
	}
}
