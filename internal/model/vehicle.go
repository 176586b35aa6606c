package model

import (
	"strings"
	"time"
)

// CounterKind names a tracked maintenance category.
type CounterKind string

const (
	CounterSmall  CounterKind = "small"
	CounterBig    CounterKind = "big"
	CounterBrakes CounterKind = "brakes"
)

// CounterKinds lists every kind in display order.
var CounterKinds = []CounterKind{CounterSmall, CounterBig, CounterBrakes}

// ParseCounterKind converts s into a CounterKind.
func ParseCounterKind(s string) (CounterKind, bool) {
	for _, k := range CounterKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ServiceCounter stores when a maintenance item was last done and how often it is due.
type ServiceCounter struct {
	LastKm         *int64     `json:"lastKm"`
	LastDate       *time.Time `json:"lastDate"`
	IntervalKm     int64      `json:"intervalKm"`
	IntervalMonths int        `json:"intervalMonths"`
}

// ServiceCounters holds one optional counter per kind.
type ServiceCounters struct {
	Small  *ServiceCounter `json:"small,omitempty"`
	Big    *ServiceCounter `json:"big,omitempty"`
	Brakes *ServiceCounter `json:"brakes,omitempty"`
}

// Get returns the counter for k, or nil when the vehicle has none.
func (s *ServiceCounters) Get(k CounterKind) *ServiceCounter {
	switch k {
	case CounterSmall:
		return s.Small
	case CounterBig:
		return s.Big
	case CounterBrakes:
		return s.Brakes
	}
	return nil
}

// Set replaces the counter for k.
func (s *ServiceCounters) Set(k CounterKind, c *ServiceCounter) {
	switch k {
	case CounterSmall:
		s.Small = c
	case CounterBig:
		s.Big = c
	case CounterBrakes:
		s.Brakes = c
	}
}

// Vehicle is owned by a single user and carries its full cost history.
type Vehicle struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	Year            *int            `json:"year"`
	Registration    string          `json:"registration"`
	Odometer        int64           `json:"odometer"`
	ServiceCounters ServiceCounters `json:"serviceCounters"`
	Costs           []Cost          `json:"costs"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// DisplayName is "brand model" as shown in charts and reports.
func (v *Vehicle) DisplayName() string {
	return strings.TrimSpace(v.Brand + " " + v.Model)
}

// CostIndex returns the position of the cost with the given id.
func (v *Vehicle) CostIndex(id string) int {
	for i := range v.Costs {
		if v.Costs[i].ID == id {
			return i
		}
	}
	return -1
}
