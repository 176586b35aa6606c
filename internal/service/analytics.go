package service

import (
	"sort"
	"time"

	"evo/internal/model"
)

const recentCostsLimit = 5

// CategoryTotal is the spend of one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthTotal is the spend of one calendar month, keyed YYYY-MM.
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// VehicleAnalytics summarizes the cost history of a vehicle.
type VehicleAnalytics struct {
	VehicleID  string          `json:"vehicleId"`
	ByCategory []CategoryTotal `json:"byCategory"`
	ByMonth    []MonthTotal    `json:"byMonth"`
	Total      float64         `json:"total"`
}

// RecentCost is a dashboard entry.
type RecentCost struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicleId"`
	VehicleName string    `json:"vehicleName"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// VehicleYearTotal is what one vehicle cost in the current year.
type VehicleYearTotal struct {
	VehicleID string  `json:"vehicleId"`
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
}

// Dashboard is the landing summary of a user.
type Dashboard struct {
	Year         int                `json:"year"`
	VehicleCount int                `json:"vehicleCount"`
	RecentCosts  []RecentCost       `json:"recentCosts"`
	YearTotals   []VehicleYearTotal `json:"yearTotals"`
}

// analyzeVehicle totals the costs of v per category (in category order) and per month (ascending).
func analyzeVehicle(v *model.Vehicle, loc *time.Location) VehicleAnalytics {
	byCategory := make(map[string]float64)
	byMonth := make(map[string]float64)
	var total float64
	for _, c := range v.Costs {
		byCategory[c.Category] += c.Amount
		byMonth[c.Date.In(loc).Format("2006-01")] += c.Amount
		total += c.Amount
	}

	out := VehicleAnalytics{
		VehicleID:  v.ID,
		ByCategory: make([]CategoryTotal, 0, len(byCategory)),
		ByMonth:    make([]MonthTotal, 0, len(byMonth)),
		Total:      total,
	}
	for _, cat := range model.Categories {
		if amount, ok := byCategory[cat]; ok {
			out.ByCategory = append(out.ByCategory, CategoryTotal{Category: cat, Total: amount})
		}
	}
	for month, amount := range byMonth {
		out.ByMonth = append(out.ByMonth, MonthTotal{Month: month, Total: amount})
	}
	sort.Slice(out.ByMonth, func(i, j int) bool { return out.ByMonth[i].Month < out.ByMonth[j].Month })
	return out
}

// buildDashboard picks the most recent costs across vehicles and this year's totals per vehicle.
func buildDashboard(vehicles []model.Vehicle, now time.Time, loc *time.Location) Dashboard {
	year := now.In(loc).Year()
	d := Dashboard{
		Year:         year,
		VehicleCount: len(vehicles),
		RecentCosts:  make([]RecentCost, 0, recentCostsLimit),
		YearTotals:   make([]VehicleYearTotal, 0, len(vehicles)),
	}

	var recent []RecentCost
	for i := range vehicles {
		v := &vehicles[i]
		var yearTotal float64
		for _, c := range v.Costs {
			title := c.Description
			if title == "" {
				title = c.Category
			}
			recent = append(recent, RecentCost{
				ID:          c.ID,
				VehicleID:   v.ID,
				VehicleName: v.DisplayName(),
				Title:       title,
				Category:    c.Category,
				Amount:      c.Amount,
				Date:        c.Date,
			})
			if c.Date.In(loc).Year() == year {
				yearTotal += c.Amount
			}
		}
		if yearTotal > 0 {
			d.YearTotals = append(d.YearTotals, VehicleYearTotal{VehicleID: v.ID, Name: v.DisplayName(), Total: yearTotal})
		}
	}

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > recentCostsLimit {
		recent = recent[:recentCostsLimit]
	}
	d.RecentCosts = append(d.RecentCosts, recent...)
	return d
}
