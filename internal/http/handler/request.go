package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"evo/internal/service"
)

const dateLayout = "2006-01-02"

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func badBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
}

func unauthorized(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input yields nil.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, &service.ValidationError{Field: field, Reason: "must be a date (YYYY-MM-DD)"}
}

type costRequest struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
	Location    string   `json:"location"`
	Vendor      string   `json:"vendor"`
	Amount      *float64 `json:"amount"`
	Date        string   `json:"date"`
	Mileage     *int64   `json:"mileage"`
}

func (r costRequest) input() (service.CostInput, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return service.CostInput{}, err
	}
	return service.CostInput{
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Description: r.Description,
		Notes:       r.Notes,
		Location:    r.Location,
		Vendor:      r.Vendor,
		Amount:      r.Amount,
		Date:        date,
		Mileage:     r.Mileage,
	}, nil
}

type counterRequest struct {
	IntervalKm     *int64 `json:"intervalKm"`
	IntervalMonths *int   `json:"intervalMonths"`
	LastKm         *int64 `json:"lastKm"`
	LastDate       string `json:"lastDate"`
}

func (r counterRequest) input() (service.CounterInput, error) {
	date, err := parseDate("lastDate", r.LastDate)
	if err != nil {
		return service.CounterInput{}, err
	}
	return service.CounterInput{
		IntervalKm:     r.IntervalKm,
		IntervalMonths: r.IntervalMonths,
		LastKm:         r.LastKm,
		LastDate:       date,
	}, nil
}
