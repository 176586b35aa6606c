package model

import (
	"slices"
	"time"
)

// Cost categories.
const (
	CategoryService      = "servis"
	CategoryFailure      = "kvar"
	CategoryRegistration = "registracija"
	CategoryInsurance    = "osiguranje"
	CategoryFuel         = "gorivo"
	CategoryTyres        = "gume"
)

// Categories lists every accepted category.
var Categories = []string{
	CategoryService,
	CategoryFailure,
	CategoryRegistration,
	CategoryInsurance,
	CategoryFuel,
	CategoryTyres,
}

// Service subcategories that drive the service counters.
const (
	SubcategorySmallService = "Mali servis"
	SubcategoryBigService   = "Veliki servis"
	SubcategoryBrakes       = "Kočnice"
)

// ServiceSubcategories are accepted for CategoryService.
var ServiceSubcategories = []string{
	SubcategorySmallService,
	SubcategoryBigService,
	SubcategoryBrakes,
	"Motor i prijenos",
	"Elektronika",
	"Ovjes i trap",
	"Klima",
	"Tekućine i potrošni materijal",
	"Gume i vulkanizacija",
}

// FailureSubcategories are accepted for CategoryFailure.
var FailureSubcategories = []string{
	"Motor i pogon",
	SubcategoryBrakes,
	"Elektronika",
	"Ovjes i trap",
	"Mjenjač i prijenos",
	"Klima i grijanje",
	"Gume i kotači",
}

// counterSubcategories maps the service subcategories that reset a counter.
var counterSubcategories = map[CounterKind]string{
	CounterSmall:  SubcategorySmallService,
	CounterBig:    SubcategoryBigService,
	CounterBrakes: SubcategoryBrakes,
}

// Cost is a single expense recorded against a vehicle.
type Cost struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicleId"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	Location    string    `json:"location"`
	Vendor      string    `json:"vendor"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Mileage     *int64    `json:"mileage"`
	ReceiptKey  string    `json:"receiptKey,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	return slices.Contains(Categories, c)
}

// ValidSubcategory reports whether sub is allowed for category.
// An empty subcategory is always allowed.
func ValidSubcategory(category, sub string) bool {
	if sub == "" {
		return true
	}
	switch category {
	case CategoryService:
		return slices.Contains(ServiceSubcategories, sub)
	case CategoryFailure:
		return slices.Contains(FailureSubcategories, sub)
	}
	return false
}

// ResetsCounter reports whether the cost marks the given maintenance as done.
func (c *Cost) ResetsCounter(k CounterKind) bool {
	return c.Category == CategoryService && c.Subcategory == counterSubcategories[k]
}
