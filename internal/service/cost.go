package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"evo/internal/config"
	"evo/internal/logging"
	"evo/internal/model"
	"evo/internal/repository"
	"evo/internal/storage"
)

// MaxReceiptSize bounds receipt uploads.
const MaxReceiptSize = 10 << 20

var receiptContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"application/pdf": true,
}

// CostInput is a new or edited expense.
type CostInput struct {
	Category    string     `json:"category" validate:"required"`
	Subcategory string     `json:"subcategory"`
	Description string     `json:"description" validate:"max=200"`
	Notes       string     `json:"notes" validate:"max=1000"`
	Location    string     `json:"location" validate:"max=120"`
	Vendor      string     `json:"vendor" validate:"max=120"`
	Amount      *float64   `json:"amount" validate:"required,gte=0"`
	Date        *time.Time `json:"date"`
	Mileage     *int64     `json:"mileage" validate:"omitempty,gte=0"`
}

// CostResult is the vehicle after a cost change together with the changed cost.
type CostResult struct {
	Vehicle *model.Vehicle
	Cost    *model.Cost
}

// ReceiptUpload describes an uploaded receipt file.
type ReceiptUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// CostService holds the expense use cases of a vehicle.
// Every change re-derives the service counters and may raise the odometer.
type CostService interface {
	Add(ctx context.Context, actor Actor, vehicleID string, in CostInput) (*CostResult, error)
	Update(ctx context.Context, actor Actor, vehicleID, costID string, in CostInput) (*CostResult, error)
	Delete(ctx context.Context, actor Actor, vehicleID, costID string) (*model.Vehicle, error)
	// UploadReceipt stores the file and attaches it to the cost, replacing an earlier receipt.
	UploadReceipt(ctx context.Context, actor Actor, vehicleID, costID string, up ReceiptUpload) (*model.Cost, error)
	// ReceiptURL returns a pre-signed download URL for the cost's receipt.
	ReceiptURL(ctx context.Context, actor Actor, vehicleID, costID string) (string, error)
}

type costService struct {
	repo          repository.VehicleRepository
	store         storage.Storage
	defaults      config.ServiceDefaults
	presignExpiry time.Duration
	log           *logging.Logger
	now           func() time.Time
}

// NewCostService constructs a new CostService.
func NewCostService(repo repository.VehicleRepository, store storage.Storage, defaults config.ServiceDefaults, presignExpiry time.Duration, log *logging.Logger) CostService {
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &costService{repo: repo, store: store, defaults: defaults, presignExpiry: presignExpiry, log: log, now: time.Now}
}

func validateCost(in *CostInput) error {
	in.Category = strings.TrimSpace(in.Category)
	in.Subcategory = strings.TrimSpace(in.Subcategory)
	in.Description = strings.TrimSpace(in.Description)
	in.Notes = strings.TrimSpace(in.Notes)
	in.Location = strings.TrimSpace(in.Location)
	in.Vendor = strings.TrimSpace(in.Vendor)
	if err := validateStruct(*in); err != nil {
		return err
	}
	if !model.ValidCategory(in.Category) {
		return invalid("category", "must be one of: "+strings.Join(model.Categories, " "))
	}
	if !model.ValidSubcategory(in.Category, in.Subcategory) {
		return invalid("subcategory", "is not allowed for category "+in.Category)
	}
	return nil
}

func (in CostInput) apply(c *model.Cost, now time.Time) {
	c.Category = in.Category
	c.Subcategory = in.Subcategory
	c.Description = in.Description
	c.Notes = in.Notes
	c.Location = in.Location
	c.Vendor = in.Vendor
	c.Amount = *in.Amount
	c.Date = now
	if in.Date != nil {
		c.Date = in.Date.UTC()
	}
	c.Mileage = nil
	if in.Mileage != nil {
		m := *in.Mileage
		c.Mileage = &m
	}
}

func (s *costService) Add(ctx context.Context, actor Actor, vehicleID string, in CostInput) (*CostResult, error) {
	if err := validateCost(&in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := model.Cost{ID: uuid.NewString(), CreatedAt: now}
	in.apply(&c, now)

	v, err := modifyOwned(ctx, s.repo, actor, vehicleID, func(v *model.Vehicle) (repository.CostChange, error) {
		c.VehicleID = v.ID
		v.Costs = append([]model.Cost{c}, v.Costs...)
		followOdometer(v, &c)
		resetCounters(v, s.defaults)
		v.UpdatedAt = now
		return repository.CostChange{Insert: &c}, nil
	})
	if err != nil {
		return nil, err
	}
	return &CostResult{Vehicle: v, Cost: &c}, nil
}

func (s *costService) Update(ctx context.Context, actor Actor, vehicleID, costID string, in CostInput) (*CostResult, error) {
	if err := validateCost(&in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var out model.Cost
	v, err := modifyOwned(ctx, s.repo, actor, vehicleID, func(v *model.Vehicle) (repository.CostChange, error) {
		i := v.CostIndex(costID)
		if i < 0 {
			return repository.CostChange{}, ErrNotFound
		}
		c := &v.Costs[i]
		prevDate := c.Date
		in.apply(c, now)
		if in.Date == nil {
			c.Date = prevDate
		}
		followOdometer(v, c)
		resetCounters(v, s.defaults)
		v.UpdatedAt = now
		out = *c
		return repository.CostChange{Update: &out}, nil
	})
	if err != nil {
		return nil, err
	}
	return &CostResult{Vehicle: v, Cost: &out}, nil
}

func (s *costService) Delete(ctx context.Context, actor Actor, vehicleID, costID string) (*model.Vehicle, error) {
	now := s.now().UTC()
	var receipt string
	v, err := modifyOwned(ctx, s.repo, actor, vehicleID, func(v *model.Vehicle) (repository.CostChange, error) {
		i := v.CostIndex(costID)
		if i < 0 {
			return repository.CostChange{}, ErrNotFound
		}
		receipt = v.Costs[i].ReceiptKey
		v.Costs = append(v.Costs[:i], v.Costs[i+1:]...)
		resetCounters(v, s.defaults)
		v.UpdatedAt = now
		return repository.CostChange{Delete: costID}, nil
	})
	if err != nil {
		return nil, err
	}
	if receipt != "" {
		removeReceipts(ctx, s.store, s.log, []string{receipt})
	}
	return v, nil
}

func (s *costService) UploadReceipt(ctx context.Context, actor Actor, vehicleID, costID string, up ReceiptUpload) (*model.Cost, error) {
	if up.Reader == nil {
		return nil, invalid("file", "is required")
	}
	if up.Size > MaxReceiptSize {
		return nil, invalid("file", "must not exceed 10 MB")
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(up.ContentType, ";", 2)[0]))
	if !receiptContentTypes[contentType] {
		return nil, invalid("file", "must be an image or a PDF")
	}

	v, err := loadOwned(ctx, s.repo, actor, vehicleID)
	if err != nil {
		return nil, err
	}
	i := v.CostIndex(costID)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := &v.Costs[i]

	key := storage.ReceiptKey(v.ID, up.Filename)
	if _, err := s.store.Put(ctx, key, up.Reader, storage.PutOptions{
		Size:        up.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": up.Filename,
			"cost-id":           c.ID,
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.repo.SetReceipt(ctx, c.ID, key); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if previous := c.ReceiptKey; previous != "" {
		removeReceipts(ctx, s.store, s.log, []string{previous})
	}
	c.ReceiptKey = key
	out := *c
	return &out, nil
}

func (s *costService) ReceiptURL(ctx context.Context, actor Actor, vehicleID, costID string) (string, error) {
	v, err := loadOwned(ctx, s.repo, actor, vehicleID)
	if err != nil {
		return "", err
	}
	i := v.CostIndex(costID)
	if i < 0 || v.Costs[i].ReceiptKey == "" {
		return "", ErrNotFound
	}
	u, err := s.store.PresignGet(ctx, v.Costs[i].ReceiptKey, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign receipt: %w", err)
	}
	return u, nil
}
