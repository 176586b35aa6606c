package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"evo/internal/config"
	"evo/internal/logging"
	"evo/internal/model"
	"evo/internal/reminder"
	"evo/internal/repository"
	"evo/internal/storage"
)

const minVehicleYear = 1900

// VehicleInput is the editable part of a vehicle. Odometer is only read on create.
type VehicleInput struct {
	Brand        string `json:"brand" validate:"required,max=60"`
	Model        string `json:"model" validate:"required,max=60"`
	Year         *int   `json:"year"`
	Registration string `json:"registration" validate:"max=20"`
	Odometer     *int64 `json:"odometer" validate:"omitempty,gte=0"`
}

// OdometerInput sets the current odometer reading.
type OdometerInput struct {
	Odometer *int64 `json:"odometer" validate:"required,gte=0"`
}

// CounterInput edits one service counter. Nil fields keep their stored value.
type CounterInput struct {
	IntervalKm     *int64     `json:"intervalKm" validate:"omitempty,gte=0"`
	IntervalMonths *int       `json:"intervalMonths" validate:"omitempty,gte=0"`
	LastKm         *int64     `json:"lastKm" validate:"omitempty,gte=0"`
	LastDate       *time.Time `json:"lastDate"`
}

// VehicleDetail is a vehicle with the service reminders computed for it.
type VehicleDetail struct {
	*model.Vehicle
	Reminders reminder.Reminders `json:"reminders"`
}

// Report is a rendered document ready to be sent.
type Report struct {
	Filename string
	Content  []byte
}

// VehicleService holds the vehicle use cases. Vehicles of other users are reported as not found unless the actor is an admin.
type VehicleService interface {
	// List returns the vehicles of userID, or of the actor when userID is empty. Only admins may name another user.
	List(ctx context.Context, actor Actor, userID string) ([]model.Vehicle, error)
	Create(ctx context.Context, actor Actor, in VehicleInput) (*model.Vehicle, error)
	Get(ctx context.Context, actor Actor, id string) (*VehicleDetail, error)
	Update(ctx context.Context, actor Actor, id string, in VehicleInput) (*model.Vehicle, error)
	UpdateOdometer(ctx context.Context, actor Actor, id string, in OdometerInput) (*model.Vehicle, error)
	UpdateServiceCounter(ctx context.Context, actor Actor, id, kind string, in CounterInput) (*model.Vehicle, error)
	// Delete removes the vehicle with its costs; stored receipts are removed best-effort.
	Delete(ctx context.Context, actor Actor, id string) error

	Analytics(ctx context.Context, actor Actor, id string) (*VehicleAnalytics, error)
	Dashboard(ctx context.Context, actor Actor) (*Dashboard, error)
	Report(ctx context.Context, actor Actor, id string) (*Report, error)
}

type vehicleService struct {
	repo     repository.VehicleRepository
	store    storage.Storage
	defaults config.ServiceDefaults
	loc      *time.Location
	log      *logging.Logger
	now      func() time.Time
}

// NewVehicleService constructs a new VehicleService. Calendar grouping and reminders use loc.
func NewVehicleService(repo repository.VehicleRepository, store storage.Storage, defaults config.ServiceDefaults, loc *time.Location, log *logging.Logger) VehicleService {
	if loc == nil {
		loc = time.UTC
	}
	return &vehicleService{repo: repo, store: store, defaults: defaults, loc: loc, log: log, now: time.Now}
}

// loadOwned fetches a vehicle the actor may see.
func loadOwned(ctx context.Context, repo repository.VehicleRepository, actor Actor, id string) (*model.Vehicle, error) {
	v, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	if !canAccess(actor, v) {
		return nil, ErrNotFound
	}
	return v, nil
}

// modifyOwned applies fn to the locked vehicle when the actor may change it.
func modifyOwned(ctx context.Context, repo repository.VehicleRepository, actor Actor, id string, fn repository.ModifyFunc) (*model.Vehicle, error) {
	v, err := repo.Modify(ctx, id, func(v *model.Vehicle) (repository.CostChange, error) {
		if !canAccess(actor, v) {
			return repository.CostChange{}, ErrNotFound
		}
		return fn(v)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("modify vehicle: %w", err)
	}
	return v, nil
}

func canAccess(actor Actor, v *model.Vehicle) bool {
	return actor.IsAdmin() || v.UserID == actor.UserID
}

func (s *vehicleService) List(ctx context.Context, actor Actor, userID string) ([]model.Vehicle, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *vehicleService) validateInput(in *VehicleInput) error {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.Registration = strings.ToUpper(strings.TrimSpace(in.Registration))
	if err := validateStruct(*in); err != nil {
		return err
	}
	if in.Year != nil {
		maxYear := s.now().In(s.loc).Year() + 1
		if *in.Year < minVehicleYear || *in.Year > maxYear {
			return invalid("year", "must be between "+strconv.Itoa(minVehicleYear)+" and "+strconv.Itoa(maxYear))
		}
	}
	return nil
}

func (s *vehicleService) Create(ctx context.Context, actor Actor, in VehicleInput) (*model.Vehicle, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	v := &model.Vehicle{
		ID:              uuid.NewString(),
		UserID:          actor.UserID,
		Brand:           in.Brand,
		Model:           in.Model,
		Year:            in.Year,
		Registration:    in.Registration,
		ServiceCounters: newCounters(s.defaults),
		Costs:           []model.Cost{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Odometer != nil {
		v.Odometer = *in.Odometer
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

func (s *vehicleService) Get(ctx context.Context, actor Actor, id string) (*VehicleDetail, error) {
	v, err := loadOwned(ctx, s.repo, actor, id)
	if err != nil {
		return nil, err
	}
	return &VehicleDetail{Vehicle: v, Reminders: reminder.ComputeAll(v, s.now().In(s.loc))}, nil
}

func (s *vehicleService) Update(ctx context.Context, actor Actor, id string, in VehicleInput) (*model.Vehicle, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}
	return s.modify(ctx, actor, id, func(v *model.Vehicle) {
		v.Brand = in.Brand
		v.Model = in.Model
		v.Year = in.Year
		v.Registration = in.Registration
	})
}

func (s *vehicleService) UpdateOdometer(ctx context.Context, actor Actor, id string, in OdometerInput) (*model.Vehicle, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.modify(ctx, actor, id, func(v *model.Vehicle) {
		v.Odometer = *in.Odometer
	})
}

func (s *vehicleService) UpdateServiceCounter(ctx context.Context, actor Actor, id, kind string, in CounterInput) (*model.Vehicle, error) {
	k, ok := model.ParseCounterKind(kind)
	if !ok {
		return nil, invalid("kind", "must be one of: small big brakes")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.modify(ctx, actor, id, func(v *model.Vehicle) {
		c := v.ServiceCounters.Get(k)
		if c == nil {
			c = defaultCounter(s.defaults, k)
			v.ServiceCounters.Set(k, c)
		}
		if in.IntervalKm != nil {
			c.IntervalKm = *in.IntervalKm
		}
		if in.IntervalMonths != nil {
			c.IntervalMonths = *in.IntervalMonths
		}
		if in.LastKm != nil {
			km := *in.LastKm
			c.LastKm = &km
		}
		if in.LastDate != nil {
			d := *in.LastDate
			c.LastDate = &d
		}
	})
}

// modify edits vehicle columns or counters without touching costs.
func (s *vehicleService) modify(ctx context.Context, actor Actor, id string, edit func(v *model.Vehicle)) (*model.Vehicle, error) {
	now := s.now().UTC()
	return modifyOwned(ctx, s.repo, actor, id, func(v *model.Vehicle) (repository.CostChange, error) {
		edit(v)
		v.UpdatedAt = now
		return repository.CostChange{}, nil
	})
}

func (s *vehicleService) Delete(ctx context.Context, actor Actor, id string) error {
	v, err := loadOwned(ctx, s.repo, actor, id)
	if err != nil {
		return err
	}
	keys, err := s.repo.ReceiptKeys(ctx, v.ID)
	if err != nil {
		return fmt.Errorf("list receipts: %w", err)
	}
	if err := s.repo.Delete(ctx, v.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete vehicle: %w", err)
	}
	removeReceipts(ctx, s.store, s.log, keys)
	return nil
}

func (s *vehicleService) Analytics(ctx context.Context, actor Actor, id string) (*VehicleAnalytics, error) {
	v, err := loadOwned(ctx, s.repo, actor, id)
	if err != nil {
		return nil, err
	}
	a := analyzeVehicle(v, s.loc)
	return &a, nil
}

func (s *vehicleService) Dashboard(ctx context.Context, actor Actor) (*Dashboard, error) {
	vehicles, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	d := buildDashboard(vehicles, s.now(), s.loc)
	return &d, nil
}

func (s *vehicleService) Report(ctx context.Context, actor Actor, id string) (*Report, error) {
	v, err := loadOwned(ctx, s.repo, actor, id)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	content, err := renderReport(v, reminder.ComputeAll(v, now), now, s.loc)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return &Report{Filename: reportFilename(v), Content: content}, nil
}
