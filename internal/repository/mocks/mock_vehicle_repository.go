package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"evo/internal/model"
	"evo/internal/repository"
)

type MockVehicleRepository struct {
	mock.Mock

	Changes []repository.CostChange
}

func (m *MockVehicleRepository) Create(ctx context.Context, v *model.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) ListByUser(ctx context.Context, userID string) ([]model.Vehicle, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Modify runs fn on the vehicle given to Return and records the cost change it asks for.
// A non-nil error given to Return is returned without calling fn.
func (m *MockVehicleRepository) Modify(ctx context.Context, id string, fn repository.ModifyFunc) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	v := args.Get(0).(*model.Vehicle)
	change, err := fn(v)
	if err != nil {
		return nil, err
	}
	m.Changes = append(m.Changes, change)
	return v, nil
}

func (m *MockVehicleRepository) SetReceipt(ctx context.Context, costID, key string) error {
	args := m.Called(ctx, costID, key)
	return args.Error(0)
}

func (m *MockVehicleRepository) ReceiptKeys(ctx context.Context, vehicleID string) ([]string, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVehicleRepository) ReceiptKeysByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
