package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"evo/internal/model"
	"evo/internal/service"
)

type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) List(ctx context.Context, actor service.Actor, userID string) ([]model.Vehicle, error) {
	args := m.Called(ctx, actor, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Create(ctx context.Context, actor service.Actor, in service.VehicleInput) (*model.Vehicle, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Get(ctx context.Context, actor service.Actor, id string) (*service.VehicleDetail, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VehicleDetail), args.Error(1)
}

func (m *MockVehicleService) Update(ctx context.Context, actor service.Actor, id string, in service.VehicleInput) (*model.Vehicle, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) UpdateOdometer(ctx context.Context, actor service.Actor, id string, in service.OdometerInput) (*model.Vehicle, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) UpdateServiceCounter(ctx context.Context, actor service.Actor, id, kind string, in service.CounterInput) (*model.Vehicle, error) {
	args := m.Called(ctx, actor, id, kind, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Delete(ctx context.Context, actor service.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockVehicleService) Analytics(ctx context.Context, actor service.Actor, id string) (*service.VehicleAnalytics, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VehicleAnalytics), args.Error(1)
}

func (m *MockVehicleService) Dashboard(ctx context.Context, actor service.Actor) (*service.Dashboard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockVehicleService) Report(ctx context.Context, actor service.Actor, id string) (*service.Report, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}
