package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"evo/internal/model"
	"evo/internal/service"
)

type MockCostService struct {
	mock.Mock
}

func (m *MockCostService) Add(ctx context.Context, actor service.Actor, vehicleID string, in service.CostInput) (*service.CostResult, error) {
	args := m.Called(ctx, actor, vehicleID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CostResult), args.Error(1)
}

func (m *MockCostService) Update(ctx context.Context, actor service.Actor, vehicleID, costID string, in service.CostInput) (*service.CostResult, error) {
	args := m.Called(ctx, actor, vehicleID, costID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CostResult), args.Error(1)
}

func (m *MockCostService) Delete(ctx context.Context, actor service.Actor, vehicleID, costID string) (*model.Vehicle, error) {
	args := m.Called(ctx, actor, vehicleID, costID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockCostService) UploadReceipt(ctx context.Context, actor service.Actor, vehicleID, costID string, up service.ReceiptUpload) (*model.Cost, error) {
	args := m.Called(ctx, actor, vehicleID, costID, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cost), args.Error(1)
}

func (m *MockCostService) ReceiptURL(ctx context.Context, actor service.Actor, vehicleID, costID string) (string, error) {
	args := m.Called(ctx, actor, vehicleID, costID)
	return args.String(0), args.Error(1)
}
