// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) inside this directory.
package repository

import (
	"context"
	"errors"

	"evo/internal/model"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns users newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)
	Update(ctx context.Context, u *model.User) error
	// Delete removes the user; vehicles and costs go with it through foreign keys.
	Delete(ctx context.Context, id string) error
}

// VehicleRepository defines data access for vehicles, their service counters and costs.
// Vehicles are always returned with counters and costs loaded.
type VehicleRepository interface {
	// Create inserts the vehicle and its counters.
	Create(ctx context.Context, v *model.Vehicle) error
	FindByID(ctx context.Context, id string) (*model.Vehicle, error)
	ListByUser(ctx context.Context, userID string) ([]model.Vehicle, error)
	Delete(ctx context.Context, id string) error

	// Modify loads the vehicle with a row lock, hands it to fn and writes the vehicle columns,
	// its counters and the cost change fn returns, all in one transaction. An error from fn rolls back.
	Modify(ctx context.Context, id string, fn ModifyFunc) (*model.Vehicle, error)

	SetReceipt(ctx context.Context, costID, key string) error

	// ReceiptKeys lists stored receipt object keys for a vehicle.
	ReceiptKeys(ctx context.Context, vehicleID string) ([]string, error)
	// ReceiptKeysByUser lists stored receipt object keys across all vehicles of a user.
	ReceiptKeysByUser(ctx context.Context, userID string) ([]string, error)
}

// CostChange is the cost row written together with a modified vehicle.
// At most one field is set; the zero value writes no cost row.
type CostChange struct {
	Insert *model.Cost
	Update *model.Cost
	Delete string
}

// ModifyFunc edits a locked vehicle in memory and names the cost row to write with it.
type ModifyFunc func(v *model.Vehicle) (CostChange, error)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
