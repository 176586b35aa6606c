package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"evo/internal/logging"
	"evo/internal/model"
	"evo/internal/repository"
	"evo/internal/storage"
)

// UserUpdateInput is an admin edit of an account. An empty password or role keeps the current one.
type UserUpdateInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
}

// UserService holds the admin use cases over accounts.
type UserService interface {
	// List returns users newest first using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*UserListResult, error)
	Update(ctx context.Context, id string, in UserUpdateInput) (*model.User, error)
	// Delete removes the user with all vehicles and costs; stored receipts are removed best-effort.
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users    repository.UserRepository
	vehicles repository.VehicleRepository
	store    storage.Storage
	log      *logging.Logger
	now      func() time.Time
}

// NewUserService constructs a new UserService.
func NewUserService(users repository.UserRepository, vehicles repository.VehicleRepository, store storage.Storage, log *logging.Logger) UserService {
	return &userService{users: users, vehicles: vehicles, store: store, log: log, now: time.Now}
}

func (s *userService) List(ctx context.Context, limit, offset int) (*UserListResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.users.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *userService) Update(ctx context.Context, id string, in UserUpdateInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	u.Name = in.Name
	u.Email = in.Email
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	keys, err := s.vehicles.ReceiptKeysByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("list receipts: %w", err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	removeReceipts(ctx, s.store, s.log, keys)
	return nil
}

// removeReceipts deletes objects whose rows are already gone. Failures are logged, not returned.
func removeReceipts(ctx context.Context, store storage.Storage, log *logging.Logger, keys []string) {
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			log.Warn("receipt cleanup failed", map[string]any{
				"component":  "storage",
				"object_key": key,
				"error":      err.Error(),
			})
		}
	}
}
