package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"evo/internal/auth"
	"evo/internal/model"
	"evo/internal/repository"
)

// RegisterInput is the payload of a self-service sign-up.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginInput holds credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued token and the signed-in user.
type LoginResult struct {
	Token string
	User  *model.User
}

// AuthService covers registration, sign-in and token checks.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// Logout revokes the actor's token.
	Logout(ctx context.Context, actor Actor) error
	// Authenticate resolves a bearer token to the current actor. The user must still exist.
	Authenticate(ctx context.Context, token string) (*Actor, error)
	Me(ctx context.Context, actor Actor) (*model.User, error)
	// CreateAdmin creates an account with the admin role.
	CreateAdmin(ctx context.Context, in RegisterInput) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	denylist auth.Denylist
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, denylist auth.Denylist) AuthService {
	if denylist == nil {
		denylist = auth.NoopDenylist{}
	}
	return &authService{users: users, tokens: tokens, denylist: denylist, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	return s.create(ctx, in, model.RoleUser)
}

func (s *authService) CreateAdmin(ctx context.Context, in RegisterInput) (*model.User, error) {
	return s.create(ctx, in, model.RoleAdmin)
}

func (s *authService) create(ctx context.Context, in RegisterInput, role string) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("check password: %w", err)
	}

	token, _, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *authService) Logout(ctx context.Context, actor Actor) error {
	if actor.TokenID == "" {
		return ErrUnauthorized
	}
	if err := s.denylist.Revoke(ctx, actor.TokenID, actor.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*Actor, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check denylist: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}

	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	actor := &Actor{UserID: u.ID, Role: u.Role, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		actor.ExpiresAt = claims.ExpiresAt.Time
	}
	return actor, nil
}

func (s *authService) Me(ctx context.Context, actor Actor) (*model.User, error) {
	u, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
