package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/triptracker/backend/internal/auth"
	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/repo"
)

// NewUser is the input for creating an account.
type NewUser struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// UserService implements registration, authentication, and user administration.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided UserRepo.
func NewUserService(r repo.UserRepo) *UserService {
	return &UserService{repo: r}
}

// Register creates a REGULAR account; self-registration never grants privileges.
func (s *UserService) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	return s.create(ctx, "service.UserService.Register", NewUser{
		Email: email, Name: name, Password: password, Role: domain.RoleRegular,
	})
}

// Create creates an account with an explicit role. An empty role means REGULAR.
func (s *UserService) Create(ctx context.Context, in NewUser) (domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleRegular
	}
	return s.create(ctx, "service.UserService.Create", in)
}

func (s *UserService) create(ctx context.Context, op string, in NewUser) (domain.User, error) {
	u := domain.User{
		Email: strings.TrimSpace(in.Email),
		Name:  strings.TrimSpace(in.Name),
		Role:  in.Role,
	}
	if err := validateUser(u); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return domain.User{}, fmt.Errorf("%s: %w: %v", op, domain.ErrValidation, err)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	u.PasswordHash = hash

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Authenticate returns the user identified by email and password, or
// domain.ErrUnauthorized without revealing which of the two was wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("service.UserService.Authenticate: %w", domain.ErrUnauthorized)
		}
		return domain.User{}, fmt.Errorf("service.UserService.Authenticate: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return domain.User{}, fmt.Errorf("service.UserService.Authenticate: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return u, nil
}

// List returns one page of users and the total count. The slice is never nil.
func (s *UserService) List(ctx context.Context, p domain.PaginationParams) ([]domain.User, int64, error) {
	users, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.UserService.List: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, total, nil
}

// Update applies patch to the user with the given id.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}

	next := patch.Apply(current)
	next.Email = strings.TrimSpace(next.Email)
	next.Name = strings.TrimSpace(next.Name)
	if err := validateUser(next); err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a user. Their trips remain stored but vanish from listings.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	return nil
}

func validateUser(u domain.User) error {
	if u.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}
	if u.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: role must be one of ADMIN, MANAGER, REGULAR", domain.ErrValidation)
	}
	return nil
}
