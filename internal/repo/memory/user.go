package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/repo"
)

// UserRepo is the in-memory repo.UserRepo.
type UserRepo struct {
	s *Store
}

var _ repo.UserRepo = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTakenLocked(user.Email, uuid.Nil) {
		return domain.User{}, fmt.Errorf("memory.UserRepo.Create: %w: email already registered", domain.ErrConflict)
	}
	now := r.s.now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = user
	return user, nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("memory.UserRepo.GetByID: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("memory.UserRepo.GetByEmail: %w", domain.ErrNotFound)
}

func (r *UserRepo) List(_ context.Context, p domain.PaginationParams) ([]domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	total := int64(len(all))
	start := min(p.Offset(), len(all))
	end := min(start+p.Limit, len(all))
	return all[start:end], total, nil
}

func (r *UserRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return domain.User{}, fmt.Errorf("memory.UserRepo.Update: %w", domain.ErrNotFound)
	}
	if r.emailTakenLocked(user.Email, user.ID) {
		return domain.User{}, fmt.Errorf("memory.UserRepo.Update: %w: email already registered", domain.ErrConflict)
	}
	existing.Email = user.Email
	existing.Name = user.Name
	existing.Role = user.Role
	existing.UpdatedAt = r.s.now()
	r.s.users[user.ID] = existing
	return existing, nil
}

func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("memory.UserRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) emailTakenLocked(email string, except uuid.UUID) bool {
	for id, u := range r.s.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
