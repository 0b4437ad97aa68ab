package repository

import (
	"context"
	"sync"

	"github.com/AlibekovAA/book-reviews/internal/user/domain"
)

// MemoryRepository keeps users in process memory under the same uniqueness
// rule as the users table. Used for the memory storage driver and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[domain.ID]domain.User
	byEmail map[string]domain.ID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[domain.ID]domain.User),
		byEmail: make(map[string]domain.ID),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	user.Email = domain.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrEmailAlreadyExists
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}

	if update.Email != nil {
		email := domain.NormalizeEmail(*update.Email)
		if owner, taken := r.byEmail[email]; taken && owner != id {
			return domain.User{}, ErrEmailAlreadyExists
		}
		delete(r.byEmail, user.Email)
		user.Email = email
		r.byEmail[email] = id
	}
	if update.Username != nil {
		user.Username = *update.Username
	}
	user.UpdatedAt = update.UpdatedAt

	r.byID[id] = user
	return user, nil
}

func (r *MemoryRepository) FindUsernames(ctx context.Context, ids []domain.ID) (map[domain.ID]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make(map[domain.ID]string, len(ids))
	for _, id := range ids {
		if user, ok := r.byID[id]; ok {
			names[id] = user.Username
		}
	}
	return names, nil
}
