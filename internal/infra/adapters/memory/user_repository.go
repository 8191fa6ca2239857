package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

type userRepository struct {
	users map[uuid.UUID]*models.User

	mu sync.RWMutex
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[uuid.UUID]*models.User)}
}

func (r *userRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *user
	r.users[user.ID] = &stored

	return nil
}

func (r *userRepository) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "user not found")
	}

	stored := *user

	return &stored, nil
}

func (r *userRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			stored := *user
			return &stored, nil
		}
	}

	return nil, apperrors.New(apperrors.KindNotFound, "user not found")
}

func (r *userRepository) GetUserByContact(_ context.Context, contact string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if contact != "" {
		for _, user := range r.users {
			if user.Contact == contact {
				stored := *user
				return &stored, nil
			}
		}
	}

	return nil, apperrors.New(apperrors.KindNotFound, "user not found")
}
