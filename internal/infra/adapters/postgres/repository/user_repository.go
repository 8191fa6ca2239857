package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByContact(ctx context.Context, contact string) (*models.User, error)
}

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *models.User) error {
	query := "INSERT INTO users (id, username, contact, password) VALUES ($1, $2, $3, $4)"

	res, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Contact, user.Password)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if aff, err := res.RowsAffected(); aff == 0 || err != nil {
		return fmt.Errorf("create user no rows affected: %w", err)
	}

	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "SELECT id, username, contact, password, created_at, updated_at FROM users WHERE id = $1", id)
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "SELECT id, username, contact, password, created_at, updated_at FROM users WHERE username = $1", username)
}

func (r *userRepo) GetUserByContact(ctx context.Context, contact string) (*models.User, error) {
	return r.getOne(ctx, "SELECT id, username, contact, password, created_at, updated_at FROM users WHERE contact = $1", contact)
}

func (r *userRepo) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
