package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// AuthClaims is the JWT payload: the subject is the user ID and Contact is
// the identifier channel invites are addressed to. The access engine
// trusts both; it never verifies credentials itself.
type AuthClaims struct {
	jwt.RegisteredClaims
	Contact string `json:"contact"`
}

// UserUsecase is the identity-provider boundary.
type UserUsecase interface {
	CreateUser(ctx context.Context, username, contact, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)
	GenerateJWT(user *models.User) (string, error)
}

type userUsecase struct {
	jwtSecret []byte

	userRepo repository.UserRepository
}

func NewUserUsecase(jwtSecret []byte, userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{
		jwtSecret: jwtSecret,
		userRepo:  userRepo,
	}
}

func (uc *userUsecase) CreateUser(ctx context.Context, username, contact, password string) (*models.User, error) {
	if username == "" || contact == "" || password == "" {
		return nil, apperrors.New(apperrors.KindInvalidState, "username, contact and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.NewUser(username, contact)
	user.Password = string(hashedPassword)

	if err = uc.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (uc *userUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return uc.userRepo.GetUserByID(ctx, id)
}

func (uc *userUsecase) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnauthorized, "invalid credentials", err)
	}

	user.Password = ""
	return user, nil
}

func (uc *userUsecase) GenerateJWT(user *models.User) (string, error) {
	claims := &AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		},
		Contact: user.Contact,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.jwtSecret)
}
