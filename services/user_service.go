package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"styledecor-server/errs"
	"styledecor-server/models"
	"styledecor-server/utils"
)

// UserService owns the principal records mapping email to role.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a principal with the default role.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to hash password", err)
	}

	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, errs.New(errs.KindConflict, "an account with this email already exists")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to create user", err)
	}
	return &user, nil
}

// Authenticate checks credentials and returns the principal.
func (s *UserService) Authenticate(ctx context.Context, req LoginRequest) (*models.User, error) {
	user, err := s.GetByEmail(ctx, req.Email)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.New(errs.KindUnauthorized, "invalid email or password")
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errs.New(errs.KindUnauthorized, "invalid email or password")
	}
	return user, nil
}

// GetByEmail returns the principal for an email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "user not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch user", err)
	}
	return &user, nil
}

// SetRole updates a principal's role. Used by admins when a decorator
// application is approved.
func (s *UserService) SetRole(ctx context.Context, email string, role models.UserRole) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.ToLower(email)).
		Update("role", role)
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to update role", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.KindNotFound, "user not found")
	}
	return nil
}
