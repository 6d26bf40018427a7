package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/logger"
	"github.com/solvento/hrcore/pkg/metrics"
)

// UserService manages accounts and credential verification.
type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, log: logger.WithModule("user_service")}
}

type CreateUserInput struct {
	Name     string      `json:"name" validate:"required,max=255"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     models.Role `json:"role" validate:"required"`
}

type UpdateUserInput struct {
	Name     string      `json:"name" validate:"required,max=255"`
	Email    string      `json:"email" validate:"required,email"`
	Role     models.Role `json:"role" validate:"required"`
	IsActive bool        `json:"is_active"`
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput, actorID *uint) (*models.User, error) {
	if err := validateInput("user", in); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, apperrors.NewValidation("user", map[string]string{
			"role": "unknown role",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Role:     in.Role,
	}
	user.IsActive = true
	user.CreatedBy = actorID

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("user", "email", in.Email)
		}
		return nil, apperrors.Wrap(err, "failed to create user")
	}

	s.log.Info("user created", zap.Uint("id", user.ID), zap.String("role", user.Role.String()))
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user", id)
		}
		return nil, apperrors.Wrap(err, "failed to load user")
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("email").
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput, actorID *uint) (*models.User, error) {
	if err := validateInput("user", in); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, apperrors.NewValidation("user", map[string]string{
			"role": "unknown role",
		})
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Role = in.Role
	user.IsActive = in.IsActive
	user.UpdatedBy = actorID

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("user", "email", in.Email)
		}
		return nil, apperrors.Wrap(err, "failed to update user")
	}
	return user, nil
}

// ChangePassword replaces the user's credential hash.
func (s *UserService) ChangePassword(ctx context.Context, id uint, newPassword string, actorID *uint) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidation("user", map[string]string{
			"password": "must be at least 8 characters",
		})
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(err, "failed to hash password")
	}

	user.Password = string(hash)
	user.UpdatedBy = actorID
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return apperrors.Wrap(err, "failed to change password")
	}
	return nil
}

// Delete soft-deletes the account and retires its scopes and grants so stale
// rows cannot come back to life if the email is ever reused.
func (s *UserService) Delete(ctx context.Context, id uint, actorID *uint) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.MarkDeleted(actorID, now)
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		retire := map[string]any{
			"is_deleted": true,
			"is_active":  false,
			"deleted_at": now,
			"deleted_by": actorID,
		}
		if err := tx.Model(&models.UserScope{}).
			Where("user_id = ? AND is_deleted = ?", id, false).
			Updates(retire).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserPermission{}).
			Where("user_id = ? AND is_deleted = ?", id, false).
			Updates(retire).Error
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user")
	}

	s.log.Info("user deleted", zap.Uint("id", id))
	return nil
}

// Authenticate verifies the credentials and stamps the login time. Unknown
// emails and bad passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ? AND is_active = ?", email, false, true).
		First(&user).Error
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		s.log.Warn("failed to stamp login time", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &user, nil
}
