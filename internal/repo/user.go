package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/dartz_league/internal/models"
)

func (r *GormRepo) FindByLogin(ctx context.Context, emailOrUsername string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("PlayerProfile").
		Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("PlayerProfile").First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// CreateUserWithProfile inserts the user and its player profile atomically.
func (r *GormRepo) CreateUserWithProfile(ctx context.Context, u *models.User, p *models.PlayerProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTaken(tx, "email", u.Email, ErrEmailTaken); err != nil {
			return err
		}
		if err := checkTaken(tx, "username", u.Username, ErrUsernameTaken); err != nil {
			return err
		}

		if err := tx.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}

		p.UserID = u.ID
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("create player profile: %w", err)
		}
		u.PlayerProfile = p
		return nil
	})
}

func checkTaken(tx *gorm.DB, column, value string, taken error) error {
	var count int64
	if err := tx.Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return taken
	}
	return nil
}

func (r *GormRepo) UpdatePasswordHash(ctx context.Context, userID uint, passwordHash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) UpdateRole(ctx context.Context, userID uint, role string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.User, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("PlayerProfile").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProfileByUserID(ctx context.Context, userID uint) (*models.PlayerProfile, error) {
	var profile models.PlayerProfile
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}
