package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
)

type users struct {
	db *gorm.DB
}

func (r *users) Create(ctx context.Context, u *model.User) (*model.User, error) {
	m := userFromDomain(u)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, model.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return r.GetByID(ctx, m.ID)
}

func (r *users) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return m.toDomain(), nil
}

// FindByUsernameOrEmail uses a single query covering both fields so the
// pre-insert existence check cannot race against itself.
func (r *users) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *users) Update(ctx context.Context, u *model.User) (*model.User, error) {
	m := userFromDomain(u)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, model.ErrConflict
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return r.GetByID(ctx, m.ID)
}

func (r *users) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
