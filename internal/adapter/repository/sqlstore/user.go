package sqlstore

import (
	"context"

	"gorm.io/gorm"

	userDomain "fastloan-backend/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

var _ userDomain.Repository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*userDomain.User, error) {
	return r.first(ctx, "phone_number = ?", phone)
}

func (r *UserRepository) first(ctx context.Context, cond string, arg any) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where(cond, arg).First(&out)
	return &out, res.Error
}
