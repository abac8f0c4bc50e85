package repository

import (
	"context"

	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/store"
)

type UserRepository interface {
	// Create inserts the user; username/email collisions surface as
	// gorm.ErrDuplicatedKey through the store's error translation.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	BatchGet(ctx context.Context, ids []string) ([]model.User, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]any) error
}

type userRepository struct {
	s *store.Store
}

func NewUserRepository(s *store.Store) UserRepository { return &userRepository{s: s} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return store.Put(ctx, r.s, u)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return store.Get[model.User](ctx, r.s, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return store.Get[model.User](ctx, r.s, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return store.Get[model.User](ctx, r.s, "email = ?", email)
}

func (r *userRepository) BatchGet(ctx context.Context, ids []string) ([]model.User, error) {
	return store.BatchGet[model.User](ctx, r.s, "id", ids)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, fields map[string]any) error {
	return r.s.DB().WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}
