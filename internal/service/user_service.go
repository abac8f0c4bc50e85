package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/internal/apperr"
	"github.com/d60-Lab/newsfeed/internal/cache"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/internal/validate"
)

type CreateUserInput struct {
	Email       string `json:"email" binding:"required"`
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	Bio         string `json:"bio"`
}

type UpdateProfileInput struct {
	DisplayName     *string `json:"displayName"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.UserProfile, error)
	Get(ctx context.Context, id string) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*model.UserProfile, error)
}

type userService struct {
	userRepo repository.UserRepository
	authors  *cache.AuthorCache // optional
}

func NewUserService(userRepo repository.UserRepository, authors *cache.AuthorCache) UserService {
	return &userService{userRepo: userRepo, authors: authors}
}

// Create registers a profile. Uniqueness of email and username is
// enforced by the store's unique indexes, not a pre-read, so concurrent
// registrations cannot both win.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.UserProfile, error) {
	if in.Email == "" || in.Username == "" || in.DisplayName == "" {
		return nil, apperr.InvalidArgument("Email, username, and displayName are required")
	}
	if !validate.Email(in.Email) {
		return nil, apperr.InvalidArgument("Invalid email format")
	}
	if !validate.Username(in.Username) {
		return nil, apperr.InvalidArgument("Username must be 3-20 characters and contain only letters, numbers, and underscores")
	}

	u := &model.User{
		ID:          uuid.New().String(),
		Email:       in.Email,
		Username:    in.Username,
		DisplayName: validate.Sanitize(in.DisplayName),
		Bio:         validate.Sanitize(in.Bio),
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, in.Email)
		}
		return nil, apperr.Internal("Failed to create user", err)
	}
	return u.Profile(), nil
}

// duplicateError decides which uniqueness constraint lost the insert so
// the message names the right field.
func (s *userService) duplicateError(ctx context.Context, email string) error {
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return apperr.AlreadyExists("User with this email already exists")
	}
	return apperr.AlreadyExists("Username already taken")
}

func (s *userService) Get(ctx context.Context, id string) (*model.UserProfile, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to load user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u.Profile(), nil
}

// UpdateProfile changes profile fields only; identity fields (username,
// email) are immutable after creation.
func (s *userService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*model.UserProfile, error) {
	fields := map[string]any{}
	if in.DisplayName != nil {
		name := validate.Sanitize(*in.DisplayName)
		if name == "" {
			return nil, apperr.InvalidArgument("displayName cannot be empty")
		}
		fields["display_name"] = name
	}
	if in.Bio != nil {
		fields["bio"] = validate.Sanitize(*in.Bio)
	}
	if in.ProfileImageURL != nil {
		fields["profile_image_url"] = *in.ProfileImageURL
	}
	if len(fields) == 0 {
		return nil, apperr.InvalidArgument("No updatable fields provided")
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to load user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	if err := s.userRepo.UpdateProfile(ctx, id, fields); err != nil {
		return nil, apperr.Internal("Failed to update profile", err)
	}
	if s.authors != nil {
		s.authors.Invalidate(ctx, id)
	}
	updated, err := s.userRepo.GetByID(ctx, id)
	if err != nil || updated == nil {
		return nil, apperr.Internal("Failed to reload user", err)
	}
	return updated.Profile(), nil
}
