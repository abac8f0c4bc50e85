package model

import "time"

// User profile. Email is secondary-indexed for uniqueness but never
// serialized on read paths; handlers emit UserProfile instead.
type User struct {
	ID              string    `json:"userId" gorm:"primaryKey;type:varchar(36)"`
	Username        string    `json:"username" gorm:"type:varchar(32);uniqueIndex:ux_users_username;not null"`
	Email           string    `json:"-" gorm:"type:varchar(255);uniqueIndex:ux_users_email;not null"`
	DisplayName     string    `json:"displayName" gorm:"type:varchar(128);not null"`
	Bio             string    `json:"bio,omitempty" gorm:"type:varchar(500)"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty" gorm:"type:varchar(512)"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserProfile is the public-safe projection attached to posts and
// returned by profile reads.
type UserProfile struct {
	ID              string    `json:"userId"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"displayName"`
	Bio             string    `json:"bio,omitempty"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:              u.ID,
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		Bio:             u.Bio,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}
