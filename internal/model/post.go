package model

import "time"

// Post content. (author_id, created_at) composite index serves author
// timeline pages.
type Post struct {
	ID            string    `json:"postId" gorm:"primaryKey;type:varchar(36)"`
	AuthorID      string    `json:"userId" gorm:"type:varchar(36);index:idx_posts_author_created;not null"`
	Content       string    `json:"content" gorm:"type:varchar(500);not null"`
	ImageURL      string    `json:"imageUrl,omitempty" gorm:"type:varchar(512)"`
	LikesCount    int64     `json:"likesCount" gorm:"not null;default:0"`
	CommentsCount int64     `json:"commentsCount" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"createdAt" gorm:"index:idx_posts_author_created"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Joined at read time, never persisted.
	Author *UserProfile `json:"author,omitempty" gorm:"-"`
}

func (Post) TableName() string { return "posts" }

// PageKey is the continuation position within the author timeline.
func (p Post) PageKey() (int64, string) { return p.CreatedAt.UnixNano(), p.ID }
