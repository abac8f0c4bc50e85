package model

import "time"

// Like: at most one per (post, user).
type Like struct {
	ID        string    `json:"-" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"postId" gorm:"type:varchar(36);uniqueIndex:ux_likes_pair;not null"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);uniqueIndex:ux_likes_pair;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string { return "likes" }

type Comment struct {
	ID        string    `json:"commentId" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"postId" gorm:"type:varchar(36);index:idx_comments_post_created;not null"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null"`
	Content   string    `json:"content" gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_comments_post_created"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string { return "comments" }

func (c Comment) PageKey() (int64, string) { return c.CreatedAt.UnixNano(), c.ID }
