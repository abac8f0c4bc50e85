package model

import "time"

// FeedEntry materializes one visible post in one user's timeline
// (fan-out-on-write). Score is the post's createdAt in nanoseconds and
// orders the feed; PostID breaks ties so pagination is a total order.
type FeedEntry struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:ux_feed_user_post;index:idx_feed_user_score;not null"`
	PostID    string    `gorm:"type:varchar(36);uniqueIndex:ux_feed_user_post;index:idx_feed_post;not null"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_feed_author;not null"`
	Score     int64     `gorm:"index:idx_feed_user_score;not null"`
	CreatedAt time.Time
}

func (FeedEntry) TableName() string { return "feed_entries" }

// PageKey is the continuation position within the owner's timeline.
func (e FeedEntry) PageKey() (int64, string) { return e.Score, e.PostID }
