package model

import "time"

// Relationship: follower follows following. The unique pair index closes
// the duplicate-follow race; the inverse index serves follower lookups
// during fan-out.
type Relationship struct {
	ID          string    `json:"-" gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string    `json:"followerId" gorm:"type:varchar(36);uniqueIndex:ux_rel_pair;index:idx_rel_follower;not null"`
	FollowingID string    `json:"followingId" gorm:"type:varchar(36);uniqueIndex:ux_rel_pair;index:idx_rel_following;not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Relationship) TableName() string { return "relationships" }

func (r Relationship) PageKey() (int64, string) { return r.CreatedAt.UnixNano(), r.ID }
