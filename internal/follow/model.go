package follow

import (
	"time"
)

// Follow is a single directed edge. It is the only record of the relationship:
// a user's followers and following lists are both read from this table.
type Follow struct {
	FollowerID  string `gorm:"primaryKey;type:varchar(36);check:chk_follows_not_self,follower_id <> following_id"`
	FollowingID string `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt   time.Time
}

func (Follow) TableName() string {
	return "follows"
}

type Action string

const (
	Followed   Action = "Followed"
	Unfollowed Action = "Unfollowed"
)
