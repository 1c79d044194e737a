package utils

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// IsFollowing reports whether an edge followerID -> followingID exists.
// db may be a transaction.
func IsFollowing(ctx context.Context, db *gorm.DB, followerID, followingID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("follows").
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "count follow edge")
	}
	return count > 0, nil
}
