package follow

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/events"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type Service struct {
	db        *gorm.DB
	clock     utils.Clock
	publisher events.Publisher
}

func NewService(db *gorm.DB, clock utils.Clock, publisher events.Publisher) *Service {
	return &Service{db: db, clock: clock, publisher: publisher}
}

// Toggle follows target when actor does not follow it yet, and unfollows it otherwise.
func (s *Service) Toggle(ctx context.Context, actorID, targetID string) (Action, error) {
	if actorID == targetID {
		return "", apperr.InvalidArgument("You can't follow yourself")
	}

	var action Action
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&user.User{}).Where("id IN ?", []string{actorID, targetID}).Count(&count).Error; err != nil {
			return errors.Wrap(err, "count users")
		}
		if count != 2 {
			return user.ErrUserNotFound
		}

		res := tx.Where("follower_id = ? AND following_id = ?", actorID, targetID).Delete(&Follow{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete follow edge")
		}
		if res.RowsAffected > 0 {
			action = Unfollowed
			return nil
		}

		edge := Follow{FollowerID: actorID, FollowingID: targetID, CreatedAt: s.clock.NowUtc()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
			return errors.Wrap(err, "insert follow edge")
		}
		action = Followed
		return nil
	})
	if err != nil {
		return "", err
	}

	eventType := events.UserFollowed
	if action == Unfollowed {
		eventType = events.UserUnfollowed
	}
	events.Emit(ctx, s.publisher, events.Event{Type: eventType, ActorID: actorID, SubjectID: targetID, At: s.clock.NowUtc()})
	return action, nil
}

// Followers lists the users following userID, most recent first.
func (s *Service) Followers(ctx context.Context, userID string, page utils.Page) ([]user.Summary, int64, error) {
	return s.list(ctx, userID, "following_id", "follower_id", page)
}

// Following lists the users userID follows, most recent first.
func (s *Service) Following(ctx context.Context, userID string, page utils.Page) ([]user.Summary, int64, error) {
	return s.list(ctx, userID, "follower_id", "following_id", page)
}

func (s *Service) list(ctx context.Context, userID, matchCol, otherCol string, page utils.Page) ([]user.Summary, int64, error) {
	db := s.db.WithContext(ctx)

	var exists int64
	if err := db.Model(&user.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count user")
	}
	if exists == 0 {
		return nil, 0, user.ErrUserNotFound
	}

	var total int64
	if err := db.Model(&Follow{}).Where(matchCol+" = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count follow edges")
	}

	users := []user.Summary{}
	err := db.Table("follows AS f").
		Select("u.id, u.username, u.profile_picture").
		Joins("JOIN users AS u ON u.id = f."+otherCol).
		Where("f."+matchCol+" = ?", userID).
		Order("f.created_at DESC, u.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&users).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "select follow list")
	}
	return users, total, nil
}
