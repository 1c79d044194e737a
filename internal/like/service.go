package like

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/events"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type Service struct {
	db        *gorm.DB
	posts     *post.Repository
	clock     utils.Clock
	publisher events.Publisher
}

func NewService(db *gorm.DB, posts *post.Repository, clock utils.Clock, publisher events.Publisher) *Service {
	return &Service{db: db, posts: posts, clock: clock, publisher: publisher}
}

// Toggle likes the post for userID, or removes the like if it is already there.
// It returns the post as it is after the change.
func (s *Service) Toggle(ctx context.Context, postID, userID string) (*post.Post, bool, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := post.Exists(ctx, tx, postID); err != nil {
			return err
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&post.Like{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete like")
		}
		if res.RowsAffected > 0 {
			return nil
		}

		l := post.Like{PostID: postID, UserID: userID, CreatedAt: s.clock.NowUtc()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&l).Error; err != nil {
			return errors.Wrap(err, "insert like")
		}
		liked = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	eventType := events.PostUnliked
	if liked {
		eventType = events.PostLiked
	}
	events.Emit(ctx, s.publisher, events.Event{Type: eventType, ActorID: userID, SubjectID: postID, At: s.clock.NowUtc()})

	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	return p, liked, nil
}

// Likers lists the users who liked postID in the order they liked it.
func (s *Service) Likers(ctx context.Context, postID string, page utils.Page) ([]user.Summary, int64, error) {
	db := s.db.WithContext(ctx)
	if err := post.Exists(ctx, db, postID); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Model(&post.Like{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count likes")
	}

	users := []user.Summary{}
	err := db.Table("post_likes AS l").
		Select("u.id, u.username, u.profile_picture").
		Joins("JOIN users AS u ON u.id = l.user_id").
		Where("l.post_id = ?", postID).
		Order("l.created_at ASC, u.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&users).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "select likers")
	}
	return users, total, nil
}
