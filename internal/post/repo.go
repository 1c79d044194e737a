package post

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

var ErrPostNotFound = apperr.NotFound("Post not found")

const newestFirst = "created_at DESC, id DESC"

type Repository struct {
	db    *gorm.DB
	users *user.Repository
}

func NewRepository(db *gorm.DB, users *user.Repository) *Repository {
	return &Repository{db: db, users: users}
}

// Filter narrows a post listing. Zero fields are not applied.
type Filter struct {
	Category Category
	From     time.Time
	To       time.Time
}

// Create stores the post together with its hashtags.
func (r *Repository) Create(ctx context.Context, p *Post, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return errors.Wrap(err, "insert post")
		}
		if len(tags) == 0 {
			return nil
		}
		rows := make([]Hashtag, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, Hashtag{PostID: p.ID, Tag: tag})
		}
		return errors.Wrap(tx.Create(&rows).Error, "insert hashtags")
	})
}

// Exists checks for a post through db, which may be a transaction.
func Exists(ctx context.Context, db *gorm.DB, id string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count post")
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Post, error) {
	var p Post
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select post")
	}
	posts := []Post{p}
	if err := r.Hydrate(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// ListByAuthor returns every post of userID, newest first.
func (r *Repository) ListByAuthor(ctx context.Context, userID string) ([]Post, error) {
	posts := []Post{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order(newestFirst).Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "select posts by author")
	}
	return posts, r.Hydrate(ctx, posts)
}

// Feed returns the posts written by viewerID or by anyone viewerID follows.
func (r *Repository) Feed(ctx context.Context, viewerID string, page utils.Page) ([]Post, error) {
	db := r.db.WithContext(ctx)
	following := db.Table("follows").Select("following_id").Where("follower_id = ?", viewerID)

	posts := []Post{}
	err := db.Where("user_id = ? OR user_id IN (?)", viewerID, following).
		Order(newestFirst).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "select feed")
	}
	return posts, r.Hydrate(ctx, posts)
}

// SearchByHashtag matches posts carrying a tag that starts with tag. Tags with
// characters the hashtag table never stores ("c++", "go-lang") are matched as
// "#tag" inside the caption instead.
func (r *Repository) SearchByHashtag(ctx context.Context, tag string, page utils.Page) ([]Post, int64, error) {
	db := r.db.WithContext(ctx)
	if !IndexableTag(tag) {
		q := db.Model(&Post{}).Where(`LOWER(caption) LIKE ? ESCAPE '\'`, utils.ContainsPattern("#"+tag))
		return r.paginate(ctx, q, page)
	}

	tagged := db.Model(&Hashtag{}).
		Select("post_id").
		Where(`tag LIKE ? ESCAPE '\'`, utils.PrefixPattern(tag))

	return r.paginate(ctx, db.Model(&Post{}).Where("id IN (?)", tagged), page)
}

func (r *Repository) Filter(ctx context.Context, f Filter, page utils.Page) ([]Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&Post{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at <= ?", f.To)
	}
	return r.paginate(ctx, q, page)
}

func (r *Repository) paginate(ctx context.Context, q *gorm.DB, page utils.Page) ([]Post, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count posts")
	}

	posts := []Post{}
	err := q.Session(&gorm.Session{}).
		Order(newestFirst).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "select posts")
	}
	return posts, total, r.Hydrate(ctx, posts)
}

// Delete removes the post with its likes, hashtags and comments.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&Like{}, &Hashtag{}, &Comment{}} {
			if err := tx.Where("post_id = ?", id).Delete(model).Error; err != nil {
				return errors.Wrap(err, "delete post children")
			}
		}
		res := tx.Where("id = ?", id).Delete(&Post{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete post")
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

// CreateComment inserts c after checking its post exists, in one transaction.
func (r *Repository) CreateComment(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := Exists(ctx, tx, c.PostID); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(c).Error, "insert comment")
	})
}

// ListComments returns the comments of postID, newest first, with their authors.
func (r *Repository) ListComments(ctx context.Context, postID string, page utils.Page) ([]Comment, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count comments")
	}

	comments := []Comment{}
	err := db.Where("post_id = ?", postID).
		Order(newestFirst).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "select comments")
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := r.users.Summaries(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range comments {
		if a, ok := authors[comments[i].UserID]; ok {
			comments[i].Author = &a
		}
	}
	return comments, total, nil
}

// Hydrate fills likes, comment ids and author of each post in place.
func (r *Repository) Hydrate(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	authorIDs := make([]string, 0, len(posts))
	index := make(map[string]int, len(posts))
	for i := range posts {
		posts[i].Likes = []string{}
		posts[i].Comments = []string{}
		ids = append(ids, posts[i].ID)
		authorIDs = append(authorIDs, posts[i].UserID)
		index[posts[i].ID] = i
	}

	db := r.db.WithContext(ctx)

	var likes []Like
	if err := db.Where("post_id IN ?", ids).Order("created_at ASC").Find(&likes).Error; err != nil {
		return errors.Wrap(err, "select likes")
	}
	for _, l := range likes {
		p := &posts[index[l.PostID]]
		p.Likes = append(p.Likes, l.UserID)
	}

	var comments []struct {
		ID     string
		PostID string
	}
	err := db.Model(&Comment{}).
		Select("id, post_id").
		Where("post_id IN ?", ids).
		Order("created_at ASC, id ASC").
		Scan(&comments).Error
	if err != nil {
		return errors.Wrap(err, "select comment ids")
	}
	for _, c := range comments {
		p := &posts[index[c.PostID]]
		p.Comments = append(p.Comments, c.ID)
	}

	authors, err := r.users.Summaries(ctx, authorIDs)
	if err != nil {
		return err
	}
	for i := range posts {
		if a, ok := authors[posts[i].UserID]; ok {
			posts[i].Author = &a
		}
	}
	return nil
}
