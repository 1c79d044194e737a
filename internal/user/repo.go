package user

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

var ErrUserNotFound = apperr.NotFound("User not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NormalizeEmail is applied before every email write and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "count users by email")
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	u.Email = NormalizeEmail(u.Email)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			return apperr.Wrap(apperr.KindValidation, "Email already registered", err)
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "email = ?", NormalizeEmail(email))
}

func (r *Repository) findOne(ctx context.Context, query string, arg string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where(query, arg).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select user")
	}
	return &u, nil
}

// LoadRelations fills Followers and Following from the follow edges.
func (r *Repository) LoadRelations(ctx context.Context, users ...*User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]string, 0, len(users))
	byID := make(map[string]*User, len(users))
	for _, u := range users {
		u.Followers = []string{}
		u.Following = []string{}
		ids = append(ids, u.ID)
		byID[u.ID] = u
	}

	var edges []struct {
		FollowerID  string
		FollowingID string
	}
	err := r.db.WithContext(ctx).Table("follows").
		Select("follower_id, following_id").
		Where("follower_id IN ? OR following_id IN ?", ids, ids).
		Order("created_at ASC").
		Scan(&edges).Error
	if err != nil {
		return errors.Wrap(err, "select follow edges")
	}
	for _, e := range edges {
		if u, ok := byID[e.FollowerID]; ok {
			u.Following = append(u.Following, e.FollowingID)
		}
		if u, ok := byID[e.FollowingID]; ok {
			u.Followers = append(u.Followers, e.FollowerID)
		}
	}
	return nil
}

// Search matches query literally and case-insensitively anywhere in the username.
// An empty query matches every user.
func (r *Repository) Search(ctx context.Context, query string, page utils.Page) ([]User, int64, error) {
	q := r.db.WithContext(ctx).Model(&User{}).
		Where(`LOWER(username) LIKE ? ESCAPE '\'`, utils.ContainsPattern(query))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}

	users := []User{}
	err := q.Order("username ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "search users")
	}

	ptrs := make([]*User, len(users))
	for i := range users {
		ptrs[i] = &users[i]
	}
	if err := r.LoadRelations(ctx, ptrs...); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Summaries returns the author projection of the given users keyed by id.
// Unknown ids are absent from the map.
func (r *Repository) Summaries(ctx context.Context, ids []string) (map[string]Summary, error) {
	out := make(map[string]Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Summary
	err := r.db.WithContext(ctx).Model(&User{}).
		Select("id, username, profile_picture").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "select user summaries")
	}
	for _, s := range rows {
		out[s.ID] = s
	}
	return out, nil
}
