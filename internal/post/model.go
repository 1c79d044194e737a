package post

import (
	"time"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (m MediaType) Valid() bool {
	return m == MediaImage || m == MediaVideo
}

type Category string

const (
	CategoryTech          Category = "Tech"
	CategoryEntertainment Category = "Entertainment"
	CategoryBusiness      Category = "Business"
	CategoryOther         Category = "Other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTech, CategoryEntertainment, CategoryBusiness, CategoryOther:
		return true
	}
	return false
}

type Post struct {
	ID                 string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID             string        `gorm:"type:varchar(36);not null;index:idx_posts_user_created,priority:1" json:"userId"`
	Caption            string        `json:"caption"`
	MediaURL           string        `gorm:"not null" json:"mediaUrl"`
	MediaType          MediaType     `gorm:"type:varchar(10);not null" json:"mediaType"`
	BackgroundMusicURL string        `json:"backgroundMusicUrl,omitempty"`
	Category           Category      `gorm:"type:varchar(20);not null;default:'Other';index" json:"category"`
	Likes              []string      `gorm:"-" json:"likes"`
	Comments           []string      `gorm:"-" json:"comments"`
	Author             *user.Summary `gorm:"-" json:"user,omitempty"`
	CreatedAt          time.Time     `gorm:"index;index:idx_posts_user_created,priority:2" json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

type Comment struct {
	ID        string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PostID    string        `gorm:"type:varchar(36);not null;index" json:"postId"`
	UserID    string        `gorm:"type:varchar(36);not null" json:"userId"`
	Content   string        `gorm:"not null" json:"content"`
	Author    *user.Summary `gorm:"-" json:"user,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Like is one user's like on one post. The composite key keeps a user at most
// once in a post's like set.
type Like struct {
	PostID    string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time
}

func (Like) TableName() string {
	return "post_likes"
}

// Hashtag is a normalised tag extracted from a caption when the post is created.
type Hashtag struct {
	PostID string `gorm:"primaryKey;type:varchar(36)"`
	Tag    string `gorm:"primaryKey;type:varchar(100);index"`
}

func (Hashtag) TableName() string {
	return "post_hashtags"
}

// Models lists everything this package persists, in migration order.
func Models() []interface{} {
	return []interface{}{&Post{}, &Comment{}, &Like{}, &Hashtag{}}
}
