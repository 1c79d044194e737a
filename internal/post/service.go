package post

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/events"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

// MediaStore removes uploaded media once the post referencing it is gone.
type MediaStore interface {
	DeleteURL(ctx context.Context, url string) error
}

type Service struct {
	db        *gorm.DB
	repo      *Repository
	users     *user.Repository
	clock     utils.Clock
	publisher events.Publisher
	media     MediaStore
}

func NewService(db *gorm.DB, repo *Repository, users *user.Repository, clock utils.Clock, publisher events.Publisher, media MediaStore) *Service {
	return &Service{db: db, repo: repo, users: users, clock: clock, publisher: publisher, media: media}
}

type CreateInput struct {
	Caption            string    `json:"caption"`
	MediaURL           string    `json:"mediaUrl"`
	MediaType          MediaType `json:"mediaType"`
	BackgroundMusicURL string    `json:"backgroundMusicUrl"`
	Category           Category  `json:"category"`
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.MediaURL) == "" {
		return apperr.Validation("mediaUrl is required")
	}
	if !in.MediaType.Valid() {
		return apperr.Validation("mediaType must be image or video")
	}
	if in.Category != "" && !in.Category.Valid() {
		return apperr.Validation("category must be one of Tech, Entertainment, Business, Other")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, authorID string, in CreateInput) (*Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = CategoryOther
	}
	now := s.clock.NowUtc()
	p := &Post{
		ID:                 uuid.New().String(),
		UserID:             authorID,
		Caption:            in.Caption,
		MediaURL:           strings.TrimSpace(in.MediaURL),
		MediaType:          in.MediaType,
		BackgroundMusicURL: in.BackgroundMusicURL,
		Category:           category,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, p, ExtractHashtags(in.Caption)); err != nil {
		return nil, err
	}

	summary := author.Summary()
	p.Author = &summary
	p.Likes = []string{}
	p.Comments = []string{}

	events.Emit(ctx, s.publisher, events.Event{Type: events.PostCreated, ActorID: authorID, SubjectID: p.ID, At: now})
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Feed(ctx context.Context, viewerID string, page utils.Page) ([]Post, error) {
	return s.repo.Feed(ctx, viewerID, page)
}

func (s *Service) AddComment(ctx context.Context, postID, authorID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.NowUtc()
	c := &Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	summary := author.Summary()
	c.Author = &summary

	events.Emit(ctx, s.publisher, events.Event{Type: events.CommentAdded, ActorID: authorID, SubjectID: postID, At: now})
	return c, nil
}

func (s *Service) Comments(ctx context.Context, postID string, page utils.Page) ([]Comment, int64, error) {
	if err := Exists(ctx, s.db, postID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListComments(ctx, postID, page)
}

func (s *Service) SearchByHashtag(ctx context.Context, tag string, page utils.Page) ([]Post, int64, error) {
	return s.repo.SearchByHashtag(ctx, NormalizeTag(tag), page)
}

// FilterInput holds the raw query values of a filter request.
type FilterInput struct {
	Category  string
	StartDate string
	EndDate   string
}

func (s *Service) Filter(ctx context.Context, in FilterInput, page utils.Page) ([]Post, int64, error) {
	var f Filter
	if in.Category != "" {
		f.Category = Category(in.Category)
		if !f.Category.Valid() {
			return nil, 0, apperr.Validation("category must be one of Tech, Entertainment, Business, Other")
		}
	}

	var err error
	if in.StartDate != "" {
		if f.From, _, err = parseDate(in.StartDate); err != nil {
			return nil, 0, apperr.Wrap(apperr.KindValidation, "Invalid startDate", err)
		}
	}
	if in.EndDate != "" {
		to, dateOnly, err := parseDate(in.EndDate)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindValidation, "Invalid endDate", err)
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = to
	}
	return s.repo.Filter(ctx, f, page)
}

// parseDate accepts RFC 3339 timestamps and bare dates, both read as UTC.
func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse("2006-01-02", s)
	return t, true, err
}

// Delete removes a post owned by actorID, then its media.
func (s *Service) Delete(ctx context.Context, actorID, postID string) error {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != actorID {
		return apperr.Forbidden("You can only delete your own posts")
	}
	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}

	if s.media != nil {
		if err := s.media.DeleteURL(ctx, p.MediaURL); err != nil {
			logs.LogJSON("WARN", "Media deletion failed", map[string]interface{}{
				"error":  err.Error(),
				"userID": actorID,
				"extra":  p.MediaURL,
			})
		}
	}
	events.Emit(ctx, s.publisher, events.Event{Type: events.PostDeleted, ActorID: actorID, SubjectID: postID, At: s.clock.NowUtc()})
	return nil
}

type Profile struct {
	User        *user.User `json:"user"`
	Posts       []Post     `json:"posts"`
	PostsCount  int        `json:"postsCount"`
	IsFollowing bool       `json:"isFollowing"`
}

// Profile assembles the public profile of userID as seen by viewerID.
func (s *Service) Profile(ctx context.Context, viewerID, userID string) (*Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.LoadRelations(ctx, u); err != nil {
		return nil, err
	}
	posts, err := s.repo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: u, Posts: posts, PostsCount: len(posts)}
	if viewerID != "" && viewerID != userID {
		if profile.IsFollowing, err = utils.IsFollowing(ctx, s.db, viewerID, userID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}
